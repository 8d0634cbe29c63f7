// Package feed fetches the X-Alps overview, race status and track feeds.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/xalps/pkg/logger"
	"github.com/okian/xalps/pkg/metrics"
)

// Upstream endpoints.
const (
	DefaultOverviewURL = "https://www.redbullxalps.com/fileadmin/live-tracking/2023/race/feeds/cdn-long/overview.json"
	DefaultDataURL     = "https://rbxltdata.redbullxalps.com"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 32 << 20
)

// Feed names used in errors, logs and metrics.
const (
	FeedOverview     = "overview"
	FeedStatus       = "status"
	FeedStatusReplay = "status_replay"
	FeedTrack        = "track"
)

// Client reads the race feeds over HTTP.
type Client struct {
	http        *http.Client
	timeout     time.Duration
	overviewURL string
	dataURL     string
	log         logger.Logger
}

// NewClient returns a Client for the live race endpoints.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{},
		timeout:     defaultTimeout,
		overviewURL: DefaultOverviewURL,
		dataURL:     DefaultDataURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("feed")
	}
	return c
}

// get performs one GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, feed, url string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, c.fail(ctx, transportError(feed, "request", err))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(ctx, transportError(feed, "fetch", err))
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Debug(ctx, "failed to close response body", logger.String("feed", feed), logger.Error(cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(ctx, transportError(feed, "fetch", fmt.Errorf("unexpected status %s", resp.Status)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail(ctx, transportError(feed, "read", err))
	}

	latency := time.Since(start)
	metrics.RecordFeedRequest(feed, latency)
	c.log.Debug(ctx, "feed fetched",
		logger.String("feed", feed),
		logger.String("url", url),
		logger.Int("bytes", len(body)),
		logger.Duration("latency", latency),
	)
	return body, nil
}

func (c *Client) fail(ctx context.Context, err *Error) error {
	metrics.RecordFeedError(err.Feed, err.Kind())
	c.log.Warn(ctx, "feed request failed", logger.String("feed", err.Feed), logger.Error(err))
	return err
}

func (c *Client) decodeFailed(ctx context.Context, feed string, err error) error {
	return c.fail(ctx, decodeError(feed, err))
}
