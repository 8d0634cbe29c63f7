package feed

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/okian/xalps/internal/adapters/feed/trackpb"
	"github.com/okian/xalps/internal/domain/model"
)

// ReplayStep is the granularity of the track replay archive.
const ReplayStep = 5 * time.Minute

// Track fetches the full latest track of one athlete.
func (c *Client) Track(ctx context.Context, athleteID string) (model.Track, error) {
	return c.track(ctx, athleteID, "latest.pbf")
}

// ReducedTrack fetches the thinned-out track of one athlete.
func (c *Client) ReducedTrack(ctx context.Context, athleteID string) (model.Track, error) {
	return c.track(ctx, athleteID, "reduced.pbf")
}

// TrackReplay fetches an athlete's track as it was at the given time,
// rounded down to ReplayStep.
func (c *Client) TrackReplay(ctx context.Context, athleteID string, at time.Time) (model.Track, error) {
	stamp := at.UTC().Truncate(ReplayStep).Format("2006-01-02T15:04:05Z")
	return c.track(ctx, athleteID, "latest-replay/"+stamp+".pbf")
}

func (c *Client) track(ctx context.Context, athleteID, resource string) (model.Track, error) {
	u := fmt.Sprintf("%s/race/athlete/%s/track/%s", c.dataURL, url.PathEscape(athleteID), resource)
	body, err := c.get(ctx, FeedTrack, u)
	if err != nil {
		return model.Track{}, err
	}

	tr, err := trackpb.Decode(body)
	if err != nil {
		return model.Track{}, c.decodeFailed(ctx, FeedTrack, err)
	}
	return tr, nil
}
