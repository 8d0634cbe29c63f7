package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/okian/xalps/internal/domain/model"
)

// Status fetches the current status of every athlete.
func (c *Client) Status(ctx context.Context) ([]model.StatusEntry, error) {
	body, err := c.get(ctx, FeedStatus, c.dataURL+"/race/race-status")
	if err != nil {
		return nil, err
	}

	var entries []model.StatusEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, c.decodeFailed(ctx, FeedStatus, err)
	}
	return entries, nil
}

// StatusReplay fetches the minute-by-minute status snapshots of one race day.
// Only the calendar date of day in its own location is used.
func (c *Client) StatusReplay(ctx context.Context, day time.Time) ([]model.StatusReplay, error) {
	url := c.dataURL + "/race/race-status-replay_" + day.Format("2006-01-02")
	body, err := c.get(ctx, FeedStatusReplay, url)
	if err != nil {
		return nil, err
	}

	var replay []model.StatusReplay
	if err := json.Unmarshal(body, &replay); err != nil {
		return nil, c.decodeFailed(ctx, FeedStatusReplay, err)
	}
	return replay, nil
}
