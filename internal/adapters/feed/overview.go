package feed

import (
	"context"
	"encoding/json"

	"github.com/okian/xalps/internal/domain/model"
)

// Overview fetches the race roster and dates.
func (c *Client) Overview(ctx context.Context) (model.Overview, error) {
	body, err := c.get(ctx, FeedOverview, c.overviewURL)
	if err != nil {
		return model.Overview{}, err
	}

	var ov model.Overview
	if err := json.Unmarshal(body, &ov); err != nil {
		return model.Overview{}, c.decodeFailed(ctx, FeedOverview, err)
	}
	if err := ov.Validate(); err != nil {
		return model.Overview{}, c.decodeFailed(ctx, FeedOverview, err)
	}
	return ov, nil
}
