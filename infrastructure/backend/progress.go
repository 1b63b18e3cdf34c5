package backend

import (
	"context"
	"strconv"

	"worktrack/services/messaging/domain/progress"
)

func progressCommentsPath(progressID int64) string {
	return "/progress/" + strconv.FormatInt(progressID, 10) + "/comments"
}

// ListProgressComments fetches the flat comment listing for one progress
// update. Thread shaping happens in the domain layer.
func (c *Client) ListProgressComments(ctx context.Context, progressID int64) ([]progress.Comment, error) {
	var result struct {
		Data []progress.Comment `json:"data"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(progressCommentsPath(progressID))
	if err := c.wrap("list progress comments", resp, err); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// AddProgressComment appends a comment or reply to a progress update.
func (c *Client) AddProgressComment(ctx context.Context, progressID int64, body string, parentID *int64) (*progress.Comment, error) {
	payload := map[string]any{"comment": body}
	if parentID != nil {
		payload["parent_id"] = *parentID
	}

	var created progress.Comment
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&created).
		Post(progressCommentsPath(progressID))
	if err := c.wrap("add progress comment", resp, err); err != nil {
		return nil, err
	}
	return &created, nil
}
