package backend

import (
	"context"
	"strconv"

	"worktrack/services/messaging/domain/group"
	"worktrack/services/messaging/domain/user"
)

func groupPath(groupID int64) string {
	return "/groups/" + strconv.FormatInt(groupID, 10)
}

// GetGroup fetches one group with its membership snapshot.
func (c *Client) GetGroup(ctx context.Context, groupID int64) (*group.Group, error) {
	var result group.Group
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(groupPath(groupID))
	if err := c.wrap("get group", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateGroup creates a group; the backend assigns the requester as creator.
func (c *Client) CreateGroup(ctx context.Context, params group.CreateParams) (*group.Group, error) {
	var result group.Group
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(params).
		SetResult(&result).
		Post("/groups")
	if err := c.wrap("create group", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateGroup applies a partial name/description edit.
func (c *Client) UpdateGroup(ctx context.Context, groupID int64, params group.UpdateParams) (*group.Group, error) {
	var result group.Group
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(params).
		SetResult(&result).
		Patch(groupPath(groupID))
	if err := c.wrap("update group", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddMember invites a user into the group.
func (c *Client) AddMember(ctx context.Context, groupID, userID int64) (*group.Group, error) {
	var result group.Group
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]int64{"user_id": userID}).
		SetResult(&result).
		Post(groupPath(groupID) + "/members")
	if err := c.wrap("add member", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveMember removes a user from the group.
func (c *Client) RemoveMember(ctx context.Context, groupID, userID int64) (*group.Group, error) {
	var result group.Group
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Delete(groupPath(groupID) + "/members/" + strconv.FormatInt(userID, 10))
	if err := c.wrap("remove member", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAvailableUsers returns the backend's invitation candidates for a
// group. The membership service applies the final complement rules on top.
func (c *Client) ListAvailableUsers(ctx context.Context, groupID int64) ([]user.User, error) {
	var result struct {
		Data []user.User `json:"data"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(groupPath(groupID) + "/available-users")
	if err := c.wrap("list available users", resp, err); err != nil {
		return nil, err
	}
	return result.Data, nil
}
