// Package group implements named multi-member conversation containers and
// the membership rules around them.
package group

import "time"

// Group is a named multi-member conversation container. The backend is the
// sole arbiter of the true membership set; instances here are snapshots.
type Group struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	CreatedBy    int64      `json:"created_by"`
	Members      []int64    `json:"members"`
	MembersCount int        `json:"members_count"`
	LastMessage  string     `json:"last_message,omitempty"`
	UnreadCount  int        `json:"unread_count"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CreatedAt    time.Time  `json:"created_at"`
	LastReadAt   *time.Time `json:"last_read_at,omitempty"`
}

// HasMember reports whether userID is in the membership set.
func (g *Group) HasMember(userID int64) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateParams are the inputs for creating a group.
type CreateParams struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	MemberIDs   []int64 `json:"member_ids" validate:"required,min=1"`
}

// UpdateParams are the inputs for a partial name/description edit. A nil
// field is left untouched.
type UpdateParams struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
}
