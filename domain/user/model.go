// Package user holds the directory view of accounts referenced by
// conversations and groups. The directory itself is owned by the backend;
// these are read-only projections.
package user

// User is a directory entry.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}
