// Package progress implements the append-only two-level feedback threads
// attached to progress updates. Comments are never edited or deleted so the
// thread stays a faithful audit trail of manager feedback.
package progress

import (
	"sort"
	"time"
)

// Comment is one entry in a progress-update thread. A nil ParentID marks a
// top-level comment; replies always reference a top-level parent, never
// another reply.
type Comment struct {
	ID         int64     `json:"id"`
	ProgressID int64     `json:"progress_id"`
	AuthorID   int64     `json:"author_id"`
	Body       string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	Replies    []Comment `json:"replies,omitempty"`
}

// IsTopLevel reports whether the comment can accept replies.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// BuildThread normalizes a flat listing into the two-level shape: top-level
// comments in source order, each embedding its replies ordered by CreatedAt
// ascending. A reply whose recorded parent is itself a reply is clamped to
// that reply's top-level root, so the built thread never exceeds depth two.
func BuildThread(flat []Comment) []Comment {
	roots := make([]Comment, 0, len(flat))
	rootIndex := make(map[int64]int, len(flat))
	parentOf := make(map[int64]*int64, len(flat))

	for _, c := range flat {
		parentOf[c.ID] = c.ParentID
		if c.IsTopLevel() {
			c.Replies = nil
			rootIndex[c.ID] = len(roots)
			roots = append(roots, c)
		}
	}

	for _, c := range flat {
		if c.IsTopLevel() {
			continue
		}
		rootID, ok := resolveRoot(*c.ParentID, parentOf)
		if !ok {
			// Cyclic ancestry in malformed data; treated like an orphan.
			continue
		}
		idx, ok := rootIndex[rootID]
		if !ok {
			// Orphaned reply: its whole ancestry is missing from the
			// listing. Nothing to attach it to.
			continue
		}
		c.Replies = nil
		roots[idx].Replies = append(roots[idx].Replies, c)
	}

	for i := range roots {
		replies := roots[i].Replies
		sort.SliceStable(replies, func(a, b int) bool {
			return replies[a].CreatedAt.Before(replies[b].CreatedAt)
		})
	}
	return roots
}

func resolveRoot(parentID int64, parentOf map[int64]*int64) (int64, bool) {
	seen := make(map[int64]struct{})
	for {
		if _, revisited := seen[parentID]; revisited {
			return 0, false
		}
		seen[parentID] = struct{}{}

		next, ok := parentOf[parentID]
		if !ok || next == nil {
			return parentID, true
		}
		parentID = *next
	}
}
