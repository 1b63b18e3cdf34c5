package conversation

import "worktrack/services/messaging/domain/group"

// Aggregate merges the pre-normalized team/private threads with the group
// source into one list. Source order is preserved and duplicates by Key are
// dropped (first occurrence wins). Unread counts and previews come from the
// sources themselves, never from position in the list.
//
// Partial availability is the caller's concern: a source that failed to
// fetch contributes an empty slice and the healthy subset still aggregates.
func Aggregate(threads []Conversation, groups []group.Group) []Conversation {
	merged := make([]Conversation, 0, len(threads)+len(groups))
	seen := make(map[Key]struct{}, len(threads)+len(groups))

	appendUnique := func(c Conversation) {
		if _, dup := seen[c.Key]; dup {
			return
		}
		seen[c.Key] = struct{}{}
		merged = append(merged, c)
	}

	for _, c := range threads {
		appendUnique(c)
	}
	for _, g := range groups {
		appendUnique(FromGroup(g))
	}
	return merged
}

// Select applies the selection rule after an aggregation pass: with no
// current selection the first team entry is auto-selected; an existing
// selection is kept while its key is still present, and cleared otherwise.
func Select(list []Conversation, current *Key) *Key {
	if current != nil {
		for _, c := range list {
			if c.Key == *current {
				return current
			}
		}
		return nil
	}

	for _, c := range list {
		if c.Key.Kind == KindTeam {
			key := c.Key
			return &key
		}
	}
	return nil
}
