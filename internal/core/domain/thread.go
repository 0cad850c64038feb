package domain

import (
	"fmt"
	"time"
)

// ContentSeparator joins item contents into the thread body.
// It is part of the persisted format: chunk offsets index into the
// joined string, so the separator must never change for existing data.
const ContentSeparator = "\n\n----\n\n"

// Thread is an aggregate of one or more Items sharing a ThreadKey.
type Thread struct {
	// ID is the system-generated identifier, stable for the
	// aggregate's lifetime.
	ID string

	// Type is the item type shared by every item in the thread.
	Type ItemType

	// ItemIDs lists the member items in import order.
	ItemIDs []string

	// ThreadKey is the external grouping key, used for
	// find-or-create on repeated import.
	ThreadKey string

	// Snippet is the derived display excerpt.
	Snippet string

	// Content is every item's content joined with ContentSeparator.
	Content string

	// Created is the date of the first item.
	Created time.Time
}

// GroupByKey groups items by their thread key. Order within each group
// follows first appearance in items, and the returned key order follows
// the first appearance of each key.
func GroupByKey(items []Item) (map[string][]Item, []string) {
	groups := make(map[string][]Item)
	keys := make([]string, 0)
	for _, item := range items {
		if _, seen := groups[item.ThreadKey]; !seen {
			keys = append(keys, item.ThreadKey)
		}
		groups[item.ThreadKey] = append(groups[item.ThreadKey], item)
	}
	return groups, keys
}

// BuildThread constructs a Thread from one group of items.
// Every item must carry the same thread key as the first; a mismatch
// fails with ErrInconsistentThreadKey. This is a hard precondition,
// not a best-effort merge.
func BuildThread(id string, items []Item) (Thread, error) {
	if len(items) == 0 {
		return Thread{}, fmt.Errorf("building thread: no items: %w", ErrInvalidInput)
	}

	first := items[0]
	itemIDs := make([]string, len(items))
	contents := make([]string, len(items))
	for i, item := range items {
		if item.ThreadKey != first.ThreadKey {
			return Thread{}, fmt.Errorf("item %s has key %q, expected %q: %w",
				item.ID, item.ThreadKey, first.ThreadKey, ErrInconsistentThreadKey)
		}
		itemIDs[i] = item.ID
		contents[i] = item.Content
	}

	return Thread{
		ID:        id,
		Type:      first.Type,
		ItemIDs:   itemIDs,
		ThreadKey: first.ThreadKey,
		Snippet:   threadSnippet(first),
		Content:   joinContents(contents),
		Created:   first.Date,
	}, nil
}

// threadSnippet derives the display snippet from the first item.
// Emails show their subject, messages the contact or chat name,
// everything else falls back to the item's own snippet.
func threadSnippet(first Item) string {
	switch first.Type {
	case ItemTypeEmail:
		if meta, ok := first.Metadata.(EmailMeta); ok && meta.Subject != "" {
			return meta.Subject
		}
	case ItemTypeMessage:
		if meta, ok := first.Metadata.(MessageMeta); ok {
			if meta.ChatName != "" {
				return meta.ChatName
			}
			if meta.Sender != "" {
				return meta.Sender
			}
		}
	}
	return first.Snippet
}

// joinContents joins item bodies with ContentSeparator.
func joinContents(contents []string) string {
	if len(contents) == 1 {
		return contents[0]
	}
	total := 0
	for _, c := range contents {
		total += len(c)
	}
	buf := make([]byte, 0, total+len(ContentSeparator)*(len(contents)-1))
	for i, c := range contents {
		if i > 0 {
			buf = append(buf, ContentSeparator...)
		}
		buf = append(buf, c...)
	}
	return string(buf)
}
