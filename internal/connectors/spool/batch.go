// Package spool ingests item batches dropped into a spool directory as
// JSON files. Exporters write a batch file, recall picks it up, indexes
// it and removes it.
package spool

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

// wireBatch is the on-disk batch format.
type wireBatch struct {
	Items []wireItem `json:"items"`
}

// wireItem is one item in a batch file. Metadata is decoded according
// to Type.
type wireItem struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title,omitempty"`
	Content   string          `json:"content"`
	Date      time.Time       `json:"date"`
	ThreadKey string          `json:"thread_key,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// DecodeBatch reads a JSON batch and converts every entry into a
// domain item. The whole batch is rejected on the first malformed
// entry; a spool file is either fully ingestable or not.
func DecodeBatch(r io.Reader) ([]domain.Item, error) {
	var batch wireBatch
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}

	items := make([]domain.Item, 0, len(batch.Items))
	for i, w := range batch.Items {
		item, err := w.toItem()
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, w.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// toItem builds a domain item via the type's constructor, so derived
// fields (embeddable text, snippet, thread key) follow the same rules
// as every other ingestion path.
func (w wireItem) toItem() (domain.Item, error) {
	var item domain.Item
	switch domain.ItemType(w.Type) {
	case domain.ItemTypeDocument:
		var meta domain.DocumentMeta
		if err := w.decodeMeta(&meta); err != nil {
			return item, err
		}
		item = domain.NewDocument(w.ID, w.Title, w.Content, w.Date, meta)

	case domain.ItemTypeMessage:
		var meta domain.MessageMeta
		if err := w.decodeMeta(&meta); err != nil {
			return item, err
		}
		if meta.ChatID == "" {
			meta.ChatID = w.ThreadKey
		}
		item = domain.NewMessage(w.ID, w.Content, w.Date, meta)

	case domain.ItemTypeEmail:
		var meta domain.EmailMeta
		if err := w.decodeMeta(&meta); err != nil {
			return item, err
		}
		if meta.Subject == "" {
			meta.Subject = w.Title
		}
		item = domain.NewEmail(w.ID, w.ThreadKey, w.Content, w.Date, meta)

	case domain.ItemTypeNote:
		var meta domain.NoteMeta
		if err := w.decodeMeta(&meta); err != nil {
			return item, err
		}
		item = domain.NewNote(w.ID, w.Title, w.Content, w.Date, meta)

	default:
		return item, fmt.Errorf("type %q: %w", w.Type, domain.ErrUnsupportedType)
	}

	if err := item.Validate(); err != nil {
		return item, err
	}
	return item, nil
}

func (w wireItem) decodeMeta(dst any) error {
	if len(w.Metadata) == 0 {
		return nil
	}
	if err := json.Unmarshal(w.Metadata, dst); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}
	return nil
}
