package domain

import (
	"strings"
	"time"
)

// ItemType identifies the kind of imported content.
type ItemType string

const (
	// ItemTypeDocument is a standalone document.
	ItemTypeDocument ItemType = "document"

	// ItemTypeMessage is a chat message.
	ItemTypeMessage ItemType = "message"

	// ItemTypeEmail is an email message.
	ItemTypeEmail ItemType = "email"

	// ItemTypeNote is a personal note.
	ItemTypeNote ItemType = "note"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeDocument, ItemTypeMessage, ItemTypeEmail, ItemTypeNote:
		return true
	}
	return false
}

// Metadata is the tagged union of type-specific item attributes.
// The concrete variant always matches the owning Item's Type,
// so callers never need runtime casts against an open map.
type Metadata interface {
	isMetadata()
}

// DocumentMeta holds document-specific attributes.
type DocumentMeta struct {
	// Folder is the folder or collection the document came from.
	Folder string `json:"folder,omitempty"`

	// MIMEType is the original content type (e.g. "application/pdf").
	MIMEType string `json:"mime_type,omitempty"`

	// Author is the document author, when known.
	Author string `json:"author,omitempty"`
}

// MessageMeta holds chat-message attributes.
type MessageMeta struct {
	// Sender is the display name of the message sender.
	Sender string `json:"sender,omitempty"`

	// ChatID is the external conversation identifier.
	ChatID string `json:"chat_id,omitempty"`

	// ChatName is the display name of the conversation or contact.
	ChatName string `json:"chat_name,omitempty"`
}

// EmailMeta holds email attributes.
type EmailMeta struct {
	// Subject is the email subject line.
	Subject string `json:"subject,omitempty"`

	// From is the sender address.
	From string `json:"from,omitempty"`

	// To lists recipient addresses.
	To []string `json:"to,omitempty"`

	// Labels lists mailbox labels applied to the message.
	Labels []string `json:"labels,omitempty"`
}

// NoteMeta holds note attributes.
type NoteMeta struct {
	// Notebook is the notebook or folder the note lives in.
	Notebook string `json:"notebook,omitempty"`

	// Tags lists user-applied tags.
	Tags []string `json:"tags,omitempty"`
}

func (DocumentMeta) isMetadata() {}
func (MessageMeta) isMetadata()  {}
func (EmailMeta) isMetadata()    {}
func (NoteMeta) isMetadata()     {}

// Item represents one imported unit of content.
// Items are immutable after construction; there is no update path.
type Item struct {
	// ID is the globally unique, stable identifier.
	ID string

	// Type identifies the kind of content.
	Type ItemType

	// Title is the human-readable title.
	Title string

	// Content is the full text content.
	Content string

	// EmbeddableText is the type-specific concatenation used for
	// embedding (e.g. subject + body for an email).
	EmbeddableText string

	// Snippet is a short display excerpt.
	Snippet string

	// Date is when the content was originally created or received.
	Date time.Time

	// ThreadKey is the external grouping key. It is stable across
	// re-imports of logically the same conversation.
	ThreadKey string

	// Metadata carries the type-specific attribute variant.
	// Its concrete type always matches Type.
	Metadata Metadata
}

// snippetLength bounds derived snippets.
const snippetLength = 120

// NewDocument constructs a document item. Documents are non-conversational,
// so the item's own id doubles as its thread key.
func NewDocument(id, title, content string, date time.Time, meta DocumentMeta) Item {
	return Item{
		ID:             id,
		Type:           ItemTypeDocument,
		Title:          title,
		Content:        content,
		EmbeddableText: joinNonEmpty(title, content),
		Snippet:        deriveSnippet(content),
		Date:           date,
		ThreadKey:      id,
		Metadata:       meta,
	}
}

// NewMessage constructs a chat-message item grouped by its chat id.
func NewMessage(id, content string, date time.Time, meta MessageMeta) Item {
	embeddable := content
	if meta.Sender != "" {
		embeddable = meta.Sender + ": " + content
	}
	return Item{
		ID:             id,
		Type:           ItemTypeMessage,
		Title:          meta.ChatName,
		Content:        content,
		EmbeddableText: embeddable,
		Snippet:        deriveSnippet(content),
		Date:           date,
		ThreadKey:      meta.ChatID,
		Metadata:       meta,
	}
}

// NewEmail constructs an email item grouped by its external thread id.
func NewEmail(id, threadID, content string, date time.Time, meta EmailMeta) Item {
	return Item{
		ID:             id,
		Type:           ItemTypeEmail,
		Title:          meta.Subject,
		Content:        content,
		EmbeddableText: joinNonEmpty(meta.Subject, content),
		Snippet:        deriveSnippet(content),
		Date:           date,
		ThreadKey:      threadID,
		Metadata:       meta,
	}
}

// NewNote constructs a note item. Like documents, notes are singletons:
// the item's own id is its thread key.
func NewNote(id, title, content string, date time.Time, meta NoteMeta) Item {
	return Item{
		ID:             id,
		Type:           ItemTypeNote,
		Title:          title,
		Content:        content,
		EmbeddableText: joinNonEmpty(title, content),
		Snippet:        deriveSnippet(content),
		Date:           date,
		ThreadKey:      id,
		Metadata:       meta,
	}
}

// Validate checks the invariants every item must satisfy before persistence.
func (i Item) Validate() error {
	if i.ID == "" || i.ThreadKey == "" || !i.Type.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// deriveSnippet returns a bounded, single-line excerpt of content.
func deriveSnippet(content string) string {
	s := strings.Join(strings.Fields(content), " ")
	if len(s) > snippetLength {
		s = s[:snippetLength]
	}
	return s
}

// joinNonEmpty joins the non-empty parts with a blank line.
func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
