package spool

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

const sampleBatch = `{
  "items": [
    {
      "id": "e1",
      "type": "email",
      "content": "Let's sync Friday about the launch.",
      "date": "2026-03-01T10:00:00Z",
      "thread_key": "gmail-thr-42",
      "metadata": {"subject": "Launch sync", "from": "ana@example.com", "to": ["me@example.com"]}
    },
    {
      "id": "m1",
      "type": "message",
      "content": "running late, be there in 10",
      "date": "2026-03-01T10:05:00Z",
      "metadata": {"sender": "Bob", "chat_id": "chat-bob", "chat_name": "Bob"}
    },
    {
      "id": "n1",
      "type": "note",
      "title": "reading list",
      "content": "finish the distributed systems paper",
      "date": "2026-03-02T08:00:00Z"
    }
  ]
}`

func TestDecodeBatch(t *testing.T) {
	items, err := DecodeBatch(strings.NewReader(sampleBatch))
	require.NoError(t, err)
	require.Len(t, items, 3)

	email := items[0]
	assert.Equal(t, domain.ItemTypeEmail, email.Type)
	assert.Equal(t, "gmail-thr-42", email.ThreadKey)
	assert.Equal(t, "Launch sync", email.Title)
	meta, ok := email.Metadata.(domain.EmailMeta)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", meta.From)
	assert.Contains(t, email.EmbeddableText, "Launch sync")

	msg := items[1]
	assert.Equal(t, "chat-bob", msg.ThreadKey)
	assert.Equal(t, "Bob: running late, be there in 10", msg.EmbeddableText)

	note := items[2]
	assert.Equal(t, "n1", note.ThreadKey, "notes thread under their own id")
}

func TestDecodeBatchEmailTitleFallback(t *testing.T) {
	in := `{"items":[{"id":"e1","type":"email","title":"Fallback subject",
		"content":"body","date":"2026-03-01T10:00:00Z","thread_key":"t1"}]}`

	items, err := DecodeBatch(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "Fallback subject", items[0].Title)
}

func TestDecodeBatchMessageThreadKeyFallback(t *testing.T) {
	in := `{"items":[{"id":"m1","type":"message","content":"hi",
		"date":"2026-03-01T10:00:00Z","thread_key":"chat-7"}]}`

	items, err := DecodeBatch(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "chat-7", items[0].ThreadKey)
}

func TestDecodeBatchErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{
			name: "unknown type",
			in:   `{"items":[{"id":"x","type":"spreadsheet","content":"c","date":"2026-03-01T10:00:00Z"}]}`,

			wantErr: domain.ErrUnsupportedType,
		},
		{
			name:    "missing id",
			in:      `{"items":[{"type":"note","title":"t","content":"c","date":"2026-03-01T10:00:00Z"}]}`,
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "message without any thread key",
			in:      `{"items":[{"id":"m1","type":"message","content":"hi","date":"2026-03-01T10:00:00Z"}]}`,
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBatch(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeBatchRejectsUnknownFields(t *testing.T) {
	in := `{"items":[],"version":2}`
	_, err := DecodeBatch(strings.NewReader(in))
	assert.Error(t, err)
}

func TestDecodeBatchNotJSON(t *testing.T) {
	_, err := DecodeBatch(strings.NewReader("not json"))
	assert.Error(t, err)
}
