package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driven"
	"github.com/MordecaiM24/recall-sub000/internal/logger"
)

// DefaultSchemaVersion is the schema version this build of the code writes.
const DefaultSchemaVersion = 1

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// itemTables maps each item type to its content table.
var itemTables = map[domain.ItemType]string{
	domain.ItemTypeDocument: "documents",
	domain.ItemTypeMessage:  "messages",
	domain.ItemTypeEmail:    "emails",
	domain.ItemTypeNote:     "notes",
}

// itemTableOrder fixes the lookup order for id-only queries.
var itemTableOrder = []domain.ItemType{
	domain.ItemTypeDocument,
	domain.ItemTypeMessage,
	domain.ItemTypeEmail,
	domain.ItemTypeNote,
}

// allTables lists every table the destructive reset drops.
var allTables = []string{
	"documents", "messages", "emails", "notes",
	"threads", "thread_chunks", "recall_meta",
}

// Options configures a store at open time.
type Options struct {
	// SchemaVersion is compared against the persisted version.
	// Zero means DefaultSchemaVersion.
	SchemaVersion int

	// Dimensions is the fixed embedding vector width.
	Dimensions int

	// Metric is the distance metric, fixed for the store's lifetime.
	// Empty means squared Euclidean.
	Metric domain.DistanceMetric
}

// Store is the SQLite-backed IndexStore.
//
// Writes serialize on a mutex so the single underlying connection never
// interleaves write statements; multi-row writes run in transactions so
// readers never observe partial rows.
type Store struct {
	db       *sql.DB
	path     string
	dims     int
	metric   domain.DistanceMetric
	distance distanceFunc

	writeMu sync.Mutex
}

var _ driven.IndexStore = (*Store)(nil)

// NewStore opens (or creates) the index database under dataDir.
// If dataDir is empty, defaults to ~/.recall/data.
func NewStore(dataDir string, opts Options) (*Store, error) {
	if opts.SchemaVersion == 0 {
		opts.SchemaVersion = DefaultSchemaVersion
	}
	if opts.Dimensions <= 0 {
		return nil, fmt.Errorf("store dimensions %d: %w", opts.Dimensions, domain.ErrDimensionMismatch)
	}
	if opts.Metric == "" {
		opts.Metric = domain.MetricSquaredEuclidean
	}
	if !opts.Metric.Valid() {
		return nil, fmt.Errorf("unknown metric %q: %w", opts.Metric, domain.ErrInvalidInput)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		dims:     opts.Dimensions,
		metric:   opts.Metric,
		distance: distanceFor(opts.Metric),
	}

	if err := s.initSchema(opts.SchemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Metric returns the distance metric the store was opened with.
func (s *Store) Metric() domain.DistanceMetric {
	return s.metric
}

// initSchema creates the tables, resetting the whole database first when
// the persisted schema version does not match the supplied one.
func (s *Store) initSchema(version int) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS recall_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating meta table: %w", err)
	}

	stored, found, err := s.metaInt("schema_version")
	if err != nil {
		return err
	}

	if found && stored != version {
		// Destructive reset. The index is derived data; anything lost
		// here is recoverable by re-importing.
		logger.Warn("Schema version changed (%d -> %d): resetting index, all rows dropped", stored, version)
		for _, table := range allTables {
			if _, err := s.db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return fmt.Errorf("dropping %s: %w", table, err)
			}
		}
		if _, err := s.db.Exec(`
			CREATE TABLE recall_meta (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)
		`); err != nil {
			return fmt.Errorf("recreating meta table: %w", err)
		}
		found = false
	}

	if found {
		// Same version: the vector column semantics must match too.
		if err := s.checkMeta("dimensions", strconv.Itoa(s.dims), domain.ErrDimensionMismatch); err != nil {
			return err
		}
		if err := s.checkMeta("metric", string(s.metric), domain.ErrInvalidInput); err != nil {
			return err
		}
	}

	if err := s.createTables(); err != nil {
		return err
	}

	return s.writeMeta(map[string]string{
		"schema_version": strconv.Itoa(version),
		"dimensions":     strconv.Itoa(s.dims),
		"metric":         string(s.metric),
	})
}

// createTables creates every content table that does not exist yet.
func (s *Store) createTables() error {
	for _, table := range []string{"documents", "messages", "emails", "notes"} {
		_, err := s.db.Exec(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				title TEXT,
				content TEXT,
				embeddable_text TEXT,
				snippet TEXT,
				date DATETIME,
				thread_key TEXT NOT NULL,
				metadata TEXT
			)
		`, table))
		if err != nil {
			return fmt.Errorf("creating %s table: %w", table, err)
		}
	}

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS threads (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			item_ids TEXT NOT NULL,
			thread_key TEXT NOT NULL UNIQUE,
			snippet TEXT,
			content TEXT,
			created DATETIME
		)
	`)
	if err != nil {
		return fmt.Errorf("creating threads table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS thread_chunks (
			id TEXT NOT NULL,
			thread_id TEXT NOT NULL,
			parent_ids TEXT NOT NULL,
			type TEXT NOT NULL,
			content TEXT,
			embedding BLOB NOT NULL,
			chunk_index INTEGER NOT NULL,
			start_position INTEGER NOT NULL,
			end_position INTEGER NOT NULL,
			PRIMARY KEY (thread_id, chunk_index)
		)
	`)
	if err != nil {
		return fmt.Errorf("creating thread_chunks table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_chunks_representative
		ON thread_chunks (chunk_index, type)
	`)
	if err != nil {
		return fmt.Errorf("creating chunk index: %w", err)
	}

	return nil
}

// metaInt reads an integer meta value.
func (s *Store) metaInt(key string) (int, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM recall_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading meta %s: %w", key, err)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("parsing meta %s=%q: %w", key, value, err)
	}
	return n, true, nil
}

// checkMeta verifies a stored meta value matches the configured one.
func (s *Store) checkMeta(key, want string, sentinel error) error {
	var stored string
	err := s.db.QueryRow("SELECT value FROM recall_meta WHERE key = ?", key).Scan(&stored)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading meta %s: %w", key, err)
	}
	if stored != want {
		return fmt.Errorf("store was created with %s=%s, configured %s: %w", key, stored, want, sentinel)
	}
	return nil
}

// writeMeta upserts meta values.
func (s *Store) writeMeta(values map[string]string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	for key, value := range values {
		_, err := s.db.Exec(`
			INSERT INTO recall_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		if err != nil {
			return fmt.Errorf("writing meta %s: %w", key, err)
		}
	}
	return nil
}

// ==================== Items ====================

// SaveItem persists an item into its type-specific table.
func (s *Store) SaveItem(ctx context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	table := itemTables[item.Type]
	metadataJSON, err := marshalMeta(item.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, title, content, embeddable_text, snippet, date, thread_key, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			embeddable_text = excluded.embeddable_text,
			snippet = excluded.snippet,
			date = excluded.date,
			thread_key = excluded.thread_key,
			metadata = excluded.metadata
	`, table), item.ID, item.Title, item.Content, item.EmbeddableText,
		item.Snippet, item.Date, item.ThreadKey, metadataJSON)

	if err != nil {
		return fmt.Errorf("saving item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by id, checking each content table.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	for _, itemType := range itemTableOrder {
		item, err := s.getItemOfType(ctx, itemType, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return item, nil
	}
	return nil, domain.ErrNotFound
}

// GetItems retrieves the given items in id order, skipping missing ids.
func (s *Store) GetItems(ctx context.Context, ids []string) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		item, err := s.GetItem(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// DeleteItem removes an item by id. Missing ids are not an error.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, table := range itemTables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting item from %s: %w", table, err)
		}
	}
	return nil
}

// getItemOfType reads one row from a single content table.
func (s *Store) getItemOfType(ctx context.Context, itemType domain.ItemType, id string) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, title, content, embeddable_text, snippet, date, thread_key, metadata
		FROM %s WHERE id = ?
	`, itemTables[itemType]), id)

	return scanItem(row, itemType)
}

// ==================== Threads ====================

// SaveThread persists or updates a thread row.
func (s *Store) SaveThread(ctx context.Context, thread domain.Thread) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := upsertThread(ctx, tx, thread); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetThread retrieves a thread by system id.
func (s *Store) GetThread(ctx context.Context, id string) (*domain.Thread, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, item_ids, thread_key, snippet, content, created
		FROM threads WHERE id = ?
	`, id)
	return scanThread(row)
}

// GetThreadByKey retrieves a thread by its external key.
func (s *Store) GetThreadByKey(ctx context.Context, threadKey string) (*domain.Thread, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, item_ids, thread_key, snippet, content, created
		FROM threads WHERE thread_key = ?
	`, threadKey)
	return scanThread(row)
}

// DeleteThread removes a thread and all of its chunks in one transaction.
func (s *Store) DeleteThread(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Chunk cascade is enforced here; there is no DB-level cascade.
	if _, err := tx.ExecContext(ctx, "DELETE FROM thread_chunks WHERE thread_id = ?", id); err != nil {
		return fmt.Errorf("deleting thread chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM threads WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveThreadContent writes a thread, its items and its chunks atomically,
// replacing any chunks the thread had before. This is the unit of write
// the ingestion pipeline uses per thread.
func (s *Store) SaveThreadContent(
	ctx context.Context,
	thread domain.Thread,
	items []domain.Item,
	chunks []domain.ThreadChunk,
) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %s: %w", item.ID, err)
		}
	}
	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dims {
			return fmt.Errorf("chunk %s has %d dimensions, store has %d: %w",
				chunk.ID, len(chunk.Embedding), s.dims, domain.ErrDimensionMismatch)
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := upsertThread(ctx, tx, thread); err != nil {
		return err
	}

	for _, item := range items {
		if err := upsertItem(ctx, tx, item); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM thread_chunks WHERE thread_id = ?", thread.ID); err != nil {
		return fmt.Errorf("clearing old chunks: %w", err)
	}
	if err := insertChunks(ctx, tx, chunks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Chunks ====================

// SaveChunks persists chunks in one transaction.
func (s *Store) SaveChunks(ctx context.Context, chunks []domain.ThreadChunk) error {
	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dims {
			return fmt.Errorf("chunk %s has %d dimensions, store has %d: %w",
				chunk.ID, len(chunk.Embedding), s.dims, domain.ErrDimensionMismatch)
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertChunks(ctx, tx, chunks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves a thread's chunks ordered by chunk index.
func (s *Store) GetChunks(ctx context.Context, threadID string) ([]domain.ThreadChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, thread_id, parent_ids, type, content, embedding, chunk_index, start_position, end_position
		FROM thread_chunks WHERE thread_id = ?
		ORDER BY chunk_index
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.ThreadChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows, s.dims)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// ==================== Vector search ====================

// SearchVectors linearly scans representative chunks, optionally filtered
// by item type, and returns the k nearest ascending by distance.
func (s *Store) SearchVectors(
	ctx context.Context,
	query []float32,
	k int,
	types []domain.ItemType,
) ([]domain.VectorHit, error) {
	if len(query) != s.dims {
		return nil, fmt.Errorf("query has %d dimensions, store has %d: %w",
			len(query), s.dims, domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, nil
	}

	q := `
		SELECT thread_id, type, embedding
		FROM thread_chunks WHERE chunk_index = 0
	`
	args := make([]any, 0, len(types))
	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		q += " AND type IN (" + strings.Join(placeholders, ", ") + ")"
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying representative chunks: %w", err)
	}
	defer rows.Close()

	var hits []domain.VectorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var threadID, itemType string
		var blob []byte
		if err := rows.Scan(&threadID, &itemType, &blob); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}

		embedding, err := DecodeEmbedding(blob, s.dims)
		if err != nil {
			return nil, fmt.Errorf("chunk for thread %s: %w", threadID, err)
		}

		hits = append(hits, domain.VectorHit{
			ThreadID: threadID,
			Type:     domain.ItemType(itemType),
			Distance: s.distance(query, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// ==================== Helpers ====================

// upsertThread writes a thread row inside a transaction.
func upsertThread(ctx context.Context, tx *sql.Tx, thread domain.Thread) error {
	itemIDs, err := json.Marshal(thread.ItemIDs)
	if err != nil {
		return fmt.Errorf("marshalling item ids: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO threads (id, type, item_ids, thread_key, snippet, content, created)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			item_ids = excluded.item_ids,
			thread_key = excluded.thread_key,
			snippet = excluded.snippet,
			content = excluded.content,
			created = excluded.created
	`, thread.ID, string(thread.Type), string(itemIDs), thread.ThreadKey,
		thread.Snippet, thread.Content, thread.Created)

	if err != nil {
		return fmt.Errorf("saving thread: %w", err)
	}
	return nil
}

// upsertItem writes an item row inside a transaction.
func upsertItem(ctx context.Context, tx *sql.Tx, item domain.Item) error {
	metadataJSON, err := marshalMeta(item.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, title, content, embeddable_text, snippet, date, thread_key, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			embeddable_text = excluded.embeddable_text,
			snippet = excluded.snippet,
			date = excluded.date,
			thread_key = excluded.thread_key,
			metadata = excluded.metadata
	`, itemTables[item.Type]), item.ID, item.Title, item.Content,
		item.EmbeddableText, item.Snippet, item.Date, item.ThreadKey, metadataJSON)

	if err != nil {
		return fmt.Errorf("saving item %s: %w", item.ID, err)
	}
	return nil
}

// insertChunks writes chunk rows inside a transaction.
func insertChunks(ctx context.Context, tx *sql.Tx, chunks []domain.ThreadChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO thread_chunks
			(id, thread_id, parent_ids, type, content, embedding, chunk_index, start_position, end_position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(thread_id, chunk_index) DO UPDATE SET
			id = excluded.id,
			parent_ids = excluded.parent_ids,
			type = excluded.type,
			content = excluded.content,
			embedding = excluded.embedding,
			start_position = excluded.start_position,
			end_position = excluded.end_position
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		parentIDs, err := json.Marshal(chunk.ParentIDs)
		if err != nil {
			return fmt.Errorf("marshalling parent ids: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.ThreadID, string(parentIDs),
			string(chunk.Type), chunk.Content, EncodeEmbedding(chunk.Embedding),
			chunk.ChunkIndex, chunk.StartPosition, chunk.EndPosition); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}
	return nil
}

// scanItem scans a single item row from a known content table.
func scanItem(row *sql.Row, itemType domain.ItemType) (*domain.Item, error) {
	var item domain.Item
	var date sql.NullTime
	var metadataJSON sql.NullString

	if err := row.Scan(&item.ID, &item.Title, &item.Content, &item.EmbeddableText,
		&item.Snippet, &date, &item.ThreadKey, &metadataJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}

	item.Type = itemType
	if date.Valid {
		item.Date = date.Time
	}

	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != jsonNull {
		meta, err := unmarshalMeta(itemType, metadataJSON.String)
		if err != nil {
			return nil, err
		}
		item.Metadata = meta
	}

	return &item, nil
}

// scanThread scans a single thread row.
func scanThread(row *sql.Row) (*domain.Thread, error) {
	var thread domain.Thread
	var itemType, itemIDsJSON string
	var created sql.NullTime

	if err := row.Scan(&thread.ID, &itemType, &itemIDsJSON, &thread.ThreadKey,
		&thread.Snippet, &thread.Content, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning thread: %w", err)
	}

	thread.Type = domain.ItemType(itemType)
	if created.Valid {
		thread.Created = created.Time
	}
	if err := json.Unmarshal([]byte(itemIDsJSON), &thread.ItemIDs); err != nil {
		return nil, fmt.Errorf("unmarshalling item ids: %w", err)
	}

	return &thread, nil
}

// scanChunk scans a chunk from *sql.Rows.
func scanChunk(rows *sql.Rows, dims int) (*domain.ThreadChunk, error) {
	var chunk domain.ThreadChunk
	var itemType, parentIDsJSON string
	var blob []byte

	if err := rows.Scan(&chunk.ID, &chunk.ThreadID, &parentIDsJSON, &itemType,
		&chunk.Content, &blob, &chunk.ChunkIndex, &chunk.StartPosition, &chunk.EndPosition); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Type = domain.ItemType(itemType)
	if err := json.Unmarshal([]byte(parentIDsJSON), &chunk.ParentIDs); err != nil {
		return nil, fmt.Errorf("unmarshalling parent ids: %w", err)
	}

	embedding, err := DecodeEmbedding(blob, dims)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", chunk.ID, err)
	}
	chunk.Embedding = embedding

	return &chunk, nil
}

// marshalMeta serialises the typed metadata variant.
func marshalMeta(meta domain.Metadata) (string, error) {
	if meta == nil {
		return jsonNull, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalMeta deserialises into the variant matching the item type.
func unmarshalMeta(itemType domain.ItemType, data string) (domain.Metadata, error) {
	switch itemType {
	case domain.ItemTypeDocument:
		var meta domain.DocumentMeta
		if err := json.Unmarshal([]byte(data), &meta); err != nil {
			return nil, fmt.Errorf("unmarshalling document metadata: %w", err)
		}
		return meta, nil
	case domain.ItemTypeMessage:
		var meta domain.MessageMeta
		if err := json.Unmarshal([]byte(data), &meta); err != nil {
			return nil, fmt.Errorf("unmarshalling message metadata: %w", err)
		}
		return meta, nil
	case domain.ItemTypeEmail:
		var meta domain.EmailMeta
		if err := json.Unmarshal([]byte(data), &meta); err != nil {
			return nil, fmt.Errorf("unmarshalling email metadata: %w", err)
		}
		return meta, nil
	case domain.ItemTypeNote:
		var meta domain.NoteMeta
		if err := json.Unmarshal([]byte(data), &meta); err != nil {
			return nil, fmt.Errorf("unmarshalling note metadata: %w", err)
		}
		return meta, nil
	default:
		return nil, fmt.Errorf("metadata for type %q: %w", itemType, domain.ErrUnsupportedType)
	}
}
