package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// historyStore implements driven.LoadHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.LoadHistoryStore = (*historyStore)(nil)

// Record appends a load record.
func (s *historyStore) Record(ctx context.Context, record *domain.LoadRecord) error {
	if record == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO load_history (request_id, kind, sort_class, url, content_type, consumers,
			success, from_cache, aborted, error, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.RequestID, record.Kind, int(record.Class),
		nullString(record.URL), nullString(record.ContentType), record.Consumers,
		boolToInt(record.Success), boolToInt(record.FromCache), boolToInt(record.Aborted),
		nullString(record.Error),
		record.StartedAt.UTC().Format(timeLayout),
		record.EndedAt.UTC().Format(timeLayout))

	if err != nil {
		return fmt.Errorf("recording load: %w", err)
	}
	return nil
}

// Recent returns the most recent records, newest first.
func (s *historyStore) Recent(ctx context.Context, limit int) ([]domain.LoadRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT request_id, kind, sort_class, url, content_type, consumers,
			success, from_cache, aborted, error, started_at, ended_at
		FROM load_history
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying load history: %w", err)
	}
	defer rows.Close()

	var records []domain.LoadRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanLoadRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating load history: %w", err)
	}

	return records, nil
}

// Prune keeps only the most recent keep records.
func (s *historyStore) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM load_history
		WHERE id NOT IN (
			SELECT id FROM load_history ORDER BY started_at DESC, id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning load history: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanLoadRecord scans a load record from *sql.Rows.
func scanLoadRecord(rows *sql.Rows) (*domain.LoadRecord, error) {
	var record domain.LoadRecord
	var class, success, fromCache, aborted int
	var url, contentType, errMsg sql.NullString
	var startedAt, endedAt string

	if err := rows.Scan(&record.RequestID, &record.Kind, &class, &url, &contentType,
		&record.Consumers, &success, &fromCache, &aborted, &errMsg,
		&startedAt, &endedAt); err != nil {
		return nil, fmt.Errorf("scanning load record: %w", err)
	}

	record.Class = domain.SortClass(class)
	record.URL = url.String
	record.ContentType = contentType.String
	record.Success = success == 1
	record.FromCache = fromCache == 1
	record.Aborted = aborted == 1
	record.Error = errMsg.String
	record.StartedAt = parseTime(startedAt)
	record.EndedAt = parseTime(endedAt)

	return &record, nil
}

// parseTime parses an RFC3339 timestamp. Returns zero time on parse error.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
