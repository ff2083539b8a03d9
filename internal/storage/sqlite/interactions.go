package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandevgo/discobot/internal/core"
	"github.com/sandevgo/discobot/pkg/log"
)

// InteractionsRepo persists conversational records to the interactions
// table. Append-only: the public contract has no update or delete.
type InteractionsRepo struct {
	db *sql.DB
}

func NewInteractionsRepo(db *sql.DB) *InteractionsRepo {
	return &InteractionsRepo{db: db}
}

func (r *InteractionsRepo) StoreInteraction(ctx context.Context, record core.MemoryRecord) error {
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	// An empty metadata map marshals to "null" when nil; store as empty string
	mdStr := string(metadataJSON)
	if mdStr == "null" {
		mdStr = ""
	}

	query := `INSERT INTO interactions (role, content, metadata, timestamp) VALUES (?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, record.Role, record.Content, mdStr, record.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// Search returns records whose content contains query as a substring,
// most recent first, capped at limit.
func (r *InteractionsRepo) Search(ctx context.Context, query string, limit int) ([]core.MemoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content, metadata, timestamp FROM interactions WHERE content LIKE ? ORDER BY id DESC LIMIT ?`,
		"%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var records []core.MemoryRecord
	for rows.Next() {
		var record core.MemoryRecord
		var metadataStr sql.NullString
		var timestampStr string

		if err := rows.Scan(&record.Role, &record.Content, &metadataStr, &timestampStr); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}

		record.Metadata = map[string]any{}
		if metadataStr.Valid && metadataStr.String != "" {
			if err := json.Unmarshal([]byte(metadataStr.String), &record.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}

		ts, err := time.Parse(time.RFC3339Nano, timestampStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}
		record.Timestamp = ts

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(records)).Str("query", query).Msg("long-term search")
	return records, nil
}
