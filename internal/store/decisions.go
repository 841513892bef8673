// internal/store/decisions.go

// Package store persists decision records: postgres as the system of
// record, redis for result caching, elasticsearch for history search.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"decision-assistant/internal/common/logger"
	"decision-assistant/internal/models"
)

// ErrNotFound is returned when a decision id has no stored record.
var ErrNotFound = errors.New("decision not found")

// DecisionStore is the persistence surface the server depends on.
type DecisionStore interface {
	Save(ctx context.Context, rec *models.DecisionRecord) error
	GetByID(ctx context.Context, id string) (*models.DecisionRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*models.DecisionRecord, error)
}

// PostgresStore implements DecisionStore on a SQL database.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "decision-store"}),
	}
}

const insertQuery = `INSERT INTO decisions (id, project_name, decision, score, intake, output, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Save inserts a decision record. Intake and output are stored as JSON
// alongside the queryable columns.
func (s *PostgresStore) Save(ctx context.Context, rec *models.DecisionRecord) error {
	intakeJSON, err := json.Marshal(rec.Intake)
	if err != nil {
		return fmt.Errorf("marshal intake: %w", err)
	}
	outputJSON, err := json.Marshal(rec.Output)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	_, err = s.db.ExecContext(ctx, insertQuery,
		rec.ID, rec.Intake.ProjectName, rec.Output.Decision, rec.Output.Score,
		intakeJSON, outputJSON, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}

	s.logger.Debug("decision saved", map[string]interface{}{
		"decisionId": rec.ID,
		"decision":   rec.Output.Decision,
		"score":      rec.Output.Score,
	})
	return nil
}

const selectByIDQuery = `SELECT id, intake, output, created_at FROM decisions WHERE id = $1`

// GetByID fetches a single decision record.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*models.DecisionRecord, error) {
	var (
		rec        models.DecisionRecord
		intakeJSON []byte
		outputJSON []byte
	)

	err := s.db.QueryRowContext(ctx, selectByIDQuery, id).Scan(
		&rec.ID, &intakeJSON, &outputJSON, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query decision: %w", err)
	}

	if err := unmarshalRecord(&rec, intakeJSON, outputJSON); err != nil {
		return nil, err
	}
	return &rec, nil
}

const listRecentQuery = `SELECT id, intake, output, created_at FROM decisions ORDER BY created_at DESC LIMIT $1`

// ListRecent returns up to limit decisions, newest first.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*models.DecisionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, listRecentQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var records []*models.DecisionRecord
	for rows.Next() {
		var (
			rec        models.DecisionRecord
			intakeJSON []byte
			outputJSON []byte
		)
		if err := rows.Scan(&rec.ID, &intakeJSON, &outputJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if err := unmarshalRecord(&rec, intakeJSON, outputJSON); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}

	return records, nil
}

func unmarshalRecord(rec *models.DecisionRecord, intakeJSON, outputJSON []byte) error {
	if err := json.Unmarshal(intakeJSON, &rec.Intake); err != nil {
		return fmt.Errorf("unmarshal intake: %w", err)
	}
	if err := json.Unmarshal(outputJSON, &rec.Output); err != nil {
		return fmt.Errorf("unmarshal output: %w", err)
	}
	return nil
}

// Schema is the DDL for the decisions table; applied out of band.
const Schema = `CREATE TABLE IF NOT EXISTS decisions (
	id           UUID PRIMARY KEY,
	project_name TEXT NOT NULL,
	decision     TEXT NOT NULL,
	score        INT NOT NULL,
	intake       JSONB NOT NULL,
	output       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS decisions_created_at_idx ON decisions (created_at DESC);`
