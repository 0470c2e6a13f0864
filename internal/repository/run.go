package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-run-bot/internal/model"
)

// ErrConstraintViolation is returned when a write is rejected by the
// schema for any reason other than the tolerated duplicate identity,
// e.g. a negative distance hitting the CHECK constraint.
var ErrConstraintViolation = errors.New("constraint violation")

// RunRepository handles run data persistence.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new RunRepository instance.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// Create inserts one run for the given user. The timestamp is
// assigned by the database clock.
func (r *RunRepository) Create(ctx context.Context, distance float64, userID int64) (*model.Run, error) {
	const query = `
		INSERT INTO runs (distance, user_id)
		VALUES ($1, $2)
		RETURNING id, distance, recorded_at, user_id
	`

	var run model.Run
	err := r.pool.QueryRow(ctx, query, distance, userID).Scan(
		&run.ID,
		&run.Distance,
		&run.RecordedAt,
		&run.UserID,
	)
	if err != nil {
		if isIntegrityError(err) {
			return nil, fmt.Errorf("failed to create run: %w: %w", ErrConstraintViolation, err)
		}
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return &run, nil
}

// CreateWithTime inserts a run with an explicit timestamp.
// Useful for testing and importing legacy ledger data; recordedAt may
// be nil for legacy rows that never carried one.
func (r *RunRepository) CreateWithTime(ctx context.Context, distance float64, userID int64, recordedAt *time.Time) (*model.Run, error) {
	const query = `
		INSERT INTO runs (distance, user_id, recorded_at)
		VALUES ($1, $2, $3)
		RETURNING id, distance, recorded_at, user_id
	`

	var run model.Run
	err := r.pool.QueryRow(ctx, query, distance, userID, recordedAt).Scan(
		&run.ID,
		&run.Distance,
		&run.RecordedAt,
		&run.UserID,
	)
	if err != nil {
		if isIntegrityError(err) {
			return nil, fmt.Errorf("failed to create run: %w: %w", ErrConstraintViolation, err)
		}
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return &run, nil
}

// ListByOwners retrieves runs owned by any of the given users,
// newest first, truncated to limit.
func (r *RunRepository) ListByOwners(ctx context.Context, userIDs []int64, limit int) ([]model.Run, error) {
	const query = `
		SELECT id, distance, recorded_at, user_id
		FROM runs
		WHERE user_id = ANY($1)
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		err := rows.Scan(
			&run.ID,
			&run.Distance,
			&run.RecordedAt,
			&run.UserID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// UpdateDistance sets a new distance on a run, but only when the run
// is owned by the requester's identity within the requester's chat.
// The ownership predicate is part of the UPDATE itself so it binds to
// the exact target row. Returns false when nothing matched; callers
// must not read success as "a row changed".
func (r *RunRepository) UpdateDistance(ctx context.Context, runID int64, distance float64, chatID string, telegramID int64) (bool, error) {
	const query = `
		UPDATE runs
		SET distance = $1
		WHERE id = $2
		  AND user_id IN (
			SELECT id FROM users WHERE chat_id = $3 AND telegram_id = $4
		  )
	`

	result, err := r.pool.Exec(ctx, query, distance, runID, chatID, telegramID)
	if err != nil {
		if isIntegrityError(err) {
			return false, fmt.Errorf("failed to update run: %w: %w", ErrConstraintViolation, err)
		}
		return false, fmt.Errorf("failed to update run: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Delete removes a run, gated by the same ownership predicate as
// UpdateDistance. Returns false when nothing matched.
func (r *RunRepository) Delete(ctx context.Context, runID int64, chatID string, telegramID int64) (bool, error) {
	const query = `
		DELETE FROM runs
		WHERE id = $1
		  AND user_id IN (
			SELECT id FROM users WHERE chat_id = $2 AND telegram_id = $3
		  )
	`

	result, err := r.pool.Exec(ctx, query, runID, chatID, telegramID)
	if err != nil {
		return false, fmt.Errorf("failed to delete run: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// TallyByOwners aggregates runs of the given users into per-username
// scores, ordered by total distance descending.
func (r *RunRepository) TallyByOwners(ctx context.Context, userIDs []int64) ([]model.Score, error) {
	const query = `
		SELECT u.username, COUNT(*) AS medals, SUM(r.distance) AS distance
		FROM runs r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = ANY($1)
		GROUP BY u.username
		ORDER BY SUM(r.distance) DESC
	`

	rows, err := r.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to tally runs: %w", err)
	}
	defer rows.Close()

	var scores []model.Score
	for rows.Next() {
		var score model.Score
		err := rows.Scan(
			&score.Username,
			&score.Medals,
			&score.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, score)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}

	return scores, nil
}

// isIntegrityError reports whether err is a PostgreSQL integrity
// constraint violation (SQLSTATE class 23).
func isIntegrityError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23"
}
