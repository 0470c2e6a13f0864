// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"telegram-run-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")

	// ErrUserNotResolvable means an insert went through but the
	// follow-up read still found nothing. That should not happen and
	// points at a data consistency problem, so it is surfaced rather
	// than retried.
	ErrUserNotResolvable = errors.New("user not resolvable after insert")
)

// UserRepository handles user data persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a user row for the given chat-scoped identity.
// A concurrent insert of the same (chat_id, telegram_id, username)
// tuple is tolerated: the unique constraint resolves the race and the
// losing insert is a no-op.
func (r *UserRepository) Create(ctx context.Context, chatID string, telegramID int64, username string) error {
	const query = `
		INSERT INTO users (chat_id, telegram_id, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id, telegram_id, username) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, chatID, telegramID, username); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByKey retrieves a user by the full identity key.
// Returns ErrUserNotFound if no such user exists.
func (r *UserRepository) GetByKey(ctx context.Context, chatID string, telegramID int64, username string) (*model.User, error) {
	const query = `
		SELECT id, chat_id, telegram_id, username, created_at
		FROM users
		WHERE chat_id = $1 AND telegram_id = $2 AND username = $3
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, chatID, telegramID, username).Scan(
		&user.ID,
		&user.ChatID,
		&user.TelegramID,
		&user.Username,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetOrCreate resolves a chat-scoped identity, creating it if absent.
// Returns the user and whether it was newly created. Two handlers
// racing on the same first-time submitter both end up with the same
// row: the duplicate insert is swallowed and both re-read the winner.
func (r *UserRepository) GetOrCreate(ctx context.Context, chatID string, telegramID int64, username string) (*model.User, bool, error) {
	user, err := r.GetByKey(ctx, chatID, telegramID, username)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	if err := r.Create(ctx, chatID, telegramID, username); err != nil {
		return nil, false, err
	}

	user, err = r.GetByKey(ctx, chatID, telegramID, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Error().
				Str("chat_id", chatID).
				Int64("telegram_id", telegramID).
				Msg("User missing after insert")
			return nil, false, fmt.Errorf("chat %s telegram id %d: %w", chatID, telegramID, ErrUserNotResolvable)
		}
		return nil, false, err
	}

	return user, true, nil
}

// ListByChat retrieves all users registered in a chat.
// A chat with no users yields the explicit no-data value.
func (r *UserRepository) ListByChat(ctx context.Context, chatID string) (model.Rows[model.User], error) {
	const query = `
		SELECT id, chat_id, telegram_id, username, created_at
		FROM users
		WHERE chat_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return model.NoRows[model.User](), fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID,
			&user.ChatID,
			&user.TelegramID,
			&user.Username,
			&user.CreatedAt,
		)
		if err != nil {
			return model.NoRows[model.User](), fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return model.NoRows[model.User](), fmt.Errorf("error iterating users: %w", err)
	}

	if len(users) == 0 {
		return model.NoRows[model.User](), nil
	}

	return model.SomeRows(users), nil
}
