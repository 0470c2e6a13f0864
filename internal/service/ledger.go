// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"telegram-run-bot/internal/model"
	"telegram-run-bot/internal/repository"
)

// ErrInvalidDistance is returned when a submitted distance is not a
// finite non-negative number. Range validation lives here; the store
// only enforces the schema CHECK as a backstop.
var ErrInvalidDistance = errors.New("distance must be a finite non-negative number")

// LedgerService implements the running ledger: run submission,
// listing, editing, deletion and the chat tally.
type LedgerService struct {
	userRepo *repository.UserRepository
	runRepo  *repository.RunRepository
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(userRepo *repository.UserRepository, runRepo *repository.RunRepository) *LedgerService {
	return &LedgerService{
		userRepo: userRepo,
		runRepo:  runRepo,
	}
}

// SubmitRun records a run for a chat member, registering the member
// first if this is their first submission.
//
// The resolve-then-insert pair is not wrapped in a transaction: if the
// run insert fails, a freshly created user row stays behind. That row
// is harmless (it simply pre-registers the member) and accepted as a
// limitation; each individual statement is still atomic.
func (s *LedgerService) SubmitRun(ctx context.Context, chatID string, telegramID int64, username string, distance float64) (*model.Run, error) {
	if !validDistance(distance) {
		return nil, ErrInvalidDistance
	}

	user, _, err := s.userRepo.GetOrCreate(ctx, chatID, telegramID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	run, err := s.runRepo.Create(ctx, distance, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to submit run: %w", err)
	}

	return run, nil
}

// ListUsers retrieves the chat roster.
func (s *LedgerService) ListUsers(ctx context.Context, chatID string) (model.Rows[model.User], error) {
	return s.userRepo.ListByChat(ctx, chatID)
}

// ListRuns retrieves a chat's most recent runs, newest first, capped
// at limit. The chat's membership is resolved first; a chat with no
// members, or members with no runs, yields the no-data value.
func (s *LedgerService) ListRuns(ctx context.Context, chatID string, limit int) (model.Rows[model.Run], error) {
	users, err := s.userRepo.ListByChat(ctx, chatID)
	if err != nil {
		return model.NoRows[model.Run](), err
	}
	if !users.HasData() {
		return model.NoRows[model.Run](), nil
	}

	runs, err := s.runRepo.ListByOwners(ctx, userIDs(users.Items()), limit)
	if err != nil {
		return model.NoRows[model.Run](), err
	}
	if len(runs) == 0 {
		return model.NoRows[model.Run](), nil
	}

	return model.SomeRows(runs), nil
}

// EditRun updates a run's distance. The update only matches when the
// run is owned by the requesting identity within the requesting chat;
// false means nothing matched and nothing changed.
func (s *LedgerService) EditRun(ctx context.Context, runID int64, distance float64, chatID string, telegramID int64) (bool, error) {
	if !validDistance(distance) {
		return false, ErrInvalidDistance
	}
	return s.runRepo.UpdateDistance(ctx, runID, distance, chatID, telegramID)
}

// DeleteRun removes a run under the same ownership gate as EditRun.
func (s *LedgerService) DeleteRun(ctx context.Context, runID int64, chatID string, telegramID int64) (bool, error) {
	return s.runRepo.Delete(ctx, runID, chatID, telegramID)
}

// Tally aggregates a chat's runs into ranked scores, ordered by total
// distance descending. Position one of the returned slice is first
// place; glyphs are the presenter's concern.
func (s *LedgerService) Tally(ctx context.Context, chatID string) (model.Rows[model.Score], error) {
	users, err := s.userRepo.ListByChat(ctx, chatID)
	if err != nil {
		return model.NoRows[model.Score](), err
	}
	if !users.HasData() {
		return model.NoRows[model.Score](), nil
	}

	scores, err := s.runRepo.TallyByOwners(ctx, userIDs(users.Items()))
	if err != nil {
		return model.NoRows[model.Score](), err
	}
	if len(scores) == 0 {
		return model.NoRows[model.Score](), nil
	}

	return model.SomeRows(scores), nil
}

func userIDs(users []model.User) []int64 {
	ids := make([]int64, len(users))
	for i, user := range users {
		ids[i] = user.ID
	}
	return ids
}

func validDistance(distance float64) bool {
	return !math.IsNaN(distance) && !math.IsInf(distance, 0) && distance >= 0
}
