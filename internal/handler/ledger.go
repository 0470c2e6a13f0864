// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-run-bot/internal/service"
)

// Generic failure reply. Store errors never reach the chat; the
// detail stays in the logs.
const msgOperationFailed = "❌ Operation failed, please try again later."

const helpText = `The following commands are supported:

/help - Display this text.
/show - Show users registered within the chat.
/add <distance> - Add a run in km to the ledger.
/edit <run_id> <distance> - Correct the distance of a run you own.
/delete <run_id> - Remove a run you own.
/tally - Show current medals and distances.
/list <num_runs> - List recent runs, newest first.`

// LedgerHandler handles the running ledger commands.
type LedgerHandler struct {
	ledger       *service.LedgerService
	maxListLimit int
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger *service.LedgerService, maxListLimit int) *LedgerHandler {
	return &LedgerHandler{
		ledger:       ledger,
		maxListLimit: maxListLimit,
	}
}

// HandleHelp handles the /help command.
func (h *LedgerHandler) HandleHelp(c tele.Context) error {
	return c.Reply(helpText)
}

// HandleShow handles the /show command. Displays the chat roster.
func (h *LedgerHandler) HandleShow(c tele.Context) error {
	ctx := context.Background()
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	users, err := h.ledger.ListUsers(ctx, chatKey(chat))
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chat.ID).Msg("Failed to list users")
		return c.Reply(msgOperationFailed)
	}

	return c.Reply(formatUsers(users))
}

// HandleAdd handles the /add <distance> command. Registers the sender
// on first use, then records the run.
func (h *LedgerHandler) HandleAdd(c tele.Context) error {
	ctx := context.Background()
	chat, sender := c.Chat(), c.Sender()
	if chat == nil || sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /add <distance>")
	}

	distance, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return c.Reply("Distance must be a number, e.g. /add 5.2")
	}

	username := senderName(sender)
	run, err := h.ledger.SubmitRun(ctx, chatKey(chat), sender.ID, username, distance)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDistance) {
			return c.Reply("Distance must be zero or more kilometers.")
		}
		log.Error().Err(err).
			Int64("chat_id", chat.ID).
			Int64("telegram_id", sender.ID).
			Msg("Failed to add run")
		return c.Reply(msgOperationFailed)
	}

	return c.Reply(fmt.Sprintf("%s ran %vkm added to database.", username, run.Distance))
}

// HandleEdit handles the /edit <run_id> <distance> command. Only the
// run's owner can change it; anything else is a polite no-op.
func (h *LedgerHandler) HandleEdit(c tele.Context) error {
	ctx := context.Background()
	chat, sender := c.Chat(), c.Sender()
	if chat == nil || sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) != 2 {
		return c.Reply("Usage: /edit <run_id> <distance>")
	}

	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Reply("Run id must be a number, e.g. /edit 3 6.0")
	}
	distance, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return c.Reply("Distance must be a number, e.g. /edit 3 6.0")
	}

	matched, err := h.ledger.EditRun(ctx, runID, distance, chatKey(chat), sender.ID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDistance) {
			return c.Reply("Distance must be zero or more kilometers.")
		}
		log.Error().Err(err).
			Int64("chat_id", chat.ID).
			Int64("run_id", runID).
			Msg("Failed to edit run")
		return c.Reply(msgOperationFailed)
	}
	if !matched {
		return c.Reply(fmt.Sprintf("Run %d not found, or it is not yours to edit.", runID))
	}

	return c.Reply(fmt.Sprintf("Run %d successfully updated with distance %vkm.", runID, distance))
}

// HandleDelete handles the /delete <run_id> command.
func (h *LedgerHandler) HandleDelete(c tele.Context) error {
	ctx := context.Background()
	chat, sender := c.Chat(), c.Sender()
	if chat == nil || sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /delete <run_id>")
	}

	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Reply("Run id must be a number, e.g. /delete 3")
	}

	matched, err := h.ledger.DeleteRun(ctx, runID, chatKey(chat), sender.ID)
	if err != nil {
		log.Error().Err(err).
			Int64("chat_id", chat.ID).
			Int64("run_id", runID).
			Msg("Failed to delete run")
		return c.Reply(msgOperationFailed)
	}
	if !matched {
		return c.Reply(fmt.Sprintf("Run %d not found, or it is not yours to delete.", runID))
	}

	return c.Reply(fmt.Sprintf("Run %d successfully deleted!", runID))
}

// HandleTally handles the /tally command.
func (h *LedgerHandler) HandleTally(c tele.Context) error {
	ctx := context.Background()
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	scores, err := h.ledger.Tally(ctx, chatKey(chat))
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chat.ID).Msg("Failed to tally runs")
		return c.Reply(msgOperationFailed)
	}

	return c.Reply(formatTally(scores))
}

// HandleList handles the /list <num_runs> command.
func (h *LedgerHandler) HandleList(c tele.Context) error {
	ctx := context.Background()
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /list <num_runs_to_show>")
	}

	limit, err := strconv.Atoi(args[0])
	if err != nil || limit < 0 {
		return c.Reply("Number of runs must be a non-negative number, e.g. /list 10")
	}
	if limit > h.maxListLimit {
		limit = h.maxListLimit
	}

	runs, err := h.ledger.ListRuns(ctx, chatKey(chat), limit)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chat.ID).Msg("Failed to list runs")
		return c.Reply(msgOperationFailed)
	}

	return c.Reply(formatRuns(runs))
}

// chatKey is the opaque chat identifier stored with every user row.
func chatKey(chat *tele.Chat) string {
	return strconv.FormatInt(chat.ID, 10)
}

// senderName picks the display name a run is filed under. Falls back
// to the first name for accounts without a public username.
func senderName(sender *tele.User) string {
	if sender.Username != "" {
		return sender.Username
	}
	return sender.FirstName
}
