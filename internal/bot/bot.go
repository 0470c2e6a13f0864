// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-run-bot/internal/config"
	"telegram-run-bot/internal/handler"
	"telegram-run-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot           *tele.Bot
	cfg           *config.Config
	ledgerHandler *handler.LedgerHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config        *config.Config
	LedgerService *service.LedgerService
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:           teleBot,
		cfg:           deps.Config,
		ledgerHandler: handler.NewLedgerHandler(deps.LedgerService, deps.Config.Runs.MaxListLimit),
	}

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(WhitelistMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
	b.bot.Use(RecoveryMiddleware())
}

// registerHandlers registers all command handlers.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/help", b.ledgerHandler.HandleHelp)
	b.bot.Handle("/start", b.ledgerHandler.HandleHelp)
	b.bot.Handle("/show", b.ledgerHandler.HandleShow)
	b.bot.Handle("/add", b.ledgerHandler.HandleAdd)
	b.bot.Handle("/edit", b.ledgerHandler.HandleEdit)
	b.bot.Handle("/delete", b.ledgerHandler.HandleDelete)
	b.bot.Handle("/tally", b.ledgerHandler.HandleTally)
	b.bot.Handle("/list", b.ledgerHandler.HandleList)
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
