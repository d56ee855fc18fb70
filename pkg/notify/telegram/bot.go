package telegram

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mklimuk/digest-pilot/pkg/db"
	"github.com/mklimuk/digest-pilot/pkg/notify"
)

// RunNowFunc triggers an immediate digest run and returns the created
// page URL.
type RunNowFunc func() (string, error)

// Bot wraps the Telegram bot API and dependencies
type Bot struct {
	API    *tgbotapi.BotAPI
	ChatID int64
	Repo   *db.Repository
	RunNow RunNowFunc
	stopCh chan struct{}
}

// NewBot creates a new Telegram bot
func NewBot(token string, chatID int64, repo *db.Repository, runNow RunNowFunc) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating Telegram bot: %w", err)
	}

	return &Bot{
		API:    api,
		ChatID: chatID,
		Repo:   repo,
		RunNow: runNow,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins polling for updates in a goroutine
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.API.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-b.stopCh:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil {
					b.handleMessage(update.Message)
				}
			}
		}
	}()

	return nil
}

// Stop stops polling for updates
func (b *Bot) Stop() {
	close(b.stopCh)
	b.API.StopReceivingUpdates()
}

// Announce pushes a digest notification to the configured chat.
func (b *Bot) Announce(title, pageURL, content string) error {
	msg := tgbotapi.NewMessage(b.ChatID, notify.FormatAnnouncement(title, pageURL, content))
	if _, err := b.API.Send(msg); err != nil {
		return fmt.Errorf("failed to send Telegram announcement: %w", err)
	}
	return nil
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	switch ParseCommand(msg.Text) {
	case "/digest":
		b.handleDigest(msg)
	case "/status":
		b.handleStatus(msg)
	}
}

func (b *Bot) handleDigest(msg *tgbotapi.Message) {
	b.reply(msg, "Generating digest...")
	go func() {
		pageURL, err := b.RunNow()
		if err != nil {
			b.reply(msg, fmt.Sprintf("Digest failed: %v", err))
			return
		}
		b.reply(msg, "Digest published: "+pageURL)
	}()
}

func (b *Bot) handleStatus(msg *tgbotapi.Message) {
	runs, err := b.Repo.ListRuns(1)
	if err != nil || len(runs) == 0 {
		b.reply(msg, "Digest Pilot is online. No runs recorded yet.")
		return
	}
	b.reply(msg, notify.FormatRunStatus(runs[0]))
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := b.API.Send(reply); err != nil {
		log.Printf("Failed to send Telegram reply: %v", err)
	}
}

// ParseCommand extracts the command from a message text. Returns ""
// for anything that is not a known command.
func ParseCommand(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case text == "/digest" || strings.HasPrefix(text, "/digest@"):
		return "/digest"
	case text == "/status" || strings.HasPrefix(text, "/status@"):
		return "/status"
	default:
		return ""
	}
}
