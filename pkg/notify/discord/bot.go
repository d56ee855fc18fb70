package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mklimuk/digest-pilot/pkg/db"
	"github.com/mklimuk/digest-pilot/pkg/notify"
)

// RunNowFunc triggers an immediate digest run and returns the created
// page URL.
type RunNowFunc func() (string, error)

// Bot wraps the Discord session and dependencies
type Bot struct {
	Session   *discordgo.Session
	ChannelID string
	Repo      *db.Repository
	RunNow    RunNowFunc
}

// NewBot creates a new Discord bot
func NewBot(token, channelID string, repo *db.Repository, runNow RunNowFunc) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	bot := &Bot{
		Session:   dg,
		ChannelID: channelID,
		Repo:      repo,
		RunNow:    runNow,
	}

	dg.AddHandler(bot.messageCreate)

	return bot, nil
}

// Start opens the websocket connection
func (b *Bot) Start() error {
	return b.Session.Open()
}

// Stop closes the websocket connection
func (b *Bot) Stop() error {
	return b.Session.Close()
}

// Announce pushes a digest notification to the configured channel.
func (b *Bot) Announce(title, pageURL, content string) error {
	msg := notify.FormatAnnouncement(title, pageURL, content)
	if _, err := b.Session.ChannelMessageSend(b.ChannelID, msg); err != nil {
		return fmt.Errorf("failed to send Discord announcement: %w", err)
	}
	return nil
}

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore messages from self
	if m.Author.ID == s.State.User.ID {
		return
	}

	switch strings.TrimSpace(m.Content) {
	case "!digest":
		b.handleDigest(s, m)
	case "!status":
		b.handleStatus(s, m)
	}
}

func (b *Bot) handleDigest(s *discordgo.Session, m *discordgo.MessageCreate) {
	s.ChannelMessageSend(m.ChannelID, "Generating digest...")
	go func() {
		pageURL, err := b.RunNow()
		if err != nil {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Digest failed: %v", err))
			return
		}
		s.ChannelMessageSend(m.ChannelID, "Digest published: "+pageURL)
	}()
}

func (b *Bot) handleStatus(s *discordgo.Session, m *discordgo.MessageCreate) {
	runs, err := b.Repo.ListRuns(1)
	if err != nil || len(runs) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Digest Pilot is online. No runs recorded yet.")
		return
	}
	s.ChannelMessageSend(m.ChannelID, notify.FormatRunStatus(runs[0]))
}
