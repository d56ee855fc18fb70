package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/mklimuk/digest-pilot/pkg/ai"
	"github.com/mklimuk/digest-pilot/pkg/api"
	"github.com/mklimuk/digest-pilot/pkg/archive"
	"github.com/mklimuk/digest-pilot/pkg/automation"
	"github.com/mklimuk/digest-pilot/pkg/db"
	"github.com/mklimuk/digest-pilot/pkg/feeds"
	"github.com/mklimuk/digest-pilot/pkg/notify/discord"
	"github.com/mklimuk/digest-pilot/pkg/notify/telegram"
	"github.com/mklimuk/digest-pilot/pkg/notion"
	"github.com/mklimuk/digest-pilot/pkg/pipeline"
)

func main() {
	sourcesPath := flag.String("sources", "sources.yaml", "Path to feed sources file")
	dbPath := flag.String("db", "digest-pilot.db", "Path to SQLite DB")
	port := flag.String("port", "8080", "HTTP Port")
	aiProvider := flag.String("ai-provider", "gemini", "AI provider: gemini or moonshot")
	archiveDir := flag.String("archive", "", "Directory for local digest archive (optional)")
	scheduleTime := flag.String("schedule-time", "08:00", "Default daily digest time (HH:MM)")
	pollInterval := flag.Duration("poll-interval", 30*time.Second, "Schedule poll interval")
	flag.Parse()

	notionToken := os.Getenv("NOTION_TOKEN")
	if notionToken == "" {
		log.Fatal("NOTION_TOKEN environment variable is required")
	}
	rootPageID := os.Getenv("NOTION_ROOT_PAGE_ID")
	if rootPageID == "" {
		log.Fatal("NOTION_ROOT_PAGE_ID environment variable is required")
	}

	// Initialize DB
	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close()

	if err := database.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}

	repo := db.NewRepository(database)

	// Initialize AI Client
	var aiClient ai.Generator
	switch *aiProvider {
	case "moonshot":
		key := os.Getenv("MOONSHOT_API_KEY")
		if key == "" {
			log.Fatal("MOONSHOT_API_KEY environment variable is required when using moonshot provider")
		}
		aiClient = ai.NewMoonshotClient(key, ai.WithMoonshotModel(os.Getenv("MOONSHOT_MODEL")))
	case "gemini":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			log.Fatal("GEMINI_API_KEY environment variable is required when using gemini provider")
		}
		ctx := context.Background()
		geminiClient, err := ai.NewClient(ctx, key)
		if err != nil {
			log.Fatalf("Failed to create AI client: %v", err)
		}
		defer geminiClient.Close()
		aiClient = geminiClient
	default:
		log.Fatalf("Unknown AI provider: %s", *aiProvider)
	}

	// Load feed sources
	sources, err := feeds.LoadSources(*sourcesPath)
	if err != nil {
		log.Fatalf("Failed to load feed sources: %v", err)
	}
	log.Printf("Loaded %d feed sources", len(sources))

	// Initialize Notion publisher
	resolver := notion.NewResolver(notion.NewClient(notionToken), rootPageID)

	// Initialize Pipeline
	pipe := pipeline.New(sources, feeds.NewFetcher(), repo, aiClient, resolver)
	if *archiveDir != "" {
		pipe.Archive = archive.New(*archiveDir)
		pipe.GitSync = archive.NewGitSync(*archiveDir)
	}

	// Initialize Scheduler
	svc := automation.NewService(repo, *pollInterval, pipe.Run)

	runNow := func() (string, error) {
		return svc.RunNow(context.Background())
	}

	// Initialize Discord Bot (Optional)
	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken != "" {
		channelID := os.Getenv("DISCORD_CHANNEL_ID")
		if channelID == "" {
			log.Fatal("DISCORD_CHANNEL_ID environment variable is required when DISCORD_TOKEN is set")
		}
		bot, err := discord.NewBot(discordToken, channelID, repo, runNow)
		if err != nil {
			log.Printf("Failed to create Discord bot: %v", err)
		} else {
			if err := bot.Start(); err != nil {
				log.Printf("Failed to start Discord bot: %v", err)
			} else {
				log.Println("Discord Bot started")
				defer bot.Stop()
				pipe.Announcers = append(pipe.Announcers, bot)
			}
		}
	}

	// Initialize Telegram Bot (Optional)
	telegramToken := os.Getenv("TELEGRAM_TOKEN")
	if telegramToken != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if err != nil {
			log.Fatal("TELEGRAM_CHAT_ID environment variable must be a chat ID when TELEGRAM_TOKEN is set")
		}
		tgBot, err := telegram.NewBot(telegramToken, chatID, repo, runNow)
		if err != nil {
			log.Printf("Failed to create Telegram bot: %v", err)
		} else {
			if err := tgBot.Start(); err != nil {
				log.Printf("Failed to start Telegram bot: %v", err)
			} else {
				log.Println("Telegram Bot started")
				defer tgBot.Stop()
				pipe.Announcers = append(pipe.Announcers, tgBot)
			}
		}
	}

	// Seed the default schedule on first start.
	sched, err := repo.GetSchedule()
	if err != nil {
		log.Fatalf("Failed to load schedule: %v", err)
	}
	if sched == nil {
		next, err := automation.NextRun("daily", *scheduleTime, "UTC", time.Now().UTC())
		if err != nil {
			log.Fatalf("Invalid -schedule-time: %v", err)
		}
		sched = &db.Schedule{Kind: "daily", Expr: *scheduleTime, Timezone: "UTC", Enabled: true, NextRunAt: next}
		if err := repo.UpsertSchedule(sched); err != nil {
			log.Fatalf("Failed to seed schedule: %v", err)
		}
		log.Printf("Seeded daily digest schedule at %s UTC", *scheduleTime)
	}

	svc.Start()
	defer svc.Stop()

	// Initialize Router
	router := api.NewRouter(repo, svc.RunNow)

	log.Printf("Starting server on :%s", *port)
	if err := http.ListenAndServe(":"+*port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
