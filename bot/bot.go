package bot

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"

	"github.com/Trai60/Reddit-to-Discord-Bot/config"
	"github.com/Trai60/Reddit-to-Discord-Bot/database"
	"github.com/Trai60/Reddit-to-Discord-Bot/publisher"
	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
	"github.com/Trai60/Reddit-to-Discord-Bot/scanner"
	"github.com/Trai60/Reddit-to-Discord-Bot/utils"
)

// Command defines the interface for a bot command.
type Command interface {
	Definition() *discordgo.ApplicationCommand
}

// Bot encapsulates the bot's state: the Discord session, the shared clients
// and the registered commands.
type Bot struct {
	Session   *discordgo.Session
	Commands  map[string]Command
	DB        *sql.DB
	DBPath    string
	Reddit    *reddit.Client
	Publisher *publisher.Publisher
	Scanner   *scanner.Scanner
}

// NewBot creates and initializes a new Bot instance.
func NewBot() (*Bot, error) {
	config.LoadConfig()

	token := viper.GetString("bot.token")
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	dbPath := viper.GetString("database.path")
	db, err := database.InitDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	redditClient, err := reddit.NewClient(&reddit.Config{
		ClientID:          viper.GetString("reddit.client_id"),
		ClientSecret:      viper.GetString("reddit.client_secret"),
		Username:          viper.GetString("reddit.username"),
		Password:          viper.GetString("reddit.password"),
		UserAgent:         viper.GetString("reddit.userAgent"),
		RequestsPerMinute: viper.GetFloat64("reddit.requestsPerMinute"),
		Logger:            slog.Default(),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating reddit client: %w", err)
	}

	pub := publisher.New(dg, db)

	return &Bot{
		Session:   dg,
		Commands:  make(map[string]Command),
		DB:        db,
		DBPath:    dbPath,
		Reddit:    redditClient,
		Publisher: pub,
		Scanner:   scanner.New(dg, db, redditClient, pub),
	}, nil
}

// RegisterCommands registers the provided commands.
func (b *Bot) RegisterCommands(commands []Command) {
	for _, cmd := range commands {
		b.Commands[cmd.Definition().Name] = cmd
	}
}

// Start opens the bot's session and registers handlers.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	// Authenticate against Reddit before going online so credential
	// problems surface at startup instead of on the first cycle.
	if err := b.Reddit.Connect(context.Background()); err != nil {
		return fmt.Errorf("error connecting to reddit: %w", err)
	}

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	utils.InitLogger(b.Session)

	// Register slash commands
	for _, cmd := range b.Commands {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", cmd.Definition())
		if err != nil {
			log.Printf("Cannot create '%v' command: %v", cmd.Definition().Name, err)
		}
	}

	startScheduler(b.Scanner)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully closes the bot's session.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	if b.DB != nil {
		b.DB.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), commands []Command) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	bot.RegisterCommands(commands)

	if err := bot.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
