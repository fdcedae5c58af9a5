package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/example/vivalingo/internal/ai"
	"github.com/example/vivalingo/internal/bot"
	"github.com/example/vivalingo/internal/config"
	"github.com/example/vivalingo/internal/content"
	"github.com/example/vivalingo/internal/database"
	"github.com/example/vivalingo/internal/logger"
	"github.com/example/vivalingo/internal/session"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "vivalingo",
		Short: "Advanced Spanish practice bot",
		Long: `vivalingo runs a Telegram bot for advanced Spanish practice.

It schedules vocabulary, grammar and error reviews, keeps a mistake
notebook and offers register, scenario and mission drills. The other
commands work on the same database from the shell.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a TOML config file (default "+config.DefaultPath+" if present)")

	rootCmd.AddCommand(
		newBotCmd(),
		newImportCmd(),
		newExportCmd(),
		newExtractCmd(),
		newCheckCmd(),
		newStatsCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the --config flag and applies the log level
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("failed to set log level: %w", err)
	}
	return cfg, nil
}

func openDB(cmd *cobra.Command) (*config.Config, *sqlx.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			log := logger.New("main")

			catalog, err := content.Load()
			if err != nil {
				return err
			}

			stores := session.Stores{
				Vocab:       database.NewVocabRepository(db, time.Now),
				Mistakes:    database.NewMistakeRepository(db),
				Transcripts: database.NewTranscriptRepository(db, time.Now),
			}

			// Генерация примеров необязательна
			generator, err := ai.New(cfg.AI)
			if errors.Is(err, ai.ErrMissingAPIKey) {
				log.Info("OPENAI_API_KEY is not set, ingested phrases get placeholder examples")
				generator = nil
			} else if err != nil {
				return err
			}

			b, err := bot.New(bot.Deps{
				Config:    cfg,
				Catalog:   catalog,
				Sessions:  session.NewManager(catalog, stores),
				Chats:     database.NewChatRepository(db, time.Now),
				Generator: generator,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("bot started, press Ctrl+C to stop")
			if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("bot stopped successfully")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vivalingo version %s\n", version)
		},
	}
}
