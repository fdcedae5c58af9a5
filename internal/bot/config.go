package bot

import (
	"time"

	"github.com/example/vivalingo/internal/config"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Number of due items sent per review command
	ReviewBatchSize int
	// Maximum number of candidate phrases offered after /ingest
	MaxCandidates int
	// Number of lexicon terms offered by /learn
	LearnBatchSize int
	// Time allowed for one example generation call
	GenerateTimeout time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		ReviewBatchSize: 5,
		MaxCandidates:   20,
		LearnBatchSize:  8,
		GenerateTimeout: 15 * time.Second,
	}
}

// FromReviewConfig applies the review settings on top of the defaults
func FromReviewConfig(review config.ReviewConfig) *BotConfig {
	cfg := DefaultConfig()
	if review.BatchSize > 0 {
		cfg.ReviewBatchSize = review.BatchSize
	}
	if review.MaxCandidates > 0 {
		cfg.MaxCandidates = review.MaxCandidates
	}
	return cfg
}
