package cmd

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/paragrep-io/paragrep/adapter"
	"github.com/paragrep-io/paragrep/adapter/redis"
	"github.com/paragrep-io/paragrep/adapter/webhook"
	"github.com/paragrep-io/paragrep/cli/config"
	"github.com/paragrep-io/paragrep/log"
	"github.com/paragrep-io/paragrep/scan"
	"github.com/paragrep-io/paragrep/types"
)

// notifyTimeout bounds the whole notification phase.
const notifyTimeout = 30 * time.Second

// notifyScanCompleted publishes a scan_completed event to every configured
// adapter. Flags override config values. Publish failures are logged as
// warnings and never change the exit code.
func notifyScanCompleted(c *cli.Context, cfg *config.Config, meta *types.ScanMeta, result *scan.Result, logger *log.Logger, now time.Time) {
	adapters := buildAdapters(c, cfg, logger)
	if len(adapters) == 0 {
		return
	}

	event := &adapter.ScanCompletedEvent{
		ContractVersion:   types.Version,
		EventType:         "scan_completed",
		RunID:             meta.RunID,
		File:              meta.File,
		Pattern:           meta.Pattern,
		Workers:           meta.Workers,
		Outcome:           "success",
		Timestamp:         now.Format(time.RFC3339),
		ChunksReleased:    result.Snapshot.ChunksReleased,
		BytesProcessed:    result.Snapshot.BytesProcessed,
		ParagraphsMatched: result.Snapshot.ParagraphsMatched,
		DurationMs:        result.Duration.Milliseconds(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	for _, a := range adapters {
		if err := a.Publish(ctx, event); err != nil {
			logger.Warn("notification failed", map[string]any{"error": err.Error()})
		}
		_ = a.Close()
	}
}

// buildAdapters constructs notification adapters from flags and config.
// A construction failure is logged and skipped; it must not fail the scan.
func buildAdapters(c *cli.Context, cfg *config.Config, logger *log.Logger) []adapter.Adapter {
	var adapters []adapter.Adapter

	webhookURL := c.String("notify-webhook")
	var webhookHeaders map[string]string
	if cfg != nil {
		if webhookURL == "" {
			webhookURL = cfg.Notify.Webhook.URL
		}
		webhookHeaders = cfg.Notify.Webhook.Headers
	}
	if webhookURL != "" {
		a, err := webhook.New(webhook.Config{URL: webhookURL, Headers: webhookHeaders})
		if err != nil {
			logger.Warn("webhook adapter disabled", map[string]any{"error": err.Error()})
		} else {
			adapters = append(adapters, a)
		}
	}

	redisURL := c.String("notify-redis")
	redisChannel := c.String("notify-redis-channel")
	if cfg != nil {
		if redisURL == "" {
			redisURL = cfg.Notify.Redis.URL
		}
		if redisChannel == "" {
			redisChannel = cfg.Notify.Redis.Channel
		}
	}
	if redisURL != "" {
		a, err := redis.New(redis.Config{URL: redisURL, Channel: redisChannel})
		if err != nil {
			logger.Warn("redis adapter disabled", map[string]any{"error": err.Error()})
		} else {
			adapters = append(adapters, a)
		}
	}

	return adapters
}
