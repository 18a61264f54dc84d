package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/snufulufugus/internal/app"
	"github.com/runnerr0/snufulufugus/internal/config"
	"github.com/runnerr0/snufulufugus/internal/observability"
	"github.com/runnerr0/snufulufugus/internal/schedule"
	"github.com/runnerr0/snufulufugus/internal/storage"
)

// session bundles everything a command needs. clock is set for one-shot
// commands, which run the engine on virtual time.
type session struct {
	cfg    *config.Config
	kv     storage.KV
	ctrl   *app.Controller
	logger *zap.Logger
	clock  *schedule.Manual
}

func (s *session) Close() {
	s.ctrl.Stop()
	if err := s.kv.Close(); err != nil {
		s.logger.Warn("close storage", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// loadConfig reads --config when given, otherwise the default config file,
// creating it on first use.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		path, err := config.ExpandPath(globals.Config)
		if err != nil {
			return nil, err
		}
		return config.Load(path)
	}
	return config.LoadOrCreate()
}

func newLogger(cfg *config.Config, globals *GlobalFlags) *zap.Logger {
	logCfg := cfg.Logging
	if globals != nil && globals.Verbose {
		logCfg.Level = "debug"
	}
	return observability.NewLogger(logCfg)
}

// openSession loads config, opens storage and builds a Controller. A nil
// sched selects a virtual clock. overrides run after the config is loaded.
func openSession(ctx context.Context, globals *GlobalFlags, sched schedule.Scheduler, overrides ...func(*config.Config)) (*session, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	logger := newLogger(cfg, globals)

	kv, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	s, err := newSession(ctx, cfg, kv, logger, sched, app.Options{})
	if err != nil {
		kv.Close()
		return nil, err
	}
	return s, nil
}

// newSession wires a Controller over an already opened store. opts supplies
// test doubles; its Scheduler, Logger and Now are set here.
func newSession(ctx context.Context, cfg *config.Config, kv storage.KV, logger *zap.Logger, sched schedule.Scheduler, opts app.Options) (*session, error) {
	s := &session{cfg: cfg, kv: kv, logger: logger}

	if sched == nil {
		s.clock = schedule.NewManual()
		sched = s.clock
		base := time.Now()
		clock := s.clock
		opts.Now = func() time.Time { return base.Add(clock.Now()) }
	}
	opts.Scheduler = sched
	opts.Logger = logger

	ctrl, err := app.New(ctx, cfg, kv, opts)
	if err != nil {
		return nil, fmt.Errorf("create controller: %w", err)
	}
	s.ctrl = ctrl
	return s, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func wantJSON(globals *GlobalFlags) bool {
	return globals != nil && globals.JSON
}

// parseDuration parses a human-friendly duration string like "90s", "5m", "2h", "1d".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration: empty string")
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]

	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 's':
		return time.Duration(n) * time.Second, nil
	default:
		return 0, fmt.Errorf("invalid duration: %q (use d, h, m, or s suffix)", s)
	}
}

// formatDurationHuman formats a duration into a human-readable string like "3 seconds".
func formatDurationHuman(d time.Duration) string {
	if hours := int(d.Hours()); hours > 0 && d%time.Hour == 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	if mins := int(d.Minutes()); mins > 0 && d%time.Minute == 0 {
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	if secs := int(d.Seconds()); secs > 0 && d%time.Second == 0 {
		if secs == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}
	return d.String()
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
