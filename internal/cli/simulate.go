package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/snufulufugus/internal/telemetry"
)

// simulateJSON is the JSON output structure for the simulate command.
type simulateJSON struct {
	Persona   string              `json:"persona"`
	Target    string              `json:"target"`
	Simulated string              `json:"simulated"`
	Events    []telemetry.Event   `json:"events"`
	Score     telemetry.Scorecard `json:"score"`
	Breakdown telemetry.Breakdown `json:"breakdown"`
	Relevant  int                 `json:"relevant_to_target"`
}

// Execute implements the go-flags Commander interface for SimulateCommand.
func (c *SimulateCommand) Execute(args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(ctx, s)
}

// span returns how much virtual time to run.
func (c *SimulateCommand) span(tick time.Duration) (time.Duration, error) {
	if c.Duration != "" {
		return parseDuration(c.Duration)
	}
	if c.Ticks < 0 {
		return 0, fmt.Errorf("--ticks must not be negative")
	}
	return time.Duration(c.Ticks) * tick, nil
}

func (c *SimulateCommand) executeWithSession(ctx context.Context, s *session) error {
	if s.clock == nil {
		return fmt.Errorf("simulate requires a virtual clock")
	}

	d, err := c.span(s.cfg.Engine.TickInterval())
	if err != nil {
		return err
	}

	if c.Persona != "" {
		if _, err := s.ctrl.Activate(ctx, c.Persona); err != nil {
			return err
		}
	}
	if c.URL != "" {
		if err := s.ctrl.Navigate(ctx, c.URL); err != nil {
			return err
		}
	}

	s.ctrl.Start(ctx)
	s.clock.Advance(d)
	s.ctrl.Stop()

	events := s.ctrl.Events()
	host, _ := telemetry.TargetHostname(s.ctrl.Target())
	relevant := telemetry.RelevantTo(events, host)
	score := telemetry.Score(events)

	if wantJSON(c.globals) {
		if events == nil {
			events = []telemetry.Event{}
		}
		return printJSON(simulateJSON{
			Persona:   s.ctrl.ActivePersona().ID,
			Target:    s.ctrl.Target(),
			Simulated: d.String(),
			Events:    events,
			Score:     score,
			Breakdown: telemetry.BreakdownOf(events),
			Relevant:  len(relevant),
		})
	}

	fmt.Printf("Simulated %s as %s on %s\n\n", formatDurationHuman(d), s.ctrl.ActivePersona().Name, s.ctrl.Target())
	// Oldest first reads like a log.
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		fmt.Printf("%-6s %-24s %-26s %s\n", ev.Risk, truncate(ev.Origin, 24), truncate(ev.Query, 26), truncate(ev.SpoofedValue, 40))
	}
	if len(events) > 0 {
		fmt.Println()
	}

	b := telemetry.BreakdownOf(events)
	fmt.Printf("Intercepted:   %d (%d high, %d medium, %d low)\n", b.Total, b.High, b.Medium, b.Low)
	fmt.Printf("From target:   %d\n", len(relevant))
	fmt.Printf("Privacy score: %d/100 (%s, last %d events)\n", score.Score, score.Band, score.Window)
	return nil
}
