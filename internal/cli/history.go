package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/snufulufugus/internal/history"
)

// Execute implements the go-flags Commander interface for HistoryCommand.
func (c *HistoryCommand) Execute(args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(s)
}

func (c *HistoryCommand) executeWithSession(s *session) error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	switch history.EntryType(c.Type) {
	case "", history.TypeActivation, history.TypeVisit, history.TypeIntercept:
	default:
		return fmt.Errorf("invalid --type %q (use activation, visit, or intercept)", c.Type)
	}

	if c.Persona == "" {
		return c.printActivations(s.ctrl.RecentActivations(c.Limit))
	}

	entries := s.ctrl.History(c.Persona)
	if c.Type != "" {
		entries = history.Filter(entries, history.EntryType(c.Type))
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}

	if wantJSON(c.globals) {
		if entries == nil {
			entries = []history.Entry{}
		}
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Printf("No activity recorded for %s.\n", c.Persona)
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-10s  %s\n", e.Timestamp.Local().Format(time.DateTime), e.Type, e.Details)
	}
	return nil
}

func (c *HistoryCommand) printActivations(acts []history.PersonaActivation) error {
	if wantJSON(c.globals) {
		if acts == nil {
			acts = []history.PersonaActivation{}
		}
		return printJSON(acts)
	}

	if len(acts) == 0 {
		fmt.Println("No activations recorded.")
		return nil
	}
	fmt.Println("Recent activations:")
	for _, a := range acts {
		fmt.Printf("  %s  %s\n", a.Timestamp.Local().Format(time.DateTime), a.PersonaID)
	}
	return nil
}
