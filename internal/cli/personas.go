package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/runnerr0/snufulufugus/internal/persona"
)

// Execute implements the go-flags Commander interface for PersonasCommand.
func (c *PersonasCommand) Execute(args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(ctx, s)
}

func (c *PersonasCommand) executeWithSession(ctx context.Context, s *session) error {
	if c.Generate {
		p, err := s.ctrl.GeneratePersona(ctx)
		if err != nil {
			return err
		}
		if wantJSON(c.globals) {
			return printJSON(p)
		}
		fmt.Printf("Generated persona %s: %s (%s, %s)\n", p.ID, p.Name, p.Occupation, p.Region)
		return nil
	}

	if c.Export != "" {
		return c.export(s.ctrl.Personas())
	}

	personas := s.ctrl.Personas()
	active := s.ctrl.ActivePersona().ID
	if wantJSON(c.globals) {
		return printJSON(personas)
	}

	for _, p := range personas {
		marker := " "
		if p.ID == active {
			marker = "*"
		}
		origin := ""
		if p.IsGenerated {
			origin = " [generated]"
		}
		fmt.Printf("%s %-42s %-22s %s%s\n", marker, p.ID, truncate(p.Name, 22), p.Region, origin)
	}
	return nil
}

func (c *PersonasCommand) export(personas []persona.Persona) error {
	var w io.Writer = os.Stdout
	if c.Export != "-" {
		f, err := os.Create(c.Export)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := persona.WriteCSV(w, personas); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if c.Export != "-" {
		fmt.Printf("Exported %d personas to %s\n", len(personas), c.Export)
	}
	return nil
}
