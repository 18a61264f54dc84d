package cli

import (
	"context"
	"fmt"
	"strings"
)

// Execute implements the go-flags Commander interface for ActivateCommand.
func (c *ActivateCommand) Execute(args []string) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("--id is required")
	}

	ctx := context.Background()
	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(ctx, s)
}

func (c *ActivateCommand) executeWithSession(ctx context.Context, s *session) error {
	p, err := s.ctrl.Activate(ctx, strings.TrimSpace(c.ID))
	if err != nil {
		return err
	}
	if wantJSON(c.globals) {
		return printJSON(p)
	}
	fmt.Printf("Activated %s (%s)\n", p.Name, p.ID)
	return nil
}

// Execute implements the go-flags Commander interface for VisitCommand.
func (c *VisitCommand) Execute(args []string) error {
	if c.URL == "" && len(args) > 0 {
		c.URL = args[0]
	}
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("--url is required")
	}

	ctx := context.Background()
	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(ctx, s)
}

func (c *VisitCommand) executeWithSession(ctx context.Context, s *session) error {
	if err := s.ctrl.Navigate(ctx, strings.TrimSpace(c.URL)); err != nil {
		return err
	}
	if wantJSON(c.globals) {
		return printJSON(map[string]string{
			"persona": s.ctrl.ActivePersona().ID,
			"target":  s.ctrl.Target(),
		})
	}
	fmt.Printf("Now browsing %s as %s\n", s.ctrl.Target(), s.ctrl.ActivePersona().Name)
	return nil
}
