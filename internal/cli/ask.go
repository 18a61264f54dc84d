package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/snufulufugus/internal/agent"
)

// Execute implements the go-flags Commander interface for AskCommand.
func (c *AskCommand) Execute(args []string) error {
	if c.Prompt == "" {
		c.Prompt = strings.Join(args, " ")
	}
	if strings.TrimSpace(c.Prompt) == "" {
		return fmt.Errorf("a prompt is required")
	}

	ctx := context.Background()
	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(ctx, s)
}

func (c *AskCommand) executeWithSession(ctx context.Context, s *session) error {
	report := s.ctrl.AskAgent(ctx, c.Prompt)
	if wantJSON(c.globals) {
		return printJSON(map[string]string{"report": report})
	}
	fmt.Println(report)
	return nil
}

// Execute implements the go-flags Commander interface for AgentCommand.
func (c *AgentCommand) Execute(args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(ctx, s)
}

func (c *AgentCommand) executeWithSession(ctx context.Context, s *session) error {
	cfg := s.ctrl.AgentConfig()
	if c.Provider != "" || c.Endpoint != "" || c.APIKey != "" {
		if c.Provider != "" {
			cfg.Provider = c.Provider
		}
		if c.Endpoint != "" {
			cfg.Endpoint = c.Endpoint
		}
		if c.APIKey != "" {
			cfg.APIKey = c.APIKey
		}
		if err := s.ctrl.SaveAgentConfig(ctx, cfg); err != nil {
			return err
		}
	}

	masked := cfg
	if masked.APIKey != "" {
		masked.APIKey = "********"
	}
	if wantJSON(c.globals) {
		return printJSON(masked)
	}

	fmt.Printf("Provider:      %s\n", masked.Provider)
	if masked.Provider == agent.ProviderCustom {
		fmt.Printf("Endpoint:      %s\n", masked.Endpoint)
		fmt.Printf("API key:       %s\n", masked.APIKey)
	}
	return nil
}
