package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/runnerr0/snufulufugus/internal/app"
	"github.com/runnerr0/snufulufugus/internal/storage"
	"github.com/runnerr0/snufulufugus/internal/telemetry"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version      string              `json:"version"`
	Backend      string              `json:"backend"`
	StoredKeys   int64               `json:"stored_keys"`
	StoredBytes  int64               `json:"stored_bytes"`
	LastUpdated  string              `json:"last_updated,omitempty"`
	Installed    bool                `json:"installed"`
	Persona      string              `json:"persona"`
	PersonaName  string              `json:"persona_name"`
	Personas     int                 `json:"personas"`
	Target       string              `json:"target"`
	TickInterval string              `json:"tick_interval"`
	Score        telemetry.Scorecard `json:"score"`
	Toggles      app.Toggles         `json:"toggles"`
	Agent        string              `json:"agent_provider"`
	ServeRunning bool                `json:"serve_running"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(ctx, s)
}

// executeWithSession runs status against a provided session (for testing).
func (c *StatusCommand) executeWithSession(ctx context.Context, s *session) error {
	stats, err := s.kv.Stats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	st := s.ctrl.Status()
	running := checkServe(fmt.Sprintf("http://%s:%d/health", s.cfg.Server.Host, s.cfg.Server.Port))

	if wantJSON(c.globals) {
		return c.printStatusJSON(s, stats, st, running)
	}
	return c.printStatusHuman(s, stats, st, running)
}

func (c *StatusCommand) printStatusHuman(s *session, stats *storage.Stats, st app.Status, running bool) error {
	fmt.Println("Snufulufugus Status")
	fmt.Println("===================")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Storage:       %s (%d keys, %s)\n", stats.Backend, stats.TotalKeys, formatBytes(stats.TotalBytes))
	if !stats.LastUpdated.IsZero() {
		fmt.Printf("Last write:    %s\n", stats.LastUpdated.Local().Format("2006-01-02 15:04"))
	}
	if !st.Installed {
		fmt.Println("Setup:         not completed")
	}

	fmt.Println()
	fmt.Printf("Persona:       %s (%s)\n", st.PersonaName, st.ActivePersona)
	fmt.Printf("Personas:      %d\n", st.Personas)
	fmt.Printf("Target:        %s\n", st.Target)
	fmt.Printf("Tick:          every %s\n", formatDurationHuman(s.cfg.Engine.TickInterval()))
	fmt.Printf("VPN region:    %s\n", st.Toggles.VPNRegion)
	fmt.Printf("Agent:         %s\n", s.ctrl.AgentConfig().Provider)

	fmt.Println()
	if running {
		fmt.Println("Server:        running")
	} else {
		fmt.Println("Server:        not running")
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(s *session, stats *storage.Stats, st app.Status, running bool) error {
	out := statusJSON{
		Version:      c.version,
		Backend:      stats.Backend,
		StoredKeys:   stats.TotalKeys,
		StoredBytes:  stats.TotalBytes,
		Installed:    st.Installed,
		Persona:      st.ActivePersona,
		PersonaName:  st.PersonaName,
		Personas:     st.Personas,
		Target:       st.Target,
		TickInterval: s.cfg.Engine.TickInterval().String(),
		Score:        st.Score,
		Toggles:      st.Toggles,
		Agent:        s.ctrl.AgentConfig().Provider,
		ServeRunning: running,
	}
	if !stats.LastUpdated.IsZero() {
		out.LastUpdated = stats.LastUpdated.UTC().Format(time.RFC3339)
	}
	return printJSON(out)
}

// checkServe reports whether a serve process answers the health check
// within one second.
func checkServe(url string) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
