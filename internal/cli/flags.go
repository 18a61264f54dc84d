package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// StatusCommand shows the engine state, storage stats and config summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PersonasCommand lists, generates and exports personas.
type PersonasCommand struct {
	Generate bool   `long:"generate" description:"Generate and save a new random persona"`
	Export   string `long:"export" description:"Write personas as CSV to a file (- for stdout)"`

	globals *GlobalFlags
	version string
}

// ActivateCommand makes a persona active.
type ActivateCommand struct {
	ID string `long:"id" description:"Persona ID (required)"`

	globals *GlobalFlags
	version string
}

// VisitCommand changes the browsing target.
type VisitCommand struct {
	URL string `long:"url" description:"Target URL"`

	globals *GlobalFlags
	version string
}

// HistoryCommand prints a persona's activity log, or the most recent
// activations across personas when no persona is given.
type HistoryCommand struct {
	Persona string `long:"persona" description:"Persona ID"`
	Type    string `long:"type" description:"Filter by entry type: activation | visit | intercept"`
	Limit   int    `long:"limit" description:"Maximum entries" default:"10"`

	globals *GlobalFlags
	version string
}

// SimulateCommand runs the telemetry engine on a virtual clock and reports
// the intercepted queries and the resulting exposure score.
type SimulateCommand struct {
	Ticks    int    `long:"ticks" description:"Number of generator ticks to run" default:"10"`
	Duration string `long:"for" description:"Simulated duration instead of --ticks (e.g., 90s, 5m, 2h)"`
	Persona  string `long:"persona" description:"Persona ID to activate first"`
	URL      string `long:"url" description:"Target URL to browse"`

	globals *GlobalFlags
	version string
}

// AskCommand sends a free-form prompt to the analysis agent.
type AskCommand struct {
	Prompt string `long:"prompt" description:"Prompt text (defaults to the positional arguments)"`

	globals *GlobalFlags
	version string
}

// AgentCommand shows or updates the persisted agent configuration.
type AgentCommand struct {
	Provider string `long:"provider" description:"Agent provider: gemini | custom"`
	Endpoint string `long:"endpoint" description:"Custom agent endpoint"`
	APIKey   string `long:"api-key" description:"Custom agent API key"`

	globals *GlobalFlags
	version string
}

// ServeCommand runs the engine in real time behind the HTTP API.
type ServeCommand struct {
	Host     string `long:"host" description:"Override listen host"`
	Port     int    `long:"port" description:"Override listen port"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}
