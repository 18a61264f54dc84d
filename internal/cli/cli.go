package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Status   *StatusCommand
	Personas *PersonasCommand
	Activate *ActivateCommand
	Visit    *VisitCommand
	History  *HistoryCommand
	Simulate *SimulateCommand
	Ask      *AskCommand
	Agent    *AgentCommand
	Serve    *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "snufulufugus"
	parser.LongDescription = "Persona-driven browser telemetry simulator with fingerprint exposure scoring."

	cmds := &commands{
		Status:   &StatusCommand{globals: &globals, version: version},
		Personas: &PersonasCommand{globals: &globals, version: version},
		Activate: &ActivateCommand{globals: &globals, version: version},
		Visit:    &VisitCommand{globals: &globals, version: version},
		History:  &HistoryCommand{globals: &globals, version: version},
		Simulate: &SimulateCommand{globals: &globals, version: version},
		Ask:      &AskCommand{globals: &globals, version: version},
		Agent:    &AgentCommand{globals: &globals, version: version},
		Serve:    &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("status", "Show engine state and storage statistics", "Show the active persona, target, exposure score, and storage statistics.", cmds.Status)
	parser.AddCommand("personas", "List, generate, or export personas", "List personas, generate a new random persona, or export all personas as CSV.", cmds.Personas)
	parser.AddCommand("activate", "Activate a persona", "Make the persona with the given ID active and record the activation.", cmds.Activate)
	parser.AddCommand("visit", "Browse to a target URL", "Change the browsing target and record the visit for the active persona.", cmds.Visit)
	parser.AddCommand("history", "Show persona activity", "Show a persona's activity log, or recent activations across all personas.", cmds.History)
	parser.AddCommand("simulate", "Run the telemetry engine offline", "Run the telemetry engine on a virtual clock and print intercepted queries and the exposure score.", cmds.Simulate)
	parser.AddCommand("ask", "Query the analysis agent", "Send a free-form prompt to the configured analysis agent.", cmds.Ask)
	parser.AddCommand("agent", "Show or update agent settings", "Show or update the persisted analysis agent configuration.", cmds.Agent)
	parser.AddCommand("serve", "Run the engine behind the HTTP API", "Run the telemetry engine in real time and serve the HTTP and websocket API.", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point for the CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("snufulufugus %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
