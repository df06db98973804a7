// Package cli provides the command-line interface for flowpilot.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/flowpilot-dev/flowpilot/pkg/config"
	"github.com/flowpilot-dev/flowpilot/pkg/logger"
	"github.com/flowpilot-dev/flowpilot/pkg/state"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Usage:   "Path to config.yaml (default: search current directory)",
		EnvVars: []string{"FLOWPILOT_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "engine-url",
		Usage:   "Base URL of the execution engine",
		EnvVars: []string{"FLOWPILOT_ENGINE_URL"},
	},
	&cli.StringFlag{
		Name:    "state",
		Usage:   "Path to the persisted workflow file",
		EnvVars: []string{"FLOWPILOT_STATE"},
	},
	&cli.BoolFlag{
		Name:    "debug",
		Usage:   "Enable debug logging",
		EnvVars: []string{"FLOWPILOT_DEBUG"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to a file instead of stderr",
		EnvVars: []string{"FLOWPILOT_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Answer yes to confirmation prompts",
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "flowpilot",
		Usage:   "Compose, validate and run browser automation workflows",
		Version: Version,
		Description: `Flowpilot edits workflow steps locally and runs them against an
execution engine, streaming progress as it happens.

Examples:
  flowpilot steps add goto --set url=https://example.com
  flowpilot validate
  flowpilot stream
  flowpilot pick --step 1 --field selector --url https://example.com`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			stepsCommand,
			templateCommand,
			validateCommand,
			previewCommand,
			runCommand,
			streamCommand,
			pickCommand,
			simulateCommand,
		},
		Before: setup,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) error {
	return logger.Init(c.String("log-file"), c.Bool("debug"))
}

// loadConfig resolves the effective configuration with flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, err
	}
	if v := c.String("engine-url"); v != "" {
		cfg.EngineURL = v
	}
	if v := c.String("state"); v != "" {
		cfg.StatePath = v
	}
	return cfg, nil
}

// openStore returns the state store for the effective configuration.
func openStore(c *cli.Context) (*state.Store, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	return state.NewStore(cfg.StatePath), cfg, nil
}

// confirm asks the user before a destructive action. The --yes flag skips
// the prompt.
func confirm(c *cli.Context, prompt string) bool {
	if c.Bool("yes") {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}
