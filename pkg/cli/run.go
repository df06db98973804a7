package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/flowpilot-dev/flowpilot/pkg/config"
	"github.com/flowpilot-dev/flowpilot/pkg/core"
	"github.com/flowpilot-dev/flowpilot/pkg/engine"
	"github.com/flowpilot-dev/flowpilot/pkg/executor"
	"github.com/flowpilot-dev/flowpilot/pkg/report"
)

var runFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:  "data",
		Usage: "User data for {{key}} interpolation (key=value)",
	},
	&cli.StringFlag{
		Name:  "instructions",
		Usage: "Run from natural-language instructions instead of the saved steps",
	},
	&cli.StringFlag{
		Name:  "html",
		Usage: "Also write an HTML report to the given path",
	},
}

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "Run the workflow and wait for the full report",
	Flags:  runFlags,
	Action: runWorkflow,
}

var streamCommand = &cli.Command{
	Name:   "stream",
	Usage:  "Run the workflow, streaming progress as it happens",
	Flags:  runFlags,
	Action: streamWorkflow,
}

func runWorkflow(c *cli.Context) error {
	store, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	userData, err := collectUserData(c, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	ctrl := executor.NewSyncController(engine.NewClient(cfg.EngineURL), executor.Callbacks{
		OnStatus: func(msg string) { fmt.Println(msg) },
	})

	var res *engine.RunResult
	if instructions := c.String("instructions"); instructions != "" {
		res, err = ctrl.Run(ctx, instructions, userData)
	} else {
		res, err = ctrl.RunSteps(ctx, store.Load(), userData)
	}
	if err != nil {
		return err
	}

	return finishReport(c, &res.Report)
}

func streamWorkflow(c *cli.Context) error {
	store, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	userData, err := collectUserData(c, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	var final core.Report
	ctrl := executor.NewStreamController(engine.NewClient(cfg.EngineURL), executor.Callbacks{
		OnStatus: func(msg string) { fmt.Println(msg) },
		OnWorkflowParsed: func(ev engine.WorkflowParsedEvent) {
			fmt.Printf("Workflow %s: %d steps\n", ev.WorkflowID, ev.StepCount)
			final.WorkflowID = ev.WorkflowID
		},
		OnStepStart: func(ev engine.StepStartEvent) {
			fmt.Printf("[%d/%d] %s...\n", ev.StepNumber+1, ev.TotalSteps, ev.Action)
		},
		OnStepComplete: func(step core.StepReport) {
			marker := "✓"
			if step.Status != core.StatusSuccess {
				marker = "✗"
			}
			fmt.Printf("  %s %s (%dms)\n", marker, step.Action, step.DurationMs)
			if step.Error != "" {
				fmt.Printf("    %s\n", step.Error)
			}
		},
		OnComplete: func(ev engine.WorkflowCompleteEvent) {
			final.Success = ev.Success
			final.TotalDurationMs = ev.TotalDurationMs
		},
		OnError: func(msg string) {
			fmt.Fprintf(os.Stderr, "stream error: %s\n", msg)
		},
	})

	if instructions := c.String("instructions"); instructions != "" {
		err = ctrl.RunInstructions(ctx, instructions, userData)
	} else {
		err = ctrl.Run(ctx, store.Load(), userData)
	}
	if err != nil {
		return err
	}

	final.Steps = ctrl.Completed()
	return finishReport(c, &final)
}

// finishReport prints the summary, writes the optional HTML report, and
// turns a failed run into a non-zero exit.
func finishReport(c *cli.Context, r *core.Report) error {
	fmt.Println()
	report.WriteSummary(os.Stdout, r)

	if path := c.String("html"); path != "" {
		if err := report.GenerateHTML(r, report.HTMLConfig{OutputPath: path}); err != nil {
			return err
		}
		fmt.Printf("HTML report written to %s\n", path)
	}

	if !r.Success {
		return fmt.Errorf("workflow failed")
	}
	return nil
}

// collectUserData merges config userData with --data flag pairs, the flag
// winning on conflicts.
func collectUserData(c *cli.Context, cfg *config.Config) (map[string]string, error) {
	data := make(map[string]string, len(cfg.UserData))
	for k, v := range cfg.UserData {
		data[k] = v
	}
	for _, kv := range c.StringSlice("data") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid user data %q (want key=value)", kv)
		}
		data[k] = v
	}
	return data, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
