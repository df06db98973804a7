package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/flowpilot-dev/flowpilot/pkg/flow"
	"github.com/flowpilot-dev/flowpilot/pkg/validator"
)

var validateCommand = &cli.Command{
	Name:   "validate",
	Usage:  "Validate the current steps",
	Action: runValidate,
}

var previewCommand = &cli.Command{
	Name:   "preview",
	Usage:  "Print the execution payload as JSON",
	Action: runPreview,
}

func runValidate(c *cli.Context) error {
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()
	steps := col.Steps()
	if len(steps) == 0 {
		return fmt.Errorf("workflow has no steps")
	}

	results := validator.ValidateAll(steps)
	if len(results) == 0 {
		fmt.Printf("All %d steps valid.\n", len(steps))
		return nil
	}
	for i, s := range steps {
		r, bad := results[i]
		if !bad {
			continue
		}
		if field, msg, ok := validator.FirstError(s, r); ok {
			fmt.Printf("[%d] %s: %s: %s\n", i, s.Kind, field, msg)
		}
	}
	return fmt.Errorf("%d of %d steps invalid", len(results), len(steps))
}

func runPreview(c *cli.Context) error {
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()

	data, err := flow.MarshalExecutionJSON(col)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
