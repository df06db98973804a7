package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/flowpilot-dev/flowpilot/pkg/flow"
	"github.com/flowpilot-dev/flowpilot/pkg/validator"
)

var stepsCommand = &cli.Command{
	Name:  "steps",
	Usage: "Edit the workflow step list",
	Subcommands: []*cli.Command{
		{
			Name:      "add",
			Usage:     "Append a step",
			ArgsUsage: "<kind>",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  "set",
					Usage: "Field values (name=value, or fields.key=value for form mappings)",
				},
			},
			Action: stepsAdd,
		},
		{
			Name:      "set",
			Usage:     "Update fields of a step",
			ArgsUsage: "<index>",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  "set",
					Usage: "Field values (name=value, or fields.key=value for form mappings)",
				},
			},
			Action: stepsSet,
		},
		{
			Name:      "rm",
			Usage:     "Delete a step",
			ArgsUsage: "<index>",
			Action:    stepsRemove,
		},
		{
			Name:      "dup",
			Usage:     "Duplicate a step",
			ArgsUsage: "<index>",
			Action:    stepsDuplicate,
		},
		{
			Name:      "move",
			Usage:     "Move a step to a new position",
			ArgsUsage: "<from> <to>",
			Action:    stepsMove,
		},
		{
			Name:   "list",
			Usage:  "List the steps with validation status",
			Action: stepsList,
		},
		{
			Name:   "clear",
			Usage:  "Remove all steps",
			Action: stepsClear,
		},
		{
			Name:   "kinds",
			Usage:  "List available step kinds",
			Action: stepsKinds,
		},
	},
}

func stepsAdd(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: steps add <kind>")
	}
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()

	index, err := col.Append(flow.Kind(c.Args().First()))
	if err != nil {
		return err
	}
	if err := applyFieldSets(col, index, c.StringSlice("set")); err != nil {
		return err
	}
	if err := store.Save(col); err != nil {
		return err
	}
	fmt.Printf("Added step %d (%s)\n", index, c.Args().First())
	return nil
}

func stepsSet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: steps set <index>")
	}
	index, err := parseIndex(c.Args().First())
	if err != nil {
		return err
	}
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()
	if index >= col.Len() {
		return fmt.Errorf("no step at index %d (have %d)", index, col.Len())
	}

	if err := applyFieldSets(col, index, c.StringSlice("set")); err != nil {
		return err
	}
	return store.Save(col)
}

func stepsRemove(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: steps rm <index>")
	}
	index, err := parseIndex(c.Args().First())
	if err != nil {
		return err
	}
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()
	if index >= col.Len() {
		return fmt.Errorf("no step at index %d (have %d)", index, col.Len())
	}

	col.Delete(index)
	return store.Save(col)
}

func stepsDuplicate(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: steps dup <index>")
	}
	index, err := parseIndex(c.Args().First())
	if err != nil {
		return err
	}
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()
	if index >= col.Len() {
		return fmt.Errorf("no step at index %d (have %d)", index, col.Len())
	}

	col.Duplicate(index)
	return store.Save(col)
}

func stepsMove(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: steps move <from> <to>")
	}
	from, err := parseIndex(c.Args().Get(0))
	if err != nil {
		return err
	}
	to, err := parseIndex(c.Args().Get(1))
	if err != nil {
		return err
	}
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()
	if from >= col.Len() {
		return fmt.Errorf("no step at index %d (have %d)", from, col.Len())
	}

	col.Move(from, to)
	return store.Save(col)
}

func stepsList(c *cli.Context) error {
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()
	steps := col.Steps()
	if len(steps) == 0 {
		fmt.Println("No steps. Add one with: flowpilot steps add <kind>")
		return nil
	}

	results := validator.ValidateAll(steps)
	for i, s := range steps {
		fmt.Printf("[%d] %s%s\n", i, s.Kind, describeStep(s))
		if r, bad := results[i]; bad {
			if field, msg, ok := validator.FirstError(s, r); ok {
				fmt.Printf("      invalid: %s: %s\n", field, msg)
			}
		}
	}
	return nil
}

func stepsClear(c *cli.Context) error {
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()
	if col.Len() == 0 {
		return nil
	}
	if !confirm(c, fmt.Sprintf("Remove all %d steps?", col.Len())) {
		fmt.Println("Aborted.")
		return nil
	}

	col.Clear()
	return store.Save(col)
}

func stepsKinds(c *cli.Context) error {
	for _, kind := range flow.Kinds() {
		schema, err := flow.GetSchema(kind)
		if err != nil {
			continue
		}
		var names []string
		for _, f := range schema.Fields {
			names = append(names, f.Name)
		}
		fmt.Printf("%-12s %s", kind, schema.Title)
		if len(names) > 0 {
			fmt.Printf("  (%s)", strings.Join(names, ", "))
		}
		fmt.Println()
	}
	return nil
}

// applyFieldSets applies name=value pairs to one step. Keys of the form
// fields.key merge into the step's string-map field.
func applyFieldSets(col *flow.Collection, index int, sets []string) error {
	maps := map[string]map[string]string{}

	for _, kv := range sets {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid field assignment %q (want name=value)", kv)
		}
		if field, sub, nested := strings.Cut(name, "."); nested {
			if maps[field] == nil {
				step, ok := col.StepAt(index)
				if !ok {
					return fmt.Errorf("no step at index %d", index)
				}
				maps[field] = step.StringMap(field)
				if maps[field] == nil {
					maps[field] = map[string]string{}
				}
			}
			maps[field][sub] = value
			continue
		}
		if err := col.Update(index, name, value); err != nil {
			return err
		}
	}

	for field, m := range maps {
		if err := col.Update(index, field, m); err != nil {
			return err
		}
	}
	return nil
}

func describeStep(s flow.Step) string {
	schema, err := flow.GetSchema(s.Kind)
	if err != nil {
		return ""
	}
	var parts []string
	for i := range schema.Fields {
		spec := &schema.Fields[i]
		if !s.FieldVisible(spec) {
			continue
		}
		v, present := s.Fields[spec.Name]
		if !present || v == nil || v == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", spec.Name, v))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}

func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid step index %q", arg)
	}
	return n, nil
}
