package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/flowpilot-dev/flowpilot/pkg/flow"
)

var templateCommand = &cli.Command{
	Name:  "template",
	Usage: "List and load workflow presets",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List built-in templates",
			Action: templateList,
		},
		{
			Name:      "load",
			Usage:     "Replace the current steps with a template",
			ArgsUsage: "<name>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "file",
					Usage: "Load a template from a YAML file instead of a built-in",
				},
			},
			Action: templateLoad,
		},
	},
}

func templateList(c *cli.Context) error {
	for _, t := range flow.BuiltinTemplates() {
		fmt.Printf("%-16s %s (%d steps)\n", t.Name, t.Description, len(t.Steps))
	}
	return nil
}

func templateLoad(c *cli.Context) error {
	var tmpl *flow.Template
	if path := c.String("file"); path != "" {
		t, err := flow.LoadTemplateFile(path)
		if err != nil {
			return err
		}
		tmpl = t
	} else {
		if c.NArg() != 1 {
			return fmt.Errorf("usage: template load <name> (or --file <path>)")
		}
		t, ok := flow.FindTemplate(c.Args().First())
		if !ok {
			return fmt.Errorf("unknown template %q (see: flowpilot template list)", c.Args().First())
		}
		tmpl = t
	}

	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()
	if col.Len() > 0 {
		if !confirm(c, fmt.Sprintf("Replace the current %d steps with %q?", col.Len(), tmpl.Name)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	col.LoadTemplate(tmpl.Steps)
	if err := store.Save(col); err != nil {
		return err
	}
	fmt.Printf("Loaded %q (%d steps)\n", tmpl.Name, len(tmpl.Steps))
	return nil
}
