package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/flowpilot-dev/flowpilot/pkg/flow"
	"github.com/flowpilot-dev/flowpilot/pkg/picker"
)

var pickCommand = &cli.Command{
	Name:  "pick",
	Usage: "Capture a page and pick an element selector for a step field",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:     "step",
			Usage:    "Index of the step receiving the selector",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "field",
			Usage: "Field name receiving the selector",
			Value: "selector",
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "Page to capture (default: the URL of the nearest preceding goto step)",
		},
		&cli.StringFlag{
			Name:  "select",
			Usage: "Pick this selector directly instead of listing candidates",
		},
		&cli.StringFlag{
			Name:  "scroll",
			Usage: "Scroll before listing (down, up, down:800, ...)",
		},
	},
	Action: runPick,
}

func runPick(c *cli.Context) error {
	store, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	col := store.Load()

	index := c.Int("step")
	if index < 0 || index >= col.Len() {
		return fmt.Errorf("no step at index %d (have %d)", index, col.Len())
	}

	url := c.String("url")
	if url == "" {
		url = precedingURL(col, index)
	}
	if url == "" {
		return fmt.Errorf("no --url given and no goto step precedes step %d", index)
	}

	var backend picker.Backend
	if cfg.PickerURL != "" && !cfg.LocalPicker {
		backend = picker.NewHTTPBackend(cfg.PickerURL)
	} else {
		backend = picker.NewLocalBackend(cfg.Viewport.Width, cfg.Viewport.Height)
	}

	p := picker.New(col, backend)
	p.OpenSession(index, c.String("field"), picker.ReplaceAndClose)
	defer p.CloseSession(c.Context)

	capture, err := p.LoadPage(c.Context, url)
	if err != nil {
		return err
	}

	if dir, amount, ok := parseScroll(c.String("scroll")); ok {
		capture, err = p.Scroll(c.Context, dir, amount)
		if err != nil {
			return err
		}
	}

	if selector := c.String("select"); selector != "" {
		if err := p.SelectElement(c.Context, selector); err != nil {
			return err
		}
		if err := store.Save(col); err != nil {
			return err
		}
		fmt.Printf("Step %d: %s = %s\n", index, c.String("field"), selector)
		return nil
	}

	if len(capture.Elements) == 0 {
		fmt.Println("No clickable elements found.")
		return nil
	}
	fmt.Printf("%d elements on %s (viewport %.0fx%.0f):\n",
		len(capture.Elements), url, capture.ViewportSize.Width, capture.ViewportSize.Height)
	for _, el := range capture.Elements {
		label := el.Text
		if label == "" {
			label = el.Placeholder
		}
		fmt.Printf("  %-40s <%s> %s\n", el.Selector, el.Tag, label)
	}
	fmt.Println("\nRe-run with --select <selector> to pick one.")
	return nil
}

// precedingURL returns the url of the nearest goto step at or before index.
func precedingURL(col *flow.Collection, index int) string {
	for i := index; i >= 0; i-- {
		step, ok := col.StepAt(i)
		if ok && step.Kind == flow.StepGoto {
			return step.String("url")
		}
	}
	return ""
}

func parseScroll(arg string) (direction string, amount int, ok bool) {
	if arg == "" {
		return "", 0, false
	}
	direction, rest, found := strings.Cut(arg, ":")
	amount = 500
	if found {
		fmt.Sscanf(rest, "%d", &amount)
	}
	return direction, amount, true
}
