package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/flowpilot-dev/flowpilot/pkg/logger"
	"github.com/flowpilot-dev/flowpilot/pkg/simulator"
)

var simulateCommand = &cli.Command{
	Name:  "simulate",
	Usage: "Serve a local engine that simulates workflow execution",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Listen address",
			Value: "localhost:8000",
		},
	},
	Action: runSimulate,
}

func runSimulate(c *cli.Context) error {
	addr := c.String("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           simulator.NewServer(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("simulated engine listening on %s", addr)
	fmt.Printf("Simulated engine listening on http://%s\n", addr)
	fmt.Println("Point flowpilot at it with --engine-url or engineURL in config.yaml.")
	return srv.ListenAndServe()
}
