package main

import "github.com/flowpilot-dev/flowpilot/pkg/cli"

func main() {
	cli.Execute()
}
