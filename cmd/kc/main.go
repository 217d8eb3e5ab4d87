package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/blackwell-systems/keycloak-cli/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
