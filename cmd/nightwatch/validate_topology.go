package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flux690/nightwatch/internal/topology"
	"github.com/flux690/nightwatch/internal/validator"
)

var validateTopologyCmd = &cobra.Command{
	Use:   "validate-topology [commands...]",
	Short: "Load a topology file and optionally check commands against it",
	RunE:  runValidateTopology,
}

func runValidateTopology(cmd *cobra.Command, args []string) error {
	known, err := topology.Load(topologyFile)
	if err != nil {
		return fmt.Errorf("loading topology: %w", err)
	}

	fmt.Printf("known containers (%d):\n", len(known))
	for name := range known {
		fmt.Printf("  - %s\n", name)
	}

	if len(args) == 0 {
		return nil
	}

	fmt.Println("\ncommand checks:")
	for _, command := range args {
		if ok, reason := validator.Validate(command, known); ok {
			fmt.Printf("  ACCEPT  %s\n", command)
		} else {
			fmt.Printf("  REJECT  %s (%s)\n", command, reason)
		}
	}
	return nil
}
