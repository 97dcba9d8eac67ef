package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doir-lang/libecrs"
)

var inspectFile string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print entity, person and live-entity counts for a scenario",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "YAML ancestry scenario (defaults to the built-in Simpsons family tree)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	sc := defaultSimpsonsScenario()
	if inspectFile != "" {
		loaded, err := loadAncestryScenario(inspectFile)
		if err != nil {
			return err
		}
		sc = loaded
	}

	m, byName := buildAncestryModule(sc, flagDisableStringLookup)

	fmt.Printf("entities: %d (including the reserved invalid id)\n", m.EntityCount())
	fmt.Printf("people:   %d\n", len(byName))

	var alive int
	for e := ecrs.Entity(1); int(e) < m.EntityCount(); e++ {
		if m.IsAlive(e) {
			alive++
		}
	}
	fmt.Printf("alive:    %d\n", alive)
	return nil
}
