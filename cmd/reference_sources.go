package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pophealth/analyte-cli/internal/reference"
)

var sourcesAnalyte string

var referenceSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List registered external data sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := reference.LoadSourceRegistry(cfg.Reference.Root)
		if err != nil {
			return eris.Wrap(err, "reference sources")
		}

		shown := 0
		for _, s := range sources {
			if sourcesAnalyte != "" && !sourceCoversAnalyte(s, sourcesAnalyte) {
				continue
			}
			shown++
			fmt.Printf("%s  [%s]\n", s.ID, s.Kind)
			fmt.Printf("  %s\n", s.Title)
			fmt.Printf("  %s\n", s.URL)
			if s.Description != "" {
				fmt.Printf("  %s\n", s.Description)
			}
		}
		if shown == 0 {
			fmt.Println("No matching sources registered.")
		}
		return nil
	},
}

func sourceCoversAnalyte(s reference.Source, analyte string) bool {
	// Sources without an analyte list apply to everything.
	if len(s.Analytes) == 0 {
		return true
	}
	for _, a := range s.Analytes {
		if a == analyte {
			return true
		}
	}
	return false
}

func init() {
	referenceSourcesCmd.Flags().StringVar(&sourcesAnalyte, "analyte", "", "only sources covering this analyte name")
	referenceCmd.AddCommand(referenceSourcesCmd)
}
