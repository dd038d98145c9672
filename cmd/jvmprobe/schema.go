package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nimbly/jvmprobe/pkg/schemaexport"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "JSON Schema export for planner wire types",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Emit JSON Schema documents for ExecutionPlan, TargetCandidate, RequestCandidate, and AuthResult",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := schemaexport.All()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			fmt.Printf("--- %s ---\n%s\n", doc.Name, doc.JSON)
		}
		return nil
	},
}

func init() {
	schemaCmd.AddCommand(schemaExportCmd)
	rootCmd.AddCommand(schemaCmd)
}
