package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nimbly/jvmprobe/pkg/sourceindex"
)

var indexRoot string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Source index debugging commands",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Walk a repository and dump the extracted file/class/method index",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := sourceindex.Build(indexRoot, []string{".java"}, nil)
		if err != nil {
			return fmt.Errorf("index build: %w", err)
		}
		return printJSON(idx)
	},
}

func init() {
	indexBuildCmd.Flags().StringVar(&indexRoot, "root", ".", "repository root to walk")
	indexCmd.AddCommand(indexBuildCmd)
	rootCmd.AddCommand(indexCmd)
}
