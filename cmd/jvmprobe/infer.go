package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nimbly/jvmprobe/pkg/inference"
	"github.com/nimbly/jvmprobe/pkg/openapi"
	"github.com/nimbly/jvmprobe/pkg/sourceindex"
)

var (
	inferRoot       string
	inferClassHint  string
	inferMethodHint string
	inferLineHint   int
	inferLimit      int
)

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Run target or request inference against a source tree",
}

var inferTargetCmd = &cobra.Command{
	Use:   "target",
	Short: "Infer probe key candidates from a class/method/line hint",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := sourceindex.Build(inferRoot, []string{".java"}, nil)
		if err != nil {
			return fmt.Errorf("index build: %w", err)
		}
		candidates := inference.InferTargets(idx, inference.TargetHint{
			ClassHint:  inferClassHint,
			MethodHint: inferMethodHint,
			LineHint:   inferLineHint,
		}, inferLimit)
		return printJSON(candidates)
	},
}

var inferRequestCmd = &cobra.Command{
	Use:   "request <methodName>",
	Short: "Infer a request candidate (HTTP method/path/body) for a target method",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := sourceindex.Build(inferRoot, []string{".java"}, nil)
		if err != nil {
			return fmt.Errorf("index build: %w", err)
		}
		doc, _ := openapi.Find(inferRoot)
		candidate, ok := inference.InferRequestCandidate(idx, args[0], doc)
		if !ok {
			return fmt.Errorf("no request candidate could be inferred for %s", args[0])
		}
		return printJSON(candidate)
	},
}

func init() {
	inferCmd.PersistentFlags().StringVar(&inferRoot, "root", ".", "repository root to walk")
	inferTargetCmd.Flags().StringVar(&inferClassHint, "class", "", "fully or partially qualified class name hint")
	inferTargetCmd.Flags().StringVar(&inferMethodHint, "method", "", "method name hint")
	inferTargetCmd.Flags().IntVar(&inferLineHint, "line", 0, "source line hint, 0 for none")
	inferTargetCmd.Flags().IntVar(&inferLimit, "limit", 5, "maximum candidates to return")

	inferCmd.AddCommand(inferTargetCmd, inferRequestCmd)
	rootCmd.AddCommand(inferCmd)
}
