package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nimbly/jvmprobe/pkg/inference"
	"github.com/nimbly/jvmprobe/pkg/openapi"
	"github.com/nimbly/jvmprobe/pkg/plan"
)

var (
	recipeRoot                 string
	recipeClassHint            string
	recipeMethodHint           string
	recipeLineHint             int
	recipeMode                 string
	recipeUsername             string
	recipePassword             string
	recipeToken                string
	recipeActuateReturnBoolean bool
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Compose a reproduction execution plan for a target",
}

var recipeGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full target/request/auth inference pipeline and build an execution plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		roots := inference.ExpandSearchRoots(recipeRoot)
		idx, err := inference.BuildMergedIndex(roots, []string{".java"}, nil)
		if err != nil {
			return fmt.Errorf("index build: %w", err)
		}

		mode := plan.ModeNatural
		if recipeMode == string(plan.ModeActuated) {
			mode = plan.ModeActuated
		}

		candidates := inference.InferTargets(idx, inference.TargetHint{
			ClassHint:  recipeClassHint,
			MethodHint: recipeMethodHint,
			LineHint:   recipeLineHint,
		}, 1)

		var targetKey string
		var lineHint int
		if len(candidates) > 0 {
			targetKey = candidates[0].Key
			lineHint = candidates[0].Line
		}

		var doc *openapi.Document
		for _, r := range roots {
			if d, ferr := openapi.Find(r); ferr == nil && d != nil {
				doc = d
				break
			}
		}

		var reqCandidate *inference.RequestCandidate
		if targetKey != "" {
			reqCandidate, _ = inference.InferRequestCandidate(idx, methodNameFromKey(targetKey), doc)
		}

		var authResult *inference.AuthResult
		if reqCandidate != nil {
			creds := inference.Credentials{Username: recipeUsername, Password: recipePassword, Token: recipeToken}
			r := inference.ResolveAuth(doc, "", reqCandidate.Path, creds, true)
			authResult = &r
		}

		executionPlan := plan.Build(plan.BuildInput{
			RequestedMode:        mode,
			TargetKey:            targetKey,
			LineHint:             lineHint,
			RequestCandidate:     reqCandidate,
			Auth:                 authResult,
			ActuateReturnBoolean: recipeActuateReturnBoolean,
		})
		return printJSON(executionPlan)
	},
}

// methodNameFromKey strips an inferred target's "fqcn#method" key down to
// the bare method name InferRequestCandidate matches against call sites.
func methodNameFromKey(key string) string {
	if idx := strings.LastIndexByte(key, '#'); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

func init() {
	recipeCmd.PersistentFlags().StringVar(&recipeRoot, "root", ".", "repository root to walk")
	recipeGenerateCmd.Flags().StringVar(&recipeClassHint, "class", "", "fully or partially qualified class name hint")
	recipeGenerateCmd.Flags().StringVar(&recipeMethodHint, "method", "", "method name hint")
	recipeGenerateCmd.Flags().IntVar(&recipeLineHint, "line", 0, "source line hint, 0 for none")
	recipeGenerateCmd.Flags().StringVar(&recipeMode, "mode", "natural", "natural or actuated")
	recipeGenerateCmd.Flags().StringVar(&recipeUsername, "username", "", "explicit username for basic auth, if needed")
	recipeGenerateCmd.Flags().StringVar(&recipePassword, "password", "", "explicit password for basic auth, if needed")
	recipeGenerateCmd.Flags().StringVar(&recipeToken, "token", "", "explicit bearer token, if needed")
	recipeGenerateCmd.Flags().BoolVar(&recipeActuateReturnBoolean, "actuate-return-boolean", false, "forced boolean for actuated mode")

	recipeCmd.AddCommand(recipeGenerateCmd)
	rootCmd.AddCommand(recipeCmd)
}
