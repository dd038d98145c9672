package mcpsurface

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nimbly/jvmprobe/pkg/inference"
	"github.com/nimbly/jvmprobe/pkg/openapi"
	"github.com/nimbly/jvmprobe/pkg/plan"
	"github.com/nimbly/jvmprobe/pkg/probeclient"
	"github.com/nimbly/jvmprobe/pkg/sourceindex"
	"github.com/nimbly/jvmprobe/pkg/verifier"
)

// Version is stamped into debug_ping's response; set by cmd/jvmprobe-mcp
// at startup.
var Version = "dev"

// HandleDebugPing implements the debug_ping tool.
func HandleDebugPing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return structuredResult(map[string]any{"ok": true, "version": Version},
		render("planner tool surface is reachable (version {{version}})", map[string]string{"version": Version})), nil
}

// HandleProjectsDiscover implements the projects_discover tool.
func HandleProjectsDiscover(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	root, _ := args["root"].(string)
	if root == "" {
		return errorResult("root argument is required"), nil
	}

	idx, err := sourceindex.Build(root, DefaultSourceExtensions, nil)
	if err != nil {
		return errorResult(fmt.Sprintf("index build failed: %s", err)), nil
	}

	methodCount := 0
	for _, f := range idx.Files {
		methodCount += len(f.Methods)
	}
	data := map[string]any{
		"root":        root,
		"fileCount":   len(idx.Files),
		"methodCount": methodCount,
	}
	text := render("indexed {{files}} files ({{methods}} methods) under {{root}}", map[string]string{
		"files":   strconv.Itoa(len(idx.Files)),
		"methods": strconv.Itoa(methodCount),
		"root":    root,
	})
	return structuredResult(data, text), nil
}

// HandleProbeDiagnose implements the probe_diagnose tool.
func HandleProbeDiagnose(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	baseURL, _ := args["baseUrl"].(string)
	if baseURL == "" {
		return errorResult("baseUrl argument is required"), nil
	}

	client := probeclient.New(baseURL)
	_, err := client.Status("__probe_diagnose_liveness_check__")
	reachable := err == nil

	data := map[string]any{"baseUrl": baseURL, "reachable": reachable}
	text := "control plane unreachable at " + baseURL
	if reachable {
		text = "control plane reachable at " + baseURL
	}
	result := structuredResult(data, text)
	result.IsError = !reachable
	return result, nil
}

// HandleTargetInfer implements the target_infer tool.
func HandleTargetInfer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	root, _ := args["root"].(string)
	if root == "" {
		return errorResult("root argument is required"), nil
	}

	idx, err := sourceindex.Build(root, DefaultSourceExtensions, nil)
	if err != nil {
		return errorResult(fmt.Sprintf("index build failed: %s", err)), nil
	}

	hint := targetHintFromArgs(args)
	limit := intArg(args, "limit", 5)
	candidates := inference.InferTargets(idx, hint, limit)

	data := map[string]any{"candidates": candidates}
	text := render("found {{count}} target candidate(s)", map[string]string{"count": strconv.Itoa(len(candidates))})
	return structuredResult(data, text), nil
}

// HandleRecipeGenerate implements the recipe_generate tool: the full
// target-infer -> request-infer -> auth-resolve -> plan-build pipeline
// (spec §4.6-§4.9) in one call.
func HandleRecipeGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	root, _ := args["root"].(string)
	if root == "" {
		return errorResult("root argument is required"), nil
	}

	roots := inference.ExpandSearchRoots(root)
	idx, err := inference.BuildMergedIndex(roots, DefaultSourceExtensions, nil)
	if err != nil {
		return errorResult(fmt.Sprintf("index build failed: %s", err)), nil
	}

	mode := plan.ModeNatural
	if m, _ := args["mode"].(string); m == string(plan.ModeActuated) {
		mode = plan.ModeActuated
	}

	hint := targetHintFromArgs(args)
	candidates := inference.InferTargets(idx, hint, 1)

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

	creds := inference.Credentials{
		Username: stringArg(args, "username"),
		Password: stringArg(args, "password"),
		Token:    stringArg(args, "token"),
	}

	var authResult *inference.AuthResult
	if reqCandidate != nil {
		controllerText := ""
		r := inference.ResolveAuth(doc, controllerText, reqCandidate.Path, creds, true)
		authResult = &r
	}

	executionPlan := plan.Build(plan.BuildInput{
		RequestedMode:        mode,
		TargetKey:            targetKey,
		LineHint:             lineHint,
		RequestCandidate:     reqCandidate,
		Auth:                 authResult,
		ActuateReturnBoolean: boolArg(args, "actuateReturnBoolean"),
	})

	if w := trail(); w != nil {
		_ = w.EmitPlanBuilt(string(executionPlan.Mode), executionPlan.ModeReason, len(executionPlan.Steps))
	}

	data := map[string]any{"plan": executionPlan}
	text := render("generated a {{mode}} plan with {{steps}} step(s): {{reason}}", map[string]string{
		"mode":   string(executionPlan.Mode),
		"steps":  strconv.Itoa(len(executionPlan.Steps)),
		"reason": executionPlan.ModeReason,
	})
	return structuredResult(data, text), nil
}

// HandleProbeStatus implements the probe_status tool.
func HandleProbeStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	baseURL, key, ok := baseURLAndKey(args)
	if !ok {
		return errorResult("baseUrl and key arguments are required"), nil
	}

	status, err := probeclient.New(baseURL).Status(key)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	text := render("{{key}}: {{count}} hit(s), mode={{mode}}", map[string]string{
		"key":   status.Key,
		"count": strconv.FormatUint(status.HitCount, 10),
		"mode":  status.Mode,
	})
	return structuredResult(status, text), nil
}

// HandleProbeReset implements the probe_reset tool.
func HandleProbeReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	baseURL, key, ok := baseURLAndKey(args)
	if !ok {
		return errorResult("baseUrl and key arguments are required"), nil
	}

	if err := probeclient.New(baseURL).Reset(key); err != nil {
		return errorResult(err.Error()), nil
	}
	return structuredResult(map[string]any{"ok": true, "key": key}, "reset "+key), nil
}

// HandleProbeWaitHit implements the probe_wait_hit tool.
func HandleProbeWaitHit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	baseURL, key, ok := baseURLAndKey(args)
	if !ok {
		return errorResult("baseUrl and key arguments are required"), nil
	}

	timeoutSeconds := intArg(args, "timeoutSeconds", 10)
	opts := verifier.DefaultOptions()
	opts.Timeout = time.Duration(timeoutSeconds) * time.Second

	client := probeclient.New(baseURL)
	tracker := verifier.NewResetTracker()
	waitStart := time.Now().UnixMilli()
	inlineStart := tracker.InlineStart(key, waitStart)

	result, err := verifier.Wait(ctx, client, key, inlineStart, opts)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	if w := trail(); w != nil {
		switch result.Outcome {
		case verifier.OutcomeSuccess:
			hitCount := uint64(0)
			if result.Snapshot != nil {
				hitCount = result.Snapshot.HitCount
			}
			_ = w.EmitInlineHitObserved(key, hitCount)
		case verifier.OutcomeTimeout:
			_ = w.EmitVerifyTimeout(key)
		}
	}

	data := map[string]any{"outcome": result.Outcome, "key": key}
	text := render("wait outcome for {{key}}: {{outcome}}", map[string]string{
		"key":     key,
		"outcome": string(result.Outcome),
	})
	out := structuredResult(data, text)
	out.IsError = result.Outcome != verifier.OutcomeSuccess
	return out, nil
}

// HandleProbeActuate implements the probe_actuate tool.
func HandleProbeActuate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	baseURL, _ := args["baseUrl"].(string)
	if baseURL == "" {
		return errorResult("baseUrl argument is required"), nil
	}

	actuateReq := probeclient.ActuateRequest{}
	if m, ok := args["mode"].(string); ok && m != "" {
		actuateReq.Mode = m
	}
	if v, ok := args["actuatorId"].(string); ok && v != "" {
		actuateReq.ActuatorID = &v
	}
	if v, ok := args["targetKey"].(string); ok && v != "" {
		actuateReq.TargetKey = &v
	}
	if v, ok := args["returnBoolean"].(bool); ok {
		actuateReq.ReturnBoolean = &v
	}

	resp, err := probeclient.New(baseURL).Actuate(actuateReq)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	text := render("control plane now in {{mode}} mode", map[string]string{"mode": resp.Mode})
	return structuredResult(resp, text), nil
}

// methodNameFromKey strips an inferred target's "fqcn#method" key down to
// the bare method name InferRequestCandidate matches against call sites.
func methodNameFromKey(key string) string {
	if idx := strings.LastIndexByte(key, '#'); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

func targetHintFromArgs(args map[string]any) inference.TargetHint {
	return inference.TargetHint{
		ClassHint:  stringArg(args, "classHint"),
		MethodHint: stringArg(args, "methodHint"),
		LineHint:   intArg(args, "lineHint", 0),
	}
}

func baseURLAndKey(args map[string]any) (baseURL, key string, ok bool) {
	baseURL, _ = args["baseUrl"].(string)
	key, _ = args["key"].(string)
	return baseURL, key, baseURL != "" && key != ""
}

func stringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return v
}

func boolArg(args map[string]any, name string) bool {
	v, _ := args[name].(bool)
	return v
}

func intArg(args map[string]any, name string, def int) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// structuredResult wraps data as JSON (machine-consumable) alongside a
// human-rendered text variant, the two output forms spec §6.3 requires.
func structuredResult(data any, text string) *mcp.CallToolResult {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("marshal result: %s", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(encoded)),
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(msg)},
		IsError: true,
	}
}
