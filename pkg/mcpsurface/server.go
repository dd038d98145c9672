// Package mcpsurface exposes the planner's nine operations (spec §6.3)
// as an MCP tool surface, grounded on pkg/ecosystem/mcp's NewServer/AddTool
// registration shape: one mcp.NewTool(...) call per operation naming its
// arguments, paired with a Handle* function of the same signature.
package mcpsurface

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultSourceExtensions are the file extensions sourceindex.Build walks
// for every tool call; no tool accepts an extensions argument.
var DefaultSourceExtensions = []string{".java"}

// NewServer builds an MCP server with all nine planner tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"jvmprobe-planner",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("debug_ping",
			mcp.WithDescription("Liveness check for the planner tool surface"),
		),
		HandleDebugPing,
	)

	s.AddTool(
		mcp.NewTool("projects_discover",
			mcp.WithDescription("Build a source index under root and report its file and method counts"),
			mcp.WithString("root", mcp.Required(), mcp.Description("Repository root to walk")),
		),
		HandleProjectsDiscover,
	)

	s.AddTool(
		mcp.NewTool("probe_diagnose",
			mcp.WithDescription("Check whether a running probe's control plane is reachable"),
			mcp.WithString("baseUrl", mcp.Required(), mcp.Description("Control-plane base URL, e.g. http://127.0.0.1:9191")),
		),
		HandleProbeDiagnose,
	)

	s.AddTool(
		mcp.NewTool("target_infer",
			mcp.WithDescription("Infer probe key candidates from a class/method/line hint"),
			mcp.WithString("root", mcp.Required(), mcp.Description("Repository root to walk")),
			mcp.WithString("classHint", mcp.Description("Fully or partially qualified class name hint")),
			mcp.WithString("methodHint", mcp.Description("Method name hint")),
			mcp.WithNumber("lineHint", mcp.Description("Source line hint, 0 for none")),
			mcp.WithNumber("limit", mcp.Description("Maximum candidates to return, default 5")),
		),
		HandleTargetInfer,
	)

	s.AddTool(
		mcp.NewTool("recipe_generate",
			mcp.WithDescription("Compose a reproduction execution plan (natural or actuated) for a target"),
			mcp.WithString("root", mcp.Required(), mcp.Description("Repository root to walk")),
			mcp.WithString("classHint", mcp.Description("Fully or partially qualified class name hint")),
			mcp.WithString("methodHint", mcp.Description("Method name hint")),
			mcp.WithNumber("lineHint", mcp.Description("Source line hint, 0 for none")),
			mcp.WithString("mode", mcp.Description("natural or actuated, default natural")),
			mcp.WithString("username", mcp.Description("Explicit username for basic auth, if needed")),
			mcp.WithString("password", mcp.Description("Explicit password for basic auth, if needed")),
			mcp.WithString("token", mcp.Description("Explicit bearer token, if needed")),
			mcp.WithBoolean("actuateReturnBoolean", mcp.Description("Forced boolean for actuated mode")),
		),
		HandleRecipeGenerate,
	)

	s.AddTool(
		mcp.NewTool("probe_status",
			mcp.WithDescription("Read a probe key's hit count and the control plane's current runtime config"),
			mcp.WithString("baseUrl", mcp.Required(), mcp.Description("Control-plane base URL")),
			mcp.WithString("key", mcp.Required(), mcp.Description("Probe key, e.g. com.acme.Billing#authorize:42")),
		),
		HandleProbeStatus,
	)

	s.AddTool(
		mcp.NewTool("probe_reset",
			mcp.WithDescription("Zero a probe key's hit count and last-hit timestamp"),
			mcp.WithString("baseUrl", mcp.Required(), mcp.Description("Control-plane base URL")),
			mcp.WithString("key", mcp.Required(), mcp.Description("Probe key to reset")),
		),
		HandleProbeReset,
	)

	s.AddTool(
		mcp.NewTool("probe_wait_hit",
			mcp.WithDescription("Poll until an inline hit (attributable to this reproduction attempt) is observed, or time out"),
			mcp.WithString("baseUrl", mcp.Required(), mcp.Description("Control-plane base URL")),
			mcp.WithString("key", mcp.Required(), mcp.Description("Probe key to wait on; must carry a line number")),
			mcp.WithNumber("timeoutSeconds", mcp.Description("Poll timeout in seconds for each of the verifier's attempts, default 10")),
		),
		HandleProbeWaitHit,
	)

	s.AddTool(
		mcp.NewTool("probe_actuate",
			mcp.WithDescription("Arm or disarm the control plane's actuation state"),
			mcp.WithString("baseUrl", mcp.Required(), mcp.Description("Control-plane base URL")),
			mcp.WithString("mode", mcp.Description("observe or actuate")),
			mcp.WithString("actuatorId", mcp.Description("Free-form actuator identifier")),
			mcp.WithString("targetKey", mcp.Description("Probe key to actuate")),
			mcp.WithBoolean("returnBoolean", mcp.Description("Forced boolean return value")),
		),
		HandleProbeActuate,
	)

	return s
}
