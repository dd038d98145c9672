// Package main provides the jvmprobe-mcp binary: an MCP stdio server
// exposing the planner's tool surface to AI agents.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/nimbly/jvmprobe/pkg/mcpsurface"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	mcpsurface.Version = version
	s := mcpsurface.NewServer(version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
