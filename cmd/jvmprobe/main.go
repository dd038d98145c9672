// Package main provides the jvmprobe binary: an operator-facing CLI for
// driving a running probe's control plane and running the reproducibility
// planner's inference/recipe pipeline from a terminal instead of an MCP
// client.
package main

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	loadDotEnv()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDotEnv reads a .env file from the working directory and sets any
// variables not already present in the environment. Missing is fine;
// the CLI has no mandatory secrets of its own.
func loadDotEnv() {
	f, err := os.Open(".env")
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

var (
	probeHost string
	probePort int
)

var rootCmd = &cobra.Command{
	Use:   "jvmprobe",
	Short: "Operator CLI for the probe runtime and reproducibility planner",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&probeHost, "host", "127.0.0.1", "probe control-plane host")
	rootCmd.PersistentFlags().IntVar(&probePort, "port", 9191, "probe control-plane port")
}

func baseURL() string {
	return "http://" + probeHost + ":" + strconv.Itoa(probePort)
}
