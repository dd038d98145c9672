// Package config parses the agent's startup configuration, grounded on
// AgentConfig.java's "host=...;port=...;mode=...;..." agent-args grammar,
// with precedence args < env < system-property (lowest to highest) per
// spec §6.1: a repeated "-D key=value" process flag (the Go analogue of a
// JVM -Dmcp.probe.mode=... system property) wins over an environment
// variable, which in turn wins over a field named in the javaagent-style
// args string. This is the opposite order from the Java original, whose
// args string overrides everything it names; the deliberate deviation
// follows the documented precedence rather than the source agent's own
// behavior. Environment variables are optionally loaded from a .env file
// via joho/godotenv before os.Environ is consulted — neither the Java
// agent nor its Go port require a .env file to exist.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/nimbly/jvmprobe/pkg/classfilter"
	"github.com/nimbly/jvmprobe/pkg/proberuntime"
)

var validate = validator.New()

// AgentConfig is the fully resolved startup configuration for the probe
// agent (spec §6.1).
type AgentConfig struct {
	Host                 string   `validate:"required"`
	Port                 int      `validate:"required,min=1,max=65535"`
	Mode                 proberuntime.Mode
	ActuatorID           string
	ActuateTargetKey     string
	ActuateReturnBoolean bool
	IncludePatterns      []string
	ExcludePatterns      []string
}

// defaultExclude mirrors AgentConfig.java's safe-default exclusion: the
// agent's own package is always excluded from its own instrumentation
// target, on top of classfilter's built-in excludes.
const defaultExclude = "github.com/nimbly/jvmprobe/internal/agent.**"

// systemProps models the repeated "-D key=value" flags a launcher passes
// through, keyed the same way JVM system properties are in the source
// agent (e.g. "mcp.probe.mode").
type systemProps map[string]string

// FromFlags builds a systemProps map from "-D key=value" style pairs
// already split into "key=value" strings by the CLI flag parser.
func FromFlags(pairs []string) systemProps {
	props := systemProps{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		props[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return props
}

// Env is a thin env-var lookup, satisfied by os.Environ-backed maps or a
// godotenv-loaded one. LoadDotEnv below is the usual constructor.
type Env map[string]string

// LoadDotEnv loads a .env file at path (if present) layered under the
// real process environment: process env wins on key collision, matching
// godotenv.Overload's opposite — here we want the file to only fill gaps.
// A missing file is not an error; the Java agent has no equivalent file
// at all, so absence is the common case.
func LoadDotEnv(path string) (Env, error) {
	fromFile := map[string]string{}
	if path != "" {
		if loaded, err := godotenv.Read(path); err == nil {
			fromFile = loaded
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}
	env := Env{}
	for k, v := range fromFile {
		env[k] = v
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}
	return env, nil
}

// Parse resolves an AgentConfig with precedence props ("-D" flags) over
// env over the javaagent-style args string over a hardcoded default,
// field by field (spec §6.1).
//
// Example args: "host=127.0.0.1;port=9191;mode=observe;actuatorId=none;
// include=com.nimbly.**;exclude=com.nimbly.agent.**,**.config.**"
func Parse(args string, props systemProps, env Env, insp classfilter.LaunchInspector) (*AgentConfig, error) {
	argFields := parseArgsMap(args)

	host := resolveField(props, env, argFields, "mcp.probe.host", "MCP_PROBE_HOST", []string{"host"}, "127.0.0.1")

	port := 9191
	if v := resolveField(props, env, argFields, "mcp.probe.port", "MCP_PROBE_PORT", []string{"port"}, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			port = n
		}
	}

	cfg := &AgentConfig{
		Host:                 host,
		Port:                 port,
		Mode:                 proberuntime.Mode(resolveField(props, env, argFields, "mcp.probe.mode", "MCP_PROBE_MODE", []string{"mode", "probemode"}, "observe")),
		ActuatorID:           resolveField(props, env, argFields, "mcp.probe.actuator.id", "MCP_PROBE_ACTUATOR_ID", []string{"actuatorid", "actuator"}, ""),
		ActuateTargetKey:     resolveField(props, env, argFields, "mcp.probe.actuate.target", "MCP_PROBE_ACTUATE_TARGET", []string{"actuatetarget", "actuatetargetkey", "targetkey"}, ""),
		ActuateReturnBoolean: parseBool(resolveField(props, env, argFields, "mcp.probe.actuate.return.boolean", "MCP_PROBE_ACTUATE_RETURN_BOOLEAN", []string{"actuatereturnbool", "actuatereturnboolean", "returnboolean"}, ""), false),
		IncludePatterns:      classfilter.ParseCSV(resolveInclude(props, env, argFields, insp)),
		ExcludePatterns:      classfilter.ParseCSV(resolveField(props, env, argFields, "mcp.probe.exclude", "MCP_PROBE_EXCLUDE", []string{"exclude", "excludes", "excludepackages"}, defaultExclude)),
	}
	cfg.Mode = normalizeMode(cfg.Mode)

	if _, ok := argFields["rules"]; ok {
		fmt.Fprintln(os.Stderr, "[jvmprobe-agent] rulesFile ignored; generic include/exclude mode is active.")
	} else if _, ok := argFields["rulesfile"]; ok {
		fmt.Fprintln(os.Stderr, "[jvmprobe-agent] rulesFile ignored; generic include/exclude mode is active.")
	}

	if cfg.Port <= 0 {
		cfg.Port = 9191
	}
	cfg.ActuatorID = strings.TrimSpace(cfg.ActuatorID)
	cfg.ActuateTargetKey = strings.TrimSpace(cfg.ActuateTargetKey)
	if cfg.Mode != proberuntime.ModeActuate {
		cfg.ActuatorID = ""
		cfg.ActuateTargetKey = ""
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// parseArgsMap splits a "key=value;key=value" javaagent-style args string
// into a lowercased-key lookup map; a key repeated later in the string
// wins, matching left-to-right application order.
func parseArgsMap(args string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(args, ";") {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		eq := strings.IndexByte(t, '=')
		if eq <= 0 || eq == len(t)-1 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(t[:eq]))
		out[key] = strings.TrimSpace(t[eq+1:])
	}
	return out
}

// resolveField resolves one field with precedence props > env > args >
// fallback (spec §6.1: "-D" system-property flags outrank environment
// variables, which outrank the agent args string).
func resolveField(props systemProps, env Env, argFields map[string]string, propKey, envKey string, argAliases []string, fallback string) string {
	if v := strings.TrimSpace(props[propKey]); v != "" {
		return v
	}
	if v := strings.TrimSpace(env[envKey]); v != "" {
		return v
	}
	for _, alias := range argAliases {
		if v, ok := argFields[alias]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return fallback
}

// resolveInclude additionally falls back to inferring a base-package
// include from the launch entry point, tried after the args string and
// before giving up (AgentConfig.java's "fail closed" policy when
// inference is unavailable).
func resolveInclude(props systemProps, env Env, argFields map[string]string, insp classfilter.LaunchInspector) string {
	if v := strings.TrimSpace(props["mcp.probe.include"]); v != "" {
		return v
	}
	if v := strings.TrimSpace(env["MCP_PROBE_INCLUDE"]); v != "" {
		return v
	}
	for _, alias := range []string{"include", "includes", "includepackages"} {
		if v, ok := argFields[alias]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	if insp != nil {
		if inferred := strings.TrimSpace(classfilter.DefaultInclude(insp)); inferred != "" {
			return inferred
		}
	}
	return ""
}

func normalizeMode(m proberuntime.Mode) proberuntime.Mode {
	if strings.EqualFold(string(m), string(proberuntime.ModeActuate)) {
		return proberuntime.ModeActuate
	}
	return proberuntime.ModeObserve
}

func parseBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y":
		return true
	case "false", "0", "no", "n":
		return false
	default:
		return def
	}
}

