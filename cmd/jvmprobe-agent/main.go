// Package main provides the jvmprobe-agent binary: a demo host process
// standing in for a javaagent-instrumented JVM. It wires a fixed demo
// application (internal/demo) to a probe Runtime through the same four
// advice call sites a real bytecode weaver would insert, then serves the
// runtime's control plane over HTTP so a planner can drive and observe it.
//
// Usage:
//
//	jvmprobe-agent [-D key=value]... [-args "host=...;port=...;mode=..."] [-env-file .env]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nimbly/jvmprobe/internal/config"
	"github.com/nimbly/jvmprobe/internal/demo"
	"github.com/nimbly/jvmprobe/internal/obs"
	"github.com/nimbly/jvmprobe/pkg/classfilter"
	"github.com/nimbly/jvmprobe/pkg/controlplane"
	"github.com/nimbly/jvmprobe/pkg/instrument"
	"github.com/nimbly/jvmprobe/pkg/proberuntime"
)

const tag = "jvmprobe-agent"

// dflags collects repeated "-D key=value" system-property-style flags,
// the Go analogue of a javaagent launch's -Dmcp.probe.mode=... options.
type dflags []string

func (d *dflags) String() string { return strings.Join(*d, ",") }
func (d *dflags) Set(v string) error {
	*d = append(*d, v)
	return nil
}

func main() {
	var props dflags
	flag.Var(&props, "D", "system-property style key=value override, repeatable")
	argsString := flag.String("args", "", "javaagent-style \"key=value;key=value\" args string")
	envFile := flag.String("env-file", ".env", "optional .env file to load")
	flag.Parse()

	env, err := config.LoadDotEnv(*envFile)
	if err != nil {
		obs.Errorf(tag, "%v", err)
		os.Exit(1)
	}

	insp := classfilter.ZipManifestInspector{Entry: os.Args[0]}

	cfg, err := config.Parse(*argsString, config.FromFlags(props), env, insp)
	if err != nil {
		obs.Errorf(tag, "%v", err)
		os.Exit(1)
	}
	if len(cfg.IncludePatterns) == 0 {
		cfg.IncludePatterns = []string{demo.DefaultIncludePattern}
	}

	filter := classfilter.Compile(cfg.IncludePatterns, cfg.ExcludePatterns)
	if !filter.ShouldInstrument(demo.ClassBillingService) {
		obs.Warnf(tag, "%s is not matched by the configured include/exclude patterns", demo.ClassBillingService)
	}

	rt := proberuntime.New()
	rt.Configure(cfg.Mode, cfg.ActuatorID, cfg.ActuateTargetKey, cfg.ActuateReturnBoolean)

	app := demo.NewApp(instrument.NewAdvice(rt))
	app.Billing.Authorize(0, false) // warm-up call: proves the advice wiring records a hit before any planner attaches

	srv := controlplane.New(rt)
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	obs.Infof(tag, "control plane listening on %s (mode=%s, include=%v)", addr, cfg.Mode, cfg.IncludePatterns)
	if err := srv.Engine.Run(addr); err != nil {
		obs.Errorf(tag, "%v", err)
		os.Exit(1)
	}
}
