package mcpsurface

import (
	"os"
	"sync"

	"github.com/nimbly/jvmprobe/internal/obs"
	"github.com/nimbly/jvmprobe/pkg/audit"
)

const auditTag = "mcpsurface"

// AuditLogPath, when set (typically from the JVMPROBE_AUDIT_LOG
// environment variable), is where recipe_generate/probe_wait_hit append
// their plan/verify lifecycle trail. Left empty, no trail is written.
var AuditLogPath = os.Getenv("JVMPROBE_AUDIT_LOG")

var (
	auditOnce   sync.Once
	auditWriter *audit.Writer
)

// trail lazily opens the audit writer on first use so a planner session
// that never calls a tool never touches the filesystem.
func trail() *audit.Writer {
	auditOnce.Do(func() {
		if AuditLogPath == "" {
			return
		}
		w, err := audit.NewFileWriter(AuditLogPath, audit.NewRunID())
		if err != nil {
			obs.Errorf(auditTag, "%v", err)
			return
		}
		auditWriter = w
	})
	return auditWriter
}
