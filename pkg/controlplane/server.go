// Package controlplane exposes the probe runtime over HTTP: status/reset
// queries against the Hit Table and actuation configuration, matching the
// wire shape of ProbeHttpServer.java (spec §4.4) on top of gin-gonic/gin
// rather than com.sun.net.httpserver, so routing, JSON binding and
// recovery middleware are one idiomatic stack instead of hand rolled.
package controlplane

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nimbly/jvmprobe/pkg/proberuntime"
)

// Server wraps a *gin.Engine bound to a probe Runtime.
type Server struct {
	Engine  *gin.Engine
	runtime *proberuntime.Runtime
}

// New builds a Server in gin's release mode (the control plane is an
// always-on sidecar of the target application, not a developer console).
func New(runtime *proberuntime.Runtime) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.HandleMethodNotAllowed = true

	s := &Server{Engine: engine, runtime: runtime}
	engine.GET("/__probe/status", s.handleStatus)
	engine.POST("/__probe/reset", s.handleReset)
	engine.POST("/__probe/actuate", s.handleActuate)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		NewCollectorRegistry(runtime), promhttp.HandlerOpts{},
	)))
	return s
}

type statusResponse struct {
	Key                  string `json:"key"`
	HitCount             uint64 `json:"hitCount"`
	LastHitEpochMs       int64  `json:"lastHitEpochMs"`
	Mode                 string `json:"mode"`
	ActuatorID           string `json:"actuatorId"`
	ActuateTargetKey     string `json:"actuateTargetKey"`
	ActuateReturnBoolean bool   `json:"actuateReturnBoolean"`
}

// handleStatus is the Go analogue of ProbeHttpServer.StatusHandler: reads
// a single key's hit count and last-hit time plus the current runtime
// configuration.
func (s *Server) handleStatus(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_key"})
		return
	}

	cfg := s.runtime.Snapshot()
	c.JSON(http.StatusOK, statusResponse{
		Key:                  key,
		HitCount:             s.runtime.Hits().Count(key),
		LastHitEpochMs:       s.runtime.Hits().LastHitEpochMs(key),
		Mode:                 string(cfg.Mode),
		ActuatorID:           cfg.ActuatorID,
		ActuateTargetKey:     cfg.ActuateTargetKey,
		ActuateReturnBoolean: cfg.ActuateReturnBoolean,
	})
}

type resetRequest struct {
	Key string `json:"key"`
}

// handleReset accepts the key either as a query parameter or a JSON body,
// matching ResetHandler's fallback order.
func (s *Server) handleReset(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		var body resetRequest
		_ = c.ShouldBindJSON(&body)
		key = body.Key
	}
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_key"})
		return
	}

	s.runtime.Hits().Reset(key)
	c.JSON(http.StatusOK, gin.H{"ok": true, "key": key})
}

type actuateRequest struct {
	Mode          string  `json:"mode"`
	ActuatorID    *string `json:"actuatorId"`
	TargetKey     *string `json:"targetKey"`
	ReturnBoolean *bool   `json:"returnBoolean"`
}

// handleActuate is ActuateHandler: any field omitted from the request body
// falls back to the runtime's currently published value, so a caller can
// change just the mode, just the target, or any subset of the four.
func (s *Server) handleActuate(c *gin.Context) {
	var req actuateRequest
	_ = c.ShouldBindJSON(&req)

	cfg := s.runtime.Snapshot()

	mode := proberuntime.Mode(req.Mode)
	if req.Mode == "" {
		mode = cfg.Mode
	}
	actuatorID := cfg.ActuatorID
	if req.ActuatorID != nil {
		actuatorID = *req.ActuatorID
	}
	targetKey := cfg.ActuateTargetKey
	if req.TargetKey != nil {
		targetKey = *req.TargetKey
	}
	returnBoolean := cfg.ActuateReturnBoolean
	if req.ReturnBoolean != nil {
		returnBoolean = *req.ReturnBoolean
	}

	s.runtime.Configure(mode, actuatorID, targetKey, returnBoolean)

	out := s.runtime.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"mode":          string(out.Mode),
		"actuatorId":    out.ActuatorID,
		"targetKey":     out.ActuateTargetKey,
		"returnBoolean": out.ActuateReturnBoolean,
	})
}
