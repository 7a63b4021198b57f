package handler

import (
	"context"
	"net/http"

	"gadgetbot/internal/graph"
	"gadgetbot/internal/model"

	"github.com/gin-gonic/gin"
)

// ServiceName is reported by the health endpoint
const ServiceName = "GadgetBot Semantic Backend"

// GraphInfo describes the loaded knowledge graph
type GraphInfo interface {
	Status() string
	Triples() int
	Devices(ctx context.Context) ([]graph.Device, error)
}

// BuildInfo is stamped at link time
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// HealthHandler reports service and knowledge graph status
type HealthHandler struct {
	graph GraphInfo
	build BuildInfo
}

// NewHealthHandler creates a health handler. A nil graph reports Unavailable.
func NewHealthHandler(g GraphInfo, build BuildInfo) *HealthHandler {
	return &HealthHandler{graph: g, build: build}
}

// Health handles GET / and GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	resp := model.HealthResponse{
		Status:         "running",
		Service:        ServiceName,
		KnowledgeGraph: graph.StatusUnavailable,
		Version:        h.build.Version,
	}

	if h.graph != nil {
		resp.KnowledgeGraph = h.graph.Status()
		resp.Triples = h.graph.Triples()
		if devices, err := h.graph.Devices(c.Request.Context()); err == nil {
			resp.Devices = len(devices)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
	})
}
