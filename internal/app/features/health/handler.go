package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/vocabhub/internal/app/system/gate"
	"github.com/dalemusser/vocabhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Gate   *gate.Gate
	Log    *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client *mongo.Client, g *gate.Gate, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Gate: g, Log: logger}
}

type healthResponse struct {
	Status    string `json:"status"`
	Bootstrap string `json:"bootstrap"`
	Database  string `json:"database"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "bootstrap":"ready", "database":"connected" }
//
// On DB failure or failed bootstrap: 503.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:    "ok",
		Bootstrap: h.Gate.State().String(),
		Database:  "connected",
	}

	if h.Gate.State() == gate.Error {
		resp.Status = "error"
		resp.Message = "Startup failed"
		if info := h.Gate.Err(); info != nil {
			resp.Error = info.Message
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
