package api

import "net/http"

type HealthHandler struct {
	version  string
	tenantID int64
}

func NewHealthHandler(version string, tenantID int64) *HealthHandler {
	return &HealthHandler{version: version, tenantID: tenantID}
}

type LivenessResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	TenantID int64  `json:"tenant_id"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:   "ok",
		Version:  h.version,
		TenantID: h.tenantID,
	})
}
