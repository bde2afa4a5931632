package domain

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version,omitempty"`
}

// AppMetrics is the JSON snapshot returned by GET /v1/metrics/app.
type AppMetrics struct {
	TotalRequests     int64   `json:"total_requests"`
	ErrorRate         float64 `json:"error_rate"`
	CacheHitRate      float64 `json:"cache_hit_rate"`
	MaterializedTotal int64   `json:"materialized_total"`
	SkippedTotal      int64   `json:"skipped_total"`
	Period            string  `json:"period"`
}

// ChatRequest is the inbound chat message.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the canned-bot reply. Fallback is always true here; the
// flag exists so the frontend can tell the local bot from a remote agent.
type ChatResponse struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback,omitempty"`
}
