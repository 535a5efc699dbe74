package dto

import "time"

// HealthResponse reports service liveness and store reachability
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
}

// Health status values
const (
	HealthStatusUp   = "up"
	HealthStatusDown = "down"
)
