package port

import "context"

// ComponentHealth is the health of a single runtime component
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthStatus aggregates component health. Healthy is false when any component is unhealthy.
type HealthStatus struct {
	Healthy    bool                       `json:"healthy"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthReporter reports the health of the running service
type HealthReporter interface {
	Health(ctx context.Context) *HealthStatus
}
