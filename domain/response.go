package domain

import (
	"realtimesales/buildinfo"
	"time"
)

// HealthResponse represents the health status of the service
type HealthResponse struct {
	Status    string              `json:"status" example:"healthy"`
	Timestamp time.Time           `json:"timestamp" example:"2025-11-22T10:00:00Z"`
	BuildInfo buildinfo.Info      `json:"buildInfo"`
	Services  ServiceHealthStatus `json:"services"`
}

// ServiceHealthStatus represents the health status of dependent services
type ServiceHealthStatus struct {
	OrderStore ServiceStatus  `json:"orderStore"`
	Redis      ServiceStatus  `json:"redis"`
	ClickHouse *ServiceStatus `json:"clickhouse,omitempty"`
}

// ServiceStatus represents the status of a single service
type ServiceStatus struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message,omitempty" example:""`
}

// OrderResponse represents the response after posting an order
type OrderResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Order added successfully"`
	Order   *Order `json:"order,omitempty"`
	Replay  bool   `json:"replay,omitempty" example:"false"`
}

// OrderListResponse represents the current in-memory order collection
type OrderListResponse struct {
	Success     bool      `json:"success" example:"true"`
	Message     string    `json:"message" example:"Orders retrieved successfully"`
	Loading     bool      `json:"loading" example:"false"`
	RefreshedAt time.Time `json:"refreshedAt" example:"2025-11-22T10:00:00Z"`
	Orders      []Order   `json:"orders"`
}

// AnalyticsResponse wraps a summary with the instant it was computed for
type AnalyticsResponse struct {
	Success    bool             `json:"success" example:"true"`
	Message    string           `json:"message" example:"Analytics computed successfully"`
	Loading    bool             `json:"loading" example:"false"`
	ComputedAt time.Time        `json:"computedAt" example:"2025-11-22T10:00:00Z"`
	Analytics  AnalyticsSummary `json:"analytics"`
}

// SalesMetricResponse represents bucketed sales from the history mirror
type SalesMetricResponse struct {
	Success bool                `json:"success" example:"true"`
	Message string              `json:"message" example:"Sales metrics retrieved successfully"`
	Metrics []SalesMetricResult `json:"metrics"`
}

type SalesMetricResult struct {
	// The "Bucket" holds the group name (e.g., "2024-08-25 10:00:00" or "Espresso")
	Bucket  string  `json:"bucket"`
	Orders  uint64  `json:"orders"`
	Units   int64   `json:"units"`
	Revenue float64 `json:"revenue"`
}

// SignUpResponse represents the response after creating an account
type SignUpResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Account created successfully"`
	UID     string `json:"uid,omitempty" example:"Qm1x9..."`
}
