package models

import "time"

// SystemMetrics is a point-in-time summary of request, cache, database, gateway and job activity.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	DBQueryCount             uint64    `json:"dbQueryCount"`
	AverageDBQueryDurationMs float64   `json:"averageDbQueryDurationMs"`
	GatewayCalls             uint64    `json:"gatewayCalls"`
	GatewayFailures          uint64    `json:"gatewayFailures"`
	JobsProcessed            uint64    `json:"jobsProcessed"`
	JobFailures              uint64    `json:"jobFailures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
