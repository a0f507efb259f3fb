// Package api exposes the resolution engine over HTTP. It serves one data
// route per vitibrasil endpoint under /api/v1, protected by HTTP Basic
// authentication, plus an unauthenticated operational surface: /heartbeat
// with cache statistics and snapshot inventory health, and /metrics in
// Prometheus format.
//
// Request validation failures (bad year, unknown sub-option) return 400
// before any tier is consulted. Exhaustion of all data tiers returns 503
// with the per-tier attempt trail, so clients can tell a degraded backend
// apart from their own input errors.
package api
