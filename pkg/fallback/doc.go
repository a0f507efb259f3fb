// Package fallback implements the static last-resort data source: pre-baked
// CSV snapshots of the vitibrasil statistics, served when both the live
// source and Redis are unavailable.
//
// A process-wide, read-only EndpointMapping resolves each (endpoint,
// sub-option) pair to a CSV file in an externally populated directory.
// Parsed results are held in a capacity-bounded LRU cache with a per-entry
// TTL so the request path rarely touches the filesystem.
//
// Missing or malformed files are reported as clean misses; they surface only
// in the ValidateInventory report consumed by the heartbeat endpoint, never
// as request failures.
package fallback
