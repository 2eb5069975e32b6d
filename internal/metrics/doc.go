// Package metrics provides Prometheus metrics for the streaming client.
//
// Key metrics:
//   - Inbound frames by kind and notifications by channel category
//   - Unknown channels and payload decode failures
//   - Handler failures by callback slot
//   - Subscribe send failures, connection attempts and closes
//
// Counters exist from package init so increments are always safe;
// Register exposes them on a registry.
package metrics
