// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// Backend caps a single data-store or identity call made on behalf of a page.
const Backend = 3 * time.Second

// HealthProbe caps a single gRPC health check.
const HealthProbe = time.Second
