// Package delivery defines the contract every inbound adapter (HTTP server,
// worker, etc.) must satisfy so the composition root can start them uniformly.
package delivery

import "context"

// Delivery is a long-running inbound adapter. Serve blocks until the
// adapter stops or the context is cancelled.
type Delivery interface {
	Serve(ctx context.Context) error
}
