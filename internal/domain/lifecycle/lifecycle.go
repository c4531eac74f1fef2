// Package lifecycle defines shared timeouts for application start and shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds how long a lifecycle hook (server shutdown,
// connection ping, publisher flush) may take before it is abandoned.
const DefaultTimeout = 10 * time.Second
