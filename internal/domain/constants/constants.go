// Package constants holds shared domain-level constants.
package constants

// Pub/Sub provider names accepted by the event publisher configuration.
const (
	PubSubProviderGoogle = "google"
	PubSubProviderLocal  = "local"
	PubSubProviderNone   = "none"
)

// Event types published to the message bus.
const (
	EventTypeOrderCreated = "order.created"
)
