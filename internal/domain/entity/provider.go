// Package entity contains the core business objects of the project.
package entity

// ProviderType identifies an authentication provider.
type ProviderType string

const (
	// ProviderTypeEmail indicates the built-in email/password credential.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeGoogle indicates a linked Google account.
	ProviderTypeGoogle ProviderType = "google"
)

// String returns the string representation of the ProviderType.
func (p ProviderType) String() string {
	return string(p)
}
