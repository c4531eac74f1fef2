// Package entity contains the core business objects of the project.
package entity

// CartOwnerType identifies which kind of identity owns a cart.
// A cart belongs to exactly one of: a registered user, or a guest session.
type CartOwnerType string

const (
	// CartOwnerUser indicates a cart owned by a registered user.
	CartOwnerUser CartOwnerType = "user"
	// CartOwnerGuest indicates a cart owned by an anonymous guest session.
	CartOwnerGuest CartOwnerType = "guest"
)

// String returns the string representation of the CartOwnerType.
func (t CartOwnerType) String() string {
	return string(t)
}

// IsValid checks if the CartOwnerType is a valid value.
func (t CartOwnerType) IsValid() bool {
	switch t {
	case CartOwnerUser, CartOwnerGuest:
		return true
	default:
		return false
	}
}
