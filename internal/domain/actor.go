package domain

import "context"

// Actor is the authenticated principal performing an operation. The identity
// provider issues the role claim; the core trusts it as-is.
type Actor struct {
	ID   string
	Role Role
}

// Role represents an actor's access level.
type Role string

const (
	// RoleClient can create transfers and orders against their own wallet.
	RoleClient Role = "client"

	// RoleStaff can review requests and advance order/transfer status.
	RoleStaff Role = "staff"

	// RoleAdmin can additionally create manual orders and regress funded orders.
	RoleAdmin Role = "admin"
)

var validRoles = map[Role]bool{
	RoleClient: true,
	RoleStaff:  true,
	RoleAdmin:  true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanReview reports whether the role may advance transfer and order status.
func (r Role) CanReview() bool {
	return r == RoleStaff || r == RoleAdmin
}

// CanCreateManualRecords reports whether the role may create backdated or
// manual entries on behalf of a client.
func (r Role) CanCreateManualRecords() bool {
	return r == RoleAdmin
}

// CanRegressFundedOrder reports whether the role may move an order that has
// already received funds back to created. Staff operators are deliberately
// excluded: resetting a funded order erases the operational trail.
func (r Role) CanRegressFundedOrder() bool {
	return r == RoleAdmin
}

type actorContextKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor set by the auth middleware.
func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(*Actor)
	return actor, ok
}
