// Package authz decides whether an actor may perform an action on a
// resource. It is a pure decision table: no store access, no mutation,
// so the precedence order is auditable and testable in isolation.
package authz

type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionLikeToggle Action = "like-toggle"
	ActionAdminList  Action = "admin-list"
)

type ResourceKind string

const (
	KindPost     ResourceKind = "post"
	KindComment  ResourceKind = "comment"
	KindUser     ResourceKind = "user"
	KindCategory ResourceKind = "category"
)

const roleAdmin = "admin"

// Actor is the identity performing an action. The zero value is an
// anonymous caller.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) Authenticated() bool {
	return a.ID != ""
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Role == roleAdmin
}

// Resource is a typed reference to the target. For user resources the
// owner is the user itself (OwnerID == ID).
type Resource struct {
	Kind    ResourceKind
	ID      string
	OwnerID string
}

type Decision struct {
	Allowed bool
	Reason  string
}

const (
	ReasonForbidden       = "forbidden"
	ReasonUnauthenticated = "unauthenticated"
)

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Authorize applies the permission rules in precedence order; the
// first matching rule wins.
//
//  1. read is public.
//  2. admin-list requires the admin role.
//  3. create requires authentication.
//  4. update on posts and comments is strictly owner-only; admins get
//     no update rights on others' content.
//  5. delete on posts and comments is owner-or-admin.
//  6. update/delete on a user profile is self-or-admin.
//  7. like toggling requires authentication only.
func Authorize(actor Actor, action Action, res Resource) Decision {
	switch action {
	case ActionRead:
		return allow()

	case ActionAdminList:
		if actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionCreate:
		if actor.Authenticated() {
			return allow()
		}
		return deny(ReasonUnauthenticated)

	case ActionUpdate:
		if res.Kind == KindUser {
			return selfOrAdmin(actor, res)
		}
		if actor.Authenticated() && actor.ID == res.OwnerID {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionDelete:
		if res.Kind == KindUser {
			return selfOrAdmin(actor, res)
		}
		if actor.IsAdmin() {
			return allow()
		}
		if actor.Authenticated() && actor.ID == res.OwnerID {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionLikeToggle:
		if actor.Authenticated() {
			return allow()
		}
		return deny(ReasonUnauthenticated)
	}

	return deny(ReasonForbidden)
}

func selfOrAdmin(actor Actor, res Resource) Decision {
	if actor.IsAdmin() {
		return allow()
	}
	if actor.Authenticated() && actor.ID == res.ID {
		return allow()
	}
	return deny(ReasonForbidden)
}
