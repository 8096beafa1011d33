// Package authz carries the requesting actor through the request context.
// Identity and session management live in an external collaborator; the
// gateway forwards its verified claims as headers and this package only
// parses and transports them.
package authz

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/courtside/courtside/internal/ledger"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

const (
	actorIDHeader   = "X-Actor-ID"
	actorRoleHeader = "X-Actor-Role"
	actorClubHeader = "X-Actor-Club"

	RoleStaff  = "staff"
	RolePlayer = "player"
)

type actorContextKey struct{}

func ContextWithActor(ctx context.Context, actor *ledger.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext retrieves the actor stored in ctx. It returns nil if
// ctx is nil, if no actor is stored, or if the stored value has a
// different type.
func ActorFromContext(ctx context.Context) *ledger.Actor {
	if ctx == nil {
		return nil
	}
	actor, ok := ctx.Value(actorContextKey{}).(*ledger.Actor)
	if !ok {
		return nil
	}
	return actor
}

// ActorFromHeaders parses the gateway's claim headers. A missing or
// malformed actor id yields ErrUnauthenticated.
func ActorFromHeaders(r *http.Request) (*ledger.Actor, error) {
	rawID := strings.TrimSpace(r.Header.Get(actorIDHeader))
	if rawID == "" {
		return nil, ErrUnauthenticated
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrUnauthenticated
	}

	actor := &ledger.Actor{
		ID:      id,
		IsStaff: strings.EqualFold(strings.TrimSpace(r.Header.Get(actorRoleHeader)), RoleStaff),
	}

	if rawClub := strings.TrimSpace(r.Header.Get(actorClubHeader)); rawClub != "" {
		clubID, err := strconv.ParseInt(rawClub, 10, 64)
		if err != nil || clubID <= 0 {
			return nil, ErrUnauthenticated
		}
		actor.HomeClubID = &clubID
	}
	return actor, nil
}

// RequireActor returns the actor in ctx or ErrUnauthenticated.
func RequireActor(ctx context.Context) (*ledger.Actor, error) {
	actor := ActorFromContext(ctx)
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return actor, nil
}

// RequireStaff returns the actor if it is staff, ErrForbidden if it is a
// player, or ErrUnauthenticated when no actor is present.
func RequireStaff(ctx context.Context) (*ledger.Actor, error) {
	actor, err := RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff {
		return nil, ErrForbidden
	}
	return actor, nil
}
