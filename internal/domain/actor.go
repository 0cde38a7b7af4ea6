package domain

import (
	"context"
	"fmt"
)

// Actor is the resolved identity behind a token
type Actor struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Names string `json:"names"`
	Email string `json:"email"`
}

// AccountLookup is what actor resolvers need to load business accounts.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*Account, error)
}

// ActorSources bundles the lookups available to actor resolvers.
type ActorSources struct {
	Accounts AccountLookup
}

// ActorKind is a closed set of actor types. The unexported resolve method
// keeps new kinds inside this package and forces each to bring a resolver.
type ActorKind interface {
	Tag() string
	resolve(ctx context.Context, src ActorSources, id string) (*Actor, error)
}

type businessAccountKind struct{}

func (businessAccountKind) Tag() string { return AccountTypeBusiness }

func (k businessAccountKind) resolve(ctx context.Context, src ActorSources, id string) (*Actor, error) {
	account, err := src.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Actor{
		ID:    account.ID,
		Type:  k.Tag(),
		Names: account.Names,
		Email: account.Email,
	}, nil
}

// BusinessAccount is the store owner actor kind.
var BusinessAccount ActorKind = businessAccountKind{}

var actorKinds = map[string]ActorKind{
	BusinessAccount.Tag(): BusinessAccount,
}

// ParseActorKind maps a token type tag to its actor kind.
func ParseActorKind(tag string) (ActorKind, error) {
	kind, ok := actorKinds[tag]
	if !ok {
		return nil, fmt.Errorf("unsupported actor type: %q", tag)
	}
	return kind, nil
}

// ResolveActor loads the actor identified by id using kind's resolver.
func ResolveActor(ctx context.Context, kind ActorKind, src ActorSources, id string) (*Actor, error) {
	return kind.resolve(ctx, src, id)
}
