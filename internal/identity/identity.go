// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity supplies the current actor to the chat subsystem.
//
// Authentication itself is an external collaborator: the chat code depends
// only on the narrow Provider interface, never on a concrete backend. When
// no identity is available the subsystem substitutes the literal "guest".
package identity

// Actor is the resolved current user.
type Actor struct {
	ID   string
	Name string
}

// Guest is the fallback actor used when no identity is available.
var Guest = Actor{ID: "guest", Name: "Guest"}

// Provider resolves the current actor.
type Provider interface {
	// CurrentUser returns the current actor and true, or false when nobody
	// is signed in.
	CurrentUser() (Actor, bool)
}

// =============================================================================
// IMPLEMENTATIONS
// =============================================================================

// Static is a Provider that always returns a fixed actor. Used for the
// --user CLI flag and in tests.
type Static struct {
	Actor Actor
}

// CurrentUser implements Provider.
func (s Static) CurrentUser() (Actor, bool) {
	if s.Actor.ID == "" {
		return Actor{}, false
	}
	return s.Actor, true
}

// None is a Provider with nobody signed in.
type None struct{}

// CurrentUser implements Provider.
func (None) CurrentUser() (Actor, bool) {
	return Actor{}, false
}

// Resolve returns the provider's actor, falling back to Guest when the
// provider is nil or reports no user. Callers never see an absent identity.
func Resolve(p Provider) Actor {
	if p == nil {
		return Guest
	}
	actor, ok := p.CurrentUser()
	if !ok || actor.ID == "" {
		return Guest
	}
	if actor.Name == "" {
		actor.Name = Guest.Name
	}
	return actor
}
