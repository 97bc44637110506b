// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jeranaias/rentbuddy-tui/internal/gemini"
	"github.com/jeranaias/rentbuddy-tui/internal/identity"
	"github.com/jeranaias/rentbuddy-tui/internal/model"
	"github.com/jeranaias/rentbuddy-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBusy is returned when a reply is already pending.
	ErrBusy = errors.New("a reply is already pending")

	// ErrEmptyUtterance is returned for blank input.
	ErrEmptyUtterance = errors.New("utterance is empty")
)

// =============================================================================
// STATE
// =============================================================================

// State is the conversation lifecycle phase.
type State int

const (
	// StateIdle is the constructed-but-not-started state.
	StateIdle State = iota

	// StateLoading covers history load and intro generation.
	StateLoading

	// StateReady accepts new utterances.
	StateReady

	// StateAwaitingReply has a placeholder at the head of the transcript.
	StateAwaitingReply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateAwaitingReply:
		return "awaiting reply"
	default:
		return "unknown"
	}
}

// =============================================================================
// COMPLETION CLIENT
// =============================================================================

// CompletionClient is the completion surface the controller drives.
// *gemini.Client satisfies it; tests substitute a fake.
type CompletionClient interface {
	Completion(ctx context.Context, utterance string, onPartial gemini.PartialFunc, history model.Log) string
	InitialCompletion(ctx context.Context, onPartial gemini.PartialFunc, userName string) string
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns one conversation. All mutation goes through it.
//
// Completion calls block, so Start, Submit, and Reset are meant to run
// off the UI goroutine. The transcript lock is never held across a
// network call. Saves are fire and forget; Flush waits for them.
type Controller struct {
	mu sync.Mutex

	client CompletionClient
	store  *storage.HistoryStore
	user   identity.Actor

	sessionID string
	state     State
	log       model.Log

	// Callbacks, invoked outside the lock
	onChange      func(model.Log)
	onStateChange func(State)

	saves sync.WaitGroup
}

// NewController creates a controller for one user's conversation.
func NewController(client CompletionClient, store *storage.HistoryStore, user identity.Actor) *Controller {
	return &Controller{
		client:    client,
		store:     store,
		user:      user,
		sessionID: uuid.NewString(),
		state:     StateIdle,
	}
}

// SetOnChange registers the transcript observer. The callback receives
// a snapshot and may be invoked from any goroutine.
func (c *Controller) SetOnChange(fn func(model.Log)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// SetOnStateChange registers the lifecycle observer.
func (c *Controller) SetOnStateChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// =============================================================================
// ACCESSORS
// =============================================================================

// SessionID returns the unique ID of this conversation session.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// User returns the actor this conversation belongs to.
func (c *Controller) User() identity.Actor {
	return c.user
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Log returns a snapshot of the transcript, newest first.
func (c *Controller) Log() model.Log {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Clone()
}

// AwaitingReply reports whether a reply is pending. The input widgets
// use it as the submit guard.
func (c *Controller) AwaitingReply() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateAwaitingReply
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start loads persisted history, or generates the assistant's
// introduction when there is none. Safe to call once per controller.
func (c *Controller) Start(ctx context.Context) {
	c.setState(StateLoading)

	history := c.store.Load(c.user.ID)
	if history.Len() > 0 {
		c.mu.Lock()
		c.log = rekey(history)
		c.mu.Unlock()
		c.notifyChange()
		c.setState(StateReady)
		return
	}

	c.intro(ctx)
}

// Submit sends one user utterance and blocks until the reply lands.
// The transcript grows by exactly two messages per accepted call. Blank
// input returns ErrEmptyUtterance; a pending reply returns ErrBusy.
func (c *Controller) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyUtterance
	}

	c.mu.Lock()
	if c.state == StateAwaitingReply || c.state == StateLoading || c.log.HasPending() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.log.Unshift(model.NewUserMessage(text))
	c.log.Unshift(model.NewPlaceholder())
	c.state = StateAwaitingReply
	snapshot := c.log.Clone()
	c.mu.Unlock()

	c.notifyChange()
	c.notifyState(StateAwaitingReply)

	c.client.Completion(ctx, text, c.applyPartial, snapshot)

	c.finishTurn()
	return nil
}

// Reset clears stored history and starts a fresh conversation with a
// new introduction. A pending reply returns ErrBusy; a failed store
// clear is logged by the store and does not block the reset.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateAwaitingReply {
		c.mu.Unlock()
		return ErrBusy
	}
	c.log = model.Log{}
	c.mu.Unlock()

	c.store.Clear(c.user.ID)
	c.notifyChange()

	c.setState(StateLoading)
	c.intro(ctx)
	return nil
}

// Flush waits for outstanding background saves. Call on shutdown.
func (c *Controller) Flush() {
	c.saves.Wait()
}

// =============================================================================
// INTERNALS
// =============================================================================

// intro puts a placeholder at the head of the transcript and fills it
// with the assistant's introduction.
func (c *Controller) intro(ctx context.Context) {
	c.mu.Lock()
	c.log.Unshift(model.NewPlaceholder())
	c.mu.Unlock()
	c.notifyChange()

	c.client.InitialCompletion(ctx, c.applyPartial, c.user.Name)

	c.finishTurn()
}

// applyPartial patches the pending placeholder with reply text.
func (c *Controller) applyPartial(token string) {
	c.mu.Lock()
	changed := c.log.ResolvePending(token)
	c.mu.Unlock()
	if changed {
		c.notifyChange()
	}
}

// finishTurn moves back to StateReady and persists in the background.
func (c *Controller) finishTurn() {
	c.mu.Lock()
	c.state = StateReady
	snapshot := c.log.Clone()
	c.mu.Unlock()

	c.notifyState(StateReady)

	c.saves.Add(1)
	go func() {
		defer c.saves.Done()
		c.store.Save(c.user.ID, snapshot)
	}()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.notifyState(s)
}

func (c *Controller) notifyChange() {
	c.mu.Lock()
	fn := c.onChange
	snapshot := c.log.Clone()
	c.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

func (c *Controller) notifyState(s State) {
	c.mu.Lock()
	fn := c.onStateChange
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// rekey regenerates IDs for persisted messages that are missing one,
// carry a malformed one, or duplicate an earlier entry's, so list
// rendering always has unique keys.
func rekey(history model.Log) model.Log {
	for i := range history {
		malformed := history[i].ID == "" || !strings.Contains(history[i].ID, "-")
		if malformed || history[:i].ContainsID(history[i].ID) {
			history[i].ID = model.NewID()
		}
	}
	return history
}
