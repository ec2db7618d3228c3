// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates the conversation lifecycle.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/noesislabs/noesis-tui/internal/model"
	"github.com/noesislabs/noesis-tui/internal/noesis"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Streamer opens one generation stream and delivers its decoded events.
// *noesis.Client satisfies this.
type Streamer interface {
	StreamMessage(ctx context.Context, msg noesis.MessageRequest, fn func(noesis.StreamEvent)) error
}

// Directory is the server-side conversation directory.
// *noesis.Client satisfies this.
type Directory interface {
	ListConversations(ctx context.Context) ([]noesis.Conversation, error)
	CreateConversation(ctx context.Context) (string, error)
	ConversationMessages(ctx context.Context, id string) ([]noesis.HistoryEntry, error)
	DeleteConversation(ctx context.Context, id string) error
}

// =============================================================================
// STATE
// =============================================================================

// State is the controller's lifecycle state.
type State int

const (
	// StateIdle means no generation is in flight; all operations are accepted.
	StateIdle State = iota

	// StateStreaming means exactly one generation stream is in flight.
	// Every operation except CancelStream is a no-op until it ends.
	StateStreaming
)

// Telemetry is the client-side timing record for the most recent stream.
// Zero durations mean the measurement never happened (no stream yet, or no
// token arrived before termination).
type Telemetry struct {
	TimeToFirstToken time.Duration
	Elapsed          time.Duration
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the conversation state and the single-in-flight-stream
// invariant. All exported methods are safe for concurrent use; stream events
// are applied under the same lock as the operations, so observers never see a
// half-applied record.
type Controller struct {
	mu sync.Mutex

	log            *model.TurnLog
	state          State
	conversationID string
	conversations  []noesis.Conversation
	connErr        bool
	sampling       noesis.Sampling

	streamer  Streamer
	directory Directory

	cancel context.CancelFunc

	streamStarted time.Time
	firstTokenAt  time.Time
	telemetry     Telemetry

	// Callbacks
	onChange func()
}

// NewController creates an idle controller with an empty turn log.
func NewController(streamer Streamer, directory Directory, sampling noesis.Sampling) *Controller {
	return &Controller{
		log:       model.NewTurnLog(),
		streamer:  streamer,
		directory: directory,
		sampling:  sampling,
	}
}

// SetOnChange sets the function called after every observable state change.
// It is invoked outside the controller lock and may be called from the
// streaming goroutine.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// SetSampling replaces the generation parameters used for subsequent
// requests. An in-flight stream keeps the parameters it started with.
func (c *Controller) SetSampling(s noesis.Sampling) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sampling = s
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// =============================================================================
// SUBMIT / EDIT
// =============================================================================

// Submit appends a user turn with text plus an empty assistant turn and
// starts streaming the reply into the latter. Returns false without side
// effects when text is empty or a stream is already in flight.
func (c *Controller) Submit(text string) bool {
	c.mu.Lock()

	if text == "" || c.state != StateIdle {
		c.mu.Unlock()
		return false
	}

	userIndex := c.log.Len()
	if !c.log.Append(model.NewUserTurn(text)) {
		c.mu.Unlock()
		return false
	}
	c.log.Append(model.NewAssistantTurn())
	target := userIndex + 1

	req := noesis.MessageRequest{
		Message:  text,
		Sampling: c.sampling,
	}
	if c.conversationID != "" {
		// The server holds the history; send only the id.
		req.ConversationID = c.conversationID
	} else {
		req.History = model.ProjectHistory(c.log.Turns(), userIndex)
	}

	c.beginStreamLocked(req, target)
	c.mu.Unlock()

	c.notify()
	return true
}

// EditAndRegenerate replaces the user turn at index with newText, discards
// every later turn and its statistics, and streams a fresh reply into a new
// assistant turn at index+1. The request context is the explicit history of
// the turns strictly before index; discarded turns are not deleted
// server-side. Returns false without side effects when index is not an
// existing user turn, newText is empty, or a stream is in flight.
func (c *Controller) EditAndRegenerate(index int, newText string) bool {
	c.mu.Lock()

	if newText == "" || c.state != StateIdle {
		c.mu.Unlock()
		return false
	}
	if index%2 != 0 || index >= c.log.Len() {
		c.mu.Unlock()
		return false
	}

	history := model.ProjectHistory(c.log.Turns(), index)

	if !c.log.ReplaceFrom(index, model.NewUserTurn(newText)) {
		c.mu.Unlock()
		return false
	}
	c.log.ClearStatsFrom(index)
	c.log.Append(model.NewAssistantTurn())
	target := index + 1

	req := noesis.MessageRequest{
		Message:  newText,
		History:  history,
		Sampling: c.sampling,
	}

	c.beginStreamLocked(req, target)
	c.mu.Unlock()

	c.notify()
	return true
}

// beginStreamLocked flips to Streaming and launches the stream goroutine.
// Caller holds the lock.
func (c *Controller) beginStreamLocked(req noesis.MessageRequest, target int) {
	ctx, cancel := context.WithCancel(context.Background())
	c.state = StateStreaming
	c.connErr = false
	c.cancel = cancel
	c.streamStarted = time.Now()
	c.firstTokenAt = time.Time{}

	go c.runStream(ctx, cancel, req, target)
}

// runStream drives one generation stream to completion and returns the
// controller to Idle. Partial assistant text received before a failure is
// kept, never rolled back.
func (c *Controller) runStream(ctx context.Context, cancel context.CancelFunc, req noesis.MessageRequest, target int) {
	defer cancel()

	err := c.streamer.StreamMessage(ctx, req, func(ev noesis.StreamEvent) {
		c.applyEvent(ev, target)
	})

	c.mu.Lock()
	if err != nil && !errors.Is(err, context.Canceled) {
		c.connErr = true
	}
	c.telemetry = Telemetry{Elapsed: time.Since(c.streamStarted)}
	if !c.firstTokenAt.IsZero() {
		c.telemetry.TimeToFirstToken = c.firstTokenAt.Sub(c.streamStarted)
	}
	c.state = StateIdle
	c.cancel = nil
	c.mu.Unlock()

	c.notify()
}

// applyEvent applies one decoded stream event to the turn log.
func (c *Controller) applyEvent(ev noesis.StreamEvent, target int) {
	c.mu.Lock()

	var refreshDirectory bool
	switch ev.Kind {
	case noesis.EventToken:
		if c.firstTokenAt.IsZero() {
			c.firstTokenAt = time.Now()
		}
		c.log.AppendText(target, ev.Token)

	case noesis.EventStats:
		c.log.SetStats(target, model.GenerationStats{
			TotalTokens:     ev.TotalTokens,
			TokensPerSecond: ev.TokensPerSecond,
		})

	case noesis.EventConversationID:
		if c.conversationID == "" {
			c.conversationID = ev.ConversationID
			refreshDirectory = true
		}

	case noesis.EventEnd:
		// The Idle transition happens in runStream once the read loop
		// returns, so cancellation and transport failure share one path.
	}

	c.mu.Unlock()

	if refreshDirectory {
		go c.refreshDirectory()
	}
	c.notify()
}

// CancelStream aborts the in-flight stream, if any. The controller returns
// to Idle once the read loop observes the cancellation; text already
// received is kept and no statistics are recorded.
func (c *Controller) CancelStream() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// =============================================================================
// CONVERSATION OPERATIONS
// =============================================================================

// SelectConversation loads a conversation's persisted messages and replaces
// the local state with them. A no-op while streaming; a network failure
// leaves the current state untouched.
func (c *Controller) SelectConversation(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	messages, err := c.directory.ConversationMessages(ctx, id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.log.Reset()
	for _, m := range messages {
		c.log.Append(model.Turn{Role: model.Role(m.Role), Text: m.Content})
	}
	c.conversationID = id
	c.telemetry = Telemetry{}
	c.mu.Unlock()

	c.notify()
	return nil
}

// NewConversation asks the directory to create a conversation, adopts its id
// and starts from an empty turn log. A no-op while streaming.
func (c *Controller) NewConversation(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	id, err := c.directory.CreateConversation(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conversationID = id
	c.log.Reset()
	c.telemetry = Telemetry{}
	c.mu.Unlock()

	c.notify()
	return c.RefreshDirectory(ctx)
}

// DeleteConversation removes a conversation server-side. Deleting the
// current conversation clears the local state even when the delete call
// fails; the directory is refreshed afterwards either way.
func (c *Controller) DeleteConversation(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	deleteErr := c.directory.DeleteConversation(ctx, id)

	c.mu.Lock()
	if id == c.conversationID {
		c.conversationID = ""
		c.log.Reset()
		c.telemetry = Telemetry{}
	}
	c.mu.Unlock()

	c.notify()
	if err := c.RefreshDirectory(ctx); err != nil {
		return err
	}
	return deleteErr
}

// RefreshDirectory reloads the conversation list from the server.
func (c *Controller) RefreshDirectory(ctx context.Context) error {
	conversations, err := c.directory.ListConversations(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conversations = conversations
	c.mu.Unlock()

	c.notify()
	return nil
}

func (c *Controller) refreshDirectory() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = c.RefreshDirectory(ctx)
}

// =============================================================================
// OBSERVABLE STATE
// =============================================================================

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Streaming reports whether a generation stream is in flight.
func (c *Controller) Streaming() bool {
	return c.State() == StateStreaming
}

// ConversationID returns the current conversation id, or "" when the
// conversation has not been persisted server-side yet.
func (c *Controller) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}

// Turns returns a copy of the turn sequence.
func (c *Controller) Turns() []model.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Turns()
}

// Stats returns the generation statistics for the turn at index.
func (c *Controller) Stats(index int) (model.GenerationStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Stats(index)
}

// Conversations returns the most recently fetched directory listing.
func (c *Controller) Conversations() []noesis.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]noesis.Conversation, len(c.conversations))
	copy(out, c.conversations)
	return out
}

// ConnectionError reports whether the most recent stream failed at the
// transport level. Cleared when the next stream starts.
func (c *Controller) ConnectionError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connErr
}

// Telemetry returns the timing record of the most recent completed stream.
func (c *Controller) Telemetry() Telemetry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.telemetry
}
