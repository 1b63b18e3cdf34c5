// Package syncer implements the polling engine that keeps the conversation
// list and the active conversation's messages current. All freshness comes
// from timer-driven re-fetching; the backend is always authoritative and
// local snapshots are replaced wholesale on every successful poll.
package syncer

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"worktrack/services/messaging/config"
	"worktrack/services/messaging/domain/conversation"
	"worktrack/services/messaging/domain/group"
	"worktrack/services/messaging/domain/message"
	"worktrack/services/messaging/domain/status"
	"worktrack/services/messaging/infrastructure/metrics"
)

// Source defines the backend reads the synchronizer polls.
type Source interface {
	ListThreads(ctx context.Context) ([]conversation.Conversation, error)
	ListGroups(ctx context.Context) ([]group.Group, error)
	ListMessages(ctx context.Context, target conversation.Key) ([]message.Message, error)
}

// Synchronizer owns the synchronized snapshots and the two polling loops.
// It implements group.Refresher, message.Refresher and message.View.
type Synchronizer struct {
	source Source
	cfg    *config.Config
	log    zerolog.Logger

	mu            sync.Mutex
	conversations []conversation.Conversation
	listFetched   bool
	selected      *conversation.Key
	state         status.Status
	epoch         uint64
	cancelFetch   context.CancelFunc
	snapshots     *lru.Cache // conversation.Key -> []message.Message

	// Outstanding message fetches, selection-initiated ones included. A
	// tick is skipped while any are in flight, so two polls for the same
	// conversation can never overlap.
	msgFetches   int
	convInFlight bool

	msgRefreshCh  chan struct{}
	convRefreshCh chan struct{}
}

// New creates a synchronizer. The snapshot cache keeps the most recently
// viewed conversations' message lists so long-running sessions stay bounded.
func New(source Source, cfg *config.Config, log zerolog.Logger) (*Synchronizer, error) {
	snapshots, err := lru.New(cfg.SnapshotCacheSize)
	if err != nil {
		return nil, err
	}
	return &Synchronizer{
		source:        source,
		cfg:           cfg,
		log:           log.With().Str("component", "syncer").Logger(),
		state:         status.StatusIdle,
		snapshots:     snapshots,
		msgRefreshCh:  make(chan struct{}, 1),
		convRefreshCh: make(chan struct{}, 1),
	}, nil
}

// Run drives the two polling loops until ctx is cancelled: the active
// conversation's messages on the short interval, the conversation list on
// the long one. A failed poll is logged and the next tick proceeds; stale
// data stays visible rather than blanking the view.
func (s *Synchronizer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.messageLoop(ctx) })
	g.Go(func() error { return s.conversationLoop(ctx) })
	return g.Wait()
}

func (s *Synchronizer) messageLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.MessagePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.syncActiveMessages(ctx)
		case <-s.msgRefreshCh:
			// Out-of-band refresh supersedes the next scheduled tick.
			s.syncActiveMessages(ctx)
			ticker.Reset(s.cfg.MessagePollInterval)
		}
	}
}

func (s *Synchronizer) conversationLoop(ctx context.Context) error {
	// The list is fetched once up front so the sidebar is not empty for a
	// full long interval after startup.
	s.syncConversations(ctx)

	ticker := time.NewTicker(s.cfg.ConversationPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.syncConversations(ctx)
		case <-s.convRefreshCh:
			s.syncConversations(ctx)
			ticker.Reset(s.cfg.ConversationPollInterval)
		}
	}
}

// Select makes key the active conversation. Any fetch outstanding for the
// previously active conversation is cancelled, and its late result is
// discarded by the epoch guard rather than applied to the wrong view. The
// initial load happens asynchronously; the UI stays responsive and observes
// StatusLoading until it settles.
func (s *Synchronizer) Select(ctx context.Context, key conversation.Key) {
	s.mu.Lock()
	if s.cancelFetch != nil {
		s.cancelFetch()
	}
	s.epoch++
	epoch := s.epoch
	s.selected = &key
	s.transition(status.StatusLoading)
	s.msgFetches++

	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelFetch = cancel
	s.mu.Unlock()

	go func() {
		defer s.endMessageFetch()
		s.fetchAndApply(fetchCtx, key, epoch)
	}()
}

func (s *Synchronizer) endMessageFetch() {
	s.mu.Lock()
	s.msgFetches--
	s.mu.Unlock()
}

// ForceRefresh triggers an immediate out-of-band refresh of the active
// message list and the conversation list. Signal channels have capacity
// one, so a refresh already pending never double-fires.
func (s *Synchronizer) ForceRefresh() {
	metrics.ForcedRefreshesTotal.Inc()
	select {
	case s.msgRefreshCh <- struct{}{}:
	default:
	}
	select {
	case s.convRefreshCh <- struct{}{}:
	default:
	}
}

// DropMessage removes a message from the local snapshot ahead of backend
// confirmation. The next poll's full replace is authoritative either way.
func (s *Synchronizer) DropMessage(target conversation.Key, messageID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.snapshots.Get(target)
	if !ok {
		return
	}
	current := cached.([]message.Message)
	kept := make([]message.Message, 0, len(current))
	for _, m := range current {
		if m.ID != messageID {
			kept = append(kept, m)
		}
	}
	s.snapshots.Add(target, kept)
}

// Conversations returns the latest aggregated sidebar list.
func (s *Synchronizer) Conversations() []conversation.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]conversation.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// ListFetched reports whether at least one conversation poll has succeeded,
// letting the UI distinguish "not loaded yet" from a genuinely empty list.
func (s *Synchronizer) ListFetched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listFetched
}

// SelectedKey returns the active conversation key, or nil.
func (s *Synchronizer) SelectedKey() *conversation.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	key := *s.selected
	return &key
}

// State returns the active conversation's load state.
func (s *Synchronizer) State() status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns the snapshot for a conversation, newest-last as the
// source delivers it. The UI renders display order itself.
func (s *Synchronizer) Messages(key conversation.Key) []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached, ok := s.snapshots.Get(key)
	if !ok {
		return nil
	}
	current := cached.([]message.Message)
	out := make([]message.Message, len(current))
	copy(out, current)
	return out
}

// syncActiveMessages refreshes the active conversation on a timer tick. A
// tick firing while that conversation's fetch is still outstanding is
// skipped, not queued.
func (s *Synchronizer) syncActiveMessages(ctx context.Context) {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return
	}
	if s.msgFetches > 0 {
		s.mu.Unlock()
		metrics.SkippedTicksTotal.WithLabelValues("messages").Inc()
		return
	}
	s.msgFetches++
	key := *s.selected
	epoch := s.epoch
	if s.state == status.StatusError {
		// Scheduled retry after a failed initial load.
		s.transition(status.StatusLoading)
	}
	s.mu.Unlock()

	defer s.endMessageFetch()

	s.fetchAndApply(ctx, key, epoch)
}

// fetchAndApply fetches one conversation's full message list and applies
// it when the conversation is still the active one for the same epoch.
func (s *Synchronizer) fetchAndApply(ctx context.Context, key conversation.Key, epoch uint64) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	msgs, err := s.source.ListMessages(fetchCtx, key)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		metrics.RecordPoll("messages", "error", elapsed)
		s.log.Warn().Err(err).Str("conversation", key.String()).Msg("message poll failed")
		s.failInitialLoad(key, epoch)
		return
	}

	metrics.RecordPoll("messages", "ok", elapsed)
	s.applyMessages(key, epoch, msgs)
}

// applyMessages installs a fetched snapshot. Results that arrive after the
// active conversation changed are discarded, never applied to the wrong
// view. Returns whether the snapshot was applied.
func (s *Synchronizer) applyMessages(key conversation.Key, epoch uint64, msgs []message.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.selected == nil || *s.selected != key {
		metrics.StaleResponsesTotal.Inc()
		s.log.Debug().Str("conversation", key.String()).Msg("discarding stale fetch result")
		return false
	}

	s.snapshots.Add(key, msgs)
	if s.state != status.StatusLoaded {
		s.transition(status.StatusLoaded)
	}
	return true
}

// failInitialLoad transitions to Error only when the failed fetch was the
// still-current initial load. Background refresh failures keep the loaded
// snapshot visible.
func (s *Synchronizer) failInitialLoad(key conversation.Key, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.selected == nil || *s.selected != key {
		return
	}
	if s.state == status.StatusLoading {
		s.transition(status.StatusError)
	}
}

// syncConversations refreshes the aggregated sidebar list. Either source
// failing still yields the healthy subset; only a total failure leaves the
// previous list in place.
func (s *Synchronizer) syncConversations(ctx context.Context) {
	s.mu.Lock()
	if s.convInFlight {
		s.mu.Unlock()
		metrics.SkippedTicksTotal.WithLabelValues("conversations").Inc()
		return
	}
	s.convInFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.convInFlight = false
		s.mu.Unlock()
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	threads, threadsErr := s.source.ListThreads(fetchCtx)
	groups, groupsErr := s.source.ListGroups(fetchCtx)
	elapsed := time.Since(start).Seconds()

	if threadsErr != nil {
		s.log.Warn().Err(threadsErr).Msg("thread list poll failed")
		threads = nil
	}
	if groupsErr != nil {
		s.log.Warn().Err(groupsErr).Msg("group list poll failed")
		groups = nil
	}
	if threadsErr != nil && groupsErr != nil {
		metrics.RecordPoll("conversations", "error", elapsed)
		return
	}
	metrics.RecordPoll("conversations", "ok", elapsed)

	merged := conversation.Aggregate(threads, groups)

	s.mu.Lock()
	s.conversations = merged
	s.listFetched = true
	previous := s.selected
	s.selected = conversation.Select(merged, s.selected)
	autoSelected := previous == nil && s.selected != nil
	cleared := previous != nil && s.selected == nil
	if cleared {
		s.transition(status.StatusIdle)
	}
	var key conversation.Key
	var epoch uint64
	var fetchCtx2 context.Context
	if autoSelected {
		// The aggregation picked the first team conversation; load it the
		// same way an explicit selection would.
		s.epoch++
		epoch = s.epoch
		key = *s.selected
		s.transition(status.StatusLoading)
		s.msgFetches++
		var cancelAuto context.CancelFunc
		fetchCtx2, cancelAuto = context.WithCancel(ctx)
		if s.cancelFetch != nil {
			s.cancelFetch()
		}
		s.cancelFetch = cancelAuto
	}
	s.mu.Unlock()

	if autoSelected {
		go func() {
			defer s.endMessageFetch()
			s.fetchAndApply(fetchCtx2, key, epoch)
		}()
	}
}

// transition applies a state change, tolerating re-entry into the same
// state. Invalid transitions indicate a programming error and are logged
// rather than applied.
func (s *Synchronizer) transition(target status.Status) {
	if s.state == target {
		return
	}
	next, err := s.state.TransitionTo(target)
	if err != nil && target == status.StatusIdle {
		// Clearing the selection resets the machine outright.
		s.state = status.StatusIdle
		return
	}
	if err != nil {
		s.log.Error().Str("from", s.state.String()).Str("to", target.String()).Msg("invalid sync state transition")
		return
	}
	s.state = next
}
