// Package duplicates groups transactions that share an amount and description
// within a trailing time window.
//
// A transaction's duplicate group is a write-time snapshot: it lists the
// matching transactions that were already persisted when it was saved.
// Earlier members are never rewritten to include later arrivals, so groups
// are not symmetric in general.
package duplicates

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
)

// DefaultWindow is the trailing window used when none is configured.
const DefaultWindow = time.Minute

// Engine computes duplicate groups for transactions about to be saved.
type Engine struct {
	window time.Duration
	clock  Clock
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the time source used for windowing.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// NewEngine creates an engine with the given trailing window.
// A non-positive window falls back to DefaultWindow.
func NewEngine(window time.Duration, opts ...Option) *Engine {
	if window <= 0 {
		window = DefaultWindow
	}
	e := &Engine{window: window, clock: SystemClock}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Window returns the trailing window.
func (e *Engine) Window() time.Duration { return e.window }

// Now returns the engine's notion of the current time.
func (e *Engine) Now() time.Time { return e.clock.Now() }

// Resolve returns the IDs of persisted transactions created within
// [now-window, now] whose amount is exactly equal to txn.Amount and whose
// description is identical to txn.Description. When txn already has an ID
// (update path) it is excluded from its own group.
//
// Resolve has the signature of portsrepo.DuplicateResolver.
func (e *Engine) Resolve(ctx context.Context, finder portsrepo.RecentMatchFinder, txn domain.Transaction) (domain.DuplicateGroup, error) {
	now := e.clock.Now()
	windowStart := now.Add(-e.window)

	groups, err := finder.FindRecentMatches(ctx, txn.Amount, windowStart, now)
	if err != nil {
		return domain.DuplicateGroup{}, fmt.Errorf("%w: finding recent matches: %w", apperrors.ErrStorageUnavailable, err)
	}

	key := domain.KeyOf(txn)
	for _, g := range groups {
		if !key.Matches(g.Key()) {
			continue
		}
		group := domain.NewDuplicateGroup(g.IDs...)
		if txn.TransactionID != 0 {
			group = group.Without(txn.TransactionID)
		}
		return group, nil
	}
	return domain.DuplicateGroup{}, nil
}

var _ portsrepo.DuplicateResolver = (*Engine)(nil).Resolve
