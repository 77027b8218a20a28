package selection

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

const defaultSessionTTL = 2 * time.Hour

var (
	errLoggerRequired = errors.New("selection store logger is required")

	// ErrSessionNotFound is returned when the session id is unknown or expired.
	ErrSessionNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
)

type session struct {
	mu        sync.Mutex
	selection *Selection
	expiresAt time.Time
}

// Store keeps checkout sessions in memory, keyed by session id. Every
// mutation runs to completion under the session's own lock, so concurrent
// requests against one session serialize instead of interleaving.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

type StoreParams struct {
	TTL    time.Duration
	Logger *logger.Logger

	// Now overrides the clock in tests.
	Now func() time.Time
}

func NewStore(params StoreParams) (*Store, error) {
	if params.Logger == nil {
		return nil, errLoggerRequired
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		logger:   params.Logger,
		now:      now,
	}, nil
}

// Create opens an empty session for the member, optionally seeded with a
// pre-selected membership plan.
func (st *Store) Create(ctx context.Context, memberID uuid.UUID, seed *SelectedItem) (*Selection, error) {
	if memberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}

	now := st.now()
	sel := newSelection(memberID, now)
	if seed != nil {
		sel.SetMembership(seed)
	}

	st.mu.Lock()
	st.sessions[sel.SessionID] = &session{
		selection: sel,
		expiresAt: now.Add(st.ttl),
	}
	st.mu.Unlock()

	ctx = st.logger.WithSessionID(ctx, sel.SessionID.String())
	st.logger.Info(ctx, "checkout session created")
	return snapshotOf(sel), nil
}

// Get returns a copy of the session state.
func (st *Store) Get(ctx context.Context, sessionID uuid.UUID) (*Selection, error) {
	sess, err := st.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshotOf(sess.selection), nil
}

// Update applies fn to the session under its lock and refreshes the TTL.
// If fn returns an error the partial mutation is not rolled back; callers
// therefore stage side effects before touching the selection.
//
// expiresAt is guarded by st.mu, and st.mu is never acquired while a
// session lock is held: the TTL refresh happens after sess.mu is released
// so an in-flight update can never deadlock against the sweep.
func (st *Store) Update(ctx context.Context, sessionID uuid.UUID, fn func(*Selection) error) (*Selection, error) {
	sess, err := st.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if err := fn(sess.selection); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.selection.UpdatedAt = st.now()
	out := snapshotOf(sess.selection)
	sess.mu.Unlock()

	st.mu.Lock()
	if _, ok := st.sessions[sessionID]; ok {
		sess.expiresAt = st.now().Add(st.ttl)
	}
	st.mu.Unlock()

	return out, nil
}

// SweepExpired drops sessions past their TTL and returns how many were
// removed. Sessions holding an invoice are kept: an invoice once created is
// never discarded, only paid.
//
// Expired candidates are collected first so no session lock is ever taken
// while st.mu is held. Expiry is re-checked before deleting: an update may
// have refreshed the TTL between the scan and the delete.
func (st *Store) SweepExpired(ctx context.Context) int {
	now := st.now()

	st.mu.RLock()
	expired := make(map[uuid.UUID]*session)
	for id, sess := range st.sessions {
		if now.Before(sess.expiresAt) {
			continue
		}
		expired[id] = sess
	}
	st.mu.RUnlock()

	removed := 0
	for id, sess := range expired {
		sess.mu.Lock()
		hasInvoice := sess.selection.HasInvoice() && !sess.selection.Invoice.Status.IsSettled()
		sess.mu.Unlock()
		if hasInvoice {
			continue
		}

		st.mu.Lock()
		if live, ok := st.sessions[id]; ok && live == sess && !now.Before(sess.expiresAt) {
			delete(st.sessions, id)
			removed++
		}
		st.mu.Unlock()
	}

	if removed > 0 {
		st.logger.Info(st.logger.WithField(ctx, "removed", removed), "expired checkout sessions swept")
	}
	return removed
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) lookup(sessionID uuid.UUID) (*session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[sessionID]
	var expiresAt time.Time
	if ok {
		expiresAt = sess.expiresAt
	}
	st.mu.RUnlock()
	if !ok || st.now().After(expiresAt) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// snapshotOf copies the selection so callers cannot mutate store state
// outside Update.
func snapshotOf(sel *Selection) *Selection {
	out := *sel
	out.Packages = append([]SelectedItem(nil), sel.Packages...)
	out.Services = append([]SelectedItem(nil), sel.Services...)
	if sel.Invoice != nil {
		inv := *sel.Invoice
		inv.Items = append([]vitalfit.InvoiceItem(nil), sel.Invoice.Items...)
		inv.Payments = append([]vitalfit.Payment(nil), sel.Invoice.Payments...)
		out.Invoice = &inv
	}
	return &out
}
