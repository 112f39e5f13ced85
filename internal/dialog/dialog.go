// Package dialog keeps the per-user correction sessions: the short-lived
// "this price looks off, pick 1-5" exchanges opened while recording. State
// is process memory only; it neither survives restarts nor crosses
// instances. The dialog is advisory, never authoritative.
package dialog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Livo-Africa/accountbot/internal/models"
	"github.com/Livo-Africa/accountbot/internal/prices"
)

// TTL is how long a correction request stays answerable.
const TTL = 5 * time.Minute

// Menu options. One numeral (or a comma list) answers every pending
// request in the session at once.
const (
	OptionBulk         = 1 // bulk/special purchase, accept as-is
	OptionQuality      = 2 // different quality/brand, accept as-is
	OptionWrongAmount  = 3 // wrong amount: delete and re-enter
	OptionRangeChanged = 4 // widen the trained range to include this amount
	OptionIgnore       = 5 // ignore, range is correct
)

// ValidOption reports whether n is on the menu.
func ValidOption(n int) bool { return n >= OptionBulk && n <= OptionIgnore }

// Menu is the fixed 5-option text appended to every anomaly prompt.
func Menu() string {
	return "1️⃣ Bulk/special purchase (accept as-is)\n" +
		"2️⃣ Different quality/brand (accept as-is)\n" +
		"3️⃣ Wrong amount (I'll delete it, re-enter)\n" +
		"4️⃣ Price range has changed (update range)\n" +
		"5️⃣ Ignore (range is correct)"
}

// Request is one pending anomaly clarification.
type Request struct {
	ID             string
	UserID         int64
	TransactionID  string
	SubjectKey     string
	ProposedAmount float64
	RangeMin       float64
	RangeMax       float64
	Status         prices.Status // above or below
	Difference     float64
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// Line renders the request for the anomaly prompt.
func (r *Request) Line() string {
	return fmt.Sprintf("⚠️ %q is %s the usual range %s-%s (off by %s)",
		r.SubjectKey, r.Status,
		models.FormatAmount(r.RangeMin), models.FormatAmount(r.RangeMax),
		models.FormatAmount(r.Difference))
}

// Session groups every request opened for one transaction, keyed by the
// acting user. It expires with its latest request.
type Session struct {
	ID            string
	UserID        int64
	TransactionID string
	Requests      []*Request
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// Registry owns all open sessions. Expiry is lazy: every access
// re-validates now < expiresAt, so an expired session can linger unread
// but can never be acted upon. No background reaper runs.
type Registry struct {
	sessions map[string]*Session
	byUser   map[int64][]string // session ids in creation order
	now      func() time.Time
}

// NewRegistry builds an empty registry around the given clock.
func NewRegistry(now func() time.Time) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		byUser:   make(map[int64][]string),
		now:      now,
	}
}

// Open creates a session for the user's pending requests. Returns nil when
// there is nothing to ask.
func (g *Registry) Open(userID int64, transactionID string, reqs []Request) *Session {
	if len(reqs) == 0 {
		return nil
	}
	now := g.now()
	s := &Session{
		ID:            uuid.NewString(),
		UserID:        userID,
		TransactionID: transactionID,
		CreatedAt:     now,
	}
	for i := range reqs {
		r := reqs[i]
		r.ID = uuid.NewString()
		r.UserID = userID
		r.TransactionID = transactionID
		r.CreatedAt = now
		r.ExpiresAt = now.Add(TTL)
		if r.ExpiresAt.After(s.ExpiresAt) {
			s.ExpiresAt = r.ExpiresAt
		}
		s.Requests = append(s.Requests, &r)
	}
	g.sessions[s.ID] = s
	g.byUser[userID] = append(g.byUser[userID], s.ID)
	return s
}

// alive re-validates the TTL.
func (g *Registry) alive(s *Session) bool {
	return g.now().Before(s.ExpiresAt)
}

// sweep drops this user's expired sessions and returns how many went.
func (g *Registry) sweep(userID int64) int {
	ids := g.byUser[userID]
	kept := ids[:0]
	swept := 0
	for _, id := range ids {
		s, ok := g.sessions[id]
		if !ok {
			continue
		}
		if g.alive(s) {
			kept = append(kept, id)
			continue
		}
		delete(g.sessions, id)
		swept++
	}
	if len(kept) == 0 {
		delete(g.byUser, userID)
	} else {
		g.byUser[userID] = kept
	}
	return swept
}

// Active returns the user's most recently created live session. When the
// access itself just discarded expired sessions and none remain, the error
// is ErrStaleSession so callers can fall through to ordinary
// classification without telling the user anything.
func (g *Registry) Active(userID int64) (*Session, error) {
	swept := g.sweep(userID)
	ids := g.byUser[userID]
	if len(ids) == 0 {
		if swept > 0 {
			return nil, models.ErrStaleSession
		}
		return nil, nil
	}
	newest := g.sessions[ids[0]]
	for _, id := range ids[1:] {
		if s := g.sessions[id]; s.CreatedAt.After(newest.CreatedAt) {
			newest = s
		}
	}
	return newest, nil
}

// HasOpen reports whether the user has a live session right now.
func (g *Registry) HasOpen(userID int64) bool {
	s, _ := g.Active(userID)
	return s != nil
}

// Close removes a resolved session. Resolution is exactly-once: a second
// identical reply finds nothing and is classified as ordinary text.
func (g *Registry) Close(sessionID string) {
	s, ok := g.sessions[sessionID]
	if !ok {
		return
	}
	delete(g.sessions, sessionID)
	ids := g.byUser[s.UserID]
	kept := ids[:0]
	for _, id := range ids {
		if id != sessionID {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		delete(g.byUser, s.UserID)
	} else {
		g.byUser[s.UserID] = kept
	}
}
