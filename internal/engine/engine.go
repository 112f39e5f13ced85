// Package engine is the decision core: it owns the ordered intent rule
// table and composes the price knowledge base, anomaly detection, the
// correction dialog, budgets, recurring templates and reports into one
// Dispatch call per inbound message.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Livo-Africa/accountbot/internal/budget"
	"github.com/Livo-Africa/accountbot/internal/dialog"
	"github.com/Livo-Africa/accountbot/internal/models"
	"github.com/Livo-Africa/accountbot/internal/prices"
	"github.com/Livo-Africa/accountbot/internal/recurring"
	"github.com/Livo-Africa/accountbot/internal/report"
	"github.com/Livo-Africa/accountbot/pkg/tabular"
)

const (
	emptyGuidance = "✍️ Tell me something like: +expense 200 printer paper #office — or type 'help'."
	unrecognized  = "🤔 Command not recognized. Type 'help' for options."
)

// Engine holds every collection the handlers touch. Nothing in here is a
// package global; tests build engines around fake stores and clocks.
type Engine struct {
	store     tabular.Store
	kb        *prices.KB
	sessions  *dialog.Registry
	budgets   *budget.Tracker
	recurring *recurring.Scheduler
	reports   *report.Reporter
	log       zerolog.Logger
	now       func() time.Time
	rules     []rule
}

// Options configures New. Now defaults to time.Now.
type Options struct {
	Store    tabular.Store
	Logger   zerolog.Logger
	Now      func() time.Time
	Currency string
}

// New wires an engine around the given store.
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	e := &Engine{
		store:     opts.Store,
		kb:        prices.NewKB(opts.Store, now),
		sessions:  dialog.NewRegistry(now),
		budgets:   budget.NewTracker(opts.Store, now),
		recurring: recurring.NewScheduler(opts.Store, now),
		reports:   report.NewReporter(opts.Store, now, opts.Currency),
		log:       opts.Logger,
		now:       now,
	}
	e.rules = e.ruleTable()
	return e
}

// rule pairs a predicate with its handler. try reports whether the rule
// claimed the message; the first claim wins.
type rule struct {
	name string
	try  func(ctx context.Context, msg models.Message) (models.Reply, bool)
}

// ruleTable is the classifier: evaluated top to bottom, fixed priority.
// Bare numeric replies outrank everything, then exact trained subjects,
// then the marker verbs, the fixed keywords, deletion, help, small talk.
func (e *Engine) ruleTable() []rule {
	return []rule{
		{"correction-reply", e.tryCorrectionReply},
		{"quick-record", e.tryQuickRecord},
		{"record", e.tryRecord},
		{"train", e.tryTrain},
		{"forget", e.tryForget},
		{"budget-set", e.tryBudgetSet},
		{"budget-delete", e.tryBudgetDelete},
		{"recurring-add", e.tryRecurringAdd},
		{"record-due", e.tryRecordDue},
		{"goal-set", e.tryGoalSet},
		{"goal-status", e.tryGoalStatus},
		{"price-check", e.tryPriceCheck},
		{"report", e.tryReport},
		{"deletion", e.tryDeletion},
		{"help", e.tryHelp},
		{"smalltalk", e.trySmalltalk},
	}
}

// Dispatch turns one inbound message into exactly one reply. It never
// panics across the transport boundary and never returns an empty reply.
func (e *Engine) Dispatch(ctx context.Context, msg models.Message) (reply models.Reply) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("text", msg.Text).Msg("dispatch panicked")
			reply = models.TextReply("😵 Something went wrong on my side. Please try that again.")
		}
	}()

	msg.Text = strings.TrimSpace(msg.Text)
	if msg.Text == "" {
		return models.TextReply(emptyGuidance)
	}
	for _, r := range e.rules {
		if reply, ok := r.try(ctx, msg); ok {
			e.log.Debug().
				Str("rule", r.name).
				Str("user", msg.UserName).
				Int64("chat", msg.ChatID).
				Msg("dispatched")
			return reply
		}
	}
	return models.TextReply(unrecognized)
}

// HasOpenSession reports whether the user has a live correction session.
// Transports use it to let bare numeric replies through group gating.
func (e *Engine) HasOpenSession(userID int64) bool {
	return e.sessions.HasOpen(userID)
}

// tryQuickRecord suggests the record command when the text names a trained
// subject exactly.
func (e *Engine) tryQuickRecord(ctx context.Context, msg models.Message) (models.Reply, bool) {
	entry, err := e.kb.ExactMatch(ctx, msg.Text)
	if err != nil {
		e.log.Warn().Err(err).Msg("quick-record lookup failed")
		return models.Reply{}, false
	}
	if entry == nil {
		return models.Reply{}, false
	}
	suggest := strings.TrimPrefix(entry.Key, "#")
	text := fmt.Sprintf("💡 %q is trained at %s-%s%s.\nTo record: +expense [amount] %s",
		entry.Key, models.FormatAmount(entry.Min), models.FormatAmount(entry.Max),
		unitSuffix(entry.Unit), suggest)
	return models.TextReply(text), true
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " per " + unit
}

// errorReply maps the error taxonomy onto reply text. Validation messages
// are already corrective; store failures are truncated to a generic line.
func (e *Engine) errorReply(err error) models.Reply {
	switch {
	case models.IsValidation(err):
		return models.TextReply(err.Error())
	case models.IsNotFound(err):
		return models.TextReply("❌ " + err.Error())
	case models.IsStore(err):
		return models.TextReply(e.storeLine(err))
	}
	return models.TextReply("❌ " + truncate(err.Error(), 120))
}

// storeLine converts a persistence failure to its user-facing form and
// logs the full cause. No retries; the operation is abandoned.
func (e *Engine) storeLine(err error) string {
	e.log.Error().Err(err).Msg("store operation failed")
	return "❌ Error: " + truncate(err.Error(), 120)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

const (
	idAlphabet = "0123456789ABCDEF"
	idSpace    = 16 * 16 * 16 * 16 * 16 * 16
	idStep     = 48271 // odd, so coprime with idSpace; distinct counters give distinct ids
)

var (
	idSeed    = randomSeed()
	idCounter uint64
)

func randomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint64(b[:])
}

// newID builds ids like EXP-4F09AC: three-letter type prefix plus six hex
// characters. The random seed keeps process runs apart; the stepped counter
// keeps ids within a run distinct.
func newID(typ string) string {
	n := atomic.AddUint64(&idCounter, 1)
	v := (idSeed%idSpace + (n%idSpace)*idStep) % idSpace
	var suffix [6]byte
	for i := 5; i >= 0; i-- {
		suffix[i] = idAlphabet[v%16]
		v /= 16
	}
	prefix := strings.ToUpper(typ)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return prefix + "-" + string(suffix[:])
}
