package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Livo-Africa/accountbot/internal/dialog"
	"github.com/Livo-Africa/accountbot/internal/intent"
	"github.com/Livo-Africa/accountbot/internal/models"
)

// tryCorrectionReply resolves an open price-check session. Numerals without
// a live session fall through to the ordinary rules, and so does a reply to
// a session that expired between the question and the answer: the user is
// never told their session went stale.
func (e *Engine) tryCorrectionReply(ctx context.Context, msg models.Message) (models.Reply, bool) {
	numerals, ok := intent.NumericReply(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	session, err := e.sessions.Active(msg.UserID)
	if err != nil {
		if errors.Is(err, models.ErrStaleSession) {
			e.log.Debug().Int64("user", msg.UserID).Msg("numeric reply after session expiry")
		}
		return models.Reply{}, false
	}
	if session == nil {
		return models.Reply{}, false
	}

	opts := validOptions(numerals)
	if len(opts) == 0 {
		text := "🤔 Reply with a number between 1 and 5 (or a comma list):\n" + dialog.Menu()
		return models.TextReply(text), true
	}
	return models.TextReply(e.applyCorrection(ctx, session, opts)), true
}

// validOptions dedupes the menu picks, keeping first-seen order. Numbers
// off the menu are dropped rather than failing the whole reply.
func validOptions(numerals []int) []int {
	seen := make(map[int]bool)
	var opts []int
	for _, n := range numerals {
		if !dialog.ValidOption(n) || seen[n] {
			continue
		}
		seen[n] = true
		opts = append(opts, n)
	}
	return opts
}

// applyCorrection applies each picked option to every pending request and
// closes the session. The session closes even when a store write inside
// fails: resolution is at-most-once, never retried.
func (e *Engine) applyCorrection(ctx context.Context, session *dialog.Session, opts []int) string {
	defer e.sessions.Close(session.ID)

	var lines []string
	deleted := false
	for _, opt := range opts {
		for _, req := range session.Requests {
			switch opt {
			case dialog.OptionBulk:
				lines = append(lines, fmt.Sprintf("👍 Keeping %s for %q (bulk/special purchase).",
					models.FormatAmount(req.ProposedAmount), req.SubjectKey))
			case dialog.OptionQuality:
				lines = append(lines, fmt.Sprintf("👍 Keeping %s for %q (different quality/brand).",
					models.FormatAmount(req.ProposedAmount), req.SubjectKey))
			case dialog.OptionWrongAmount:
				// All requests share the one transaction; delete it once.
				if deleted {
					continue
				}
				deleted = true
				lines = append(lines, e.deleteForReentry(ctx, session.TransactionID))
			case dialog.OptionRangeChanged:
				entry, err := e.kb.Widen(ctx, req.SubjectKey, req.ProposedAmount)
				if err != nil {
					lines = append(lines, e.errorReply(err).Text)
					continue
				}
				lines = append(lines, fmt.Sprintf("📏 Updated %q range to %s-%s.",
					entry.Key, models.FormatAmount(entry.Min), models.FormatAmount(entry.Max)))
			case dialog.OptionIgnore:
				lines = append(lines, fmt.Sprintf("👌 Noted, range for %q unchanged.", req.SubjectKey))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// deleteForReentry archives and removes the transaction the session was
// opened for, so the user can type it again with the right amount.
func (e *Engine) deleteForReentry(ctx context.Context, id string) string {
	txn, table, index, err := e.findTransaction(ctx, id)
	if err != nil {
		if models.IsNotFound(err) {
			return "❌ Transaction already gone: " + id
		}
		return e.storeLine(err)
	}
	if err := e.archiveAndRemove(ctx, txn, table, index); err != nil {
		return e.storeLine(err)
	}
	return fmt.Sprintf("🗑 Deleted %s. Re-enter it with the right amount.", id)
}
