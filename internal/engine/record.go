package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Livo-Africa/accountbot/internal/budget"
	"github.com/Livo-Africa/accountbot/internal/dialog"
	"github.com/Livo-Africa/accountbot/internal/intent"
	"github.com/Livo-Africa/accountbot/internal/models"
)

func (e *Engine) tryRecord(ctx context.Context, msg models.Message) (models.Reply, bool) {
	cmd, ok, err := intent.ParseRecord(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	if err != nil {
		return e.errorReply(err), true
	}
	text, _ := e.record(ctx, msg, cmd)
	return models.TextReply(text), true
}

// record runs the full recorder sequence: id, category extraction, anomaly
// checks, persistence, correction session, budget spend, reply. The bool
// reports whether the transaction reached the store.
func (e *Engine) record(ctx context.Context, msg models.Message, cmd *intent.RecordCommand) (string, bool) {
	id := newID(cmd.Type)
	category, cleaned := intent.ExtractCategory(cmd.Description)
	now := e.now()
	txn := models.Transaction{
		ID:          id,
		Date:        now.Format(models.DateStamp),
		Type:        cmd.Type,
		Amount:      cmd.Amount,
		Description: cleaned,
		Category:    category,
		User:        msg.UserName,
		CreatedAt:   now,
	}

	reqs, err := e.anomalies(ctx, cleaned, category, cmd.Amount)
	if err != nil {
		return e.storeLine(err), false
	}

	table, err := models.TableFor(cmd.Type)
	if err != nil {
		return e.storeLine(models.Storef("resolving table", err)), false
	}
	if err := e.store.Append(ctx, table, txn.Row()); err != nil {
		return e.storeLine(models.Storef("saving transaction", err)), false
	}

	// The session opens only once the row is down; a correction reply must
	// never point at a transaction that was not saved.
	session := e.sessions.Open(msg.UserID, id, reqs)

	var alert *budget.Alert
	var budgetErr error
	if cmd.Type == models.TypeExpense && category != "" {
		alert, budgetErr = e.budgets.RecordSpend(ctx, category, msg.UserName, cmd.Amount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Recorded %s of %s for %s (%s)",
		cmd.Type, models.FormatAmount(cmd.Amount), cleaned, id)
	if category != "" {
		fmt.Fprintf(&b, "\n🏷 Category: %s", category)
	}
	if cmd.Client != "" {
		fmt.Fprintf(&b, "\n👤 Client: %s", cmd.Client)
	}
	if per, _, ok := intent.UnitPrice(cleaned, cmd.Amount); ok {
		fmt.Fprintf(&b, "\n📝 Unit price: %s each", models.FormatAmount(per))
	}
	if session != nil {
		b.WriteString("\n\n🤔 Price check needed:")
		for _, req := range session.Requests {
			b.WriteString("\n" + req.Line())
		}
		b.WriteString("\nHow should I handle this? Reply with a number (or comma list):\n")
		b.WriteString(dialog.Menu())
	}
	if alert != nil {
		b.WriteString("\n" + alert.String())
	}
	if budgetErr != nil {
		b.WriteString("\n" + e.storeLine(budgetErr))
	}
	return b.String(), true
}

// anomalies evaluates the detected item mentions plus the category key
// against the knowledge base and builds one request per violated range.
func (e *Engine) anomalies(ctx context.Context, cleaned, category string, amount float64) ([]dialog.Request, error) {
	subjects, err := e.kb.DetectMentions(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	if category != "" {
		subjects = append(subjects, "#"+category)
	}
	seen := make(map[string]bool)
	var reqs []dialog.Request
	for _, subject := range subjects {
		if seen[subject] {
			continue
		}
		seen[subject] = true
		eval, err := e.kb.Check(ctx, subject, amount)
		if err != nil {
			return nil, err
		}
		if !eval.Anomalous() {
			continue
		}
		reqs = append(reqs, dialog.Request{
			SubjectKey:     subject,
			ProposedAmount: amount,
			RangeMin:       eval.Range.Min,
			RangeMax:       eval.Range.Max,
			Status:         eval.Status,
			Difference:     eval.Difference,
		})
	}
	return reqs, nil
}

func (e *Engine) tryDeletion(ctx context.Context, msg models.Message) (models.Reply, bool) {
	cmd, ok := intent.ParseDeletion(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	switch cmd.Target {
	case "last":
		return models.TextReply(e.deleteLast(ctx, msg)), true
	case "id":
		return models.TextReply(e.deleteByID(ctx, cmd.ID)), true
	}
	return models.TextReply(e.deleteMenu(ctx)), true
}

// deleteMenu lists recent transactions so the user can pick a target.
func (e *Engine) deleteMenu(ctx context.Context) string {
	txns, err := e.reports.All(ctx)
	if err != nil {
		return e.storeLine(err)
	}
	var b strings.Builder
	b.WriteString("🗑 Delete which transaction?\nReply: delete last — or delete id:EXP-XXXXXX")
	if len(txns) == 0 {
		return b.String()
	}
	b.WriteString("\nRecent:")
	const show = 5
	for i := len(txns) - 1; i >= 0 && len(txns)-1-i < show; i-- {
		t := txns[i]
		fmt.Fprintf(&b, "\n• %s %s %s — %s", t.ID, t.Type, models.FormatAmount(t.Amount), t.Description)
	}
	return b.String()
}

func (e *Engine) deleteLast(ctx context.Context, msg models.Message) string {
	txns, err := e.reports.All(ctx)
	if err != nil {
		return e.storeLine(err)
	}
	for i := len(txns) - 1; i >= 0; i-- {
		if txns[i].User == msg.UserName {
			return e.deleteByID(ctx, txns[i].ID)
		}
	}
	return "❌ Nothing to delete yet."
}

func (e *Engine) deleteByID(ctx context.Context, id string) string {
	txn, table, index, err := e.findTransaction(ctx, id)
	if err != nil {
		if models.IsNotFound(err) {
			return "❌ Transaction not found: " + id
		}
		return e.storeLine(err)
	}
	if err := e.archiveAndRemove(ctx, txn, table, index); err != nil {
		return e.storeLine(err)
	}
	return fmt.Sprintf("🗑 Deleted %s (%s %s — %s)",
		txn.ID, txn.Type, models.FormatAmount(txn.Amount), txn.Description)
}

// findTransaction locates id across the live tables.
func (e *Engine) findTransaction(ctx context.Context, id string) (models.Transaction, string, int, error) {
	for _, table := range models.TransactionTables() {
		rows, err := e.store.ReadAll(ctx, table)
		if err != nil {
			return models.Transaction{}, "", 0, models.Storef("reading "+table, err)
		}
		for i, row := range rows {
			if len(row) > 0 && row[0] == id {
				txn, err := models.TransactionFromRow(row)
				if err != nil {
					return models.Transaction{}, "", 0, models.Storef("decoding "+table+" row", err)
				}
				return txn, table, i, nil
			}
		}
	}
	return models.Transaction{}, "", 0, models.NotFound("Transaction " + id)
}

// archiveAndRemove copies the row into the archive table before deleting
// the live one. A row is never hard-deleted without its archival copy; if
// archiving fails the live row stays put.
func (e *Engine) archiveAndRemove(ctx context.Context, txn models.Transaction, table string, index int) error {
	archive, err := models.ArchiveTableFor(txn.Type)
	if err != nil {
		return models.Storef("resolving archive table", err)
	}
	row := append(txn.Row(), e.now().Format(time.RFC3339))
	if err := e.store.Append(ctx, archive, row); err != nil {
		return models.Storef("archiving transaction", err)
	}
	if err := e.store.DeleteRow(ctx, table, index); err != nil {
		return models.Storef("removing transaction", err)
	}
	return nil
}

func (e *Engine) tryGoalSet(ctx context.Context, msg models.Message) (models.Reply, bool) {
	cmd, ok, err := intent.ParseGoal(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	if err != nil {
		return e.errorReply(err), true
	}
	now := e.now()
	goal := models.Goal{
		ID:          newID("goal"),
		Date:        now.Format(models.DateStamp),
		Amount:      cmd.Amount,
		Description: cmd.Description,
		User:        msg.UserName,
		CreatedAt:   now,
	}
	rows, err := e.store.ReadAll(ctx, models.TableGoals)
	if err != nil {
		return models.TextReply(e.storeLine(models.Storef("reading goals", err))), true
	}
	// One goal per user: drop previous ones, newest index first.
	for i := len(rows) - 1; i >= 0; i-- {
		old, err := models.GoalFromRow(rows[i])
		if err != nil {
			return models.TextReply(e.storeLine(models.Storef("decoding goal row", err))), true
		}
		if old.User == msg.UserName {
			if err := e.store.DeleteRow(ctx, models.TableGoals, i); err != nil {
				return models.TextReply(e.storeLine(models.Storef("replacing goal", err))), true
			}
		}
	}
	if err := e.store.Append(ctx, models.TableGoals, goal.Row()); err != nil {
		return models.TextReply(e.storeLine(models.Storef("saving goal", err))), true
	}
	text := fmt.Sprintf("🎯 Goal set: %s — %s\nCheck progress any time with 'goal'.",
		models.FormatAmount(goal.Amount), goal.Description)
	return models.TextReply(text), true
}
