package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/Livo-Africa/accountbot/internal/intent"
	"github.com/Livo-Africa/accountbot/internal/models"
)

func (e *Engine) tryReport(ctx context.Context, msg models.Message) (models.Reply, bool) {
	cmd, ok := intent.ParseReport(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	return e.runReport(ctx, msg, cmd), true
}

// runReport dispatches one report kind. Shared with the natural-language
// phrasings, which map onto the same kinds.
func (e *Engine) runReport(ctx context.Context, msg models.Message, cmd *intent.ReportCommand) models.Reply {
	var text string
	var err error
	switch cmd.Kind {
	case "balance":
		text, err = e.reports.BalanceReport(ctx)
	case "today":
		text, err = e.reports.TodayReport(ctx)
	case "week":
		text, err = e.reports.WeekReport(ctx)
	case "month":
		text, err = e.reports.MonthReport(ctx)
	case "categories":
		text, err = e.reports.CategoriesReport(ctx)
	case "list":
		text, err = e.reports.ListReport(ctx, cmd.N)
	case "export":
		doc, err := e.reports.ExportCSV(ctx)
		if err != nil {
			return e.errorReply(err)
		}
		if doc == nil {
			return models.TextReply("🧾 No transactions recorded yet.")
		}
		return models.Reply{Text: "📎 Here's your transaction export.", Document: doc}
	case "chart":
		doc, err := e.reports.CategoryChart(ctx)
		if err != nil {
			return e.errorReply(err)
		}
		if doc == nil {
			return models.TextReply("📂 No expenses recorded yet.")
		}
		return models.Reply{Text: "📊 Expenses by category", Document: doc}
	case "show_prices":
		return e.pricesReport(ctx)
	case "budgets":
		return e.budgetsReport(ctx, msg.UserName)
	case "budget_summary":
		return e.budgetSummary(ctx, msg.UserName)
	default:
		text, err = e.reports.BalanceReport(ctx)
	}
	if err != nil {
		return e.errorReply(err)
	}
	return models.TextReply(text)
}

func (e *Engine) pricesReport(ctx context.Context) models.Reply {
	entries, err := e.kb.All(ctx)
	if err != nil {
		return e.errorReply(err)
	}
	if len(entries) == 0 {
		return models.TextReply("📚 Nothing trained yet. Try: +train \"printer paper\" 60 80")
	}
	var b strings.Builder
	b.WriteString("📚 Trained price ranges:")
	for _, entry := range entries {
		fmt.Fprintf(&b, "\n• %s: %s-%s%s (as of %s)",
			entry.Key, models.FormatAmount(entry.Min), models.FormatAmount(entry.Max),
			unitSuffix(entry.Unit), entry.LastTrained.Format(models.DateStamp))
	}
	return models.TextReply(b.String())
}

func (e *Engine) budgetsReport(ctx context.Context, user string) models.Reply {
	budgets, err := e.budgets.List(ctx, user)
	if err != nil {
		return e.errorReply(err)
	}
	if len(budgets) == 0 {
		return models.TextReply("💼 No budgets set. Try: +budget office 1000 monthly")
	}
	var b strings.Builder
	b.WriteString("💼 Your budgets:")
	for _, bud := range budgets {
		fmt.Fprintf(&b, "\n• %s: %s/%s (%.1f%%) — %s, resets after %s",
			bud.Key, models.FormatAmount(bud.Spent), models.FormatAmount(bud.Amount),
			bud.PercentUsed(), bud.Period, bud.EndDate)
	}
	alerts, err := e.budgets.CheckAlerts(ctx, user)
	if err != nil {
		return e.errorReply(err)
	}
	for _, alert := range alerts {
		b.WriteString("\n" + alert.String())
	}
	return models.TextReply(b.String())
}

// budgetSummary is the tabular form of budgetsReport.
func (e *Engine) budgetSummary(ctx context.Context, user string) models.Reply {
	budgets, err := e.budgets.List(ctx, user)
	if err != nil {
		return e.errorReply(err)
	}
	if len(budgets) == 0 {
		return models.TextReply("💼 No budgets set. Try: +budget office 1000 monthly")
	}
	var b strings.Builder
	b.WriteString("💼 Budget summary:")
	b.WriteString("\n```\n" + e.reports.BudgetTable(budgets) + "```")
	alerts, err := e.budgets.CheckAlerts(ctx, user)
	if err != nil {
		return e.errorReply(err)
	}
	for _, alert := range alerts {
		b.WriteString("\n" + alert.String())
	}
	return models.TextReply(b.String())
}

// tryRecordDue posts every due recurring template through the full
// recorder, so due items get the same anomaly checks and budget accounting
// as typed ones.
func (e *Engine) tryRecordDue(ctx context.Context, msg models.Message) (models.Reply, bool) {
	if !intent.IsRecordDue(msg.Text) {
		return models.Reply{}, false
	}
	due, err := e.recurring.DueItems(ctx, msg.UserName)
	if err != nil {
		return e.errorReply(err), true
	}
	if len(due) == 0 {
		return models.TextReply("📅 Nothing due right now."), true
	}
	var parts []string
	posted := 0
	for _, tmpl := range due {
		cmd := &intent.RecordCommand{
			Type:        tmpl.Type,
			Amount:      tmpl.Amount,
			Description: tmpl.Description,
		}
		text, persisted := e.record(ctx, msg, cmd)
		if persisted {
			posted++
			if err := e.recurring.MarkRecorded(ctx, tmpl); err != nil {
				text += "\n" + e.storeLine(err)
			}
		}
		parts = append(parts, text)
	}
	head := fmt.Sprintf("📅 Posted %d recurring transaction(s):\n\n", posted)
	return models.TextReply(head + strings.Join(parts, "\n\n")), true
}

func (e *Engine) tryGoalStatus(ctx context.Context, msg models.Message) (models.Reply, bool) {
	if !intent.IsGoalStatus(msg.Text) {
		return models.Reply{}, false
	}
	rows, err := e.store.ReadAll(ctx, models.TableGoals)
	if err != nil {
		return models.TextReply(e.storeLine(models.Storef("reading goals", err))), true
	}
	var goal *models.Goal
	for _, row := range rows {
		g, err := models.GoalFromRow(row)
		if err != nil {
			return models.TextReply(e.storeLine(models.Storef("decoding goal row", err))), true
		}
		if g.User == msg.UserName {
			goal = &g
		}
	}
	if goal == nil {
		return models.TextReply("🎯 No goal set. Try: +goal 50000 New laptop"), true
	}
	balance, err := e.reports.Balance(ctx)
	if err != nil {
		return e.errorReply(err), true
	}
	pct := balance / goal.Amount * 100
	text := fmt.Sprintf("🎯 Goal: %s — %s/%s (%.1f%%)",
		goal.Description, models.FormatAmount(balance), models.FormatAmount(goal.Amount), pct)
	if balance >= goal.Amount {
		text += "\n🎉 Goal reached!"
	}
	return models.TextReply(text), true
}
