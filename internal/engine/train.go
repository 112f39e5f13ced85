package engine

import (
	"context"
	"fmt"

	"github.com/Livo-Africa/accountbot/internal/intent"
	"github.com/Livo-Africa/accountbot/internal/models"
)

func (e *Engine) tryTrain(ctx context.Context, msg models.Message) (models.Reply, bool) {
	cmd, ok, err := intent.ParseTrain(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	if err != nil {
		return e.errorReply(err), true
	}
	if err := e.kb.Train(ctx, cmd.Item, cmd.Min, cmd.Max, cmd.Unit, msg.UserName); err != nil {
		return e.errorReply(err), true
	}
	text := fmt.Sprintf("✅ Trained %q: %s-%s%s\nI'll flag anything outside that range.",
		cmd.Item, models.FormatAmount(cmd.Min), models.FormatAmount(cmd.Max), unitSuffix(cmd.Unit))
	return models.TextReply(text), true
}

func (e *Engine) tryForget(ctx context.Context, msg models.Message) (models.Reply, bool) {
	item, ok, err := intent.ParseForget(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	if err != nil {
		return e.errorReply(err), true
	}
	if err := e.kb.Forget(ctx, item); err != nil {
		return e.errorReply(err), true
	}
	return models.TextReply(fmt.Sprintf("🗑 Forgot price range for %q", item)), true
}

func (e *Engine) tryPriceCheck(ctx context.Context, msg models.Message) (models.Reply, bool) {
	key, ok, err := intent.ParsePriceCheck(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	if err != nil {
		return e.errorReply(err), true
	}
	entry, err := e.kb.ExactMatch(ctx, key)
	if err != nil {
		return e.errorReply(err), true
	}
	if entry == nil {
		text := fmt.Sprintf("🤷 No trained range for %q. Train it with: +train \"%s\" [min] [max]", key, key)
		return models.TextReply(text), true
	}
	text := fmt.Sprintf("💡 %q is trained at %s-%s%s.",
		entry.Key, models.FormatAmount(entry.Min), models.FormatAmount(entry.Max), unitSuffix(entry.Unit))
	return models.TextReply(text), true
}

func (e *Engine) tryBudgetSet(ctx context.Context, msg models.Message) (models.Reply, bool) {
	cmd, ok, err := intent.ParseBudget(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	if err != nil {
		return e.errorReply(err), true
	}
	key := intent.NormalizeBudgetKey(cmd.Key)
	b, err := e.budgets.Set(ctx, key, cmd.Amount, cmd.Period, cmd.AlertPct, msg.UserName)
	if err != nil {
		return e.errorReply(err), true
	}
	text := fmt.Sprintf("✅ Budget set: %s — %s per %s (alert at %.0f%%)\nWindow: %s to %s",
		b.Key, models.FormatAmount(b.Amount), b.Period, b.AlertThreshold, b.StartDate, b.EndDate)
	return models.TextReply(text), true
}

func (e *Engine) tryBudgetDelete(ctx context.Context, msg models.Message) (models.Reply, bool) {
	key, ok, err := intent.ParseDeleteBudget(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	if err != nil {
		return e.errorReply(err), true
	}
	key = intent.NormalizeBudgetKey(key)
	if err := e.budgets.Delete(ctx, key, msg.UserName); err != nil {
		return e.errorReply(err), true
	}
	return models.TextReply(fmt.Sprintf("🗑 Budget removed: %s", key)), true
}

func (e *Engine) tryRecurringAdd(ctx context.Context, msg models.Message) (models.Reply, bool) {
	cmd, ok, err := intent.ParseRecurring(msg.Text)
	if !ok {
		return models.Reply{}, false
	}
	if err != nil {
		return e.errorReply(err), true
	}
	tmpl, err := e.recurring.Add(ctx, cmd.Type, cmd.Amount, cmd.Period, cmd.Description, msg.UserName)
	if err != nil {
		return e.errorReply(err), true
	}
	text := fmt.Sprintf("🔁 Recurring %s added: %s for %s, %s\nSay 'record due' to post anything that's due.",
		tmpl.Type, models.FormatAmount(tmpl.Amount), tmpl.Description, tmpl.Frequency)
	return models.TextReply(text), true
}
