package engine

import (
	"context"
	"fmt"

	"github.com/Livo-Africa/accountbot/internal/intent"
	"github.com/Livo-Africa/accountbot/internal/models"
)

const helpText = `📖 *Available Commands:*

*Record money*
+sale [amount] [description] — money in
+expense [amount] [description] — money out
+income [amount] [description] — other income
+order [amount] [description] client=Name — sale with a client note
Add #tag to set a category, e.g. +expense 200 printer paper #office

*Teach me prices*
+train "[item]" [min] [max] — set the expected range
price_check [item] — show a trained range
forget [item] — drop a trained range
show_prices — list everything trained

*Budgets*
+budget [category] [amount] [daily|weekly|monthly] — set a limit
budgets — see where each budget stands
budget_summary — the same, as a table
delete_budget [category]

*Recurring and goals*
+recurring [expense|income] [amount] [period] [description]
record due — post whatever is due
+goal [amount] [description], then 'goal' to track progress

*Reports*
balance, today, week, month, categories, list [n]
export — CSV file, chart — category chart

*Fixing mistakes*
delete last, delete id:EXP-XXXXXX`

const tutorialText = `👋 Welcome to AccountBot!

I keep your daily business records straight from chat.

1. Record money as it moves:
   +sale 500 3 bags of rice
   +expense 200 printer paper #office
2. Teach me your usual prices:
   +train "printer paper" 60 80
   I'll question anything outside the range.
3. Set a budget:
   +budget office 1000 monthly
4. Ask for numbers any time:
   balance, today, week, month, categories

Type 'help' for the full command list.`

func (e *Engine) tryHelp(ctx context.Context, msg models.Message) (models.Reply, bool) {
	switch {
	case intent.IsTutorial(msg.Text):
		return models.TextReply(tutorialText), true
	case intent.IsHelp(msg.Text):
		return models.TextReply(helpText), true
	}
	return models.Reply{}, false
}

func (e *Engine) trySmalltalk(ctx context.Context, msg models.Message) (models.Reply, bool) {
	if intent.Greeting(msg.Text) {
		return models.TextReply(e.greeting(msg.UserName)), true
	}
	if cmd, ok := intent.NaturalReport(msg.Text); ok {
		return e.runReport(ctx, msg, cmd), true
	}
	if intent.Thanks(msg.Text) {
		return models.TextReply("🙏 Any time! Keep the records coming."), true
	}
	return models.Reply{}, false
}

func (e *Engine) greeting(name string) string {
	h := e.now().Hour()
	part := "evening"
	switch {
	case h < 12:
		part = "morning"
	case h < 17:
		part = "afternoon"
	}
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("👋 Good %s, %s! What are we recording today?", part, name)
}
