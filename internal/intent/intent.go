// Package intent parses raw chat text into commands. Everything here is a
// pure function over the text; the ordered rule table that decides which
// parser wins lives on the engine, so each command family stays testable in
// isolation.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Livo-Africa/accountbot/internal/models"
)

// RecordCommand is a parsed +sale/+expense/+income/+order message.
type RecordCommand struct {
	Type        string
	Amount      float64
	Description string
	Client      string
	IsOrder     bool
}

// TrainCommand is a parsed +train message.
type TrainCommand struct {
	Item string
	Min  float64
	Max  float64
	Unit string
}

// BudgetCommand is a parsed +budget message.
type BudgetCommand struct {
	Key      string
	Amount   float64
	Period   string
	AlertPct float64
}

// RecurringCommand is a parsed +recurring message.
type RecurringCommand struct {
	Type        string
	Amount      float64
	Period      string
	Description string
}

// GoalCommand is a parsed +goal message.
type GoalCommand struct {
	Amount      float64
	Description string
}

// DeleteCommand is a parsed deletion request.
type DeleteCommand struct {
	Target string // last | id | list
	ID     string
}

// ReportCommand names one report plus its optional argument.
type ReportCommand struct {
	Kind string // balance | today | week | month | categories | list | export | chart
	N    int    // list length
}

var (
	tagPat      = regexp.MustCompile(`#(\w+)`)
	clientPat   = regexp.MustCompile(`(?i)\bclient=(\S+)`)
	unitPat     = regexp.MustCompile(`^(\d+)\s+\S`)
	numericPat  = regexp.MustCompile(`^[\d,\s]+$`)
	quotedItem  = regexp.MustCompile(`^"([^"]+)"\s*(.*)$`)
	listArgPat  = regexp.MustCompile(`^list(?:\s+(\d+))?$`)
	idTargetPat = regexp.MustCompile(`(?i)^id:\s*(\S+)$`)
)

// verbOf splits text into a lowercased marker-stripped verb and the rest.
func verbOf(text string) (string, string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ""
	}
	verb := strings.ToLower(fields[0])
	verb = strings.TrimPrefix(verb, "+")
	verb = strings.TrimPrefix(verb, "/")
	return verb, strings.Join(fields[1:], " ")
}

func parseAmount(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, models.Validationf("❌ %q is not a number", tok)
	}
	if v <= 0 {
		return 0, models.Validationf("❌ Amount must be positive, got %s", tok)
	}
	return v, nil
}

func validPeriod(p string) bool {
	switch p {
	case models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly:
		return true
	}
	return false
}

// NumericReply reports whether text consists solely of digits, commas and
// spaces, and returns the numerals it carries. Such messages are tested
// against the user's open correction session before anything else.
func NumericReply(text string) ([]int, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !numericPat.MatchString(trimmed) {
		return nil, false
	}
	var nums []int
	for _, tok := range strings.FieldsFunc(trimmed, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, false
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return nil, false
	}
	return nums, true
}

// ParseRecord matches the sale/expense/income/order verbs. ok=false means
// the text is some other command; a non-nil error means the verb matched but
// the arguments are malformed.
func ParseRecord(text string) (*RecordCommand, bool, error) {
	verb, rest := verbOf(text)
	var typ string
	isOrder := false
	switch verb {
	case models.TypeSale, models.TypeExpense, models.TypeIncome:
		typ = verb
	case "order":
		typ = models.TypeSale
		isOrder = true
	default:
		return nil, false, nil
	}
	fields := strings.Fields(rest)
	if len(fields) < 1 {
		return nil, true, models.Validationf("❌ Format: +%s [amount] [description]", verb)
	}
	amount, err := parseAmount(fields[0])
	if err != nil {
		return nil, true, err
	}
	desc := strings.Join(fields[1:], " ")
	cmd := &RecordCommand{Type: typ, Amount: amount, Description: desc, IsOrder: isOrder}
	if m := clientPat.FindStringSubmatch(desc); m != nil {
		cmd.Client = m[1]
	}
	if isOrder && cmd.Client == "" && desc == "" {
		return nil, true, models.Validationf("❌ Format: +order [amount] [description] client=Name")
	}
	return cmd, true, nil
}

// ParseTrain matches `+train "<item>" <min> <max> [<unit...>]`. Single-word
// items may skip the quotes.
func ParseTrain(text string) (*TrainCommand, bool, error) {
	verb, rest := verbOf(text)
	if verb != "train" {
		return nil, false, nil
	}
	usage := `❌ Format: +train "item name" [min] [max] [unit]`
	var item string
	if m := quotedItem.FindStringSubmatch(rest); m != nil {
		item = m[1]
		rest = m[2]
	} else {
		fields := strings.Fields(rest)
		if len(fields) < 3 {
			return nil, true, models.Validationf("%s", usage)
		}
		item = fields[0]
		rest = strings.Join(fields[1:], " ")
	}
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return nil, true, models.Validationf("%s", usage)
	}
	min, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, true, models.Validationf("❌ %q is not a number", fields[0])
	}
	max, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, true, models.Validationf("❌ %q is not a number", fields[1])
	}
	return &TrainCommand{
		Item: strings.TrimSpace(item),
		Min:  min,
		Max:  max,
		Unit: strings.Join(fields[2:], " "),
	}, true, nil
}

// ParseForget matches `+forget <item...>`.
func ParseForget(text string) (string, bool, error) {
	verb, rest := verbOf(text)
	if verb != "forget" {
		return "", false, nil
	}
	item := strings.TrimSpace(strings.Trim(rest, `"`))
	if item == "" {
		return "", true, models.Validationf("❌ Format: +forget [item]")
	}
	return item, true, nil
}

// ParsePriceCheck matches `price_check <item>` and `price check <item>`.
func ParsePriceCheck(text string) (string, bool, error) {
	verb, rest := verbOf(text)
	if verb == "price" {
		sub, after := verbOf(rest)
		if sub != "check" {
			return "", false, nil
		}
		rest = after
	} else if verb != "price_check" {
		return "", false, nil
	}
	item := strings.TrimSpace(strings.Trim(rest, `"`))
	if item == "" {
		return "", true, models.Validationf("❌ Format: price_check [item]")
	}
	return item, true, nil
}

// ParseBudget matches `+budget <key> <amount> <period> [alertPct]`.
func ParseBudget(text string) (*BudgetCommand, bool, error) {
	verb, rest := verbOf(text)
	if verb != "budget" {
		return nil, false, nil
	}
	usage := "❌ Format: +budget [category] [amount] [daily|weekly|monthly] [alert%]"
	fields := strings.Fields(rest)
	if len(fields) < 3 {
		return nil, true, models.Validationf("%s", usage)
	}
	amount, err := parseAmount(fields[1])
	if err != nil {
		return nil, true, err
	}
	period := strings.ToLower(fields[2])
	if !validPeriod(period) {
		return nil, true, models.Validationf("%s", usage)
	}
	cmd := &BudgetCommand{
		Key:      NormalizeBudgetKey(fields[0]),
		Amount:   amount,
		Period:   period,
		AlertPct: 80,
	}
	if len(fields) > 3 {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[3], "%"), 64)
		if err != nil || pct <= 0 || pct > 100 {
			return nil, true, models.Validationf("❌ Alert threshold must be a percent between 1 and 100")
		}
		cmd.AlertPct = pct
	}
	return cmd, true, nil
}

// ParseDeleteBudget matches `+delete_budget <key>`.
func ParseDeleteBudget(text string) (string, bool, error) {
	verb, rest := verbOf(text)
	if verb != "delete_budget" {
		return "", false, nil
	}
	key := NormalizeBudgetKey(rest)
	if key == "" {
		return "", true, models.Validationf("❌ Format: +delete_budget [category]")
	}
	return key, true, nil
}

// ParseRecurring matches `+recurring <type> <amount> <period> <description...>`.
func ParseRecurring(text string) (*RecurringCommand, bool, error) {
	verb, rest := verbOf(text)
	if verb != "recurring" {
		return nil, false, nil
	}
	usage := "❌ Format: +recurring [sale|expense|income] [amount] [daily|weekly|monthly] [description]"
	fields := strings.Fields(rest)
	if len(fields) < 4 {
		return nil, true, models.Validationf("%s", usage)
	}
	typ := strings.ToLower(fields[0])
	if typ != models.TypeSale && typ != models.TypeExpense && typ != models.TypeIncome {
		return nil, true, models.Validationf("%s", usage)
	}
	amount, err := parseAmount(fields[1])
	if err != nil {
		return nil, true, err
	}
	period := strings.ToLower(fields[2])
	if !validPeriod(period) {
		return nil, true, models.Validationf("%s", usage)
	}
	return &RecurringCommand{
		Type:        typ,
		Amount:      amount,
		Period:      period,
		Description: strings.Join(fields[3:], " "),
	}, true, nil
}

// IsRecordDue matches the `record due` trigger.
func IsRecordDue(text string) bool {
	verb, rest := verbOf(text)
	sub, tail := verbOf(rest)
	return verb == "record" && sub == "due" && tail == ""
}

// ParseGoal matches `+goal <amount> <description...>`.
func ParseGoal(text string) (*GoalCommand, bool, error) {
	verb, rest := verbOf(text)
	if verb != "goal" || strings.TrimSpace(rest) == "" {
		return nil, false, nil
	}
	fields := strings.Fields(rest)
	amount, err := parseAmount(fields[0])
	if err != nil {
		return nil, true, models.Validationf("❌ Format: +goal [amount] [description]")
	}
	return &GoalCommand{Amount: amount, Description: strings.Join(fields[1:], " ")}, true, nil
}

// IsGoalStatus matches a bare `goal` or `goal_status`.
func IsGoalStatus(text string) bool {
	verb, rest := verbOf(text)
	return (verb == "goal" || verb == "goal_status") && strings.TrimSpace(rest) == ""
}

// ParseReport matches the fixed report keywords.
func ParseReport(text string) (*ReportCommand, bool) {
	word := strings.ToLower(strings.TrimSpace(text))
	word = strings.TrimPrefix(word, "/")
	switch word {
	case "balance", "today", "week", "month", "categories", "export", "chart":
		return &ReportCommand{Kind: word}, true
	case "show_prices":
		return &ReportCommand{Kind: "show_prices"}, true
	case "budgets":
		return &ReportCommand{Kind: "budgets"}, true
	case "budget_summary":
		return &ReportCommand{Kind: "budget_summary"}, true
	}
	if m := listArgPat.FindStringSubmatch(word); m != nil {
		n := 10
		if m[1] != "" {
			n, _ = strconv.Atoi(m[1])
			if n <= 0 {
				n = 10
			}
		}
		return &ReportCommand{Kind: "list", N: n}, true
	}
	return nil, false
}

// ParseDeletion matches `delete`/`/delete` with its optional target.
func ParseDeletion(text string) (*DeleteCommand, bool) {
	verb, rest := verbOf(text)
	if verb != "delete" {
		return nil, false
	}
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(rest) {
	case "", "list":
		return &DeleteCommand{Target: "list"}, true
	case "last":
		return &DeleteCommand{Target: "last"}, true
	}
	if m := idTargetPat.FindStringSubmatch(rest); m != nil {
		return &DeleteCommand{Target: "id", ID: strings.ToUpper(m[1])}, true
	}
	return &DeleteCommand{Target: "list"}, true
}

// IsHelp matches the help keywords.
func IsHelp(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "help", "/help", "commands", "menu":
		return true
	}
	return false
}

// IsTutorial matches the tutorial keywords, including Telegram's /start.
func IsTutorial(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "tutorial", "/tutorial", "/start", "start":
		return true
	}
	return false
}

// ExtractCategory pulls the first #tag out of a description and returns the
// category (lowercase, no '#') plus the description with every tag stripped
// and whitespace collapsed.
func ExtractCategory(desc string) (string, string) {
	category := ""
	if m := tagPat.FindStringSubmatch(desc); m != nil {
		category = strings.ToLower(m[1])
	}
	cleaned := tagPat.ReplaceAllString(desc, "")
	return category, strings.Join(strings.Fields(cleaned), " ")
}

// UnitPrice detects a leading quantity ("10 chairs") and returns the
// per-unit price. Quantities below 2 carry no information.
func UnitPrice(desc string, amount float64) (float64, int, bool) {
	m := unitPat.FindStringSubmatch(strings.TrimSpace(desc))
	if m == nil {
		return 0, 0, false
	}
	qty, err := strconv.Atoi(m[1])
	if err != nil || qty < 2 {
		return 0, 0, false
	}
	return amount / float64(qty), qty, true
}

// NormalizeBudgetKey lowercases a budget key and drops a leading '#' so
// "#Office" and "office" address the same budget.
func NormalizeBudgetKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}
