package intent

import (
	"regexp"
	"strings"
)

// Small-talk and natural-language phrasing sit at the bottom of the rule
// table: they only see text no command rule claimed.

var greetingWords = []string{
	"hi", "hello", "hey", "hola", "yo", "greetings",
	"good morning", "good afternoon", "good evening",
}

var thanksWords = []string{"thanks", "thank you", "appreciate"}

// naturalPats maps loose report phrasings onto the fixed report keywords.
var naturalPats = []struct {
	pat  *regexp.Regexp
	kind string
}{
	{regexp.MustCompile(`how.*much.*(?:money|balance|profit)`), "balance"},
	{regexp.MustCompile(`what.*my.*balance`), "balance"},
	{regexp.MustCompile(`check.*balance`), "balance"},
	{regexp.MustCompile(`how.*today.*(?:going|doing)`), "today"},
	{regexp.MustCompile(`what.*happened.*today`), "today"},
	{regexp.MustCompile(`this.*week`), "week"},
	{regexp.MustCompile(`weekly.*report`), "week"},
	{regexp.MustCompile(`this.*month`), "month"},
	{regexp.MustCompile(`monthly.*report`), "month"},
	{regexp.MustCompile(`where.*spent`), "categories"},
	{regexp.MustCompile(`what.*spent.*on`), "categories"},
	{regexp.MustCompile(`breakdown`), "categories"},
	{regexp.MustCompile(`recent.*transactions`), "list"},
	{regexp.MustCompile(`list.*(?:transactions|records)`), "list"},
}

// Greeting reports whether the text opens a conversation.
func Greeting(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, w := range greetingWords {
		if lower == w || strings.HasPrefix(lower, w+" ") || strings.HasPrefix(lower, w+"!") {
			return true
		}
	}
	return false
}

// Thanks reports whether the text is an acknowledgement. "ty" is matched
// as a whole word only, so "twenty" or "quality" never trigger it.
func Thanks(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range thanksWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	for _, tok := range strings.Fields(lower) {
		if strings.Trim(tok, "!.,?") == "ty" {
			return true
		}
	}
	return false
}

// NaturalReport maps conversational report phrasing ("what's my balance")
// onto a report command. Transaction-looking text is left alone so record
// verbs are never shadowed.
func NaturalReport(text string) (*ReportCommand, bool) {
	lower := strings.ToLower(text)
	for _, w := range []string{"spent ", "paid ", "bought ", "made ", "earned ", "received ", "sold "} {
		if strings.HasPrefix(lower, w) {
			return nil, false
		}
	}
	for _, nat := range naturalPats {
		if nat.pat.MatchString(lower) {
			cmd := &ReportCommand{Kind: nat.kind}
			if cmd.Kind == "list" {
				cmd.N = 10
			}
			return cmd, true
		}
	}
	return nil, false
}
