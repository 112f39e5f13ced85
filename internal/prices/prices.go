// Package prices is the trained price knowledge base: subject -> expected
// price band, backed by the prices table. Every call reads the store fresh;
// there is no cache to invalidate.
package prices

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Livo-Africa/accountbot/internal/models"
	"github.com/Livo-Africa/accountbot/pkg/tabular"
)

// Confidence assigned on every train. Never adjusted afterwards; the only
// later mutation a range sees is widening via dialog option 4.
const seedConfidence = 0.80

// Training rejects maxima above this as typos.
const maxRealistic = 10_000_000

var wordPat = regexp.MustCompile(`\w+`)

// KB reads and writes trained ranges.
type KB struct {
	store tabular.Store
	now   func() time.Time
}

// NewKB wires the knowledge base to its table. The clock is injected so
// tests can pin LastTrained.
func NewKB(store tabular.Store, now func() time.Time) *KB {
	return &KB{store: store, now: now}
}

// Normalize canonicalizes a subject key: trimmed and lowercased, keeping a
// leading '#' that marks a category subject.
func Normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Train upserts a range for key. min>=max and unrealistic max are rejected
// before the store is touched, leaving prior state unchanged.
func (kb *KB) Train(ctx context.Context, key string, min, max float64, unit, trainedBy string) error {
	key = Normalize(key)
	if key == "" {
		return models.Validationf("❌ Item name cannot be empty")
	}
	if min >= max {
		return models.Validationf("❌ Min price must be below max price (got %s-%s)",
			models.FormatAmount(min), models.FormatAmount(max))
	}
	if max > maxRealistic {
		return models.Validationf("❌ Max price %s looks unrealistic", models.FormatAmount(max))
	}
	kind := models.KindItem
	if strings.HasPrefix(key, "#") {
		kind = models.KindCategory
	}
	entry := models.PriceRange{
		Key:         key,
		Kind:        kind,
		Min:         min,
		Max:         max,
		Unit:        unit,
		Confidence:  seedConfidence,
		TrainedBy:   trainedBy,
		LastTrained: kb.now(),
	}
	return kb.replace(ctx, key, &entry)
}

// replace removes every row matching key and, when entry is non-nil,
// appends it. Update is delete+append; the store has no in-place write.
func (kb *KB) replace(ctx context.Context, key string, entry *models.PriceRange) error {
	rows, err := kb.store.ReadAll(ctx, models.TablePrices)
	if err != nil {
		return models.Storef("reading prices", err)
	}
	var matches []int
	for i, row := range rows {
		if len(row) > 0 && Normalize(row[0]) == key {
			matches = append(matches, i)
		}
	}
	// Highest index first so earlier deletions don't shift later ones.
	for i := len(matches) - 1; i >= 0; i-- {
		if err := kb.store.DeleteRow(ctx, models.TablePrices, matches[i]); err != nil {
			return models.Storef("replacing price", err)
		}
	}
	if entry != nil {
		if err := kb.store.Append(ctx, models.TablePrices, entry.Row()); err != nil {
			return models.Storef("writing price", err)
		}
	}
	return nil
}

// Forget removes all case-insensitive matches for key.
func (kb *KB) Forget(ctx context.Context, key string) error {
	key = Normalize(key)
	entry, err := kb.Lookup(ctx, key)
	if err != nil {
		return err
	}
	if entry == nil {
		return models.NotFound("Price range for \"" + key + "\"")
	}
	return kb.replace(ctx, key, nil)
}

// Lookup returns the best (highest-confidence) match for key, or nil.
func (kb *KB) Lookup(ctx context.Context, key string) (*models.PriceRange, error) {
	key = Normalize(key)
	all, err := kb.All(ctx)
	if err != nil {
		return nil, err
	}
	var best *models.PriceRange
	for i := range all {
		if all[i].Key != key {
			continue
		}
		if best == nil || all[i].Confidence > best.Confidence {
			best = &all[i]
		}
	}
	return best, nil
}

// All returns every trained range, sorted by key.
func (kb *KB) All(ctx context.Context) ([]models.PriceRange, error) {
	rows, err := kb.store.ReadAll(ctx, models.TablePrices)
	if err != nil {
		return nil, models.Storef("reading prices", err)
	}
	entries := make([]models.PriceRange, 0, len(rows))
	for _, row := range rows {
		entry, err := models.PriceRangeFromRow(row)
		if err != nil {
			return nil, models.Storef("decoding price row", err)
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// DetectMentions returns every stored key occurring in text, sorted.
// Multi-word keys match as substrings; single-word keys must match a whole
// token, so "tea" never fires inside "team".
func (kb *KB) DetectMentions(ctx context.Context, text string) ([]string, error) {
	entries, err := kb.All(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(text)
	tokens := make(map[string]bool)
	for _, tok := range wordPat.FindAllString(lower, -1) {
		tokens[tok] = true
	}
	var mentions []string
	for _, entry := range entries {
		if strings.Contains(entry.Key, " ") {
			if strings.Contains(lower, entry.Key) {
				mentions = append(mentions, entry.Key)
			}
		} else if tokens[entry.Key] {
			mentions = append(mentions, entry.Key)
		}
	}
	return mentions, nil
}

// ExactMatch reports a trained subject the text names exactly, trying the
// '#category' form of the text too.
func (kb *KB) ExactMatch(ctx context.Context, text string) (*models.PriceRange, error) {
	key := Normalize(text)
	if key == "" {
		return nil, nil
	}
	entry, err := kb.Lookup(ctx, key)
	if err != nil || entry != nil {
		return entry, err
	}
	if !strings.HasPrefix(key, "#") {
		return kb.Lookup(ctx, "#"+key)
	}
	return nil, nil
}

// Widen stretches the trained range for key to include amount.
func (kb *KB) Widen(ctx context.Context, key string, amount float64) (*models.PriceRange, error) {
	key = Normalize(key)
	entry, err := kb.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, models.NotFound("Price range for \"" + key + "\"")
	}
	if amount < entry.Min {
		entry.Min = amount
	}
	if amount > entry.Max {
		entry.Max = amount
	}
	entry.LastTrained = kb.now()
	if err := kb.replace(ctx, key, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Check looks key up and evaluates amount against it.
func (kb *KB) Check(ctx context.Context, key string, amount float64) (Evaluation, error) {
	entry, err := kb.Lookup(ctx, key)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluate(entry, amount), nil
}
