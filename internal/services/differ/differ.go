// Package differ classifies currently visible packages against the
// previously persisted snapshot set. It is a pure function of its inputs:
// all mutation (CSS classes, markers, counters) belongs to the caller.
package differ

import (
	"github.com/packwatch/packwatch/internal/keys"
	"github.com/packwatch/packwatch/internal/models"
)

// prior holds what the comparison needs from one previously stored package.
type prior struct {
	percentageKey string
	fullKey       string
	snapshot      models.PackageSnapshot
}

// Classify returns exactly one result per element of current, in input
// order. Classification depends only on matched keys, never on position.
//
// Priority: a package whose seller+card combination was never seen is New; a
// matched package whose efficiency percentage moved is OfferChanged (checked
// before price, since a re-evaluated offer usually also changes the displayed
// total); a matched package whose full key moved is PriceChanged; otherwise
// Unchanged.
func Classify(current, previous []models.PackageSnapshot) []models.Result {
	byBase := make(map[string]prior, len(previous))
	byPercentage := make(map[string]prior, len(previous))
	for _, p := range previous {
		entry := prior{percentageKey: keys.Percentage(p), fullKey: keys.Full(p), snapshot: p}
		// Duplicate base keys on one page are undefined behavior: the last
		// stored entry wins, matching the lookup-map semantics of the page
		// annotator this replaces.
		byBase[keys.Base(p)] = entry
		// Retained for direct percentage-key lookups.
		byPercentage[entry.percentageKey] = entry
	}

	results := make([]models.Result, 0, len(current))
	for _, snapshot := range current {
		res := models.Result{Snapshot: snapshot, Class: models.ClassUnchanged}

		entry, found := byBase[keys.Base(snapshot)]
		switch {
		case !found:
			res.Class = models.ClassNew
		case entry.percentageKey != keys.Percentage(snapshot):
			res.Class = models.ClassOfferChanged
			res.PreviousTotal = entry.snapshot.TotalText
			res.PreviousEfficiency = entry.snapshot.EfficiencyText
		case entry.fullKey != keys.Full(snapshot):
			res.Class = models.ClassPriceChanged
			res.PreviousTotal = entry.snapshot.TotalText
			res.PreviousEfficiency = entry.snapshot.EfficiencyText
			res.CardChanges = cardChanges(snapshot, entry.snapshot)
		}

		results = append(results, res)
	}

	return results
}

// cardChanges returns the previous price for every current card whose
// signature matches a prior card but whose price text differs.
func cardChanges(current, previous models.PackageSnapshot) []models.CardPriceChange {
	priorPrices := make(map[string]string, len(previous.Cards))
	for _, c := range previous.Cards {
		priorPrices[keys.CardSignature(c)] = c.PriceText
	}

	var changes []models.CardPriceChange
	for _, c := range current.Cards {
		signature := keys.CardSignature(c)
		if prev, ok := priorPrices[signature]; ok && prev != c.PriceText {
			changes = append(changes, models.CardPriceChange{Signature: signature, PreviousPrice: prev})
		}
	}

	return changes
}
