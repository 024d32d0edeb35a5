package models

// Classification of one currently visible package against the stored set.
type Classification string

const (
	ClassUnchanged    Classification = "unchanged"
	ClassNew          Classification = "new"
	ClassOfferChanged Classification = "offer_changed"
	ClassPriceChanged Classification = "price_changed"
)

// CardPriceChange carries the previous price of a single card whose price
// text moved between cycles. Signature matches keys.CardSignature.
type CardPriceChange struct {
	Signature     string
	PreviousPrice string
}

// Result is the diff outcome for one package, in page order. The previous
// total/efficiency payloads are set for OfferChanged and PriceChanged only;
// CardChanges is set for PriceChanged only.
type Result struct {
	Snapshot           PackageSnapshot
	Class              Classification
	PreviousTotal      string
	PreviousEfficiency string
	CardChanges        []CardPriceChange
}

// Summary - per-classification counts for one completed cycle.
type Summary struct {
	New          int
	OfferChanged int
	PriceChanged int
	Unchanged    int
}

// Total returns the number of packages seen in the cycle.
func (s Summary) Total() int {
	return s.New + s.OfferChanged + s.PriceChanged + s.Unchanged
}
