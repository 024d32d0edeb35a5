package models

// CardSnapshot is one priced card inside a package. Value object: no identity
// beyond its field values, never mutated after extraction.
type CardSnapshot struct {
	Name      string
	Condition string
	PriceText string
	Quantity  string
}

// PackageSnapshot is the canonical state of one seller package at extraction
// time. Cards must be sorted by name ascending so that derived identity keys
// are stable regardless of markup order.
type PackageSnapshot struct {
	SellerName           string
	TotalText            string
	EfficiencyText       string
	EfficiencyPercentage string
	Cards                []CardSnapshot
}
