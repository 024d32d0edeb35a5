// Package keys derives the three identity strings used to tell apart "new",
// "same listing, different offer", "same offer, different price" and
// "unchanged" packages. Keys are exact string concatenations, not hashes:
// equal snapshots always yield equal keys and differing components always
// yield differing keys.
package keys

import (
	"fmt"
	"strings"

	"github.com/packwatch/packwatch/internal/models"
)

const delim = "||"

// CardSignature identifies a card by everything except its price.
func CardSignature(c models.CardSnapshot) string {
	return fmt.Sprintf("%sx %s %s", c.Quantity, c.Name, c.Condition)
}

// Base identifies "materially the same listing": the seller plus the card
// set, ignoring prices and offer quality. Relies on the snapshot's canonical
// card order.
func Base(p models.PackageSnapshot) string {
	parts := make([]string, 0, len(p.Cards)+1)
	parts = append(parts, p.SellerName)
	for _, c := range p.Cards {
		parts = append(parts, CardSignature(c))
	}

	return strings.Join(parts, delim)
}

// Percentage extends Base with the efficiency percentage: same listing and
// same stated offer quality.
func Percentage(p models.PackageSnapshot) string {
	return Base(p) + delim + p.EfficiencyPercentage
}

// Full is the byte-identical identity: seller, total, percentage and every
// card signature extended with its price text.
func Full(p models.PackageSnapshot) string {
	parts := make([]string, 0, len(p.Cards)+3)
	parts = append(parts, p.SellerName, p.TotalText, p.EfficiencyPercentage)
	for _, c := range p.Cards {
		parts = append(parts, CardSignature(c)+" "+c.PriceText)
	}

	return strings.Join(parts, delim)
}
