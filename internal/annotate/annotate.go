// Package annotate is the rendering layer: it marks classified packages in
// the parsed document, injects previous-value markers next to the fields
// that moved, and prepends a legend with the per-classification counts.
package annotate

import (
	"fmt"
	"html"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/packwatch/packwatch/internal/keys"
	"github.com/packwatch/packwatch/internal/models"
	"github.com/packwatch/packwatch/internal/parser"
)

const (
	classNew          = "pw-new"
	classOfferChanged = "pw-offer-changed"
	classPriceChanged = "pw-price-changed"
)

type Annotator struct {
	log *slog.Logger
}

func NewAnnotator(log *slog.Logger) *Annotator {
	return &Annotator{log: log}
}

// Apply marks every extracted package with its classification and returns
// the per-classification counts. Packages and results are matched by
// position, so both must come from the same extraction pass. Unchanged
// packages are left untouched.
func (a *Annotator) Apply(
	doc *goquery.Document,
	packages []parser.ExtractedPackage,
	results []models.Result,
) models.Summary {
	var summary models.Summary

	for i, res := range results {
		if i >= len(packages) {
			break
		}
		sel := packages[i].Selection

		switch res.Class {
		case models.ClassNew:
			summary.New++
			sel.AddClass(classNew)
		case models.ClassOfferChanged:
			summary.OfferChanged++
			sel.AddClass(classOfferChanged)
			a.markHeader(sel, res)
		case models.ClassPriceChanged:
			summary.PriceChanged++
			sel.AddClass(classPriceChanged)
			a.markHeader(sel, res)
			a.markCards(packages[i], res.CardChanges)
		case models.ClassUnchanged:
			summary.Unchanged++
		}
	}

	a.injectLegend(doc, summary)
	a.log.Debug(
		"Annotated document",
		"new", summary.New,
		"offer_changed", summary.OfferChanged,
		"price_changed", summary.PriceChanged,
		"unchanged", summary.Unchanged,
	)

	return summary
}

// markHeader appends "was ..." markers to the package total and efficiency
// indicator.
func (a *Annotator) markHeader(sel *goquery.Selection, res models.Result) {
	header := sel.Find(".package-header").First()
	if res.PreviousTotal != "" {
		header.Find("strong").First().AppendHtml(prevMarker(res.PreviousTotal))
	}
	if res.PreviousEfficiency != "" {
		header.Find(".efficiency").First().AppendHtml(prevMarker(res.PreviousEfficiency))
	}
}

// markCards appends a "was ..." marker to every card whose price moved.
func (a *Annotator) markCards(pkg parser.ExtractedPackage, changes []models.CardPriceChange) {
	if len(changes) == 0 {
		return
	}

	changed := make(map[string]string, len(changes))
	for _, ch := range changes {
		changed[ch.Signature] = ch.PreviousPrice
	}

	for _, card := range pkg.Cards {
		if prev, ok := changed[keys.CardSignature(card.Snapshot)]; ok {
			card.Selection.Find("strong").First().AppendHtml(prevMarker(prev))
		}
	}
}

// injectLegend prepends the counter legend to the document body.
func (a *Annotator) injectLegend(doc *goquery.Document, summary models.Summary) {
	legend := fmt.Sprintf(
		`<div class="pw-legend">new: %d | offer changed: %d | price changed: %d | unchanged: %d</div>`,
		summary.New,
		summary.OfferChanged,
		summary.PriceChanged,
		summary.Unchanged,
	)
	doc.Find("body").First().PrependHtml(legend)
}

func prevMarker(previous string) string {
	return fmt.Sprintf(`<span class="pw-prev">was %s</span>`, html.EscapeString(previous))
}
