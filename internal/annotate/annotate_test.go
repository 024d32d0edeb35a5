package annotate_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/packwatch/packwatch/internal/annotate"
	"github.com/packwatch/packwatch/internal/models"
	"github.com/packwatch/packwatch/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = `
<html>
<body>
	<div class="package">
		<div class="package-header">
			<a>alice</a>
			<strong>$12.50</strong>
			<span class="efficiency">85% of $14.70</span>
		</div>
		<div class="package-body">
			<div class="article-row"><a>Zephyr Falcon</a> <span class="condition">NM</span> <strong>$2.00</strong> 2x</div>
			<div class="article-row"><a>Ancestral Vision</a> <span class="condition">EX</span> <strong>$8.50</strong></div>
		</div>
	</div>
	<div class="package">
		<div class="package-header">
			<a>bob</a>
			<strong>$5.00</strong>
			<span class="efficiency">70% of $7.10</span>
		</div>
		<div class="package-body">
			<div class="article-row"><a>Counterspell</a> <span class="condition">GD</span> <strong>$5.00</strong></div>
		</div>
	</div>
</body>
</html>`

// extract parses the fixture and returns the document plus render records.
func extract(t *testing.T) (*goquery.Document, []parser.ExtractedPackage) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	require.NoError(t, err)

	packages := parser.NewParser(logger, "").ExtractPackages(t.Context(), doc)
	require.Len(t, packages, 2)

	return doc, packages
}

func TestApply_ClassesAndCounters(t *testing.T) {
	t.Parallel()

	doc, packages := extract(t)
	annotator := annotate.NewAnnotator(slog.New(slog.NewTextHandler(io.Discard, nil)))

	results := []models.Result{
		{Snapshot: packages[0].Snapshot, Class: models.ClassNew},
		{Snapshot: packages[1].Snapshot, Class: models.ClassUnchanged},
	}

	summary := annotator.Apply(doc, packages, results)

	assert.Equal(t, models.Summary{New: 1, Unchanged: 1}, summary)
	assert.True(t, packages[0].Selection.HasClass("pw-new"))
	assert.False(t, packages[1].Selection.HasClass("pw-new"))

	// The legend carries the counters.
	legend := doc.Find(".pw-legend")
	require.Equal(t, 1, legend.Length())
	assert.Contains(t, legend.Text(), "new: 1")
	assert.Contains(t, legend.Text(), "unchanged: 1")
}

func TestApply_OfferChangedMarkers(t *testing.T) {
	t.Parallel()

	doc, packages := extract(t)
	annotator := annotate.NewAnnotator(slog.New(slog.NewTextHandler(io.Discard, nil)))

	results := []models.Result{
		{
			Snapshot:           packages[0].Snapshot,
			Class:              models.ClassOfferChanged,
			PreviousTotal:      "$11.00",
			PreviousEfficiency: "70% of $15.70",
		},
		{Snapshot: packages[1].Snapshot, Class: models.ClassUnchanged},
	}

	annotator.Apply(doc, packages, results)

	assert.True(t, packages[0].Selection.HasClass("pw-offer-changed"))

	header := packages[0].Selection.Find(".package-header")
	assert.Contains(t, header.Find("strong .pw-prev").Text(), "was $11.00")
	assert.Contains(t, header.Find(".efficiency .pw-prev").Text(), "was 70% of $15.70")
}

func TestApply_PriceChangedCardMarkers(t *testing.T) {
	t.Parallel()

	doc, packages := extract(t)
	annotator := annotate.NewAnnotator(slog.New(slog.NewTextHandler(io.Discard, nil)))

	results := []models.Result{
		{
			Snapshot:           packages[0].Snapshot,
			Class:              models.ClassPriceChanged,
			PreviousTotal:      "$11.50",
			PreviousEfficiency: "85% of $13.50",
			CardChanges: []models.CardPriceChange{
				{Signature: "1x Ancestral Vision EX", PreviousPrice: "$7.50"},
			},
		},
		{Snapshot: packages[1].Snapshot, Class: models.ClassUnchanged},
	}

	annotator.Apply(doc, packages, results)

	assert.True(t, packages[0].Selection.HasClass("pw-price-changed"))

	// Only the changed card gets a marker.
	rows := packages[0].Selection.Find(".article-row")
	require.Equal(t, 2, rows.Length())
	assert.Empty(t, rows.Eq(0).Find(".pw-prev").Text())
	assert.Contains(t, rows.Eq(1).Find(".pw-prev").Text(), "was $7.50")
}

func TestApply_UnchangedLeavesMarkupAlone(t *testing.T) {
	t.Parallel()

	doc, packages := extract(t)
	annotator := annotate.NewAnnotator(slog.New(slog.NewTextHandler(io.Discard, nil)))

	results := []models.Result{
		{Snapshot: packages[0].Snapshot, Class: models.ClassUnchanged},
		{Snapshot: packages[1].Snapshot, Class: models.ClassUnchanged},
	}

	summary := annotator.Apply(doc, packages, results)

	assert.Equal(t, models.Summary{Unchanged: 2}, summary)
	assert.Equal(t, 0, doc.Find(".pw-prev").Length())
	assert.Equal(t, 0, doc.Find(".pw-new, .pw-offer-changed, .pw-price-changed").Length())
}
