package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/packwatch/packwatch/internal/models"
)

var (
	percentRe  = regexp.MustCompile(`(\d+)%`)
	quantityRe = regexp.MustCompile(`(\d+)x`)
)

// ExtractedCard pairs a card snapshot with the markup node it was read from.
// The selection is render-phase only: it is borrowed for annotation and is
// never persisted or compared.
type ExtractedCard struct {
	Snapshot  models.CardSnapshot
	Selection *goquery.Selection
}

// ExtractedPackage pairs a package snapshot with its markup node and the
// per-card nodes, in markup order. Only Snapshot ever leaves the render phase.
type ExtractedPackage struct {
	Snapshot  models.PackageSnapshot
	Selection *goquery.Selection
	Cards     []ExtractedCard
}

// HTMLParser is the page-source contract the run controller depends on.
type HTMLParser interface {
	// GetDocument retrieves the listing page and parses it as HTML.
	GetDocument(ctx context.Context) (*goquery.Document, error)
	// ExtractPackages turns every package block of the document into a
	// canonical snapshot plus its render references.
	ExtractPackages(ctx context.Context, doc *goquery.Document) []ExtractedPackage
}

type Parser struct {
	log     *slog.Logger
	client  *http.Client
	destURL string
}

func NewParser(log *slog.Logger, destinationURL string) *Parser {
	return &Parser{log: log, destURL: destinationURL, client: http.DefaultClient}
}

// GetDocument retrieves the listing page and parses it as HTML.
func (p *Parser) GetDocument(ctx context.Context) (*goquery.Document, error) {
	reqURL, err := url.Parse(p.destURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse destination URL %s: %w", p.destURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", reqURL.String(), err)
	}

	req.Header.Add("User-Agent", "Mozilla/5.0 (compatible; GoHttpClient/1.0)")

	p.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", p.destURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: [%d] %s", res.StatusCode, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}

	p.log.InfoContext(ctx, "Successfully received listing page", "status code", res.StatusCode)

	return doc, nil
}

// ExtractPackages finds every package block in the document and extracts a
// snapshot per block, in markup order. It never mutates the document;
// annotation happens in a separate pass, after diffing.
func (p *Parser) ExtractPackages(ctx context.Context, doc *goquery.Document) []ExtractedPackage {
	var packages []ExtractedPackage

	doc.Find("div.package").Each(func(_ int, s *goquery.Selection) {
		packages = append(packages, p.extractPackage(ctx, s))
	})

	return packages
}

// extractPackage reads one package block. Extraction is best-effort: any
// missing sub-element becomes an empty string, never an error.
func (p *Parser) extractPackage(ctx context.Context, s *goquery.Selection) ExtractedPackage {
	header := s.Find(".package-header").First()

	snapshot := models.PackageSnapshot{
		SellerName:     strings.TrimSpace(header.Find("a").First().Text()),
		TotalText:      strings.TrimSpace(header.Find("strong").First().Text()),
		EfficiencyText: strings.TrimSpace(header.Find(".efficiency").First().Text()),
	}
	if m := percentRe.FindStringSubmatch(snapshot.EfficiencyText); m != nil {
		snapshot.EfficiencyPercentage = m[1]
	}

	var cards []ExtractedCard
	s.Find(".package-body .article-row").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("show-more") {
			return
		}
		cards = append(cards, ExtractedCard{Snapshot: extractCard(row), Selection: row})
	})

	snapshot.Cards = make([]models.CardSnapshot, 0, len(cards))
	for _, c := range cards {
		snapshot.Cards = append(snapshot.Cards, c.Snapshot)
	}
	// Canonical order: key derivation must not depend on markup order.
	sort.Slice(snapshot.Cards, func(i, j int) bool {
		return snapshot.Cards[i].Name < snapshot.Cards[j].Name
	})

	p.log.DebugContext(
		ctx,
		"Parsed package",
		"Seller", snapshot.SellerName,
		"Total", snapshot.TotalText,
		"Cards", len(snapshot.Cards),
	)

	return ExtractedPackage{Snapshot: snapshot, Selection: s, Cards: cards}
}

func extractCard(row *goquery.Selection) models.CardSnapshot {
	card := models.CardSnapshot{
		Name:      strings.TrimSpace(row.Find("a").First().Text()),
		Condition: strings.TrimSpace(row.Find(".condition").First().Text()),
		PriceText: strings.TrimSpace(row.Find("strong").First().Text()),
		Quantity:  "1",
	}
	if m := quantityRe.FindStringSubmatch(row.Text()); m != nil {
		card.Quantity = m[1]
	}

	return card
}
