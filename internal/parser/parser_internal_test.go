package parser

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/packwatch/packwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper — its a mock for http.RoundTripper.
type mockRoundTripper struct {
	response *http.Response
	err      error
}

func (m *mockRoundTripper) RoundTrip(_ *http.Request) (*http.Response, error) {
	return m.response, m.err
}

func mustDocument(t *testing.T, rawHTML string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	require.NoError(t, err)

	return doc
}

// =============================================================================
// Tests for extraction logic
// =============================================================================

const listingHTML = `
<html>
<body>
	<div class="package">
		<div class="package-header">
			<a href="/user/alice">alice</a>
			<strong>$12.50</strong>
			<span class="efficiency">85% of $14.70</span>
		</div>
		<div class="package-body">
			<div class="article-row"><a>Zephyr Falcon</a> <span class="condition">NM</span> <strong>$2.00</strong> 2x</div>
			<div class="article-row"><a>Ancestral Vision</a> <span class="condition">EX</span> <strong>$8.50</strong></div>
			<div class="article-row show-more"><a>Show 3 more articles</a></div>
		</div>
	</div>
	<div class="package">
		<div class="package-header">
			<span class="efficiency">no percentage here</span>
		</div>
		<div class="package-body">
			<div class="article-row"></div>
		</div>
	</div>
</body>
</html>`

func TestExtractPackages(t *testing.T) {
	// Creating a "silent" logger that doesn't output anything during tests
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewParser(logger, "") // The URL is not important for this test.

	packages := p.ExtractPackages(t.Context(), mustDocument(t, listingHTML))
	require.Len(t, packages, 2)

	t.Run("complete package", func(t *testing.T) {
		snapshot := packages[0].Snapshot

		assert.Equal(t, "alice", snapshot.SellerName)
		assert.Equal(t, "$12.50", snapshot.TotalText)
		assert.Equal(t, "85% of $14.70", snapshot.EfficiencyText)
		assert.Equal(t, "85", snapshot.EfficiencyPercentage)

		// Cards sorted by name; the show-more placeholder is skipped.
		expected := []models.CardSnapshot{
			{Name: "Ancestral Vision", Condition: "EX", PriceText: "$8.50", Quantity: "1"},
			{Name: "Zephyr Falcon", Condition: "NM", PriceText: "$2.00", Quantity: "2"},
		}
		assert.Equal(t, expected, snapshot.Cards)

		// Render references keep markup order and stay paired with their rows.
		require.Len(t, packages[0].Cards, 2)
		assert.Equal(t, "Zephyr Falcon", packages[0].Cards[0].Snapshot.Name)
	})

	t.Run("missing sub-elements become empty strings", func(t *testing.T) {
		snapshot := packages[1].Snapshot

		assert.Empty(t, snapshot.SellerName)
		assert.Empty(t, snapshot.TotalText)
		assert.Equal(t, "no percentage here", snapshot.EfficiencyText)
		assert.Empty(t, snapshot.EfficiencyPercentage)

		require.Len(t, snapshot.Cards, 1)
		assert.Equal(t, models.CardSnapshot{Quantity: "1"}, snapshot.Cards[0])
	})

	t.Run("empty document yields no packages", func(t *testing.T) {
		assert.Empty(t, p.ExtractPackages(t.Context(), mustDocument(t, "")))
	})
}

// TestExtractPackages_CardOrderInvariance verifies that the same card set in
// a different markup order produces an identical snapshot.
func TestExtractPackages_CardOrderInvariance(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewParser(logger, "")

	orderA := `
	<div class="package">
		<div class="package-header"><a>alice</a><strong>$10</strong><span class="efficiency">90%</span></div>
		<div class="package-body">
			<div class="article-row"><a>Foo</a><span class="condition">NM</span><strong>$4</strong></div>
			<div class="article-row"><a>Bar</a><span class="condition">EX</span><strong>$6</strong></div>
		</div>
	</div>`
	orderB := `
	<div class="package">
		<div class="package-header"><a>alice</a><strong>$10</strong><span class="efficiency">90%</span></div>
		<div class="package-body">
			<div class="article-row"><a>Bar</a><span class="condition">EX</span><strong>$6</strong></div>
			<div class="article-row"><a>Foo</a><span class="condition">NM</span><strong>$4</strong></div>
		</div>
	</div>`

	packagesA := p.ExtractPackages(t.Context(), mustDocument(t, orderA))
	packagesB := p.ExtractPackages(t.Context(), mustDocument(t, orderB))

	require.Len(t, packagesA, 1)
	require.Len(t, packagesB, 1)
	assert.Equal(t, packagesA[0].Snapshot, packagesB[0].Snapshot)
}

// TestExtractPackages_DoesNotMutateDocument verifies the extraction pass
// leaves the markup untouched; annotation happens separately, after diffing.
func TestExtractPackages_DoesNotMutateDocument(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewParser(logger, "")

	doc := mustDocument(t, listingHTML)
	before, err := doc.Html()
	require.NoError(t, err)

	p.ExtractPackages(t.Context(), doc)

	after, err := doc.Html()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// =============================================================================
// Tests for network logic
// =============================================================================

func TestGetDocument(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := t.Context()

	testCases := []struct {
		name           string
		mockResponse   *http.Response
		mockError      error
		parserURL      string
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "Successful request (200 OK)",
			mockResponse: &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(listingHTML)),
			},
			mockError:   nil,
			parserURL:   "http://test.com",
			expectError: false,
		},
		{
			name: "Server Error (500)",
			mockResponse: &http.Response{
				StatusCode: http.StatusInternalServerError,
				Status:     "500 Internal Server Error",
				Body:       io.NopCloser(strings.NewReader("Error")),
			},
			mockError:      nil,
			parserURL:      "http://test.com",
			expectError:    true,
			expectedErrMsg: "status code error: [500]",
		},
		{
			name:           "Network error",
			mockResponse:   nil,
			mockError:      errors.New("connection failed"),
			parserURL:      "http://test.com",
			expectError:    true,
			expectedErrMsg: "connection failed",
		},
		{
			name:           "Invalid URL in parser",
			parserURL:      "://invalid-url",
			expectError:    true,
			expectedErrMsg: "failed to parse destination URL",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Creating a mock client with a customized response
			mockClient := &http.Client{
				Transport: &mockRoundTripper{
					response: tc.mockResponse,
					err:      tc.mockError,
				},
			}

			// Creating a parser with a mock client
			p := NewParser(logger, tc.parserURL)
			p.client = mockClient

			doc, err := p.GetDocument(ctx)

			if tc.expectError {
				require.Error(t, err)
				require.ErrorContains(t, err, tc.expectedErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 2, doc.Find("div.package").Length())
		})
	}
}
