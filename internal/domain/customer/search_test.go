package customer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySearchQuery(t *testing.T) {
	t.Run("account number prefix is case insensitive", func(t *testing.T) {
		q := ClassifySearchQuery("occ1234")

		assert.Equal(t, SearchModeAccountNumber, q.Mode)
		assert.Equal(t, "OCC1234", q.Term)
	})

	t.Run("account number wins over email shape", func(t *testing.T) {
		q := ClassifySearchQuery("occ@example.com")

		assert.Equal(t, SearchModeAccountNumber, q.Mode)
	})

	t.Run("email substring search", func(t *testing.T) {
		q := ClassifySearchQuery("Jane@X.com")

		assert.Equal(t, SearchModeEmail, q.Mode)
		assert.Equal(t, "jane@x.com", q.Term)
	})

	t.Run("email wins over phone digits", func(t *testing.T) {
		q := ClassifySearchQuery("12345@x.com")

		assert.Equal(t, SearchModeEmail, q.Mode)
	})

	t.Run("phone digits stripped from formatted number", func(t *testing.T) {
		q := ClassifySearchQuery("0161 496 0000")

		assert.Equal(t, SearchModePhone, q.Mode)
		assert.Equal(t, "01614960000", q.Term)
	})

	t.Run("four digits is enough for phone mode", func(t *testing.T) {
		q := ClassifySearchQuery("(0161)")

		assert.Equal(t, SearchModePhone, q.Mode)
		assert.Equal(t, "0161", q.Term)
	})

	t.Run("postcode normalized to uppercase without whitespace", func(t *testing.T) {
		q := ClassifySearchQuery("hd3 3wu")

		// Only two digits, so the phone rule does not fire
		assert.Equal(t, SearchModePostcodeOrName, q.Mode)
		assert.Equal(t, "HD33WU", q.Term)
		assert.Equal(t, "hd3 3wu", q.NameTerm)
	})

	t.Run("plain name falls through to postcode-or-name", func(t *testing.T) {
		q := ClassifySearchQuery("Jane Smith")

		assert.Equal(t, SearchModePostcodeOrName, q.Mode)
		assert.Equal(t, "JANESMITH", q.Term)
		assert.Equal(t, "Jane Smith", q.NameTerm)
	})

	t.Run("two character query falls back to name search", func(t *testing.T) {
		q := ClassifySearchQuery("Jo")

		assert.Equal(t, SearchModeName, q.Mode)
		assert.Equal(t, "Jo", q.Term)
	})

	t.Run("short queries do not search", func(t *testing.T) {
		assert.True(t, ClassifySearchQuery("").IsEmpty())
		assert.True(t, ClassifySearchQuery(" ").IsEmpty())
		assert.True(t, ClassifySearchQuery("a").IsEmpty())
		assert.True(t, ClassifySearchQuery("  a  ").IsEmpty())
	})

	t.Run("input is trimmed before classification", func(t *testing.T) {
		q := ClassifySearchQuery("  OCC0042  ")

		assert.Equal(t, SearchModeAccountNumber, q.Mode)
		assert.Equal(t, "OCC0042", q.Term)
	})
}

// TestClassifySearchQueryPrecedence drives the full precedence chain with
// inputs constructed to satisfy more than one rule at once. First match
// must always win.
func TestClassifySearchQueryPrecedence(t *testing.T) {
	cases := []struct {
		name  string
		query string
		mode  SearchMode
	}{
		{"account beats everything", "OCC1234@x.com 0161 496 0000", SearchModeAccountNumber},
		{"email beats phone", "0161496@x.com", SearchModeEmail},
		{"phone beats postcode", "HD33 WU44", SearchModePhone},
		{"postcode beats nothing below it", "SW1A", SearchModePostcodeOrName},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.mode, ClassifySearchQuery(tc.query).Mode)
		})
	}
}

// TestClassifySearchQueryProperties checks the classifier invariants over a
// generated corpus rather than hand-picked examples.
func TestClassifySearchQueryProperties(t *testing.T) {
	corpus := []string{
		"occ1", "OCC99999", "oCc77", "a@b.co", "x@y", "0800 123 456",
		"07700900123", "m1 1ae", "LS1 4AP", "Jo", "Jane Smith", "O'Brien",
		"   padded   ", "123", "12 3", "no digits here",
	}

	for _, raw := range corpus {
		q := ClassifySearchQuery(raw)
		trimmed := strings.TrimSpace(raw)

		switch {
		case len(trimmed) < 2:
			assert.Equal(t, SearchModeNone, q.Mode, "query %q", raw)
		case strings.HasPrefix(strings.ToUpper(trimmed), "OCC"):
			assert.Equal(t, SearchModeAccountNumber, q.Mode, "query %q", raw)
		case strings.Contains(trimmed, "@"):
			assert.Equal(t, SearchModeEmail, q.Mode, "query %q", raw)
		case len(stripNonDigits(trimmed)) >= 4:
			assert.Equal(t, SearchModePhone, q.Mode, "query %q", raw)
		case len(NormalizePostcode(trimmed)) >= 3:
			assert.Equal(t, SearchModePostcodeOrName, q.Mode, "query %q", raw)
		default:
			assert.Equal(t, SearchModeName, q.Mode, "query %q", raw)
		}
	}
}
