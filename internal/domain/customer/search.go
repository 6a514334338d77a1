package customer

import (
	"strings"
)

// SearchMode identifies which predicate a free-text query resolves to
type SearchMode string

const (
	// SearchModeNone means the query is too short to search
	SearchModeNone SearchMode = "none"
	// SearchModeAccountNumber matches account numbers by anchored prefix
	SearchModeAccountNumber SearchMode = "account_number"
	// SearchModeEmail matches email addresses by substring
	SearchModeEmail SearchMode = "email"
	// SearchModePhone matches phone numbers by digit substring
	SearchModePhone SearchMode = "phone"
	// SearchModePostcodeOrName matches normalized postcode OR full name by substring
	SearchModePostcodeOrName SearchMode = "postcode_or_name"
	// SearchModeName matches full names by substring
	SearchModeName SearchMode = "name"
)

// SearchQuery is a classified free-text query with its normalized term.
// Term holds the value to match: the uppercased account prefix, the
// lowercased email fragment, the digit string, the normalized postcode,
// or the raw name fragment depending on Mode. NameTerm carries the
// name fragment for the postcode-or-name mode, where both predicates
// are applied as an OR.
type SearchQuery struct {
	Mode     SearchMode
	Term     string
	NameTerm string
}

// minQueryLength is the shortest query that triggers a search at all
const minQueryLength = 2

// minPhoneDigits is the minimum digit count for a query to be treated as a phone search
const minPhoneDigits = 4

// minPostcodeLength is the minimum normalized length for a postcode predicate
const minPostcodeLength = 3

// ClassifySearchQuery classifies a free-text query into exactly one search
// mode and produces the normalized term for the corresponding predicate.
//
// The classification is a strict first-match-wins chain:
//  1. "OCC" prefix (case-insensitive)  -> account number prefix search
//  2. contains "@"                     -> email substring search
//  3. >= 4 digits after stripping      -> phone digit substring search
//  4. normalized postcode >= 3 chars   -> postcode OR full-name substring search
//  5. otherwise                        -> full-name substring search
//
// Every search box against the customer search view must go through this
// function so the precedence order stays identical everywhere.
func ClassifySearchQuery(raw string) SearchQuery {
	q := strings.TrimSpace(raw)
	if len(q) < minQueryLength {
		return SearchQuery{Mode: SearchModeNone}
	}

	if strings.HasPrefix(strings.ToUpper(q), AccountNumberPrefix) {
		return SearchQuery{
			Mode: SearchModeAccountNumber,
			Term: strings.ToUpper(q),
		}
	}

	if strings.Contains(q, "@") {
		return SearchQuery{
			Mode: SearchModeEmail,
			Term: strings.ToLower(q),
		}
	}

	if digits := stripNonDigits(q); len(digits) >= minPhoneDigits {
		return SearchQuery{
			Mode: SearchModePhone,
			Term: digits,
		}
	}

	if normalized := NormalizePostcode(q); len(normalized) >= minPostcodeLength {
		return SearchQuery{
			Mode:     SearchModePostcodeOrName,
			Term:     normalized,
			NameTerm: q,
		}
	}

	return SearchQuery{
		Mode: SearchModeName,
		Term: q,
	}
}

// IsEmpty returns true when no search should be issued
func (q SearchQuery) IsEmpty() bool {
	return q.Mode == SearchModeNone
}

// stripNonDigits removes every non-digit rune from s
func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SearchRow is one row of the denormalized customer search view
type SearchRow struct {
	CustomerID    string `json:"customer_id"`
	AccountNumber string `json:"account_number"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	PhoneDigits   string `json:"phone_digits"`
	Postcode      string `json:"postcode"`
	Status        Status `json:"status"`
}
