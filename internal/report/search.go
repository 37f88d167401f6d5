package report

import (
	"regexp"
	"strings"

	"github.com/finview-dev/finview/internal/model"
)

// The search patterns are deliberately loose matches over free-text
// descriptions, not validators. Report consumers depend on the current
// matching behavior.
var (
	// phonePattern matches a literal 8 or +7, any one character, then digits.
	phonePattern = regexp.MustCompile(`(8|\+7).[0-9]+`)
	// initialsPattern matches "Surname I." style transfer recipients.
	initialsPattern = regexp.MustCompile(`[А-Я]\.`)
)

// SearchByText returns rows whose description or category contains the
// needle, case-insensitively.
func SearchByText(rows []model.Transaction, needle string) []model.Transaction {
	needle = strings.ToLower(needle)
	var matches []model.Transaction
	for _, tx := range rows {
		if strings.Contains(strings.ToLower(tx.Description), needle) ||
			strings.Contains(strings.ToLower(tx.Category), needle) {
			matches = append(matches, tx)
		}
	}
	return matches
}

// SearchPhoneMentions returns rows whose description mentions a
// phone-like number.
func SearchPhoneMentions(rows []model.Transaction) []model.Transaction {
	var matches []model.Transaction
	for _, tx := range rows {
		if phonePattern.MatchString(tx.Description) {
			matches = append(matches, tx)
		}
	}
	return matches
}

// SearchPersonInitials returns rows whose description carries a
// Cyrillic capital letter followed by a period.
func SearchPersonInitials(rows []model.Transaction) []model.Transaction {
	var matches []model.Transaction
	for _, tx := range rows {
		if initialsPattern.MatchString(tx.Description) {
			matches = append(matches, tx)
		}
	}
	return matches
}
