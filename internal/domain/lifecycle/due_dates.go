package lifecycle

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	cashTerms   = []string{"á vista", "à vista", "a vista", "cash", "on the spot"}
	agreedTerms = []string{"acordado", "a combinar", "as agreed"}
)

// IsCashTerm reports whether the label means immediate payment.
func IsCashTerm(label string) bool {
	return containsAny(strings.ToLower(label), cashTerms)
}

// IsNegotiatedTerm reports whether the label means dates are agreed separately.
// Such quotes have no due dates but are not "missing" them.
func IsNegotiatedTerm(label string) bool {
	return containsAny(strings.ToLower(label), agreedTerms)
}

// ComputeDueDates derives the due dates for a payment term label.
//
//	"Á Vista"       -> [base]
//	"Acordado"      -> []
//	"30/45/60 dias" -> [base+30d, base+45d, base+60d]
//	anything else   -> []
func ComputeDueDates(label string, base time.Time) []time.Time {
	if IsCashTerm(label) {
		return []time.Time{base}
	}
	if IsNegotiatedTerm(label) {
		return []time.Time{}
	}

	out := []time.Time{}
	for _, part := range strings.Split(label, "/") {
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return r
			}
			return -1
		}, part)
		if digits == "" {
			continue
		}
		days, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		out = append(out, base.AddDate(0, 0, days))
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
