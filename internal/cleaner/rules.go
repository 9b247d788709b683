package cleaner

import (
	"strings"

	"cafesales/internal/core"
)

// Rules is the inspectable mapping table driving categorical normalization.
// Matching keys are lowercased with spaces, hyphens and underscores removed,
// so "Take Away", "take-away" and "TAKEAWAY" all hit the same entry. The
// tables are plain data so the cleaning policy can be audited and tested
// without touching any I/O.
type Rules struct {
	Payments  map[string]core.PaymentMethod
	Locations map[string]core.Location
	// Missing holds markers the raw feed uses for absent values.
	Missing map[string]bool
	// EntryErrors holds markers the raw feed uses for detected entry errors.
	EntryErrors map[string]bool
}

// DefaultRules returns the mapping observed in the café sales feed.
func DefaultRules() Rules {
	return Rules{
		Payments: map[string]core.PaymentMethod{
			"cash":          core.PaymentCash,
			"creditcard":    core.PaymentCreditCard,
			"card":          core.PaymentCreditCard,
			"credit":        core.PaymentCreditCard,
			"digitalwallet": core.PaymentDigitalWallet,
			"wallet":        core.PaymentDigitalWallet,
			"mobilewallet":  core.PaymentDigitalWallet,
		},
		Locations: map[string]core.Location{
			"instore":  core.LocationInStore,
			"store":    core.LocationInStore,
			"takeaway": core.LocationTakeaway,
			"takeout":  core.LocationTakeaway,
			"togo":     core.LocationTakeaway,
		},
		Missing: map[string]bool{
			"":        true,
			"unknown": true,
			"none":    true,
			"null":    true,
			"nan":     true,
			"na":      true,
			"n/a":     true,
		},
		EntryErrors: map[string]bool{
			"error": true,
			"err":   true,
		},
	}
}

// matchKey collapses a raw categorical value to its lookup form.
func matchKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '\t', '-', '_':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsMissing reports whether a raw value marks an absent field.
func (r Rules) IsMissing(s string) bool {
	return r.Missing[matchKey(s)]
}

// IsEntryError reports whether a raw value marks a detected entry error.
func (r Rules) IsEntryError(s string) bool {
	return r.EntryErrors[matchKey(s)]
}

// ClassifyPayment maps a raw payment value onto the closed method set.
// Anything unrecognized becomes Unknown rather than staying null; explicit
// entry-error markers keep the Error category.
func (r Rules) ClassifyPayment(s string) core.PaymentMethod {
	if r.IsEntryError(s) {
		return core.PaymentError
	}
	if r.IsMissing(s) {
		return core.PaymentUnknown
	}
	if m, ok := r.Payments[matchKey(s)]; ok {
		return m
	}
	return core.PaymentUnknown
}

// ClassifyLocation maps a raw location value onto the closed channel set.
func (r Rules) ClassifyLocation(s string) core.Location {
	if r.IsEntryError(s) {
		return core.LocationError
	}
	if r.IsMissing(s) {
		return core.LocationUnknown
	}
	if l, ok := r.Locations[matchKey(s)]; ok {
		return l
	}
	return core.LocationUnknown
}

// NormalizeItem trims, collapses internal whitespace and title-cases an item
// name so equivalent spellings collapse to one representation.
func NormalizeItem(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
