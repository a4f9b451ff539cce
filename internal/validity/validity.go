// Package validity decides whether a certification is still inside its
// validity window, given the free-text expiry line scraped from a badge.
//
// The decision order is load-bearing: the no-expiration phrases are checked
// before any date parsing, and a line that yields no parseable date is
// treated as expired rather than as an error.
package validity

import (
	"regexp"
	"strings"
	"time"

	"credpoints/internal/logging"
)

// Result is the outcome of a validity check.
type Result struct {
	// IsValid reports whether the certification is currently valid.
	IsValid bool `json:"is_valid"`

	// DaysRemaining is the whole days until expiry, floored at 0 once
	// expired. Only meaningful when HasDaysRemaining is true.
	DaysRemaining int `json:"days_remaining"`

	// HasDaysRemaining is false for non-expiring certifications and for
	// lines where no date could be parsed.
	HasDaysRemaining bool `json:"has_days_remaining"`

	// Reason explains the decision: "no expiration", "expires in future",
	// "expired", "could not parse", or "data unavailable".
	Reason string `json:"reason"`
}

// Reasons.
const (
	ReasonNoExpiration    = "no expiration"
	ReasonFuture          = "expires in future"
	ReasonExpired         = "expired"
	ReasonUnparseable     = "could not parse"
	ReasonDataUnavailable = "data unavailable"
)

// noExpirationPhrases are matched case-insensitively before any date parsing.
var noExpirationPhrases = []string{
	"no expiration",
	"does not expire",
}

// datePatterns are tried in order; the first successful match wins.
// All matches parse as "Month Day, Year".
var datePatterns = []*regexp.Regexp{
	// "September 26, 2027"
	regexp.MustCompile(`([A-Za-z]+\s+\d{1,2},\s+\d{4})`),
	// "September 26 2027" (comma dropped by some renderings)
	regexp.MustCompile(`([A-Za-z]+\s+\d{1,2}\s+\d{4})`),
}

const dayDuration = 24 * time.Hour

// Check evaluates an expiry line against now.
//
// Order: (a) no-expiration phrases, (b) date regexes in order parsed as
// "Month Day, Year", (c) compare to now, (d) unparseable lines count as
// expired, never as an error.
func Check(expiryText string, now time.Time) Result {
	lower := strings.ToLower(expiryText)

	for _, phrase := range noExpirationPhrases {
		if strings.Contains(lower, phrase) {
			logging.AgentDebug("validity: %q has no expiration", expiryText)
			return Result{IsValid: true, Reason: ReasonNoExpiration}
		}
	}

	expiry, ok := parseExpiryDate(expiryText)
	if !ok {
		logging.AgentDebug("validity: no date parsed from %q, treating as expired", expiryText)
		return Result{IsValid: false, Reason: ReasonUnparseable}
	}

	if now.Before(expiry) {
		days := int(expiry.Sub(now) / dayDuration)
		return Result{
			IsValid:          true,
			DaysRemaining:    days,
			HasDaysRemaining: true,
			Reason:           ReasonFuture,
		}
	}

	// Expired: the remaining-days figure floors at 0.
	return Result{
		IsValid:          false,
		DaysRemaining:    0,
		HasDaysRemaining: true,
		Reason:           ReasonExpired,
	}
}

// Unavailable returns the distinct result for scrape failures. This is not
// "expired": the caller could not obtain an expiry line at all.
func Unavailable() Result {
	return Result{IsValid: false, Reason: ReasonDataUnavailable}
}

// parseExpiryDate extracts and parses the first date-shaped substring.
func parseExpiryDate(text string) (time.Time, bool) {
	for _, pattern := range datePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		candidate := normalizeDateSpacing(match[1])
		for _, layout := range []string{"January 2, 2006", "January 2 2006"} {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// normalizeDateSpacing collapses runs of whitespace so both regex shapes
// feed the same layouts.
func normalizeDateSpacing(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
