// Package badge holds the certification record model and the Credly URL
// recognizers. Records are produced by the scraper, consumed by a single
// request, and never persisted.
package badge

import (
	"fmt"
	"regexp"
	"strings"
)

// Record is a single scraped certification badge.
type Record struct {
	// Name is the certification title, e.g. "HashiCorp Certified: Terraform Associate".
	Name string `json:"name"`

	// Issuer is the issuing organization, e.g. "Amazon Web Services".
	Issuer string `json:"issuer,omitempty"`

	// HolderName is the display name of the badge holder.
	HolderName string `json:"holder_name,omitempty"`

	// IssuedText is the raw issue-date line, e.g. "Issued: March 3, 2024".
	IssuedText string `json:"issued_text,omitempty"`

	// ExpiryText is the raw expiry line, e.g. "Expires: September 26, 2027"
	// or "No Expiration Date".
	ExpiryText string `json:"expiry_text,omitempty"`

	// SourceURL is where the record was scraped from.
	SourceURL string `json:"source_url,omitempty"`
}

// Validate checks that the record carries the fields the pipeline needs.
// Extraction fails loudly rather than silently producing wrong fields.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("badge record missing certification name (source: %s)", r.SourceURL)
	}
	return nil
}

// Profile is the result of scraping a Credly profile page: the holder's
// display name plus every badge found on the page.
type Profile struct {
	HolderName string   `json:"holder_name"`
	Badges     []Record `json:"badges"`
	SourceURL  string   `json:"source_url,omitempty"`
}

var (
	badgeURLPattern   = regexp.MustCompile(`https?://(?:www\.)?credly\.com/badges/[a-zA-Z0-9-]+`)
	profileURLPattern = regexp.MustCompile(`https?://(?:www\.)?credly\.com/users/[a-zA-Z0-9_.-]+(?:/badges)?`)
)

// ExtractBadgeURL finds the first Credly badge URL in free text.
func ExtractBadgeURL(text string) (string, bool) {
	url := badgeURLPattern.FindString(text)
	return url, url != ""
}

// ExtractProfileURL finds the first Credly profile URL in free text.
// Badge URLs take precedence; callers should try ExtractBadgeURL first.
func ExtractProfileURL(text string) (string, bool) {
	url := profileURLPattern.FindString(text)
	return url, url != ""
}
