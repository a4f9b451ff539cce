package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"credpoints/internal/badge"
	"credpoints/internal/points"
	"credpoints/internal/validity"
)

// BadgeScraper is the subset of the scraper the tools need.
type BadgeScraper interface {
	ScrapeBadge(ctx context.Context, url string) (*badge.Record, error)
}

// Classifier maps a certification name to a tier. Satisfied by
// points.Classify and by (*points.Store).Classify.
type Classifier func(certName string) points.Classification

// ExtractCertificationDataTool returns the tool that scrapes a badge page.
func ExtractCertificationDataTool(scraper BadgeScraper) *Tool {
	return &Tool{
		Name:        "extract_certification_data",
		Description: "Extract certification data from a Credly badge URL",
		Category:    CategoryScrape,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			url, _ := args["url"].(string)
			if url == "" {
				return "", fmt.Errorf("url is required")
			}
			record, err := scraper.ScrapeBadge(ctx, url)
			if err != nil {
				return "", err
			}
			return marshalResult(record)
		},
		Schema: ToolSchema{
			Required: []string{"url"},
			Properties: map[string]Property{
				"url": {
					Type:        "string",
					Description: "The Credly badge URL to scrape",
				},
			},
		},
	}
}

// GetCertificationPointsTool returns the tool that classifies a
// certification name into a point tier.
func GetCertificationPointsTool(classify Classifier) *Tool {
	if classify == nil {
		classify = points.Classify
	}
	return &Tool{
		Name:        "get_certification_points",
		Description: "Determine credit points for a certification name",
		Category:    CategoryPoints,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			certName, _ := args["cert_name"].(string)
			if certName == "" {
				return "", fmt.Errorf("cert_name is required")
			}
			return marshalResult(classify(certName))
		},
		Schema: ToolSchema{
			Required: []string{"cert_name"},
			Properties: map[string]Property{
				"cert_name": {
					Type:        "string",
					Description: "Name of the certification to look up",
				},
			},
		},
	}
}

// CheckCertificationValidityTool returns the tool that evaluates an expiry
// line. The clock is injectable for tests; nil means time.Now.
func CheckCertificationValidityTool(now func() time.Time) *Tool {
	if now == nil {
		now = time.Now
	}
	return &Tool{
		Name:        "check_certification_validity",
		Description: "Check whether a certification expiry line is still valid",
		Category:    CategoryPoints,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			expiryText, _ := args["expiry_text"].(string)
			return marshalResult(validity.Check(expiryText, now()))
		},
		Schema: ToolSchema{
			Required: []string{"expiry_text"},
			Properties: map[string]Property{
				"expiry_text": {
					Type:        "string",
					Description: "Raw expiry line, e.g. \"Expires: September 26, 2027\"",
				},
			},
		},
	}
}

// RegisterAll registers the full pipeline tool set.
func RegisterAll(registry *Registry, scraper BadgeScraper, classify Classifier, now func() time.Time) {
	registry.MustRegister(ExtractCertificationDataTool(scraper))
	registry.MustRegister(GetCertificationPointsTool(classify))
	registry.MustRegister(CheckCertificationValidityTool(now))
}

func marshalResult(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return string(data), nil
}
