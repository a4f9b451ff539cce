package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"credpoints/internal/badge"
	"credpoints/internal/points"
	"credpoints/internal/validity"
)

type fakeScraper struct {
	record *badge.Record
	err    error
}

func (f *fakeScraper) ScrapeBadge(ctx context.Context, url string) (*badge.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec := *f.record
	rec.SourceURL = url
	return &rec, nil
}

func fixedClock() time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func TestExtractCertificationDataTool(t *testing.T) {
	sc := &fakeScraper{record: &badge.Record{
		Name:       "AWS Certified Solutions Architect - Professional",
		Issuer:     "Amazon Web Services",
		ExpiryText: "Expires: September 26, 2027",
	}}
	tool := ExtractCertificationDataTool(sc)

	out, err := tool.Execute(context.Background(), map[string]any{
		"url": "https://www.credly.com/badges/abc-123",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var rec badge.Record
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Name != sc.record.Name {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.SourceURL != "https://www.credly.com/badges/abc-123" {
		t.Errorf("SourceURL = %q", rec.SourceURL)
	}
}

func TestExtractCertificationDataToolErrors(t *testing.T) {
	scrapeErr := errors.New("browser gone")
	tool := ExtractCertificationDataTool(&fakeScraper{err: scrapeErr})

	if _, err := tool.Execute(context.Background(), map[string]any{"url": ""}); err == nil {
		t.Error("expected error for empty url")
	}
	_, err := tool.Execute(context.Background(), map[string]any{"url": "https://www.credly.com/badges/x"})
	if !errors.Is(err, scrapeErr) {
		t.Errorf("expected scrape error, got %v", err)
	}
}

func TestGetCertificationPointsTool(t *testing.T) {
	tool := GetCertificationPointsTool(nil)

	out, err := tool.Execute(context.Background(), map[string]any{
		"cert_name": "HashiCorp Certified: Terraform Associate",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var cls points.Classification
	if err := json.Unmarshal([]byte(out), &cls); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cls.Points != 5 {
		t.Errorf("Points = %v, want 5", cls.Points)
	}

	if _, err := tool.Execute(context.Background(), map[string]any{"cert_name": ""}); err == nil {
		t.Error("expected error for empty cert_name")
	}
}

func TestGetCertificationPointsToolCustomClassifier(t *testing.T) {
	tool := GetCertificationPointsTool(func(certName string) points.Classification {
		return points.Classification{Category: "Fixed", Points: 42}
	})

	out, err := tool.Execute(context.Background(), map[string]any{"cert_name": "anything"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var cls points.Classification
	if err := json.Unmarshal([]byte(out), &cls); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cls.Category != "Fixed" || cls.Points != 42 {
		t.Errorf("classification = %+v", cls)
	}
}

func TestCheckCertificationValidityTool(t *testing.T) {
	tool := CheckCertificationValidityTool(fixedClock)

	cases := []struct {
		name       string
		expiryText string
		wantValid  bool
		wantReason string
	}{
		{"future date", "Expires: September 26, 2027", true, validity.ReasonFuture},
		{"past date", "Expires: January 15, 2023", false, validity.ReasonExpired},
		{"no expiration", "No Expiration Date", true, validity.ReasonNoExpiration},
		{"garbage", "sometime soon", false, validity.ReasonUnparseable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tool.Execute(context.Background(), map[string]any{
				"expiry_text": tc.expiryText,
			})
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			var res validity.Result
			if err := json.Unmarshal([]byte(out), &res); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if res.IsValid != tc.wantValid {
				t.Errorf("IsValid = %v, want %v", res.IsValid, tc.wantValid)
			}
			if res.Reason != tc.wantReason {
				t.Errorf("Reason = %q, want %q", res.Reason, tc.wantReason)
			}
		})
	}
}

func TestRegisterAll(t *testing.T) {
	r := NewRegistry()
	RegisterAll(r, &fakeScraper{record: &badge.Record{Name: "Cert"}}, nil, fixedClock)

	for _, name := range []string{
		"extract_certification_data",
		"get_certification_points",
		"check_certification_validity",
	} {
		if !r.Has(name) {
			t.Errorf("tool %s not registered", name)
		}
	}
}
