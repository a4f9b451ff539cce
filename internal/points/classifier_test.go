package points

import (
	"testing"
)

func TestClassifyPinnedExamples(t *testing.T) {
	tests := []struct {
		name     string
		certName string
		category string
		points   float64
	}{
		{
			name:     "professional tier",
			certName: "AWS Solutions Architect Professional",
			category: "Any Professional or Specialty",
			points:   10,
		},
		{
			name:     "specialty tier",
			certName: "AWS Certified Security - Specialty",
			category: "Any Professional or Specialty",
			points:   10,
		},
		{
			name:     "hashicorp tier",
			certName: "HashiCorp Terraform Associate",
			category: "Any Associate or Hashicorp",
			points:   5,
		},
		{
			name:     "terraform keyword alone",
			certName: "Terraform Authoring and Operations",
			category: "Any Associate or Hashicorp",
			points:   5,
		},
		{
			name:     "default tier",
			certName: "Random Badge",
			category: "Anything Else",
			points:   2.5,
		},
		{
			name:     "empty name falls to default",
			certName: "",
			category: "Anything Else",
			points:   2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.certName)
			if got.Category != tt.category {
				t.Errorf("Classify(%q).Category = %q, want %q", tt.certName, got.Category, tt.category)
			}
			if got.Points != tt.points {
				t.Errorf("Classify(%q).Points = %v, want %v", tt.certName, got.Points, tt.points)
			}
		})
	}
}

// A name matching both the professional and associate keyword sets takes
// the higher tier: first match wins in priority order.
func TestClassifyPriorityOrder(t *testing.T) {
	got := Classify("HashiCorp Terraform Professional")
	if got.Points != 10 {
		t.Errorf("expected professional tier to win, got %v points", got.Points)
	}
}

// Classify is total: any input maps to exactly one of the three tiers.
func TestClassifyTotality(t *testing.T) {
	inputs := []string{
		"", " ", "\n", "garbage", "ASSOCIATE", "pRoFeSsIoNaL",
		"日本語の資格", "a very long name that matches nothing in particular",
	}
	valid := map[float64]bool{10: true, 5: true, 2.5: true}

	for _, input := range inputs {
		got := Classify(input)
		if !valid[got.Points] {
			t.Errorf("Classify(%q) returned out-of-set points %v", input, got.Points)
		}
		if got.Category == "" {
			t.Errorf("Classify(%q) returned empty category", input)
		}
	}
}

func TestClassifyWithCustomTiers(t *testing.T) {
	tiers := []Tier{
		{Category: "Gold", Keywords: []string{"expert"}, Points: 20, Priority: 0},
		{Category: "Rest", Keywords: nil, Points: 1, Priority: 1},
	}

	if got := ClassifyWith(tiers, "Kubernetes Expert"); got.Category != "Gold" {
		t.Errorf("expected Gold, got %q", got.Category)
	}
	if got := ClassifyWith(tiers, "Something"); got.Category != "Rest" {
		t.Errorf("expected Rest, got %q", got.Category)
	}
}

// An empty table still returns the compiled-in default tier.
func TestClassifyWithEmptyTable(t *testing.T) {
	got := ClassifyWith(nil, "Anything")
	if got.Points != 2.5 {
		t.Errorf("expected fallback 2.5 points, got %v", got.Points)
	}
}

func TestTierMatches(t *testing.T) {
	tier := Tier{Keywords: []string{"associate", "HashiCorp"}}
	if !tier.Matches("hashicorp terraform associate") {
		t.Error("expected keyword match")
	}
	if tier.Matches("random badge") {
		t.Error("unexpected match")
	}

	catchAll := Tier{}
	if !catchAll.Matches("anything at all") {
		t.Error("catch-all tier must match everything")
	}
}
