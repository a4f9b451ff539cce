package perception

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type cannedLLM struct {
	response string
	err      error
	gotQuery string
}

func (c *cannedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return c.response, c.err
}

func (c *cannedLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.gotQuery = userPrompt
	return c.response, c.err
}

func TestExtractCertificationName(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     string
	}{
		{"plain name", "HashiCorp Certified: Terraform Associate", "HashiCorp Certified: Terraform Associate"},
		{"whitespace trimmed", "  CKA  ", "CKA"},
		{"double quotes stripped", `"AWS Certified Developer"`, "AWS Certified Developer"},
		{"single quotes stripped", "'Azure Fundamentals'", "Azure Fundamentals"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm := &cannedLLM{response: tc.response}
			got, err := ExtractCertificationName(context.Background(), llm, "how many points for this cert?")
			if err != nil {
				t.Fatalf("ExtractCertificationName failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractCertificationNameQueryForwarded(t *testing.T) {
	llm := &cannedLLM{response: "CKA"}
	_, err := ExtractCertificationName(context.Background(), llm, "if I clear the CKA what do I get?")
	if err != nil {
		t.Fatalf("ExtractCertificationName failed: %v", err)
	}
	if want := "if I clear the CKA what do I get?"; !strings.Contains(llm.gotQuery, want) {
		t.Errorf("prompt %q does not contain query %q", llm.gotQuery, want)
	}
}

func TestExtractCertificationNameErrors(t *testing.T) {
	llmErr := errors.New("quota exceeded")
	if _, err := ExtractCertificationName(context.Background(), &cannedLLM{err: llmErr}, "q"); !errors.Is(err, llmErr) {
		t.Errorf("expected wrapped LLM error, got %v", err)
	}
	if _, err := ExtractCertificationName(context.Background(), &cannedLLM{response: "  "}, "q"); err == nil {
		t.Error("expected error for empty response")
	}
	if _, err := ExtractCertificationName(context.Background(), &cannedLLM{response: `""`}, "q"); err == nil {
		t.Error("expected error for quoted-empty response")
	}
}
