package perception

import (
	"context"
	"fmt"
	"strings"

	"credpoints/internal/types"
)

const extractSystemPrompt = `You extract certification names from user questions.
If the user asks about a hypothetical certification (like "if I clear" or
"how many points will I get"), identify the certification name and respond
with just the certification name. No punctuation, no explanation.`

// ExtractCertificationName asks the LLM to pull a certification name out of
// a free-text question. The result is an untrusted string; callers classify
// it locally and never act on it beyond that.
func ExtractCertificationName(ctx context.Context, client types.LLMClient, query string) (string, error) {
	prompt := fmt.Sprintf("Based on this user question: %q\n\nExtract the certification name mentioned.", query)

	response, err := client.CompleteWithSystem(ctx, extractSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("certification name extraction failed: %w", err)
	}

	name := strings.TrimSpace(response)
	// Models sometimes quote the answer; strip one layer.
	name = strings.Trim(name, `"'`)
	if name == "" {
		return "", fmt.Errorf("certification name extraction returned empty response")
	}
	return name, nil
}
