// Package agent orchestrates the credit-point pipeline as a statically
// ordered sequence: scrape, check validity, classify, format. Tools are
// resolved from the registry and executed in that fixed order; the LLM is
// confined to certification-name extraction on the no-URL path.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"credpoints/internal/badge"
	"credpoints/internal/logging"
	"credpoints/internal/perception"
	"credpoints/internal/points"
	"credpoints/internal/tools"
	"credpoints/internal/types"
	"credpoints/internal/validity"
)

// Outcome is the result of answering one query.
type Outcome struct {
	// Sentence is the rendered response.
	Sentence string `json:"sentence"`

	// State is the formatter state that produced the sentence.
	State State `json:"state"`

	// CertName is the certification name used for classification.
	CertName string `json:"cert_name"`

	// CreditPoints is the awarded figure: the tier points when valid or
	// hypothetical, 0 when expired or unavailable.
	CreditPoints float64 `json:"credit_points"`

	// Record is the scraped badge, when a URL path was taken and the
	// scrape succeeded.
	Record *badge.Record `json:"record,omitempty"`

	// Classification is the matched tier, when one was computed.
	Classification points.Classification `json:"classification"`

	// Validity is the validity result for the URL path.
	Validity validity.Result `json:"validity"`
}

// Agent runs the pipeline.
type Agent struct {
	registry *tools.Registry
	llm      types.LLMClient
	now      func() time.Time
}

// Option configures an Agent.
type Option func(*Agent)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// New creates an agent over a populated tool registry. llm may be nil; the
// hypothetical path then reports that no extractor is configured.
func New(registry *tools.Registry, llm types.LLMClient, opts ...Option) *Agent {
	a := &Agent{
		registry: registry,
		llm:      llm,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer processes one free-text query and returns the rendered outcome.
// Pipeline failures that reflect business policy (unknown tier, unparseable
// date) never surface as errors; scrape and LLM failures resolve to the
// distinct unavailable state.
func (a *Agent) Answer(ctx context.Context, query string) (*Outcome, error) {
	logging.Agent("answering query (len=%d)", len(query))

	if url, ok := badge.ExtractBadgeURL(query); ok {
		return a.answerForURL(ctx, url)
	}
	return a.answerHypothetical(ctx, query)
}

// answerForURL runs the full pipeline: scrape, validity, classify, format.
func (a *Agent) answerForURL(ctx context.Context, url string) (*Outcome, error) {
	record, err := a.scrape(ctx, url)
	if err != nil {
		logging.Agent("scrape failed for %s: %v", url, err)
		return a.unavailable(), nil
	}

	result, err := a.checkValidity(ctx, record.ExpiryText)
	if err != nil {
		return nil, err
	}

	classification, err := a.classify(ctx, record.Name)
	if err != nil {
		return nil, err
	}

	state := DecideState(result.IsValid, true)
	creditPoints := 0.0
	if result.IsValid {
		creditPoints = classification.Points
	}

	outcome := &Outcome{
		State:          state,
		CertName:       record.Name,
		CreditPoints:   creditPoints,
		Record:         record,
		Classification: classification,
		Validity:       result,
	}
	outcome.Sentence = Format(state, record.Name, classification.Points)

	logging.Agent("answered: state=%s cert=%q points=%.1f", state, record.Name, creditPoints)
	return outcome, nil
}

// answerHypothetical handles queries without a badge URL: the LLM extracts
// the certification name, classification runs locally.
func (a *Agent) answerHypothetical(ctx context.Context, query string) (*Outcome, error) {
	if a.llm == nil {
		return nil, fmt.Errorf("query contains no badge URL and no LLM is configured for name extraction")
	}

	certName, err := perception.ExtractCertificationName(ctx, a.llm, query)
	if err != nil {
		logging.Agent("name extraction failed: %v", err)
		return a.unavailable(), nil
	}

	classification, err := a.classify(ctx, certName)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		State:          StateHypothetical,
		CertName:       certName,
		CreditPoints:   classification.Points,
		Classification: classification,
		// Hypothetical certifications are treated as valid.
		Validity: validity.Result{IsValid: true, Reason: validity.ReasonNoExpiration},
	}
	outcome.Sentence = Format(StateHypothetical, certName, classification.Points)

	logging.Agent("answered hypothetical: cert=%q points=%.1f", certName, classification.Points)
	return outcome, nil
}

func (a *Agent) unavailable() *Outcome {
	return &Outcome{
		State:    StateUnavailable,
		Sentence: Format(StateUnavailable, "", 0),
		Validity: validity.Unavailable(),
	}
}

// scrape runs the extract_certification_data tool.
func (a *Agent) scrape(ctx context.Context, url string) (*badge.Record, error) {
	result, err := a.registry.Execute(ctx, "extract_certification_data", map[string]any{"url": url})
	if err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}

	var record badge.Record
	if err := json.Unmarshal([]byte(result.Result), &record); err != nil {
		return nil, fmt.Errorf("failed to decode scrape result: %w", err)
	}
	return &record, nil
}

// checkValidity runs the check_certification_validity tool.
func (a *Agent) checkValidity(ctx context.Context, expiryText string) (validity.Result, error) {
	result, err := a.registry.Execute(ctx, "check_certification_validity", map[string]any{"expiry_text": expiryText})
	if err != nil {
		return validity.Result{}, err
	}
	if result.Error != nil {
		return validity.Result{}, result.Error
	}

	var vr validity.Result
	if err := json.Unmarshal([]byte(result.Result), &vr); err != nil {
		return validity.Result{}, fmt.Errorf("failed to decode validity result: %w", err)
	}
	return vr, nil
}

// classify runs the get_certification_points tool.
func (a *Agent) classify(ctx context.Context, certName string) (points.Classification, error) {
	result, err := a.registry.Execute(ctx, "get_certification_points", map[string]any{"cert_name": certName})
	if err != nil {
		return points.Classification{}, err
	}
	if result.Error != nil {
		return points.Classification{}, result.Error
	}

	var classification points.Classification
	if err := json.Unmarshal([]byte(result.Result), &classification); err != nil {
		return points.Classification{}, fmt.Errorf("failed to decode classification: %w", err)
	}
	return classification, nil
}
