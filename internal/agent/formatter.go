package agent

import (
	"fmt"
	"strconv"
)

// State is the terminal response state, decided once per request from
// (isValid, hasSourceURL). Each state maps to exactly one sentence template.
type State string

const (
	// StateValid: scraped badge, still inside its validity window.
	StateValid State = "valid"

	// StateExpired: scraped badge, validity window passed.
	StateExpired State = "expired"

	// StateHypothetical: no badge URL; the name came from free text.
	StateHypothetical State = "hypothetical"

	// StateUnavailable: badge data could not be scraped. Distinct from
	// expired: nothing is known about the certification.
	StateUnavailable State = "unavailable"
)

// DecideState picks the response state. Scrape failures are decided before
// this is called (they short-circuit to StateUnavailable).
func DecideState(isValid, hasSourceURL bool) State {
	if !hasSourceURL {
		return StateHypothetical
	}
	if isValid {
		return StateValid
	}
	return StateExpired
}

// Format renders the sentence for a state. Same inputs always produce the
// identical sentence; there is no other branching here.
func Format(state State, certName string, creditPoints float64) string {
	points := formatPoints(creditPoints)
	switch state {
	case StateValid:
		return fmt.Sprintf("I see that this is a %s. And it is still valid. So you can be granted %s credit points for it.", certName, points)
	case StateExpired:
		return fmt.Sprintf("Sorry, your cert has expired. So you won't get any credit points. But otherwise you would have stood to obtain %s credit points for your %s.", points, certName)
	case StateHypothetical:
		return fmt.Sprintf("You will get %s credit points for that cert.", points)
	case StateUnavailable:
		return "Sorry, I couldn't retrieve the badge data right now, so I can't evaluate your certification."
	default:
		return "Sorry, I couldn't evaluate your certification."
	}
}

// formatPoints renders 10 as "10" and 2.5 as "2.5".
func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
