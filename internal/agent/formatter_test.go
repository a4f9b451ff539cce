package agent

import "testing"

func TestDecideState(t *testing.T) {
	cases := []struct {
		name         string
		isValid      bool
		hasSourceURL bool
		want         State
	}{
		{"valid badge", true, true, StateValid},
		{"expired badge", false, true, StateExpired},
		{"no url valid", true, false, StateHypothetical},
		{"no url invalid", false, false, StateHypothetical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecideState(tc.isValid, tc.hasSourceURL); got != tc.want {
				t.Errorf("DecideState(%v, %v) = %s, want %s", tc.isValid, tc.hasSourceURL, got, tc.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		name   string
		state  State
		cert   string
		points float64
		want   string
	}{
		{
			"valid professional",
			StateValid,
			"AWS Certified Solutions Architect - Professional",
			10,
			"I see that this is a AWS Certified Solutions Architect - Professional. And it is still valid. So you can be granted 10 credit points for it.",
		},
		{
			"valid fractional points",
			StateValid,
			"Random Badge",
			2.5,
			"I see that this is a Random Badge. And it is still valid. So you can be granted 2.5 credit points for it.",
		},
		{
			"expired",
			StateExpired,
			"HashiCorp Certified: Terraform Associate",
			5,
			"Sorry, your cert has expired. So you won't get any credit points. But otherwise you would have stood to obtain 5 credit points for your HashiCorp Certified: Terraform Associate.",
		},
		{
			"hypothetical",
			StateHypothetical,
			"CKA",
			5,
			"You will get 5 credit points for that cert.",
		},
		{
			"unavailable",
			StateUnavailable,
			"",
			0,
			"Sorry, I couldn't retrieve the badge data right now, so I can't evaluate your certification.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Format(tc.state, tc.cert, tc.points)
			if got != tc.want {
				t.Errorf("Format() = %q\nwant       %q", got, tc.want)
			}
			// Same inputs, same sentence.
			if again := Format(tc.state, tc.cert, tc.points); again != got {
				t.Errorf("Format() not deterministic: %q vs %q", got, again)
			}
		})
	}
}

func TestFormatPoints(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{5, "5"},
		{2.5, "2.5"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := formatPoints(tc.in); got != tc.want {
			t.Errorf("formatPoints(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
