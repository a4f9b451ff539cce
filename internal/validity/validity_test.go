package validity

import (
	"testing"
	"time"
)

var testNow = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestCheckNoExpiration(t *testing.T) {
	for _, text := range []string{
		"No Expiration Date",
		"no expiration",
		"This certification does not expire",
	} {
		got := Check(text, testNow)
		if !got.IsValid {
			t.Errorf("Check(%q) = invalid, want valid", text)
		}
		if got.HasDaysRemaining {
			t.Errorf("Check(%q) reported a days-remaining figure", text)
		}
		if got.Reason != ReasonNoExpiration {
			t.Errorf("Check(%q).Reason = %q, want %q", text, got.Reason, ReasonNoExpiration)
		}
	}

	// Regardless of now: a clock far in the future changes nothing.
	farFuture := time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)
	if got := Check("No Expiration Date", farFuture); !got.IsValid {
		t.Error("no-expiration badge became invalid under a future clock")
	}
}

func TestCheckExpired(t *testing.T) {
	got := Check("Expires: January 15, 2023", testNow)
	if got.IsValid {
		t.Fatal("expected expired")
	}
	if !got.HasDaysRemaining || got.DaysRemaining != 0 {
		t.Errorf("expired certs floor at 0 days, got (%v, %v)", got.DaysRemaining, got.HasDaysRemaining)
	}
	if got.Reason != ReasonExpired {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonExpired)
	}
}

func TestCheckFutureExactDayCount(t *testing.T) {
	// 2024-01-01 to 2027-09-26: 1096 days to 2027-01-01 (2024 is a leap
	// year), plus 268 days into 2027.
	got := Check("Expires: September 26, 2027", testNow)
	if !got.IsValid {
		t.Fatal("expected valid")
	}
	if !got.HasDaysRemaining {
		t.Fatal("expected a days-remaining figure")
	}
	if got.DaysRemaining != 1364 {
		t.Errorf("DaysRemaining = %d, want 1364", got.DaysRemaining)
	}
	if got.Reason != ReasonFuture {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonFuture)
	}
}

func TestCheckUnparseable(t *testing.T) {
	for _, text := range []string{
		"garbage text",
		"",
		"Expires: soon",
		"Expires: 2027-09-26", // ISO form is not a supported shape
	} {
		got := Check(text, testNow)
		if got.IsValid {
			t.Errorf("Check(%q) = valid, want invalid", text)
		}
		if got.HasDaysRemaining {
			t.Errorf("Check(%q) reported a days-remaining figure", text)
		}
		if got.Reason != ReasonUnparseable {
			t.Errorf("Check(%q).Reason = %q, want %q", text, got.Reason, ReasonUnparseable)
		}
	}
}

// The comma-less rendering parses through the second pattern.
func TestCheckDateWithoutComma(t *testing.T) {
	got := Check("Expires September 26 2027", testNow)
	if !got.IsValid {
		t.Fatal("expected valid")
	}
	if got.DaysRemaining != 1364 {
		t.Errorf("DaysRemaining = %d, want 1364", got.DaysRemaining)
	}
}

// No-expiration phrasing wins even when a date is also present.
func TestCheckNoExpirationBeatsDate(t *testing.T) {
	got := Check("No Expiration Date (issued January 15, 2023)", testNow)
	if !got.IsValid {
		t.Error("no-expiration phrase must be checked before date parsing")
	}
}

func TestUnavailable(t *testing.T) {
	got := Unavailable()
	if got.IsValid {
		t.Error("unavailable results are not valid")
	}
	if got.Reason != ReasonDataUnavailable {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonDataUnavailable)
	}
	// Distinct from the expired reason: callers tell them apart.
	if got.Reason == ReasonExpired {
		t.Error("unavailable must not be folded into expired")
	}
}
