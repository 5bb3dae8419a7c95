package schedule

import "testing"

func TestParseRule_RoundTripsWithBuildRule(t *testing.T) {
	freqs := []Frequency{Daily, Weekly, Monthly, Yearly}
	intervals := []int{1, 2, 3, 7, 30}

	for _, f := range freqs {
		for _, n := range intervals {
			text := BuildRule(f, n)
			r := ParseRule(text)
			if r == nil {
				t.Fatalf("ParseRule(%q) returned nil", text)
			}
			if r.Freq != f || r.Interval != n {
				t.Fatalf("round trip of %q gave %+v, want {%s %d}", text, r, f, n)
			}
		}
	}
}

func TestParseRule_DefaultInterval(t *testing.T) {
	r := ParseRule("FREQ=DAILY")
	if r == nil {
		t.Fatal("expected rule, got nil")
	}
	if r.Interval != 1 {
		t.Fatalf("expected default interval 1, got %d", r.Interval)
	}
}

func TestParseRule_CaseInsensitiveAndIgnoresUnknownKeys(t *testing.T) {
	r := ParseRule("freq=weekly;interval=2;BYDAY=MO")
	if r == nil {
		t.Fatal("expected rule, got nil")
	}
	if r.Freq != Weekly || r.Interval != 2 {
		t.Fatalf("unexpected rule: %+v", r)
	}
}

func TestParseRule_MalformedIsNil(t *testing.T) {
	cases := []string{
		"",
		"FREQ=NOTAREALFREQ",
		"INTERVAL=3",
		"FREQ=DAILY;INTERVAL=0",
		"FREQ=DAILY;INTERVAL=-2",
		"FREQ=DAILY;INTERVAL=abc",
		"garbage",
	}
	for _, c := range cases {
		if r := ParseRule(c); r != nil {
			t.Fatalf("ParseRule(%q) = %+v, want nil", c, r)
		}
	}
}

func TestBuildRule_OmitsDefaultInterval(t *testing.T) {
	if got := BuildRule(Monthly, 1); got != "FREQ=MONTHLY" {
		t.Fatalf("BuildRule(Monthly, 1) = %q", got)
	}
	if got := BuildRule(Daily, 3); got != "FREQ=DAILY;INTERVAL=3" {
		t.Fatalf("BuildRule(Daily, 3) = %q", got)
	}
}
