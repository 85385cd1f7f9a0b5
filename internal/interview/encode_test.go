package interview

import (
	"testing"
)

func question(t *testing.T, key string) QuestionSpec {
	t.Helper()
	q, ok := DefaultQuestions().Lookup(key)
	if !ok {
		t.Fatalf("no question %q", key)
	}
	return q
}

func TestEncode_YesNoOnSymptomQuestions(t *testing.T) {
	rules := DefaultRules(false)
	for _, q := range DefaultQuestions() {
		if q.Key == KeyGender || q.Key == KeyAge {
			continue
		}
		if got := Encode(rules, q, "Yes"); got != StringValue("2") {
			t.Errorf("%s Yes = %v (%d), want \"2\"", q.Key, got, got.Kind())
		}
		if got := Encode(rules, q, "No"); got != StringValue("1") {
			t.Errorf("%s No = %v (%d), want \"1\"", q.Key, got, got.Kind())
		}
	}
}

func TestEncode_Gender(t *testing.T) {
	rules := DefaultRules(false)
	q := question(t, KeyGender)

	male := Encode(rules, q, "Male")
	if n, ok := male.AsInt(); !ok || n != 1 {
		t.Fatalf("Male = %v (kind %d), want integer 1", male, male.Kind())
	}

	female := Encode(rules, q, "Female")
	if s, ok := female.AsString(); !ok || s != "2" {
		t.Fatalf("Female = %v (kind %d), want string \"2\"", female, female.Kind())
	}

	other := Encode(rules, q, "Other")
	if s, ok := other.AsString(); !ok || s != "Other" {
		t.Fatalf("Other = %v, want passthrough", other)
	}
}

func TestEncode_YesNoOverridesGender(t *testing.T) {
	rules := DefaultRules(false)
	q := question(t, KeyGender)
	if got := Encode(rules, q, "Yes"); got != StringValue("2") {
		t.Fatalf("gender Yes = %v, want \"2\"", got)
	}
	if got := Encode(rules, q, "No"); got != StringValue("1") {
		t.Fatalf("gender No = %v, want \"1\"", got)
	}
}

func TestEncode_NormalizedGender(t *testing.T) {
	rules := DefaultRules(true)
	q := question(t, KeyGender)
	if got := Encode(rules, q, "Male"); got != StringValue("1") {
		t.Fatalf("normalized Male = %v (kind %d), want string \"1\"", got, got.Kind())
	}
}

func TestEncode_Age(t *testing.T) {
	rules := DefaultRules(false)
	q := question(t, KeyAge)

	got := Encode(rules, q, "45")
	if n, ok := got.AsInt(); !ok || n != 45 {
		t.Fatalf("age 45 = %v (kind %d), want integer 45", got, got.Kind())
	}

	// Age parsing runs last and wins even over the yes/no rule.
	if got := Encode(rules, q, "Yes"); got.Kind() != ValueNaN {
		t.Fatalf("age Yes = %v, want NaN", got)
	}
}

func TestEncode_NoRulePassesThrough(t *testing.T) {
	q := QuestionSpec{Key: "NOTES", Label: "Notes", Kind: KindChoice, Options: []string{"Maybe"}}
	if got := Encode(DefaultRules(false), q, "Maybe"); got != StringValue("Maybe") {
		t.Fatalf("got %v, want passthrough", got)
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantNaN bool
	}{
		{"45", 45, false},
		{"  30", 30, false},
		{"+7", 7, false},
		{"-3", -3, false},
		{"12abc", 12, false},
		{"3.9", 3, false},
		{"007", 7, false},
		{"abc", 0, true},
		{"", 0, true},
		{"-", 0, true},
		{" x1", 0, true},
		{"99999999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseInt(tt.in)
			if tt.wantNaN {
				if got.Kind() != ValueNaN {
					t.Fatalf("ParseInt(%q) = %v, want NaN", tt.in, got)
				}
				return
			}
			n, ok := got.AsInt()
			if !ok || n != tt.want {
				t.Fatalf("ParseInt(%q) = %v, want %d", tt.in, got, tt.want)
			}
		})
	}
}
