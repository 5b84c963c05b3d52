package deckgen

import "testing"

func TestReplacementsApply(t *testing.T) {
	r := NewReplacements().
		Set("{COMPANY_NAME}", "Acme").
		Set("{FEE}", "6.000€")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"no tokens here", "no tokens here"},
		{"Welcome {COMPANY_NAME}", "Welcome Acme"},
		{"{COMPANY_NAME} and {COMPANY_NAME}", "Acme and Acme"},
		{"{FEE} for {COMPANY_NAME}", "6.000€ for Acme"},
		{"{UNKNOWN} stays", "{UNKNOWN} stays"},
	}

	for _, tt := range tests {
		if got := r.Apply(tt.in); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReplacementsInsertionOrder(t *testing.T) {
	// One token's value contains another token's literal text. Insertion
	// order is the documented application order, so {A} -> {B} -> "X".
	r := NewReplacements().
		Set("{A}", "{B}").
		Set("{B}", "X")

	if got := r.Apply("{A}"); got != "X" {
		t.Errorf("Apply({A}) = %q, want %q", got, "X")
	}

	// Reversed insertion order resolves {B} before {A}'s value appears.
	rev := NewReplacements().
		Set("{B}", "X").
		Set("{A}", "{B}")

	if got := rev.Apply("{A}"); got != "{B}" {
		t.Errorf("Reversed Apply({A}) = %q, want %q", got, "{B}")
	}
}

func TestReplacementsResetKeepsPosition(t *testing.T) {
	r := NewReplacements().
		Set("{A}", "first").
		Set("{B}", "{A}").
		Set("{A}", "second") // update, not re-append

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	// {A} keeps its original position, so it is applied before {B} and the
	// {A} literal introduced by {B}'s value is never revisited.
	if got := r.Apply("{A} {B}"); got != "second {A}" {
		t.Errorf("Apply = %q, want %q", got, "second {A}")
	}
}

func TestReplacementsNil(t *testing.T) {
	var r *Replacements
	if got := r.Apply("unchanged"); got != "unchanged" {
		t.Errorf("nil Apply = %q", got)
	}
}
