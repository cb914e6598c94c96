package model

import "testing"

func TestApply(t *testing.T) {
	cases := []struct {
		name        string
		current     Status
		succeeded   bool
		want        Status
		wantChanged bool
	}{
		{"pending success", StatusPending, true, StatusConfirmed, true},
		{"pending failure", StatusPending, false, StatusCancelled, true},
		{"confirmed stays confirmed on success", StatusConfirmed, true, StatusConfirmed, false},
		{"confirmed stays confirmed on failure", StatusConfirmed, false, StatusConfirmed, false},
		{"cancelled stays cancelled on success", StatusCancelled, true, StatusCancelled, false},
		{"cancelled stays cancelled on failure", StatusCancelled, false, StatusCancelled, false},
	}
	for _, c := range cases {
		got, changed := Apply(c.current, c.succeeded)
		if got != c.want || changed != c.wantChanged {
			t.Fatalf("%s: Apply(%s, %v) = (%s, %v), want (%s, %v)",
				c.name, c.current, c.succeeded, got, changed, c.want, c.wantChanged)
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	first, changed := Apply(StatusPending, true)
	if !changed || first != StatusConfirmed {
		t.Fatalf("first transition: got (%s, %v)", first, changed)
	}
	// Re-applying any outcome after a terminal state must be a no-op.
	for _, succeeded := range []bool{true, false} {
		again, changedAgain := Apply(first, succeeded)
		if changedAgain || again != StatusConfirmed {
			t.Fatalf("re-apply(succeeded=%v): got (%s, %v), want (confirmed, false)", succeeded, again, changedAgain)
		}
	}
}

func TestTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Fatal("pending must not be terminal")
	}
	if !StatusConfirmed.Terminal() || !StatusCancelled.Terminal() {
		t.Fatal("confirmed and cancelled must be terminal")
	}
}
