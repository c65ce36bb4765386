package model

import (
	"encoding/json"
	"testing"
)

func TestParseDateOnly(t *testing.T) {
	d, err := ParseDateOnly("2025-06-10")
	if err != nil {
		t.Fatalf("ParseDateOnly: %v", err)
	}
	if d.String() != "2025-06-10" {
		t.Fatalf("String = %q", d.String())
	}

	// A full timestamp collapses onto its UTC day.
	ts, err := ParseDateOnly("2025-06-10T23:45:00+02:00")
	if err != nil {
		t.Fatalf("ParseDateOnly timestamp: %v", err)
	}
	if ts.String() != "2025-06-10" {
		t.Fatalf("timestamp day = %q, want 2025-06-10", ts.String())
	}
	if !ts.Equal(d) {
		t.Fatal("same day values should be equal")
	}

	if _, err := ParseDateOnly("not-a-date"); err == nil {
		t.Fatal("expected error for invalid date")
	}
	if _, err := ParseDateOnly("2025-13-40"); err == nil {
		t.Fatal("expected error for out-of-range date")
	}
}

func TestDateOnlyJSON(t *testing.T) {
	d, _ := ParseDateOnly("2025-01-02")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-01-02"` {
		t.Fatalf("marshal = %s", b)
	}

	var back DateOnly
	if err := json.Unmarshal([]byte(`"2025-01-02"`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatal("round trip mismatch")
	}
	if err := json.Unmarshal([]byte(`"bogus"`), &back); err == nil {
		t.Fatal("expected error for bogus date")
	}
}
