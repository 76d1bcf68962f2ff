package token

import (
	"math/rand/v2"
	"regexp"
	"testing"
	"time"
)

var tokenPattern = regexp.MustCompile(`^[A-Za-z]+-([1-9][0-9]{0,2})$`)

func TestGenerator_Next(t *testing.T) {
	g := NewGenerator([]string{"Chennai", "Mumbai", "Delhi"}).WithRand(rand.New(rand.NewPCG(1, 2)))

	var cursor Cursor
	want := []string{"Chennai", "Mumbai", "Delhi", "Chennai"}
	for i, loc := range want {
		var tok Token
		tok, cursor = g.Next(cursor)
		if tok.Location != loc {
			t.Errorf("token %d location = %q, want %q", i, tok.Location, loc)
		}
		if tok.Serial < 1 || tok.Serial > MaxSerial {
			t.Errorf("token %d serial = %d, out of range", i, tok.Serial)
		}
		if !tokenPattern.MatchString(tok.String()) {
			t.Errorf("token %q does not look like Location-N", tok)
		}
	}
	if cursor != 4 {
		t.Errorf("cursor = %d, want 4", cursor)
	}
}

func TestGenerator_SerialRange(t *testing.T) {
	g := NewGenerator(nil).WithRand(rand.New(rand.NewPCG(7, 7)))
	for i := 0; i < 5000; i++ {
		tok := g.At(Cursor(i))
		if tok.Serial < 1 || tok.Serial > MaxSerial {
			t.Fatalf("serial %d out of [1, %d]", tok.Serial, MaxSerial)
		}
	}
}

func TestNewGenerator_DefaultLocations(t *testing.T) {
	g := NewGenerator(nil)
	if got := g.Locations(); len(got) != len(DefaultLocations) {
		t.Errorf("Locations() = %v, want defaults", got)
	}
}

func TestRecent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewRecent(time.Minute, 100)
	r.now = func() time.Time { return now }
	r.rotated = now

	r.Add("Chennai-7")
	if !r.Seen("Chennai-7") {
		t.Fatal("token should be seen right after Add")
	}

	now = now.Add(90 * time.Second)
	if !r.Seen("Chennai-7") {
		t.Error("token should survive one rotation")
	}

	now = now.Add(90 * time.Second)
	if r.Seen("Chennai-7") {
		t.Error("token should be forgotten after two windows")
	}
}

func TestRecent_LongGapClearsBoth(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewRecent(time.Minute, 100)
	r.now = func() time.Time { return now }
	r.rotated = now

	r.Add("Delhi-12")
	now = now.Add(5 * time.Minute)
	if r.Seen("Delhi-12") {
		t.Error("token should be forgotten after a long gap")
	}
}
