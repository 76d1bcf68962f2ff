// Package token produces the short human-facing queue tokens printed on
// receipts and shown on the boards, e.g. "Chennai-417".
//
// Tokens are not identifiers. Two orders may share a token; the rotating
// location only keeps tokens distinguishable within a short window.
package token

import (
	"fmt"
	"math/rand/v2"
)

// MaxSerial is the highest numeric suffix
const MaxSerial = 999

// DefaultLocations is the rotation used when none is configured
var DefaultLocations = []string{
	"Chennai", "Mumbai", "Delhi", "Kolkata", "Bengaluru",
	"Hyderabad", "Pune", "Jaipur", "Kochi", "Mysuru",
}

// Cursor selects the next location. It only moves forward.
type Cursor uint64

// Token is a location plus a serial in [1, MaxSerial]
type Token struct {
	Location string
	Serial   int
}

// String renders "<Location>-<serial>"
func (t Token) String() string {
	return fmt.Sprintf("%s-%d", t.Location, t.Serial)
}

// Generator is stateless apart from its random source; the caller owns the
// cursor and threads it through successive calls
type Generator struct {
	locations []string
	intN      func(n int) int
}

// NewGenerator builds a generator over locations. An empty list falls back to
// DefaultLocations.
func NewGenerator(locations []string) *Generator {
	if len(locations) == 0 {
		locations = DefaultLocations
	}
	return &Generator{
		locations: append([]string(nil), locations...),
		intN:      rand.IntN,
	}
}

// WithRand replaces the random source, for tests
func (g *Generator) WithRand(r *rand.Rand) *Generator {
	g.intN = r.IntN
	return g
}

// Next returns the token for cursor and the advanced cursor
func (g *Generator) Next(cursor Cursor) (Token, Cursor) {
	return g.At(cursor), cursor + 1
}

// At draws a token for cursor without advancing it
func (g *Generator) At(cursor Cursor) Token {
	loc := g.locations[cursor%Cursor(len(g.locations))]
	return Token{Location: loc, Serial: g.intN(MaxSerial) + 1}
}

// Locations returns a copy of the rotation
func (g *Generator) Locations() []string {
	return append([]string(nil), g.locations...)
}
