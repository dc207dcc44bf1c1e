package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchRatio(t *testing.T) {
	tests := []struct {
		name      string
		tokens    []string
		searchStr string
		expected  float64
	}{
		{"all matched", []string{"nguyen", "trai"}, "kho nguyen trai", 1.0},
		{"half matched", []string{"nguyen", "xyzabc"}, "kho nguyen trai", 0.5},
		{"short tokens excluded", []string{"ab", "12", "nguyen"}, "kho nguyen", 1.0},
		{"three char token counts", []string{"tam", "zzz"}, "kho tam ky", 0.5},
		{"no meaningful tokens", []string{"a", "bc"}, "kho abc", 0},
		{"nothing matched", []string{"xxxx", "yyyy"}, "kho ha noi", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MatchRatio(tt.tokens, tt.searchStr), 1e-9)
		})
	}
}

func TestGateAccept(t *testing.T) {
	g := DefaultGatePolicy()

	tests := []struct {
		name       string
		score      int
		hasAlias   bool
		tokens     []string
		searchStr  string
		rawAddress string
		expected   bool
	}{
		{
			name:       "plain score above floor",
			score:      50,
			tokens:     []string{"thach", "that"},
			searchStr:  "kho thach that",
			rawAddress: "cum cn thach that",
			expected:   true,
		},
		{
			name:       "plain score below floor",
			score:      30,
			tokens:     []string{"thach"},
			searchStr:  "kho thach that",
			rawAddress: "thach",
			expected:   false,
		},
		{
			name:       "alias needs higher floor",
			score:      50,
			hasAlias:   true,
			tokens:     []string{"sapa"},
			searchStr:  "kho lao cai",
			rawAddress: "sapa",
			expected:   false,
		},
		{
			name:       "alias above its floor",
			score:      530,
			hasAlias:   true,
			tokens:     []string{"sapa"},
			searchStr:  "kho lao cai sapa",
			rawAddress: "sapa",
			expected:   true,
		},
		{
			name:       "digit with weak ratio rejected",
			score:      50,
			tokens:     []string{"trung", "tam", "roadfoo", "barbaz", "quux", "worble"},
			searchStr:  "kho trung tam",
			rawAddress: "99 trung tam roadfoo barbaz quux worble",
			expected:   false,
		},
		{
			name:       "digit with good ratio accepted",
			score:      50,
			tokens:     []string{"trung", "tam"},
			searchStr:  "kho trung tam",
			rawAddress: "99 trung tam",
			expected:   true,
		},
		{
			name:       "alias bypasses digit rule",
			score:      510,
			hasAlias:   true,
			tokens:     []string{"123", "duong", "la", "xyzxyz", "aaaa", "bbbb"},
			searchStr:  "kho lien chieu",
			rawAddress: "123 duong la xyzxyz aaaa bbbb lien chieu",
			expected:   true,
		},
		{
			name:       "no digit skips ratio rule",
			score:      40,
			tokens:     []string{"thach", "xxxx", "yyyy", "zzzz"},
			searchStr:  "kho thach that",
			rawAddress: "thach xxxx yyyy zzzz",
			expected:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Accept(tt.score, tt.hasAlias, tt.tokens, tt.searchStr, tt.rawAddress)
			assert.Equal(t, tt.expected, got)
		})
	}
}
