package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"drops stop words", "duong nguyen trai thanh pho ha noi", []string{"nguyen", "trai", "ha", "noi"}},
		{"keeps digits", "123 tran duy hung", []string{"123", "tran", "duy", "hung"}},
		{"empty", "", nil},
		{"only stop words", "thanh pho quan huyen", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if tt.expected == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestBigrams(t *testing.T) {
	assert.Nil(t, Bigrams(nil))
	assert.Nil(t, Bigrams([]string{"solo"}))
	assert.Equal(t, []string{"a b", "b c"}, Bigrams([]string{"a", "b", "c"}))
}

func TestScoreTokens(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		name       string
		tokens     []string
		bigrams    []string
		aliasValue string
		searchStr  string
		expected   int
	}{
		{
			name:      "plain tokens",
			tokens:    []string{"thanh", "khe"},
			bigrams:   []string{"thanh khe"},
			searchStr: "kho thanh khe da nang",
			expected:  10 + 10 + 30,
		},
		{
			name:      "confusing token half weight",
			tokens:    []string{"hue"},
			searchStr: "kho hue 0905",
			expected:  5,
		},
		{
			name:       "alias bonus dominates",
			tokens:     []string{"abc"},
			aliasValue: "lien chieu",
			searchStr:  "kho lien chieu",
			expected:   500,
		},
		{
			name:       "alias value absent from branch",
			tokens:     []string{"lien"},
			aliasValue: "lien chieu",
			searchStr:  "kho cam le lien ket",
			expected:   10,
		},
		{
			name:      "short token ignored",
			tokens:    []string{"a", "bc"},
			searchStr: "a bc",
			expected:  10,
		},
		{
			name:      "duplicate token counted twice",
			tokens:    []string{"chieu", "chieu"},
			searchStr: "lien chieu",
			expected:  20,
		},
		{
			name:      "no hit",
			tokens:    []string{"vung", "tau"},
			searchStr: "kho ha noi",
			expected:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.Score(tt.tokens, tt.bigrams, tt.aliasValue, tt.searchStr))
		})
	}
}

// Thêm một token khớp không bao giờ làm giảm điểm.
func TestScoreMonotonic(t *testing.T) {
	w := DefaultWeights()
	searchStr := "kho lien chieu nguyen sinh sac da nang"

	base := []string{"nguyen", "sinh"}
	baseScore := w.Score(base, Bigrams(base), "", searchStr)

	grown := append(append([]string{}, base...), "sac")
	grownScore := w.Score(grown, Bigrams(grown), "", searchStr)

	assert.GreaterOrEqual(t, grownScore, baseScore)
}
