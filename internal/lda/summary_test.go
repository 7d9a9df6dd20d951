//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-gun/BiotopeGoServer/internal/str"
)

func testvocab() *str.Vocabulary {
	return &str.Vocabulary{
		Index: map[string]int{"aa_t": 0, "bb_t": 1},
		Terms: []string{"aa_t", "bb_t"},
	}
}

func fittedengine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testmatrix(), testconfig())
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background()))
	return e
}

func TestSummarizeShapes(t *testing.T) {
	e := fittedengine(t)
	regions := []string{"ALPHA", "BETA", "GAMMA"}

	s, err := Summarize(e, regions, testvocab(), 2)
	require.NoError(t, err)

	d, k := s.Theta.Dims()
	assert.Equal(t, 3, d)
	assert.Equal(t, 2, k)

	k2, v := s.Phi.Dims()
	assert.Equal(t, 2, k2)
	assert.Equal(t, 2, v)

	require.Len(t, s.TopTerms, 2)
	require.Len(t, s.TopDocs, 2)
	assert.Len(t, s.TopTerms[0], 2)
	assert.Len(t, s.TopDocs[0], 2)
}

func TestSummarizeThetaRowsSumToOne(t *testing.T) {
	e := fittedengine(t)
	s, err := Summarize(e, []string{"A", "B", "C"}, testvocab(), 2)
	require.NoError(t, err)

	d, k := s.Theta.Dims()
	for i := 0; i < d; i++ {
		sum := 0.0
		for j := 0; j < k; j++ {
			v := s.Theta.At(i, j)
			assert.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "theta row %d", i)
	}
}

func TestSummarizeRankingOrder(t *testing.T) {
	e := fittedengine(t)
	s, err := Summarize(e, []string{"A", "B", "C"}, testvocab(), 2)
	require.NoError(t, err)

	for k := range s.TopTerms {
		for i := 1; i < len(s.TopTerms[k]); i++ {
			prev, cur := s.TopTerms[k][i-1], s.TopTerms[k][i]
			ordered := prev.Count > cur.Count || (prev.Count == cur.Count && prev.Index < cur.Index)
			assert.True(t, ordered, "topic %d terms out of order at %d", k, i)
		}
		for i := 1; i < len(s.TopDocs[k]); i++ {
			prev, cur := s.TopDocs[k][i-1], s.TopDocs[k][i]
			ordered := prev.Count > cur.Count || (prev.Count == cur.Count && prev.Index < cur.Index)
			assert.True(t, ordered, "topic %d docs out of order at %d", k, i)
		}
	}
}

func TestSummarizeRejectsMismatches(t *testing.T) {
	e := fittedengine(t)

	_, err := Summarize(e, []string{"only-one"}, testvocab(), 2)
	assert.Error(t, err)

	shortvocab := &str.Vocabulary{Index: map[string]int{"aa_t": 0}, Terms: []string{"aa_t"}}
	_, err = Summarize(e, []string{"A", "B", "C"}, shortvocab, 2)
	assert.Error(t, err)
}

func TestSummarizeTopNClamped(t *testing.T) {
	e := fittedengine(t)
	s, err := Summarize(e, []string{"A", "B", "C"}, testvocab(), 100)
	require.NoError(t, err)

	// asking for more than exists yields everything, ranked
	assert.Len(t, s.TopTerms[0], 2)
	assert.Len(t, s.TopDocs[0], 3)
}
