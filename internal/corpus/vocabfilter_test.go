//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-gun/BiotopeGoServer/internal/str"
)

func mkdoc(region string, counts map[string]int) *str.Document {
	c := make(map[string]int, len(counts))
	for k, v := range counts {
		c[k] = v
	}
	return &str.Document{Region: region, Counts: c}
}

func TestFilterVocabularyStoplist(t *testing.T) {
	docs := []*str.Document{
		mkdoc("A", map[string]int{"keepme_x": 5, "indet_sp": 20}),
		mkdoc("B", map[string]int{"keepme_x": 5, "indet_sp": 20}),
	}

	kept, v, err := FilterVocabulary(docs, 1, 0, []string{"indet_sp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"keepme_x"}, v.Terms)
	require.Len(t, kept, 2)
	assert.NotContains(t, kept[0].Counts, "indet_sp")
}

func TestFilterVocabularyTermFrequencyBoundary(t *testing.T) {
	// global tf exactly at the minimum survives; one below does not
	docs := []*str.Document{
		mkdoc("A", map[string]int{"exact_five": 3, "only_four": 2}),
		mkdoc("B", map[string]int{"exact_five": 2, "only_four": 2}),
	}

	_, v, err := FilterVocabulary(docs, 5, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"exact_five"}, v.Terms)
}

func TestFilterVocabularyDocProportion(t *testing.T) {
	// "narrow_t" is frequent but present in only 1 of 4 documents
	docs := []*str.Document{
		mkdoc("A", map[string]int{"wide_t": 1, "narrow_t": 100}),
		mkdoc("B", map[string]int{"wide_t": 1}),
		mkdoc("C", map[string]int{"wide_t": 1}),
		mkdoc("D", map[string]int{"wide_t": 1}),
	}

	kept, v, err := FilterVocabulary(docs, 1, 0.5, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"wide_t"}, v.Terms)
	assert.Len(t, kept, 4)
}

func TestFilterVocabularyDropsEmptiedDocs(t *testing.T) {
	docs := []*str.Document{
		mkdoc("A", map[string]int{"shared_t": 5}),
		mkdoc("B", map[string]int{"shared_t": 5}),
		mkdoc("C", map[string]int{"lonely_t": 1}),
	}

	kept, _, err := FilterVocabulary(docs, 2, 0.5, nil)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	for _, d := range kept {
		assert.NotEqual(t, "C", d.Region)
	}
}

func TestFilterVocabularySortedIndex(t *testing.T) {
	docs := []*str.Document{
		mkdoc("A", map[string]int{"zeta_t": 2, "alpha_t": 2, "mu_t": 2}),
		mkdoc("B", map[string]int{"zeta_t": 2, "alpha_t": 2, "mu_t": 2}),
	}

	_, v, err := FilterVocabulary(docs, 1, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha_t", "mu_t", "zeta_t"}, v.Terms)
	assert.Equal(t, 0, v.Index["alpha_t"])
	assert.Equal(t, 2, v.Index["zeta_t"])
	assert.Equal(t, 3, v.Size())
}

func TestFilterVocabularyEmptyVocab(t *testing.T) {
	docs := []*str.Document{
		mkdoc("A", map[string]int{"rare_t": 1}),
	}

	_, _, err := FilterVocabulary(docs, 100, 0, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
