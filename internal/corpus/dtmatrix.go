//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"math"

	"github.com/james-bowman/sparse"

	"github.com/e-gun/BiotopeGoServer/internal/str"
)

//
// THE DOCUMENT-TERM MATRIX
//
// rows follow document insertion order; columns follow vocabulary index; cells are
// non-negative integer counts stored as float64 because that is what the sparse types hold
//

// BuildDTM - materialize the D x V count matrix from the filtered corpus
func BuildDTM(docs []*str.Document, v *str.Vocabulary) *sparse.CSR {
	dok := sparse.NewDOK(len(docs), v.Size())
	for i, d := range docs {
		for term, c := range d.Counts {
			j, ok := v.Index[term]
			if !ok {
				// the vocabulary was built from these documents; a miss means the corpus
				// was mutated after filtering
				Msg.WARN("BuildDTM(): term '" + term + "' is missing from the vocabulary")
				continue
			}
			dok.Set(i, j, float64(c))
		}
	}
	return dok.ToCSR()
}

// TFIDF - weight each count by log(D/df); exploratory only, the sampler needs raw counts
func TFIDF(dtm *sparse.CSR) *sparse.CSR {
	d, v := dtm.Dims()

	df := make([]int, v)
	dtm.DoNonZero(func(_ int, j int, _ float64) {
		df[j]++
	})

	out := sparse.NewDOK(d, v)
	dtm.DoNonZero(func(i int, j int, c float64) {
		out.Set(i, j, c*math.Log(float64(d)/float64(df[j])))
	})
	return out.ToCSR()
}

// RowTotals - per-document token counts, i.e. the fixed row sums of the count matrix
func RowTotals(dtm *sparse.CSR) []int {
	d, _ := dtm.Dims()
	totals := make([]int, d)
	dtm.DoNonZero(func(i int, _ int, c float64) {
		totals[i] += int(c)
	})
	return totals
}
