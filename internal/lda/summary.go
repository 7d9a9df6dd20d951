//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/e-gun/BiotopeGoServer/internal/str"
)

//
// THE TOPIC SUMMARIZER
//

// RankedTerm - one vocabulary term's standing within a topic
type RankedTerm struct {
	Term   string  `json:"term"`
	Index  int     `json:"index"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"` // share of the topic's tokens
}

// RankedDoc - one document's standing within a topic
type RankedDoc struct {
	Region string  `json:"region"`
	Index  int     `json:"index"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"` // share of the document's tokens
}

// Summary - proportions and rankings derived from a finished run; not mutated thereafter
type Summary struct {
	Regions  []string
	Theta    *mat.Dense // D x K document-topic proportions; every row sums to 1
	Phi      *mat.Dense // K x V topic-term proportions
	TopTerms [][]RankedTerm
	TopDocs  [][]RankedDoc
}

// Summarize - normalize the count matrices into Theta and Phi and extract the top-N terms
// and documents per topic. Ties break deterministically: terms by ascending vocabulary
// index, documents by insertion order.
func Summarize(e *Engine, regions []string, v *str.Vocabulary, topn int) (*Summary, error) {
	if len(regions) != len(e.DocTopic) {
		return nil, fmt.Errorf("summarize: %d region labels for %d documents", len(regions), len(e.DocTopic))
	}
	if v.Size() != e.V {
		return nil, fmt.Errorf("summarize: vocabulary size %d does not match the model's %d", v.Size(), e.V)
	}

	K := e.Cfg.Topics
	D := len(e.DocTopic)

	// Theta: row-normalized doc-topic counts; zero rows cannot occur because corpus
	// filtering guarantees every retained document at least one token
	theta := mat.NewDense(D, K, nil)
	for d := 0; d < D; d++ {
		row := make([]float64, K)
		for k, c := range e.DocTopic[d] {
			row[k] = float64(c)
		}
		floats.Scale(1/floats.Sum(row), row)
		theta.SetRow(d, row)
	}

	phi := mat.NewDense(K, e.V, nil)
	for k := 0; k < K; k++ {
		row := make([]float64, e.V)
		for w, c := range e.TopicTerm[k] {
			row[w] = float64(c)
		}
		if s := floats.Sum(row); s > 0 {
			floats.Scale(1/s, row)
		}
		phi.SetRow(k, row)
	}

	s := &Summary{
		Regions:  regions,
		Theta:    theta,
		Phi:      phi,
		TopTerms: make([][]RankedTerm, K),
		TopDocs:  make([][]RankedDoc, K),
	}

	for k := 0; k < K; k++ {
		terms := make([]RankedTerm, e.V)
		for w := 0; w < e.V; w++ {
			terms[w] = RankedTerm{
				Term:   v.Terms[w],
				Index:  w,
				Count:  e.TopicTerm[k][w],
				Weight: phi.At(k, w),
			}
		}
		sort.Slice(terms, func(i, j int) bool {
			if terms[i].Count != terms[j].Count {
				return terms[i].Count > terms[j].Count
			}
			return terms[i].Index < terms[j].Index
		})
		s.TopTerms[k] = terms[:min(topn, len(terms))]

		docs := make([]RankedDoc, D)
		for d := 0; d < D; d++ {
			docs[d] = RankedDoc{
				Region: regions[d],
				Index:  d,
				Count:  e.DocTopic[d][k],
				Weight: theta.At(d, k),
			}
		}
		sort.Slice(docs, func(i, j int) bool {
			if docs[i].Count != docs[j].Count {
				return docs[i].Count > docs[j].Count
			}
			return docs[i].Index < docs[j].Index
		})
		s.TopDocs[k] = docs[:min(topn, len(docs))]
	}

	return s, nil
}
