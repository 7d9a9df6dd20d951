//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/james-bowman/sparse"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/e-gun/BiotopeGoServer/internal/corpus"
	"github.com/e-gun/BiotopeGoServer/internal/lda"
	"github.com/e-gun/BiotopeGoServer/internal/str"
)

//
// TERMINAL REPORTS: what a run found, printed for humans
//

// TopicReport - per-topic top terms and top regions, one block per topic
func TopicReport(s *lda.Summary, e *lda.Engine) {
	const (
		HEAD = "topic %d (%s tokens, %.1f%% of corpus)"
		TERM = "\t%-40s\t%6d\t(%.3f)"
		DOCS = "\tregions: %s"
		RULE = "------------------------------------------------------------"
	)

	p := message.NewPrinter(language.English)
	total := e.TotalTokens()

	fmt.Println(RULE)
	for k := 0; k < e.Cfg.Topics; k++ {
		share := 100 * float64(e.TopicTotal[k]) / float64(total)
		fmt.Println(p.Sprintf(HEAD, k, p.Sprint(e.TopicTotal[k]), share))
		for _, t := range s.TopTerms[k] {
			fmt.Println(fmt.Sprintf(TERM, t.Term, t.Count, t.Weight))
		}
		rr := make([]string, len(s.TopDocs[k]))
		for i, d := range s.TopDocs[k] {
			rr[i] = fmt.Sprintf("%s (%.2f)", d.Region, d.Weight)
		}
		fmt.Println(fmt.Sprintf(DOCS, strings.Join(rr, ", ")))
		fmt.Println(RULE)
	}
}

// TFIDFReport - the highest-scoring term per region; a sanity check on the corpus,
// not an input to the model
func TFIDFReport(dtm *sparse.CSR, regions []string, v *str.Vocabulary) {
	const (
		HEAD = "tf-idf: most distinctive terms per region"
		LINE = "\t%-24s\t%-40s\t%8.3f"
	)

	type scored struct {
		term  string
		score float64
	}

	ti := corpus.TFIDF(dtm)
	d, nt := ti.Dims()

	fmt.Println(HEAD)
	for i := 0; i < d; i++ {
		best := scored{score: math.Inf(-1)}
		for j := 0; j < nt; j++ {
			sc := ti.At(i, j)
			if sc > best.score {
				best = scored{term: v.Terms[j], score: sc}
			}
		}
		fmt.Println(fmt.Sprintf(LINE, regions[i], best.term, best.score))
	}
}
