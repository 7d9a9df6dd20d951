//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"fmt"
	"sort"

	"github.com/e-gun/BiotopeGoServer/internal/gen"
	"github.com/e-gun/BiotopeGoServer/internal/str"
)

// FilterVocabulary - prune the corpus term set. The stoplist is applied first; a surviving
// term is retained only if its global frequency is at least mintf AND the proportion of
// documents containing it is at least mindocprop. Documents emptied by the pruning are
// dropped. The vocabulary indexes the retained terms in sorted order, so term indexes are
// stable for a given corpus.
func FilterVocabulary(docs []*str.Document, mintf int, mindocprop float64, stoplist []string) ([]*str.Document, *str.Vocabulary, error) {
	const (
		FYI1 = "vocabulary: %d terms retained of %d; %d documents retained of %d"
	)

	stops := gen.ToSet(stoplist)
	for _, d := range docs {
		for term := range d.Counts {
			if _, s := stops[term]; s {
				delete(d.Counts, term)
			}
		}
	}

	// global term frequency and document frequency over the post-stoplist corpus
	tf := make(map[string]int)
	df := make(map[string]int)
	for _, d := range docs {
		for term, c := range d.Counts {
			tf[term] += c
			df[term]++
		}
	}

	ndocs := len(docs)
	keep := make(map[string]struct{}, len(tf))
	for term, total := range tf {
		if total < mintf {
			continue
		}
		if float64(df[term])/float64(ndocs) < mindocprop {
			continue
		}
		keep[term] = struct{}{}
	}

	var kept []*str.Document
	for _, d := range docs {
		for term := range d.Counts {
			if _, k := keep[term]; !k {
				delete(d.Counts, term)
			}
		}
		if len(d.Counts) > 0 {
			kept = append(kept, d)
		}
	}

	if len(keep) == 0 {
		return nil, nil, fmt.Errorf("%w: vocabulary is empty after term filtering", ErrInsufficientData)
	}
	if len(kept) == 0 {
		return nil, nil, fmt.Errorf("%w: every document was emptied by term filtering", ErrInsufficientData)
	}

	terms := make([]string, 0, len(keep))
	for term := range keep {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &str.Vocabulary{Index: make(map[string]int, len(terms)), Terms: terms}
	for i, term := range terms {
		v.Index[term] = i
	}

	Msg.FYI(fmt.Sprintf(FYI1, len(terms), len(tf), len(kept), ndocs))
	return kept, v, nil
}
