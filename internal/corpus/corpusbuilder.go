//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/e-gun/BiotopeGoServer/internal/mm"
	"github.com/e-gun/BiotopeGoServer/internal/str"
	"github.com/e-gun/BiotopeGoServer/internal/vv"
)

var (
	Msg = mm.NewMessageMakerFor("corpusbuilder.go")

	// ErrInsufficientData - nothing left to model after filtering; LDA on an empty matrix is undefined
	ErrInsufficientData = errors.New("insufficient data")
)

// Token - one atomic term from a (family, species) pair: lowercased, inner separators
// normalized to the joining character so "Panthera leo" cannot split into two tokens
func Token(family string, species string) string {
	j := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), vv.TOKENJOINER)
	}
	return j(family) + vv.TOKENJOINER + j(species)
}

// BuildCorpus - group assigned points by region and count tokens per region. Documents whose
// total token count falls strictly below mintokens are dropped; the unassigned group is
// never a document. Document order follows first appearance of the region in the input.
func BuildCorpus(points []str.AssignedPoint, mintokens int) ([]*str.Document, error) {
	const (
		FYI1 = "corpus: %d documents built from %d assigned points; %d regions fell below the %d-token minimum"
	)

	byregion := make(map[string]*str.Document)
	var order []string

	for _, p := range points {
		if !p.Assigned {
			continue
		}
		d, ok := byregion[p.Region]
		if !ok {
			d = &str.Document{Region: p.Region, Counts: make(map[string]int)}
			byregion[p.Region] = d
			order = append(order, p.Region)
		}
		d.Counts[Token(p.Occ.Family, p.Occ.Species)]++
	}

	var docs []*str.Document
	short := 0
	for _, code := range order {
		d := byregion[code]
		if d.TokenTotal() < mintokens {
			short++
			continue
		}
		docs = append(docs, d)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no document reached the %d-token minimum", ErrInsufficientData, mintokens)
	}

	Msg.FYI(fmt.Sprintf(FYI1, len(docs), assignedcount(points), short, mintokens))
	return docs, nil
}

func assignedcount(points []str.AssignedPoint) int {
	n := 0
	for _, p := range points {
		if p.Assigned {
			n++
		}
	}
	return n
}
