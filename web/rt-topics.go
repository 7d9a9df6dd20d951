//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/e-gun/BiotopeGoServer/internal/lda"
	"github.com/e-gun/BiotopeGoServer/internal/vv"
)

//
// THE ROUTES: json views of a finished run
//

// RtFrontpage - a plain index of what is on offer
func RtFrontpage(c echo.Context) error {
	const PG = `<html><head><title>%s</title></head><body>
	<h3>%s: run %s</h3>
	<ul>
	<li><a href="/bgs/summary">run summary</a></li>
	<li><a href="/bgs/theta">region-topic proportions</a></li>
	<li><a href="/bgs/topics/0">topic detail (0 &ndash; %d)</a></li>
	<li><a href="/bgs/chart">composition chart</a></li>
	</ul></body></html>`

	k := Current.Cfg.LDATopics
	return c.HTML(http.StatusOK, fmt.Sprintf(PG, vv.MYNAME, vv.MYNAME, Current.RunID, k-1))
}

// RtSummary - the run at a glance
func RtSummary(c echo.Context) error {
	type overview struct {
		RunID   string            `json:"runid"`
		Topics  int               `json:"k"`
		Sweeps  int               `json:"sweeps"`
		Alpha   float64           `json:"alpha"`
		Eta     float64           `json:"eta"`
		Seed    int64             `json:"seed"`
		Regions []string          `json:"regions"`
		Top     [][]lda.RankedTerm `json:"topterms"`
	}

	o := overview{
		RunID:   Current.RunID,
		Topics:  Current.Cfg.LDATopics,
		Sweeps:  Current.Cfg.LDASweeps,
		Alpha:   Current.Cfg.LDAAlpha,
		Eta:     Current.Cfg.LDAEta,
		Seed:    Current.Cfg.LDASeed,
		Regions: Current.Sum.Regions,
		Top:     Current.Sum.TopTerms,
	}
	return c.JSONPretty(http.StatusOK, o, vv.JSONINDENT)
}

// RtTheta - the full document-topic proportion matrix, row per region
func RtTheta(c echo.Context) error {
	type thetarow struct {
		Region      string    `json:"region"`
		Proportions []float64 `json:"proportions"`
	}

	sum := Current.Sum
	d, k := sum.Theta.Dims()
	rows := make([]thetarow, d)
	for i := 0; i < d; i++ {
		props := make([]float64, k)
		for j := 0; j < k; j++ {
			props[j] = sum.Theta.At(i, j)
		}
		rows[i] = thetarow{Region: sum.Regions[i], Proportions: props}
	}
	return c.JSONPretty(http.StatusOK, rows, vv.JSONINDENT)
}

// RtTopic - one topic's top terms and top documents plus its raw term counts
func RtTopic(c echo.Context) error {
	const FAIL = "there is no topic '%s'; topics run from 0 to %d"

	k := Current.Cfg.LDATopics
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 0 || n >= k {
		return c.String(http.StatusNotFound, fmt.Sprintf(FAIL, c.Param("n"), k-1))
	}

	type topicview struct {
		Topic    int              `json:"topic"`
		Tokens   int              `json:"tokens"`
		TopTerms []lda.RankedTerm `json:"topterms"`
		TopDocs  []lda.RankedDoc  `json:"topdocs"`
	}

	tokens := 0
	for _, tc := range Current.Topics[n] {
		tokens += tc
	}

	tv := topicview{
		Topic:    n,
		Tokens:   tokens,
		TopTerms: Current.Sum.TopTerms[n],
		TopDocs:  Current.Sum.TopDocs[n],
	}
	return c.JSONPretty(http.StatusOK, tv, vv.JSONINDENT)
}
