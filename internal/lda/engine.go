//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/james-bowman/sparse"

	"github.com/e-gun/BiotopeGoServer/internal/mm"
	"github.com/e-gun/BiotopeGoServer/internal/vv"
)

//
// THE COLLAPSED GIBBS SAMPLER
//
// every token instance carries a topic assignment; one sweep revisits every token in
// document order, then token order, and for each one removes it from the counts, draws a
// new topic from the conditional given everything else, and reinstates it. the three count
// structures stay mutually consistent after every single token update, not just at sweep
// boundaries.
//

var (
	Msg = mm.NewMessageMakerFor("engine.go")

	// ErrBadConfig - hyperparameters that cannot define a model; checked before any sweep
	ErrBadConfig = errors.New("configuration error")
	// ErrEmptyData - an empty document set or vocabulary; LDA is undefined on it
	ErrEmptyData = errors.New("insufficient data")
	// ErrDegenerate - a non-finite or all-zero sampling weight vector; the run aborts rather
	// than substituting an arbitrary fallback that would silently bias results
	ErrDegenerate = errors.New("numeric degeneracy")
)

type Config struct {
	Topics   int
	Sweeps   int
	Alpha    float64
	Eta      float64
	BurnIn   int
	Thinning int
	Seed     int64
	EvalFrq  int // sweeps between log-likelihood reports; 0 = never
}

// DefaultConfig - the stock setup for K topics: symmetric priors of 1/K
func DefaultConfig(k int) Config {
	return Config{
		Topics:  k,
		Sweeps:  vv.LDASWEEPS,
		Alpha:   1 / float64(k),
		Eta:     1 / float64(k),
		Seed:    vv.LDASEED,
		EvalFrq: vv.LDAEVALFRQ,
	}
}

// Engine - the sampler state. DocTopic, TopicTerm and TopicTotal satisfy, at every point
// in time: sum_k DocTopic[d][k] == len(docs[d]); sum_w TopicTerm[k][w] == TopicTotal[k];
// sum_k TopicTotal[k] == total corpus tokens.
type Engine struct {
	Cfg Config
	V   int

	docs      [][]int // token word-ids per document, fixed at construction
	docTotals []int
	z         [][]int

	DocTopic   [][]int
	TopicTerm  [][]int
	TopicTotal []int

	// DocExpects accumulates DocTopic over retained sweeps when burn-in/thinning is in
	// play; nil otherwise. Kept counts how many sweeps contributed.
	DocExpects [][]float64
	Kept       int

	rng     *rand.Rand
	weights []float64
	etaV    float64
}

// NewEngine - validate the configuration, expand the count matrix into per-document token
// lists, and seed the private random source. Token order is fixed by document order and
// ascending vocabulary index, so a given (matrix, config) pair always yields the same run.
func NewEngine(dtm *sparse.CSR, cfg Config) (*Engine, error) {
	if cfg.Topics <= 0 {
		return nil, fmt.Errorf("%w: K = %d", ErrBadConfig, cfg.Topics)
	}
	if cfg.Sweeps <= 0 {
		return nil, fmt.Errorf("%w: G = %d", ErrBadConfig, cfg.Sweeps)
	}
	if cfg.Alpha <= 0 {
		return nil, fmt.Errorf("%w: alpha = %f", ErrBadConfig, cfg.Alpha)
	}
	if cfg.Eta <= 0 {
		return nil, fmt.Errorf("%w: eta = %f", ErrBadConfig, cfg.Eta)
	}
	if cfg.BurnIn < 0 || cfg.Thinning < 0 {
		return nil, fmt.Errorf("%w: burn-in = %d, thinning = %d", ErrBadConfig, cfg.BurnIn, cfg.Thinning)
	}
	if cfg.BurnIn >= cfg.Sweeps && cfg.BurnIn != 0 {
		return nil, fmt.Errorf("%w: burn-in (%d) swallows every sweep (%d)", ErrBadConfig, cfg.BurnIn, cfg.Sweeps)
	}

	d, v := dtm.Dims()
	if d == 0 {
		return nil, fmt.Errorf("%w: empty document set", ErrEmptyData)
	}
	if v == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrEmptyData)
	}

	e := &Engine{
		Cfg:        cfg,
		V:          v,
		docs:       make([][]int, d),
		docTotals:  make([]int, d),
		z:          make([][]int, d),
		DocTopic:   make([][]int, d),
		TopicTerm:  make([][]int, cfg.Topics),
		TopicTotal: make([]int, cfg.Topics),
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		weights:    make([]float64, cfg.Topics),
		etaV:       cfg.Eta * float64(v),
	}

	total := 0
	for i := 0; i < d; i++ {
		// walk the columns in index order rather than trusting the sparse type's internal
		// ordering: token order must be reproducible
		var tokens []int
		for j := 0; j < v; j++ {
			for c := int(dtm.At(i, j)); c > 0; c-- {
				tokens = append(tokens, j)
			}
		}
		e.docs[i] = tokens
		e.docTotals[i] = len(tokens)
		total += len(tokens)
		e.DocTopic[i] = make([]int, cfg.Topics)
		e.z[i] = make([]int, len(tokens))
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: the count matrix holds no tokens", ErrEmptyData)
	}
	for k := 0; k < cfg.Topics; k++ {
		e.TopicTerm[k] = make([]int, v)
	}

	if cfg.BurnIn > 0 || cfg.Thinning > 0 {
		e.DocExpects = make([][]float64, d)
		for i := range e.DocExpects {
			e.DocExpects[i] = make([]float64, cfg.Topics)
		}
	}

	return e, nil
}

// initialize - assign every token a uniformly random topic and count it in
func (e *Engine) initialize() {
	for d := range e.docs {
		for n, w := range e.docs[d] {
			k := e.rng.Intn(e.Cfg.Topics)
			e.z[d][n] = k
			e.DocTopic[d][k]++
			e.TopicTerm[k][w]++
			e.TopicTotal[k]++
		}
	}
}

// sweep - one full resampling pass; strictly sequential at the token level because each
// token's conditional depends on the counts with itself removed
func (e *Engine) sweep() error {
	K := e.Cfg.Topics
	for d := range e.docs {
		for n, w := range e.docs[d] {
			old := e.z[d][n]
			e.DocTopic[d][old]--
			e.TopicTerm[old][w]--
			e.TopicTotal[old]--

			total := 0.0
			for k := 0; k < K; k++ {
				wt := (float64(e.DocTopic[d][k]) + e.Cfg.Alpha) *
					(float64(e.TopicTerm[k][w]) + e.Cfg.Eta) /
					(float64(e.TopicTotal[k]) + e.etaV)
				e.weights[k] = wt
				total += wt
			}
			if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
				return fmt.Errorf("%w: weight sum %v at document %d, token %d", ErrDegenerate, total, d, n)
			}

			draw := e.rng.Float64() * total
			znew := K - 1
			for k := 0; k < K; k++ {
				draw -= e.weights[k]
				if draw <= 0 {
					znew = k
					break
				}
			}

			e.z[d][n] = znew
			e.DocTopic[d][znew]++
			e.TopicTerm[znew][w]++
			e.TopicTotal[znew]++
		}
	}
	return nil
}

// accumulate - fold the current doc-topic counts into DocExpects when sweep g (1-based)
// is past burn-in and lands on the thinning interval
func (e *Engine) accumulate(g int) {
	if e.DocExpects == nil {
		return
	}
	if g <= e.Cfg.BurnIn {
		return
	}
	if e.Cfg.Thinning > 1 && (g-e.Cfg.BurnIn-1)%e.Cfg.Thinning != 0 {
		return
	}
	for d := range e.DocTopic {
		for k, c := range e.DocTopic[d] {
			e.DocExpects[d][k] += float64(c)
		}
	}
	e.Kept++
}

// Run - G sweeps, then stop; a fixed sweep budget is the sole stopping criterion.
// Cancellation is honored only between sweeps so the counts are never left half-updated.
func (e *Engine) Run(ctx context.Context) error {
	const FYI1 = "sweep %d of %d: log-likelihood %.2f"

	e.initialize()
	for g := 0; g < e.Cfg.Sweeps; g++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.sweep(); err != nil {
			return err
		}
		e.accumulate(g + 1)
		if e.Cfg.EvalFrq > 0 && (g+1)%e.Cfg.EvalFrq == 0 {
			Msg.PEEK(fmt.Sprintf(FYI1, g+1, e.Cfg.Sweeps, e.LogLikelihood()))
		}
	}
	return e.Validate()
}

// Validate - confirm the three count invariants; a failure here is a programming error,
// but it is checked after every run rather than assumed
func (e *Engine) Validate() error {
	const (
		BADDOC = "doc-topic counts for document %d sum to %d, want %d"
		BADTOP = "topic-term counts for topic %d sum to %d, want %d"
		BADTOT = "topic totals sum to %d, want %d"
	)

	grand := 0
	for d := range e.DocTopic {
		s := 0
		for _, c := range e.DocTopic[d] {
			s += c
		}
		if s != e.docTotals[d] {
			return fmt.Errorf(BADDOC, d, s, e.docTotals[d])
		}
		grand += s
	}

	ttotal := 0
	for k := range e.TopicTerm {
		s := 0
		for _, c := range e.TopicTerm[k] {
			s += c
		}
		if s != e.TopicTotal[k] {
			return fmt.Errorf(BADTOP, k, s, e.TopicTotal[k])
		}
		ttotal += s
	}

	if ttotal != grand {
		return fmt.Errorf(BADTOT, ttotal, grand)
	}
	return nil
}

// DocTotals - the fixed token count of each document
func (e *Engine) DocTotals() []int {
	return e.docTotals
}

// TotalTokens - the corpus token count
func (e *Engine) TotalTokens() int {
	t := 0
	for _, n := range e.docTotals {
		t += n
	}
	return t
}
