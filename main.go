//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"gonum.org/v1/gonum/mat"

	"github.com/e-gun/BiotopeGoServer/internal/corpus"
	"github.com/e-gun/BiotopeGoServer/internal/db"
	"github.com/e-gun/BiotopeGoServer/internal/geo"
	"github.com/e-gun/BiotopeGoServer/internal/lda"
	"github.com/e-gun/BiotopeGoServer/internal/lnch"
	"github.com/e-gun/BiotopeGoServer/internal/mm"
	"github.com/e-gun/BiotopeGoServer/internal/str"
	"github.com/e-gun/BiotopeGoServer/web"
)

var (
	Msg = mm.NewMessageMakerFor("main.go")
)

func main() {
	const (
		FAIL1 = "no occurrence records were loaded; nothing to do"
		FAIL2 = "no occurrence point fell inside any region; nothing to model"
		SUMM1 = "%d occurrences; %d regions"
		SUMM2 = "assigned %d points to regions; %d points fell outside every region"
		SUMM3 = "corpus: %d documents, %d terms, %d tokens"
		SUMM4 = "archived run %s to %s"
	)

	lnch.ConfigAtLaunch()
	cfg := lnch.Config

	if !cfg.QuietStart {
		lnch.PrintVersion(*cfg)
	}

	if cfg.ProfileCPU {
		defer profile.Start().Stop()
	}

	// fitting a model can take a while; ^C should stop it at the next sweep boundary
	// rather than mid-token
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	previous := time.Now()

	// the region file and the occurrence source are independent; load them concurrently
	var (
		regions  *geo.RegionSet
		occs     []str.OccurrenceRecord
		awaiting sync.WaitGroup
	)

	awaiting.Add(1)
	go func() {
		defer awaiting.Done()
		launch := time.Now()
		rs, err := geo.LoadRegions(cfg.RegionFile, cfg.RegionCode, cfg.RegionCRS)
		Msg.EF(err, "geo.LoadRegions()")
		regions = rs
		Msg.Timer("A1", fmt.Sprintf("%d regions loaded from '%s'", len(rs.Regions), cfg.RegionFile), start, launch)
	}()

	awaiting.Add(1)
	go func() {
		defer awaiting.Done()
		launch := time.Now()
		switch cfg.OccSource {
		case "pg":
			pool, err := db.FillPSQLPool(cfg.PGLogin, cfg.WorkerCount)
			Msg.EF(err, "db.FillPSQLPool()")
			defer pool.Close()
			occs, err = db.LoadOccurrencesPSQL(ctx, pool)
			Msg.EF(err, "db.LoadOccurrencesPSQL()")
		default:
			var err error
			occs, err = db.LoadOccurrencesCSV(cfg.CSVFile)
			Msg.EF(err, "db.LoadOccurrencesCSV()")
		}
		Msg.Timer("B1", fmt.Sprintf("%d occurrence records loaded", len(occs)), start, launch)
	}()

	awaiting.Wait()

	if len(occs) == 0 {
		Msg.MAND(FAIL1)
		Msg.ExitOrHang(1)
	}
	Msg.NOTE(fmt.Sprintf(SUMM1, len(occs), len(regions.Regions)))

	// [a] the spatial join
	previous = time.Now()
	assigner, err := geo.NewAssigner(regions, cfg.PointCRS, cfg.JoinCRS)
	Msg.EF(err, "geo.NewAssigner()")
	points, jstats := assigner.Assign(occs, cfg.WorkerCount)
	Msg.Timer("C1", fmt.Sprintf(SUMM2, jstats.Assigned, jstats.Unassigned), start, previous)

	if jstats.Assigned == 0 {
		Msg.MAND(FAIL2)
		Msg.ExitOrHang(1)
	}

	// [b] documents and vocabulary
	previous = time.Now()
	docs, err := corpus.BuildCorpus(points, cfg.MinDocTokens)
	Msg.EF(err, "corpus.BuildCorpus()")
	docs, vocab, err := corpus.FilterVocabulary(docs, cfg.MinTermFreq, cfg.MinTermDocProp, cfg.Stoplist)
	Msg.EF(err, "corpus.FilterVocabulary()")
	dtm := corpus.BuildDTM(docs, vocab)

	tokens := 0
	regionnames := make([]string, len(docs))
	for i, d := range docs {
		regionnames[i] = d.Region
		tokens += d.TokenTotal()
	}
	Msg.Timer("C2", fmt.Sprintf(SUMM3, len(docs), vocab.Size(), tokens), start, previous)

	// [c] the model
	previous = time.Now()
	engine, err := lda.NewEngine(dtm, modelconfig(cfg))
	Msg.EF(err, "lda.NewEngine()")
	Msg.EF(engine.Run(ctx), "lda.Engine.Run()")
	Msg.Timer("D1", fmt.Sprintf("%d sweeps of collapsed gibbs sampling complete", cfg.LDASweeps), start, previous)

	// [d] reporting
	previous = time.Now()
	summary, err := lda.Summarize(engine, regionnames, vocab, cfg.TopN)
	Msg.EF(err, "lda.Summarize()")
	TopicReport(summary, engine)
	if cfg.TFIDFReport {
		TFIDFReport(dtm, regionnames, vocab)
	}
	Msg.Timer("D2", "summaries built", start, previous)

	// [e] the archive
	runid := db.NewFingerprint()
	vault, err := db.OpenVault(cfg.SQLiteFile)
	Msg.EF(err, "db.OpenVault()")
	archived := *cfg
	archived.PGLogin.Pass = "" // credentials stay out of the archive
	ra := db.RunArchive{
		RunID:    runid,
		Ran:      time.Now(),
		Config:   archived,
		Regions:  regionnames,
		Terms:    vocab.Terms,
		DocSums:  engine.DocTopic,
		Topics:   engine.TopicTerm,
		ThetaRow: denserows(summary.Theta),
	}
	Msg.EF(vault.Store(ra), "db.ResultsVault.Store()")
	Msg.EF(vault.Close(), "db.ResultsVault.Close()")
	Msg.NOTE(fmt.Sprintf(SUMM4, runid, cfg.SQLiteFile))

	if cfg.WebUI {
		web.StartEchoServer(&web.RunBundle{
			RunID:   runid,
			Cfg:     cfg,
			Sum:     summary,
			DocSums: engine.DocTopic,
			Topics:  engine.TopicTerm,
		})
	}
}

// modelconfig - resolve the "0 means 1/K" hyperparameter sentinels into concrete priors
func modelconfig(cfg *str.CurrentConfiguration) lda.Config {
	al := cfg.LDAAlpha
	if al == 0 {
		al = 1 / float64(cfg.LDATopics)
	}
	et := cfg.LDAEta
	if et == 0 {
		et = 1 / float64(cfg.LDATopics)
	}
	return lda.Config{
		Topics:   cfg.LDATopics,
		Sweeps:   cfg.LDASweeps,
		Alpha:    al,
		Eta:      et,
		BurnIn:   cfg.BurnIn,
		Thinning: cfg.Thinning,
		Seed:     cfg.LDASeed,
		EvalFrq:  cfg.LDAEvalFrq,
	}
}

// denserows - a *mat.Dense is awkward to marshal; flatten it into plain slices
func denserows(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
