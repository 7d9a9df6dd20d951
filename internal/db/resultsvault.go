//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/e-gun/BiotopeGoServer/internal/str"
	"github.com/e-gun/BiotopeGoServer/internal/vv"
)

//
// THE RESULTS VAULT
//
// a finished run is archived as a gzipped json blob keyed by a uuid; sqlite keeps the
// whole thing in one relocatable file
//

// RunArchive - everything a consumer needs to reuse a run without refitting it
type RunArchive struct {
	RunID    string                   `json:"runid"`
	Ran      time.Time                `json:"ran"`
	Config   str.CurrentConfiguration `json:"config"`
	Regions  []string                 `json:"regions"`
	Terms    []string                 `json:"terms"`
	DocSums  [][]int                  `json:"document_sums"`
	Topics   [][]int                  `json:"topics"`
	ThetaRow [][]float64              `json:"theta"`
}

type ResultsVault struct {
	sqldb *sql.DB
}

// OpenVault - open (and if need be create) the sqlite archive
func OpenVault(path string) (*ResultsVault, error) {
	const (
		CREATE = `
			CREATE TABLE IF NOT EXISTS %s
			(
			  fingerprint TEXT PRIMARY KEY,
			  ran         TEXT,
			  topics      INTEGER,
			  sweeps      INTEGER,
			  payload     BLOB
			)`
	)

	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open results archive '%s': %w", path, err)
	}
	if _, err := sqldb.Exec(fmt.Sprintf(CREATE, vv.RESULTSTABLE)); err != nil {
		return nil, fmt.Errorf("cannot initialize results archive '%s': %w", path, err)
	}
	return &ResultsVault{sqldb: sqldb}, nil
}

func (v *ResultsVault) Close() error {
	return v.sqldb.Close()
}

// NewFingerprint - a fresh identity for one run
func NewFingerprint() string {
	return uuid.New().String()
}

// Store - gzip+json the archive and insert it under its fingerprint
func (v *ResultsVault) Store(ra RunArchive) error {
	const (
		INS  = `INSERT INTO %s (fingerprint, ran, topics, sweeps, payload) VALUES (?, ?, ?, ?, ?)`
		FYI1 = "results vault: stored run %s (%dK -> %dK)"
		GZ   = gzip.BestSpeed
	)

	jb, err := json.Marshal(ra)
	if err != nil {
		return fmt.Errorf("cannot marshal run %s: %w", ra.RunID, err)
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, GZ)
	if err != nil {
		return err
	}
	if _, err = zw.Write(jb); err != nil {
		return err
	}
	if err = zw.Close(); err != nil {
		return err
	}

	_, err = v.sqldb.Exec(fmt.Sprintf(INS, vv.RESULTSTABLE),
		ra.RunID, ra.Ran.Format(time.RFC3339), ra.Config.LDATopics, ra.Config.LDASweeps, buf.Bytes())
	if err != nil {
		return fmt.Errorf("cannot store run %s: %w", ra.RunID, err)
	}

	Msg.TMI(fmt.Sprintf(FYI1, ra.RunID, len(jb)/1024, buf.Len()/1024))
	return nil
}

// Fetch - pull a run back out by fingerprint
func (v *ResultsVault) Fetch(fp string) (RunArchive, error) {
	const Q = `SELECT payload FROM %s WHERE fingerprint = ?`

	var ra RunArchive
	var blob []byte
	if err := v.sqldb.QueryRow(fmt.Sprintf(Q, vv.RESULTSTABLE), fp).Scan(&blob); err != nil {
		return ra, fmt.Errorf("run %s not in the archive: %w", fp, err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return ra, fmt.Errorf("run %s is corrupt: %w", fp, err)
	}
	jb, err := io.ReadAll(zr)
	if err != nil {
		return ra, fmt.Errorf("run %s is corrupt: %w", fp, err)
	}
	if err := zr.Close(); err != nil {
		return ra, err
	}

	if err := json.Unmarshal(jb, &ra); err != nil {
		return ra, fmt.Errorf("run %s will not unmarshal: %w", fp, err)
	}
	return ra, nil
}

// List - the fingerprints in the archive, newest first
func (v *ResultsVault) List() ([]string, error) {
	const Q = `SELECT fingerprint FROM %s ORDER BY ran DESC`

	rows, err := v.sqldb.Query(fmt.Sprintf(Q, vv.RESULTSTABLE))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fps []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, err
		}
		fps = append(fps, fp)
	}
	return fps, rows.Err()
}
