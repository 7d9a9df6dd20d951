//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/e-gun/BiotopeGoServer/internal/mm"
	"github.com/e-gun/BiotopeGoServer/internal/str"
	"github.com/e-gun/BiotopeGoServer/internal/vv"
)

var (
	Msg = mm.NewMessageMakerFor("occurrenceloading.go")
)

//
// OCCURRENCE INGESTION: CSV or PostgreSQL
//

// LoadOccurrencesCSV - read occurrence records from a CSV laid out as
// "id, lat, lon, family, species"; a non-numeric first data row is taken to be a header
func LoadOccurrencesCSV(path string) ([]str.OccurrenceRecord, error) {
	const (
		FYI1 = "LoadOccurrencesCSV(): %d records from '%s'"
		FAIL = "row %d of '%s' is malformed: %v"
		NCOL = 5
	)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open occurrence file '%s': %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = NCOL
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse occurrence file '%s': %w", path, err)
	}

	var recs []str.OccurrenceRecord
	for i, row := range rows {
		lat, elat := strconv.ParseFloat(row[1], 64)
		lon, elon := strconv.ParseFloat(row[2], 64)
		if elat != nil || elon != nil {
			if i == 0 {
				// the header
				continue
			}
			return nil, fmt.Errorf(FAIL, i+1, path, fmt.Sprintf("lat '%s', lon '%s'", row[1], row[2]))
		}
		recs = append(recs, str.OccurrenceRecord{
			ID:      row[0],
			Lat:     lat,
			Lon:     lon,
			Family:  row[3],
			Species: row[4],
		})
	}

	Msg.FYI(fmt.Sprintf(FYI1, len(recs), path))
	return recs, nil
}

// FillPSQLPool - build the pgxpool that occurrence loading will draw from
func FillPSQLPool(pl str.PostgresLogin, workers int) (*pgxpool.Pool, error) {
	const (
		UTPL  = "postgres://%s:%s@%s:%d/%s?pool_min_conns=%d&pool_max_conns=%d"
		FAIL1 = "could not parse the PostgreSQL connection URL built from the configuration: %w"
		FAIL2 = "could not connect to PostgreSQL at %s:%d: %w"
	)

	url := fmt.Sprintf(UTPL, pl.User, pl.Pass, pl.Host, pl.Port, pl.DBName, 2, workers)
	config, e := pgxpool.ParseConfig(url)
	if e != nil {
		return nil, fmt.Errorf(FAIL1, e)
	}

	pool, e := pgxpool.NewWithConfig(context.Background(), config)
	if e != nil {
		return nil, fmt.Errorf(FAIL2, pl.Host, pl.Port, e)
	}
	return pool, nil
}

// LoadOccurrencesPSQL - pull the whole occurrence table; the table is expected to be
// modest (point observations, not rasters), so no pagination
func LoadOccurrencesPSQL(ctx context.Context, pool *pgxpool.Pool) ([]str.OccurrenceRecord, error) {
	const (
		Q    = `SELECT occ_id, latitude, longitude, family, species FROM %s ORDER BY occ_id`
		FYI1 = "LoadOccurrencesPSQL(): %d records from '%s'"
	)

	rows, err := pool.Query(ctx, fmt.Sprintf(Q, vv.OCCURRENCETABLE))
	if err != nil {
		return nil, fmt.Errorf("occurrence query failed: %w", err)
	}

	recs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[str.OccurrenceRecord])
	if err != nil {
		return nil, fmt.Errorf("occurrence scan failed: %w", err)
	}

	Msg.FYI(fmt.Sprintf(FYI1, len(recs), vv.OCCURRENCETABLE))
	return recs, nil
}
