//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	MYNAME    = "BiotopeGoServer"
	SHORTNAME = "BGS"
	VERSION   = "0.1.2"

	CONFIGLOCATION = "."
	CONFIGALTAPTH  = "%s/.config/" // %s = os.UserHomeDir()
	CONFIGBASIC    = "bgs-conf.json"

	DEFAULTGOLOGLEVEL   = 0
	DEFAULTECHOLOGLEVEL = 0

	// topic model defaults; ALPHA/ETA of 0 mean "1/K", set after K is known

	LDATOPICS    = 8
	LDAMAXTOPICS = 30
	LDASWEEPS    = 500
	LDASEED      = 271828
	LDABURNIN    = 0
	LDATHINNING  = 0
	LDAEVALFRQ   = 25 // log-likelihood report frequency in sweeps; 0 = never

	// corpus defaults

	MINDOCTOKENS   = 10
	MINTERMFREQ    = 5
	MINTERMDOCPROP = 0.05
	TOPNTERMS      = 10
	TOPNDOCS       = 5
	TOKENJOINER    = "_"

	// spatial defaults; the join CRS must be projected/metric, not lat-lon

	POINTCRSDEFAULT = "+proj=longlat +datum=WGS84 +no_defs"
	JOINCRSDEFAULT  = "+proj=lcc +lat_1=33 +lat_2=45 +lat_0=40 +lon_0=-97 +x_0=0 +y_0=0 +ellps=GRS80 +datum=NAD83 +units=m +no_defs"
	REGIONCODEFIELD = "CODE"

	// external storage

	DEFAULTPSQLHOST = "127.0.0.1"
	DEFAULTPSQLUSER = "biotope"
	DEFAULTPSQLPORT = 5432
	DEFAULTPSQLDB   = "biotopeDB"
	OCCURRENCETABLE = "taxon_occurrences"

	SQLITEDEFAULT = "bgs-results.db"
	RESULTSTABLE  = "lda_runs"

	// echo server

	SERVEDFROMHOST = "127.0.0.1"
	SERVEDFROMPORT = 8000
	TIMEOUTRD      = 15 * time.Second
	TIMEOUTWR      = 120 * time.Second
	CHARTWIDTH     = "1200px"
	CHARTHEIGHT    = "600px"

	JSONINDENT = "  "

	TERMINALTEXT = `Copyright (C) 2024-25 / E Gunderson
      This program comes with ABSOLUTELY NO WARRANTY; this is free software,
      and you are welcome to redistribute it under certain conditions.`
)

var (
	// DefaultStoplist - taxon tokens that are noise in every corpus we have met: placeholder
	// determinations that slipped past upstream cleaning
	DefaultStoplist = []string{
		"indet_sp",
		"unknown_sp",
		"incertae_sedis",
	}
)
