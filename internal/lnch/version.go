//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"fmt"
	"runtime"

	"github.com/e-gun/BiotopeGoServer/internal/str"
	"github.com/e-gun/BiotopeGoServer/internal/vv"
)

// PrintVersion - the version banner; always shown unless -q
func PrintVersion(c str.CurrentConfiguration) {
	// [BiotopeGoServer v.0.1.2] [gl=3; el=0]
	sn := fmt.Sprintf("[C1%sC0 v.C5%sC0]", vv.MYNAME, vv.VERSION)
	sn += fmt.Sprintf(" [gl=%d; el=%d]", c.LogLevel, c.EchoLog)
	Msg.MAND(Msg.Color(sn))
	if !c.QuietStart {
		Msg.MAND(vv.TERMINALTEXT)
	}
}

// PrintBuildInfo - compiler and platform
func PrintBuildInfo() {
	b := fmt.Sprintf("Built with: C3%sC0 for C3%s/%sC0", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	Msg.TMI(Msg.Color(b))
}

// PrintHelp - the condensed flag list
func PrintHelp() {
	const HELP = `
command line options:
   -al <float>  Dirichlet document-topic prior alpha (default: 1/K)
   -bi <num>    burn-in sweeps to discard before accumulating (default: %d)
   -bw          disable color in terminal output
   -cs <file>   occurrence CSV to ingest: id, lat, lon, family, species
   -dp <float>  minimum document-frequency proportion for a term (default: %.2f)
   -el <num>    echo server log level (0-3)
   -et <float>  Dirichlet topic-term prior eta (default: 1/K)
   -g <num>     Gibbs sweeps (default: %d)
   -gl <num>    terminal log level (0-5)
   -h           print this help and exit
   -ip <addr>   serve from this address (default: %s)
   -k <num>     number of topics (default: %d)
   -md <num>    minimum tokens per retained document (default: %d)
   -nt <num>    top terms/documents to report per topic (default: %d)
   -p <num>     serve from this port (default: %d)
   -pc          profile cpu usage
   -pg          load occurrences from PostgreSQL rather than CSV
   -q           quiet start
   -rc <field>  shapefile attribute holding the region code (default: %s)
   -rf <file>   region polygon file (.shp or .geojson); required
   -sd <num>    random seed (default: %d)
   -sq <file>   sqlite results archive (default: %s)
   -tf <num>    minimum global term frequency (default: %d)
   -ti          also report the TF-IDF weighting of the corpus
   -tn <num>    thinning interval between accumulated sweeps (default: %d)
   -v           print version and exit
   -wc <num>    worker count for the spatial join (default: NumCPU)
   -ws          serve the finished run over http
`
	fmt.Printf(HELP, vv.LDABURNIN, vv.MINTERMDOCPROP, vv.LDASWEEPS, vv.SERVEDFROMHOST,
		vv.LDATOPICS, vv.MINDOCTOKENS, vv.TOPNTERMS, vv.SERVEDFROMPORT, vv.REGIONCODEFIELD,
		vv.LDASEED, vv.SQLITEDEFAULT, vv.MINTERMFREQ, vv.LDATHINNING)
}
