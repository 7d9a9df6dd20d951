//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/e-gun/BiotopeGoServer/internal/mm"
	"github.com/e-gun/BiotopeGoServer/internal/str"
	"github.com/e-gun/BiotopeGoServer/internal/vv"
)

var (
	Config *str.CurrentConfiguration
	Msg    = mm.NewMessageMakerFor("configatlaunch.go")
)

// BuildDefaultConfig - a configuration that will run the pipeline on local files with stock thresholds
func BuildDefaultConfig() *str.CurrentConfiguration {
	return &str.CurrentConfiguration{
		BlackAndWhite:  false,
		BurnIn:         vv.LDABURNIN,
		CSVFile:        "",
		ChartHt:        vv.CHARTHEIGHT,
		ChartWd:        vv.CHARTWIDTH,
		EchoLog:        vv.DEFAULTECHOLOGLEVEL,
		HostIP:         vv.SERVEDFROMHOST,
		HostPort:       vv.SERVEDFROMPORT,
		LDAAlpha:       0, // 1/K
		LDAEta:         0, // 1/K
		LDAEvalFrq:     vv.LDAEVALFRQ,
		LDASeed:        vv.LDASEED,
		LDASweeps:      vv.LDASWEEPS,
		LDATopics:      vv.LDATOPICS,
		LogLevel:       vv.DEFAULTGOLOGLEVEL,
		MinDocTokens:   vv.MINDOCTOKENS,
		MinTermFreq:    vv.MINTERMFREQ,
		MinTermDocProp: vv.MINTERMDOCPROP,
		OccSource:      "csv",
		PGLogin: str.PostgresLogin{
			Host:   vv.DEFAULTPSQLHOST,
			Port:   vv.DEFAULTPSQLPORT,
			User:   vv.DEFAULTPSQLUSER,
			DBName: vv.DEFAULTPSQLDB,
		},
		PointCRS:    vv.POINTCRSDEFAULT,
		JoinCRS:     vv.JOINCRSDEFAULT,
		QuietStart:  false,
		RegionCRS:   "",
		RegionCode:  vv.REGIONCODEFIELD,
		RegionFile:  "",
		SQLiteFile:  vv.SQLITEDEFAULT,
		Stoplist:    vv.DefaultStoplist,
		TFIDFReport: false,
		Thinning:    vv.LDATHINNING,
		TopN:        vv.TOPNTERMS,
		WebUI:       false,
		WorkerCount: runtime.NumCPU(),
	}
}

// ConfigAtLaunch - read the configuration values from JSON and/or the command line
func ConfigAtLaunch() {
	const (
		FAIL1 = "Could not parse the information in '%s'. Skipping it and attempting to use built-in defaults instead."
		FAIL2 = "ConfigAtLaunch() was given an unknown argument: '%s'; try '-h' for help"
	)

	Config = BuildDefaultConfig()

	uh, _ := os.UserHomeDir()
	cfile := fmt.Sprintf(vv.CONFIGALTAPTH, uh) + vv.CONFIGBASIC
	if loaded, e := os.Open(cfile); e == nil {
		decoder := json.NewDecoder(loaded)
		conf := str.CurrentConfiguration{}
		if err := decoder.Decode(&conf); err == nil {
			Config = &conf
		} else {
			Msg.CRIT(fmt.Sprintf(FAIL1, cfile))
		}
		_ = loaded.Close()
	}

	args := os.Args[1:]

	// simple positional scan; flags that take a value read args[i+1]
	nextint := func(i int) int {
		v, e := strconv.Atoi(args[i+1])
		Msg.EF(e, "ConfigAtLaunch()")
		return v
	}
	nextfloat := func(i int) float64 {
		v, e := strconv.ParseFloat(args[i+1], 64)
		Msg.EF(e, "ConfigAtLaunch()")
		return v
	}

	for i, a := range args {
		switch a {
		case "-v":
			PrintVersion(*Config)
			os.Exit(0)
		case "-h":
			PrintHelp()
			os.Exit(0)
		case "-bw":
			Config.BlackAndWhite = true
		case "-q":
			Config.QuietStart = true
		case "-gl":
			Config.LogLevel = nextint(i)
		case "-el":
			Config.EchoLog = nextint(i)
		case "-k":
			Config.LDATopics = nextint(i)
		case "-g":
			Config.LDASweeps = nextint(i)
		case "-al":
			Config.LDAAlpha = nextfloat(i)
		case "-et":
			Config.LDAEta = nextfloat(i)
		case "-sd":
			Config.LDASeed = int64(nextint(i))
		case "-bi":
			Config.BurnIn = nextint(i)
		case "-tn":
			Config.Thinning = nextint(i)
		case "-md":
			Config.MinDocTokens = nextint(i)
		case "-tf":
			Config.MinTermFreq = nextint(i)
		case "-dp":
			Config.MinTermDocProp = nextfloat(i)
		case "-nt":
			Config.TopN = nextint(i)
		case "-rf":
			Config.RegionFile = args[i+1]
		case "-rc":
			Config.RegionCode = args[i+1]
		case "-cs":
			Config.CSVFile = args[i+1]
			Config.OccSource = "csv"
		case "-pg":
			Config.OccSource = "pg"
		case "-sq":
			Config.SQLiteFile = args[i+1]
		case "-wc":
			Config.WorkerCount = nextint(i)
		case "-ws":
			Config.WebUI = true
		case "-ip":
			Config.HostIP = args[i+1]
		case "-p":
			Config.HostPort = nextint(i)
		case "-pc":
			Config.ProfileCPU = true
		case "-ti":
			Config.TFIDFReport = true
		}
	}

	if Config.WorkerCount > runtime.NumCPU() {
		Config.WorkerCount = runtime.NumCPU()
	}

	mm.LogLevel = Config.LogLevel
	mm.BlackAndWhite = Config.BlackAndWhite

	Msg.EF(ValidateConfig(Config), "ConfigAtLaunch()")
}

// ValidateConfig - every hyperparameter and threshold is checked before any data is touched
func ValidateConfig(c *str.CurrentConfiguration) error {
	const (
		BADK  = "configuration error: topic count K must be positive, got %d"
		MAXK  = "configuration error: topic count K = %d exceeds the sanity cap of %d"
		BADG  = "configuration error: sweep count G must be positive, got %d"
		BADA  = "configuration error: alpha must be positive, got %f"
		BADE  = "configuration error: eta must be positive, got %f"
		BADB  = "configuration error: burn-in must be non-negative, got %d"
		BADT  = "configuration error: thinning must be non-negative, got %d"
		BADBG = "configuration error: burn-in (%d) must be smaller than the sweep count (%d)"
		BADMD = "configuration error: minimum document tokens must be non-negative, got %d"
		BADTF = "configuration error: minimum term frequency must be non-negative, got %d"
		BADDP = "configuration error: minimum document-frequency proportion must sit in [0,1], got %f"
		BADWC = "configuration error: worker count must be positive, got %d"
		NOREG = "configuration error: no region polygon file was supplied ('-rf')"
		NOOCC = "configuration error: occurrence source is 'csv' but no file was supplied ('-cs')"
	)

	if c.LDATopics <= 0 {
		return fmt.Errorf(BADK, c.LDATopics)
	}
	if c.LDATopics > vv.LDAMAXTOPICS {
		return fmt.Errorf(MAXK, c.LDATopics, vv.LDAMAXTOPICS)
	}
	if c.LDASweeps <= 0 {
		return fmt.Errorf(BADG, c.LDASweeps)
	}
	if c.LDAAlpha < 0 {
		return fmt.Errorf(BADA, c.LDAAlpha)
	}
	if c.LDAEta < 0 {
		return fmt.Errorf(BADE, c.LDAEta)
	}
	if c.BurnIn < 0 {
		return fmt.Errorf(BADB, c.BurnIn)
	}
	if c.Thinning < 0 {
		return fmt.Errorf(BADT, c.Thinning)
	}
	if c.BurnIn >= c.LDASweeps && c.BurnIn != 0 {
		return fmt.Errorf(BADBG, c.BurnIn, c.LDASweeps)
	}
	if c.MinDocTokens < 0 {
		return fmt.Errorf(BADMD, c.MinDocTokens)
	}
	if c.MinTermFreq < 0 {
		return fmt.Errorf(BADTF, c.MinTermFreq)
	}
	if c.MinTermDocProp < 0 || c.MinTermDocProp > 1 {
		return fmt.Errorf(BADDP, c.MinTermDocProp)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf(BADWC, c.WorkerCount)
	}
	if c.RegionFile == "" {
		return fmt.Errorf(NOREG)
	}
	if c.OccSource == "csv" && c.CSVFile == "" {
		return fmt.Errorf(NOOCC)
	}
	return nil
}
