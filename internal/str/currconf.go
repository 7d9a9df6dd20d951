//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

type PostgresLogin struct {
	Host   string
	Port   int
	User   string
	Pass   string
	DBName string
}

type CurrentConfiguration struct {
	BlackAndWhite  bool
	BurnIn         int
	CSVFile        string
	ChartHt        string
	ChartWd        string
	EchoLog        int // 0: "none", 1: "terse", 2: "prolix", 3: "prolix+remoteip"
	HostIP         string
	HostPort       int
	LDAAlpha       float64 // 0 means "1/K"
	LDAEta         float64 // 0 means "1/K"
	LDAEvalFrq     int
	LDASeed        int64
	LDASweeps      int
	LDATopics      int
	LogLevel       int
	MinDocTokens   int
	MinTermFreq    int
	MinTermDocProp float64
	OccSource      string // "csv" or "pg"
	PGLogin        PostgresLogin
	PointCRS       string
	JoinCRS        string
	ProfileCPU     bool
	QuietStart     bool
	RegionCRS      string // override when the region file does not declare one
	RegionCode     string // attribute field holding the region code
	RegionFile     string
	SQLiteFile     string
	Stoplist       []string
	TFIDFReport    bool
	Thinning       int
	TopN           int
	WebUI          bool
	WorkerCount    int
}
