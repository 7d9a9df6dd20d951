//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/e-gun/BiotopeGoServer/internal/lda"
	"github.com/e-gun/BiotopeGoServer/internal/mm"
	"github.com/e-gun/BiotopeGoServer/internal/str"
	"github.com/e-gun/BiotopeGoServer/internal/vv"
)

var (
	Msg = mm.NewMessageMakerFor("echoserver.go")

	// Current - the finished run being served; set once before StartEchoServer and
	// read-only thereafter, so the routes need no locking
	Current *RunBundle
)

// RunBundle - a finished, validated run plus everything the routes need to describe it
type RunBundle struct {
	RunID   string
	Cfg     *str.CurrentConfiguration
	Sum     *lda.Summary
	DocSums [][]int
	Topics  [][]int
}

// StartEchoServer - serve the finished run; this blocks and does not return while the
// program remains alive
func StartEchoServer(rb *RunBundle) {
	const (
		LLOGFMT = "r: ${status}\tt: ${latency_human}\tu: ${uri}\n"
		RLOGFMT = "i: ${remote_ip}\t r: ${status}\tt: ${latency_human}\tu: ${uri}\n"
	)

	Current = rb

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = vv.TIMEOUTRD
	e.Server.WriteTimeout = vv.TIMEOUTWR

	switch rb.Cfg.EchoLog {
	case 3:
		e.Use(middleware.Logger())
	case 2:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: RLOGFMT}))
	case 1:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: LLOGFMT}))
	}
	e.Use(middleware.Recover())

	e.GET("/", RtFrontpage)
	e.GET("/bgs/summary", RtSummary)
	e.GET("/bgs/theta", RtTheta)
	e.GET("/bgs/topics/:n", RtTopic)
	e.GET("/bgs/chart", RtChart)

	Msg.MAND(fmt.Sprintf("%s is serving run %s at %s:%d", vv.MYNAME, rb.RunID, rb.Cfg.HostIP, rb.Cfg.HostPort))
	Msg.Error(e.Start(fmt.Sprintf("%s:%d", rb.Cfg.HostIP, rb.Cfg.HostPort)))
}
