package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/casadobolo/config"
	"github.com/talkincode/casadobolo/internal/adminapi"
	"github.com/talkincode/casadobolo/internal/app"
	"github.com/talkincode/casadobolo/internal/shopapi"
	"github.com/talkincode/casadobolo/internal/webserver"
)

var (
	confFile    = flag.String("c", "/etc/casadobolo.yml", "config file")
	showVersion = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("casadobolo", version)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*confFile)

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	webserver.Init(application)
	adminapi.RegisterRoutes()
	shopapi.RegisterRoutes()

	errCh := make(chan error, 1)
	go func() {
		errCh <- webserver.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zap.S().Errorf("web server stopped: %v", err)
		}
	case sig := <-sigCh:
		zap.S().Infof("received signal %s, shutting down", sig)
		webserver.Shutdown(10 * time.Second)
	}
}
