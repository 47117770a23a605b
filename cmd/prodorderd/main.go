package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mesworks/prodorder/config"
	"github.com/mesworks/prodorder/internal/adminapi"
	"github.com/mesworks/prodorder/internal/app"
	"github.com/mesworks/prodorder/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	h       = flag.Bool("h", false, "help usage")
	initdb  = flag.Bool("initdb", false, "drop and recreate the database schema with seed data")
	cfile   = flag.String("c", "/etc/prodorder.yml", "config file")
	showVer = flag.Bool("v", false, "show version")
)

var version = "dev"

func printHelp() {
	if *h {
		fmt.Fprintf(os.Stderr, "Usage: prodorderd [flags]\n")
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()
	printHelp()
	if *showVer {
		fmt.Println(version)
		os.Exit(0)
	}

	appConfig := config.LoadConfig(*cfile)
	application := app.NewApplication(appConfig)
	application.Init(appConfig)
	defer application.Release()

	if *initdb {
		application.InitDb()
		fmt.Println("database initialized")
		os.Exit(0)
	}

	webserver.Init(application)
	adminapi.RegisterRoutes()

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		return webserver.Listen()
	})

	g.Go(func() error {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigc:
			zap.L().Info("shutting down", zap.String("signal", sig.String()))
			return fmt.Errorf("received signal %s", sig)
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if err := g.Wait(); err != nil {
		zap.L().Info("prodorderd stopped", zap.Error(err))
	}
}
