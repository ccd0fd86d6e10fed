package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/opensarlab/asftool/aoi"
	"github.com/opensarlab/asftool/service/log"
	"go.uber.org/zap"
)

type config struct {
	Port int
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

func newAppConfig() (*config, error) {
	config := config{}
	flag.IntVar(&config.Port, "port", 8080, "serving port")
	flag.Float64Var(&config.XMin, "xmin", -aoi.WebMercatorMaxX, "lower-left x of the stack extent (EPSG:3857)")
	flag.Float64Var(&config.YMin, "ymin", -aoi.WebMercatorMaxY, "lower-left y of the stack extent (EPSG:3857)")
	flag.Float64Var(&config.XMax, "xmax", aoi.WebMercatorMaxX, "upper-right x of the stack extent (EPSG:3857)")
	flag.Float64Var(&config.YMax, "ymax", aoi.WebMercatorMaxY, "upper-right y of the stack extent (EPSG:3857)")
	flag.Parse()
	return &config, nil
}

func topLevelContext(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigs
		log.Logger(ctx).Sugar().Warnf("caught signal %q, shutting down", sig)
		cancel()
	}()
	return ctx
}

func main() {
	ctx := topLevelContext(context.Background())
	err := run(ctx)
	if err != nil {
		log.Fatal("error", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	config, err := newAppConfig()
	if err != nil {
		return err
	}

	extent, err := aoi.NewExtent(config.XMin, config.YMin, config.XMax, config.YMax)
	if err != nil {
		return err
	}
	selection := aoi.NewSelection(extent)
	server := aoi.NewServer(selection)
	return server.ListenAndServe(ctx, fmt.Sprintf(":%d", config.Port))
}
