package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/opensarlab/asftool/interface/vertex"
	"github.com/opensarlab/asftool/product"
	"github.com/opensarlab/asftool/service"
	"github.com/opensarlab/asftool/service/log"
	"go.uber.org/zap"
)

type config struct {
	Granule         string
	ProcessingLevel string
	Dest            string
	Unzip           bool
}

func newAppConfig() (*config, error) {
	config := config{}
	flag.StringVar(&config.Granule, "granule", "", "granule name to download")
	flag.StringVar(&config.ProcessingLevel, "level", "GRD_HD", "processing level of the product to download")
	flag.StringVar(&config.Dest, "dest", ".", "destination directory")
	flag.BoolVar(&config.Unzip, "unzip", false, "extract the downloaded archive into the destination directory")
	flag.Parse()

	if config.Granule == "" {
		return nil, fmt.Errorf("missing granule config flag")
	}
	if config.Dest == "" {
		return nil, fmt.Errorf("missing dest config flag")
	}
	return &config, nil
}

func main() {
	ctx := context.Background()
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

	vertexConfig, err := vertex.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("vertex config: %w", err)
	}
	client := vertex.NewClient(vertexConfig)

	if err := service.NewDirectory(ctx, config.Dest); err != nil {
		return err
	}

	filename, err := product.DownloadGranule(ctx, client, config.Granule, config.ProcessingLevel, config.Dest)
	if err != nil {
		return err
	}
	log.Logger(ctx).Sugar().Infof("downloaded %s", filename)

	if config.Unzip && filepath.Ext(filename) == ".zip" {
		if err := service.Unzip(ctx, config.Dest, filename); err != nil {
			return err
		}
	}
	return nil
}
