package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/araddon/dateparse"
	"github.com/opensarlab/asftool/auth"
	"github.com/opensarlab/asftool/common"
	"github.com/opensarlab/asftool/interface/hyp3"
	"github.com/opensarlab/asftool/interface/vertex"
	"github.com/opensarlab/asftool/product"
	"github.com/opensarlab/asftool/raster"
	"github.com/opensarlab/asftool/service"
	"github.com/opensarlab/asftool/service/log"
	"go.uber.org/zap"
)

type config struct {
	Dest            string
	StartDate       time.Time
	EndDate         time.Time
	FlightDirection string
	Path            int

	Username string
	Password string
	NoNetrc  bool

	ProcessType int
	CleanEmpty  bool
}

func newAppConfig() (*config, error) {
	config := config{}
	flag.StringVar(&config.Dest, "dest", "", "directory to download the subscription products into")
	startDate := flag.String("start-date", "", "keep products acquired on or after this date (optional)")
	endDate := flag.String("end-date", "", "keep products acquired strictly before this date (optional)")
	flag.StringVar(&config.FlightDirection, "flight-direction", "", "keep products of this flight direction (optional)")
	flag.IntVar(&config.Path, "path", 0, "keep products of this path/relative orbit (optional)")
	flag.StringVar(&config.Username, "username", "", "Earthdata username (optional, prompted when empty)")
	flag.StringVar(&config.Password, "password", "", "Earthdata password (optional, prompted when empty)")
	flag.BoolVar(&config.NoNetrc, "no-netrc", false, "do not persist credentials to ~/.netrc")
	flag.IntVar(&config.ProcessType, "process", 0, "process type of the subscription, to select a polarization after download (optional)")
	flag.BoolVar(&config.CleanEmpty, "clean-empty", false, "remove geotiffs of the selected polarization that contain no data")
	flag.Parse()

	if config.Dest == "" {
		return nil, fmt.Errorf("missing dest config flag")
	}
	var err error
	if *startDate != "" {
		if config.StartDate, err = dateparse.ParseAny(*startDate); err != nil {
			return nil, fmt.Errorf("invalid start-date: %w", err)
		}
	}
	if *endDate != "" {
		if config.EndDate, err = dateparse.ParseAny(*endDate); err != nil {
			return nil, fmt.Errorf("invalid end-date: %w", err)
		}
	}
	if config.CleanEmpty && config.ProcessType == 0 {
		return nil, fmt.Errorf("clean-empty requires the process config flag")
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

	hyp3Config, err := hyp3.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("hyp3 config: %w", err)
	}
	api := hyp3.NewAPI(hyp3Config)

	prompter := service.NewTerminalPrompter()
	var loginPrompter service.Prompter = prompter
	if config.Username != "" && config.Password != "" {
		loginPrompter = &service.ScriptPrompter{Answers: []string{config.Username, config.Password}}
	}

	var store auth.CredentialStore
	if !config.NoNetrc {
		if store, err = auth.DefaultNetrcStore(api.Host()); err != nil {
			return fmt.Errorf("netrc: %w", err)
		}
	}

	session, err := auth.Login(ctx, api, store, loginPrompter)
	if err != nil {
		return err
	}

	vertexConfig, err := vertex.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("vertex config: %w", err)
	}
	confirmer := vertex.NewClient(vertexConfig)

	if err := service.NewDirectory(ctx, config.Dest); err != nil {
		return err
	}

	opts := product.Options{
		StartDate: config.StartDate,
		EndDate:   config.EndDate,
		Path:      config.Path,
	}
	if config.FlightDirection != "" {
		opts.FlightDirection = common.FlightDirection(config.FlightDirection)
	}
	subID, err := product.DownloadAll(ctx, session, confirmer, prompter, config.Dest, opts)
	if err != nil {
		return err
	}
	log.Logger(ctx).Sugar().Infof("subscription %d downloaded to %s", subID, config.Dest)

	if config.ProcessType == 0 {
		return nil
	}
	wildcard, err := product.SelectPolarization(ctx, prompter, config.ProcessType, config.Dest)
	if err != nil {
		if errors.Is(err, product.ErrNoPolarizations) {
			log.Logger(ctx).Sugar().Warnf("no polarizations found under %s", config.Dest)
			return nil
		}
		return err
	}
	log.Logger(ctx).Sugar().Infof("selected polarization: %s", wildcard)

	if !config.CleanEmpty {
		return nil
	}
	paths, err := filepath.Glob(wildcard)
	if err != nil {
		return fmt.Errorf("glob %s: %w", wildcard, err)
	}
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		name, err := filepath.Rel(config.Dest, p)
		if err != nil {
			return err
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	_, err = raster.RemoveEmptyTIFFs(ctx, config.Dest, names)
	return err
}
