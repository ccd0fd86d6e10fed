package product

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/opensarlab/asftool/service"
	"github.com/opensarlab/asftool/service/log"
)

// ErrNoPolarizations is returned when no polarization band is present under
// the base path.
var ErrNoPolarizations = errors.New("found no available polarizations")

var polarizationBands = []string{"VV", "VH", "HV", "HH"}

// Processing pipelines and their band separator in file names.
const (
	ProcessGAMMA = 2  // files like <scene>_VV.tif
	ProcessS1TBX = 18 // files like <scene>-VV.tif
)

// SelectPolarization probes basePath for rasters of each polarization band
// and returns the wildcard path of the selected one. A single available band
// is auto-selected; several prompt a choice by index; none is
// ErrNoPolarizations.
func SelectPolarization(ctx context.Context, prompter service.Prompter, processType int, basePath string) (string, error) {
	var separator string
	switch processType {
	case ProcessGAMMA:
		separator = "_"
	case ProcessS1TBX:
		separator = "-"
	default:
		return "", fmt.Errorf("SelectPolarization: process type must be 2 (GAMMA) or 18 (S1TBX), got %d", processType)
	}
	if !service.PathExists(ctx, basePath) {
		return "", fmt.Errorf("SelectPolarization: invalid base path %s", basePath)
	}

	var available []string
	for _, band := range polarizationBands {
		matches, err := filepath.Glob(fmt.Sprintf("%s/*/*%s%s.tif", basePath, separator, band))
		if err != nil {
			return "", fmt.Errorf("SelectPolarization.Glob: %w", err)
		}
		if len(matches) > 0 {
			available = append(available, separator+band)
		}
	}

	wildcard := func(pol string) string {
		return fmt.Sprintf("%s/*/*%s.tif", basePath, pol)
	}

	switch len(available) {
	case 0:
		return "", ErrNoPolarizations
	case 1:
		log.Logger(ctx).Sugar().Infof("selecting the only available polarization: %s", available[0])
		return wildcard(available[0]), nil
	}

	for i, pol := range available {
		log.Logger(ctx).Sugar().Infof("[%d]: %s", i, pol)
	}
	for {
		answer, err := prompter.Input("Select a polarization: ")
		if err != nil {
			return "", fmt.Errorf("SelectPolarization: %w", err)
		}
		choice, err := strconv.Atoi(answer)
		if err != nil || choice < 0 || choice >= len(available) {
			log.Logger(ctx).Sugar().Warn("please enter the number of an available polarization")
			continue
		}
		return wildcard(available[choice]), nil
	}
}
