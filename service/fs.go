package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver"
	"github.com/opensarlab/asftool/service/log"
)

// PathExists returns whether path exists. A missing path is logged.
func PathExists(ctx context.Context, path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	log.Logger(ctx).Sugar().Warnf("invalid path: %s", path)
	return false
}

// NewDirectory creates path and any missing parents. Calling it on an
// existing directory is a no-op.
func NewDirectory(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		log.Logger(ctx).Sugar().Infof("%s already exists", path)
		return nil
	}
	if err := os.MkdirAll(path, 0766); err != nil {
		return fmt.Errorf("NewDirectory.MkdirAll: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("NewDirectory: failed to create %s: %w", path, err)
	}
	log.Logger(ctx).Sugar().Infof("created: %s", path)
	return nil
}

// SizeOnDisk returns the size of the file at path and whether it exists.
func SizeOnDisk(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

// Unzip extracts all entries of the archive at filePath into outputDir.
// filePath must end in ".zip". A corrupt archive is returned as a temporary
// error for the caller to report.
func Unzip(ctx context.Context, outputDir, filePath string) error {
	if !strings.HasSuffix(filePath, ".zip") {
		return fmt.Errorf("Unzip: %s is not a zip archive", filePath)
	}
	if !PathExists(ctx, outputDir) || !PathExists(ctx, filePath) {
		return fmt.Errorf("Unzip: missing path")
	}

	log.Logger(ctx).Sugar().Infof("extracting: %s", filePath)

	tmpdir, err := os.MkdirTemp(outputDir, filepath.Base(filePath))
	if err != nil {
		return MakeTemporary(err)
	}
	defer os.RemoveAll(tmpdir)
	if err := archiver.Unarchive(filePath, tmpdir); err != nil {
		return MakeTemporary(fmt.Errorf("Unzip.Unarchive: %w", err))
	}
	entries, err := os.ReadDir(tmpdir)
	if err != nil {
		return MakeTemporary(err)
	}
	if len(entries) == 0 {
		return MakeTemporary(fmt.Errorf("empty zip"))
	}
	for _, e := range entries {
		os.Rename(filepath.Join(tmpdir, e.Name()), filepath.Join(outputDir, e.Name()))
	}
	return nil
}
