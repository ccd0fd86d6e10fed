package product

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/opensarlab/asftool/common"
	"github.com/opensarlab/asftool/interface/hyp3"
	"github.com/opensarlab/asftool/interface/vertex"
	"github.com/opensarlab/asftool/service"
	"github.com/opensarlab/asftool/service/log"
)

// productPageSize is the fixed page size used when paginating a
// subscription's products.
const productPageSize = 100

var productURLRe = regexp.MustCompile(`https://hyp3-download\.asf\.alaska\.edu/asf/data/(.*)\.zip`)

// GranuleLookup resolves a granule name to its search record. Implemented by
// vertex.Client.
type GranuleLookup interface {
	Lookup(ctx context.Context, granuleName, processingLevel string) (*vertex.Product, error)
}

// Session pages a HyP3 account's subscriptions and products. Implemented by
// hyp3.Session.
type Session interface {
	Subscriptions(ctx context.Context, enabledOnly bool) ([]hyp3.Subscription, error)
	Products(ctx context.Context, subID, page, pageSize int) ([]hyp3.Product, error)
}

// DownloadGranule resolves the granule on the search API and downloads it to
// destDir. A local file of the exact expected size is not downloaded again.
func DownloadGranule(ctx context.Context, client GranuleLookup, granuleName, processingLevel, destDir string) (string, error) {
	info, err := client.Lookup(ctx, granuleName, processingLevel)
	if err != nil {
		return "", fmt.Errorf("DownloadGranule.%w", err)
	}

	expected, err := contentLength(ctx, info.DownloadURL)
	if err != nil {
		return "", fmt.Errorf("DownloadGranule.%w", err)
	}

	filename := filepath.Join(destDir, info.FileName)
	if size, ok := service.SizeOnDisk(filename); ok && size == expected {
		log.Logger(ctx).Sugar().Infof("%s is already present", filename)
		return filename, nil
	}

	log.Logger(ctx).Sugar().Infof("downloading %s", info.DownloadURL)
	if err := service.Download(ctx, filename, info.DownloadURL); err != nil {
		return "", fmt.Errorf("DownloadGranule.%w", err)
	}
	return filename, nil
}

// contentLength asks the download service for the declared size of url,
// without fetching the body.
func contentLength(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("contentLength: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("contentLength[%s]: %w", url, err)
	}
	resp.Body.Close()
	if resp.ContentLength <= 0 {
		return 0, fmt.Errorf("contentLength[%s]: no content-length", url)
	}
	return resp.ContentLength, nil
}

// Options narrows the set of subscription products to download. Zero values
// leave the corresponding filter off.
type Options struct {
	StartDate       time.Time
	EndDate         time.Time
	FlightDirection common.FlightDirection
	Path            int
}

// DownloadAll prompts for one of the account's enabled subscriptions, pages
// through its products, applies the date / flight direction / path filters
// and downloads and unpacks every product not already present under
// destPath. It returns the chosen subscription id.
//
// An invalid flight direction is an error; an absent one skips the filter.
// A failed product does not stop the sweep: remaining products are still
// processed and the failures are merged into the returned error.
func DownloadAll(ctx context.Context, session Session, confirmer Confirmer, prompter service.Prompter, destPath string, opts Options) (int, error) {
	if !service.PathExists(ctx, destPath) {
		return 0, fmt.Errorf("DownloadAll: invalid destination path %s", destPath)
	}

	subscriptions, err := session.Subscriptions(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("DownloadAll.%w", err)
	}
	subID, err := PickSubscription(ctx, prompter, subscriptions)
	if err != nil {
		return 0, fmt.Errorf("DownloadAll.%w", err)
	}

	var products []hyp3.Product
	for page := 0; ; page++ {
		productPage, err := session.Products(ctx, subID, page, productPageSize)
		if err != nil {
			return 0, fmt.Errorf("DownloadAll.%w", err)
		}
		if len(productPage) == 0 {
			break
		}
		products = append(products, productPage...)
	}

	if DateRangeValid(ctx, opts.StartDate, opts.EndDate) {
		if products, err = FilterDateRange(products, opts.StartDate, opts.EndDate); err != nil {
			return 0, fmt.Errorf("DownloadAll.%w", err)
		}
	}
	if opts.FlightDirection != "" {
		if !opts.FlightDirection.Valid() {
			return 0, fmt.Errorf("DownloadAll: %s is not a valid flight direction (valid: %v)", opts.FlightDirection, common.ValidFlightDirections())
		}
		if products, err = Filter(ctx, confirmer, products, opts.FlightDirection, 0); err != nil {
			return 0, fmt.Errorf("DownloadAll.%w", err)
		}
	}
	if opts.Path != 0 {
		if products, err = Filter(ctx, confirmer, products, "", opts.Path); err != nil {
			return 0, fmt.Errorf("DownloadAll.%w", err)
		}
	}

	log.Logger(ctx).Sugar().Infof("%d products are associated with the selected date range, flight direction, and path for subscription %d", len(products), subID)
	var downloadErr error
	for i, p := range products {
		ctx := log.With(ctx, "product", i+1)
		if err := downloadProduct(ctx, destPath, p); err != nil {
			log.Logger(ctx).Sugar().Warnf("downloadProduct: %v", err)
			downloadErr = service.MergeErrors(true, downloadErr, err)
		}
	}
	if downloadErr != nil {
		return subID, fmt.Errorf("DownloadAll.%w", downloadErr)
	}
	return subID, nil
}

// downloadProduct fetches and unpacks one product into destPath, skipping it
// when its directory is already there. The archive is fetched into a scratch
// directory and removed after extraction.
func downloadProduct(ctx context.Context, destPath string, p hyp3.Product) error {
	m := productURLRe.FindStringSubmatch(p.URL)
	if m == nil {
		return fmt.Errorf("downloadProduct: unexpected product url: %s", p.URL)
	}
	name := m[1]

	if _, err := os.Stat(filepath.Join(destPath, name)); err == nil {
		log.Logger(ctx).Sugar().Infof("%s already exists", filepath.Join(destPath, name))
		return nil
	}

	scratch := filepath.Join(destPath, uuid.New().String())
	if err := os.MkdirAll(scratch, 0766); err != nil {
		return service.MakeTemporary(fmt.Errorf("downloadProduct.MkdirAll: %w", err))
	}
	defer os.RemoveAll(scratch)

	log.Logger(ctx).Sugar().Infof("%s is not present, downloading from %s", name, p.URL)
	zipPath := filepath.Join(scratch, name+".zip")
	if err := service.Download(ctx, zipPath, p.URL); err != nil {
		return fmt.Errorf("downloadProduct.%w", err)
	}
	if err := service.Unzip(ctx, destPath, zipPath); err != nil {
		return fmt.Errorf("downloadProduct.%w", err)
	}
	return nil
}
