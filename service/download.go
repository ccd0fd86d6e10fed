package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cavaliercoder/grab"
	"github.com/opensarlab/asftool/service/log"
)

func fmtBytes(bytes int64) string {
	v := float64(bytes)
	switch {
	case v > 1<<30:
		return fmt.Sprintf("%.2fGo", v/(1<<30))
	case v > 1<<20:
		return fmt.Sprintf("%.2fMo", v/(1<<20))
	case v > 1<<10:
		return fmt.Sprintf("%.2fko", v/(1<<10))
	default:
		return fmt.Sprintf("%.2fo", v)
	}
}

func displayProgress(ctx context.Context, prefix string, resp *grab.Response, progressPeriod float64) {
	t := time.NewTicker(time.Second)
	defer t.Stop()

	progress, lastBytes, seconds := 0.0, int64(0), int64(0)
	for {
		select {
		case <-t.C:
			seconds++
			if resp.Progress() > progress {
				log.Logger(ctx).Sugar().Infof("%s: %.2f%% %s/%s (%s/s)", prefix, 100*resp.Progress(), fmtBytes(resp.BytesComplete()), fmtBytes(resp.Size), fmtBytes((resp.BytesComplete()-lastBytes)/seconds))
				seconds = 0
				progress += progressPeriod
				lastBytes = resp.BytesComplete()
			}

		case <-resp.Done:
			return
		}
	}
}

// DownloadOption customizes the request of a Download.
type DownloadOption func(*grab.Request)

// WithBasicAuth authenticates the download with a username and password.
func WithBasicAuth(user, pword string) DownloadOption {
	return func(req *grab.Request) {
		req.HTTPRequest.SetBasicAuth(user, pword)
	}
}

// WithHeader adds a header to the download request.
func WithHeader(key, value string) DownloadOption {
	return func(req *grab.Request) {
		req.HTTPRequest.Header.Add(key, value)
	}
}

func checkRedirectAndCopyAuth(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return fmt.Errorf("stopped after 10 redirects")
	}
	if auth, ok := via[0].Header["Authorization"]; ok {
		req.Header.Add("Authorization", auth[0])
	}
	return nil
}

// Download streams url to filename, overwriting any existing file, with a
// progress display every 5%. The server must declare a content-length: an
// unsized body is an error and the partial file is removed. The downloaded
// size is checked against the declared one.
func Download(ctx context.Context, filename, url string, opts ...DownloadOption) error {
	req, err := grab.NewRequest(filename, url)
	if err != nil {
		return fmt.Errorf("Download.NewRequest: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	req = req.WithContext(ctx)
	req.NoResume = true
	for _, opt := range opts {
		opt(req)
	}

	client := grab.NewClient()
	client.HTTPClient.CheckRedirect = checkRedirectAndCopyAuth
	resp := client.Do(req)

	if resp.HTTPResponse != nil && resp.HTTPResponse.StatusCode < 300 && resp.HTTPResponse.ContentLength <= 0 {
		cancel()
		<-resp.Done
		os.Remove(filename)
		return fmt.Errorf("Download[%s]: no content-length", url)
	}

	displayProgress(ctx, filename, resp, 0.05)

	if err := resp.Err(); err != nil {
		err = fmt.Errorf("Download[%s]: %w", url, err)
		if resp.HTTPResponse == nil {
			return MakeTemporary(err)
		}
		if TemporaryHTTPCode(resp.HTTPResponse.StatusCode) {
			return MakeTemporary(err)
		}
		return err
	}

	if size, ok := SizeOnDisk(filename); !ok || size < resp.Size {
		return fmt.Errorf("Download[%s]: incomplete file (%d of %d bytes)", url, size, resp.Size)
	}
	return nil
}
