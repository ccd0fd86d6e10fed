package vertex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opensarlab/asftool/service"
)

func testClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}), srv
}

func TestLookup(t *testing.T) {
	client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if g := r.PostForm.Get("granule_list"); g != "S1A_IW_GRDH_1SDV_20200615T034412_20200615T034437_032986_03D2C6_D2F1" {
			t.Errorf("unexpected granule_list %q", g)
		}
		if l := r.PostForm.Get("processingLevel"); l != "GRD_HD" {
			t.Errorf("unexpected processingLevel %q", l)
		}
		if o := r.PostForm.Get("output"); o != "json" {
			t.Errorf("unexpected output %q", o)
		}
		w.Write([]byte(`[[{"granuleName":"S1A_IW_GRDH_1SDV_20200615T034412_20200615T034437_032986_03D2C6_D2F1","downloadUrl":"https://datapool.asf.alaska.edu/GRD_HD/SA/test.zip","fileName":"test.zip","flightDirection":"ASCENDING","track":"87"}]]`))
	})
	defer srv.Close()

	product, err := client.Lookup(context.Background(), "S1A_IW_GRDH_1SDV_20200615T034412_20200615T034437_032986_03D2C6_D2F1", "GRD_HD")
	if err != nil {
		t.Fatal(err)
	}
	if product.FileName != "test.zip" {
		t.Errorf("unexpected fileName %q", product.FileName)
	}
	if product.FlightDirection != "ASCENDING" {
		t.Errorf("unexpected flightDirection %q", product.FlightDirection)
	}
}

func TestLookupNoResults(t *testing.T) {
	client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	defer srv.Close()

	if _, err := client.Lookup(context.Background(), "S1B_NOPE", "GRD_HD"); !errors.Is(err, ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
}

func TestLookupRejectionIsFatal(t *testing.T) {
	client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such endpoint", http.StatusNotFound)
	})
	defer srv.Close()

	_, err := client.Lookup(context.Background(), "S1B_NOPE", "GRD_HD")
	if err == nil {
		t.Fatal("expected an error on 404")
	}
	if !service.Fatal(err) {
		t.Errorf("a 404 rejection should be fatal, got %v", err)
	}
	if service.Temporary(err) {
		t.Errorf("a 404 rejection should not be temporary, got %v", err)
	}
}

func TestConfirm(t *testing.T) {
	var gotDirection, gotOrbit string
	echo := "S1A_GRANULE"
	client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotDirection = r.PostForm.Get("flightDirection")
		gotOrbit = r.PostForm.Get("relativeOrbit")
		w.Write([]byte(`[[{"granuleName":"` + echo + `"}]]`))
	})
	defer srv.Close()

	ok, err := client.Confirm(context.Background(), "S1A_GRANULE", "DESCENDING", 87)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected a confirmed match")
	}
	if gotDirection != "DESCENDING" || gotOrbit != "87" {
		t.Errorf("unexpected query params %q %q", gotDirection, gotOrbit)
	}

	// an echo for a different granule is not a match
	echo = "S1A_OTHER"
	ok, err = client.Confirm(context.Background(), "S1A_GRANULE", "DESCENDING", 0)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected echoed mismatch to be rejected")
	}
}

func TestConfirmEmpty(t *testing.T) {
	client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[]]`))
	})
	defer srv.Close()

	ok, err := client.Confirm(context.Background(), "S1A_GRANULE", "A", 0)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no match")
	}
}
