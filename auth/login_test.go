package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/opensarlab/asftool/interface/hyp3"
	"github.com/opensarlab/asftool/service"
)

func TestLoginRetriesOnBadPassword(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if r.URL.Query().Get("password") == "right" {
			w.Write([]byte(`{"status":"success","api_key":"abc123"}`))
			return
		}
		w.Write([]byte(`{"status":"failed","message":"Username or password is incorrect"}`))
	}))
	defer srv.Close()

	api := hyp3.NewAPI(hyp3.Config{BaseURL: srv.URL, Host: "urs.earthdata.nasa.gov", Timeout: 5 * time.Second})
	store := &NetrcStore{Path: filepath.Join(t.TempDir(), ".netrc"), Host: "urs.earthdata.nasa.gov"}
	prompter := &service.ScriptPrompter{Answers: []string{
		"jovyan", "wrong",
		"jovyan", "right",
	}}

	session, err := Login(context.Background(), api, store, prompter)
	if err != nil {
		t.Fatal(err)
	}
	if session.Username != "jovyan" {
		t.Errorf("unexpected username %s", session.Username)
	}
	if attempts != 2 {
		t.Errorf("expected 2 login attempts, got %d", attempts)
	}

	creds, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if creds.Username != "jovyan" || creds.Password != "right" {
		t.Errorf("unexpected persisted credentials %+v", creds)
	}
}

func TestLoginFatalOnOtherError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not json", http.StatusNotFound)
	}))
	defer srv.Close()

	api := hyp3.NewAPI(hyp3.Config{BaseURL: srv.URL, Host: "urs.earthdata.nasa.gov", Timeout: 5 * time.Second})
	prompter := &service.ScriptPrompter{Answers: []string{"jovyan", "pw"}}

	err := func() error {
		_, err := Login(context.Background(), api, nil, prompter)
		return err
	}()
	if err == nil {
		t.Fatal("expected a non-recoverable error")
	}
	var loginErr *hyp3.LoginError
	if errors.As(err, &loginErr) {
		t.Errorf("expected a non-login error, got %v", err)
	}
}
