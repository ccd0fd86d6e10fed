package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/opensarlab/asftool/interface/hyp3"
	"github.com/opensarlab/asftool/service"
	"github.com/opensarlab/asftool/service/log"
)

// Login prompts for Earthdata credentials until authentication succeeds.
// An authentication rejection re-prompts with the error shown; any other
// failure is returned immediately. On success the credentials are persisted
// to the store (when one is given) and the authenticated session returned.
func Login(ctx context.Context, api *hyp3.API, store CredentialStore, prompter service.Prompter) (*hyp3.Session, error) {
	for {
		username, err := prompter.Input("Enter your NASA EarthData username: ")
		if err != nil {
			return nil, fmt.Errorf("Login: %w", err)
		}
		password, err := prompter.Password("Enter your password: ")
		if err != nil {
			return nil, fmt.Errorf("Login: %w", err)
		}

		session, err := api.Login(ctx, username, password)
		var loginErr *hyp3.LoginError
		if errors.As(err, &loginErr) {
			log.Logger(ctx).Sugar().Warnf("%v, please try again", loginErr)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("Login.%w", err)
		}

		log.Logger(ctx).Sugar().Infof("login successful, welcome %s", username)
		if store != nil {
			if err := store.Save(Credentials{Host: api.Host(), Username: username, Password: password}); err != nil {
				return nil, fmt.Errorf("Login.%w", err)
			}
		}
		return session, nil
	}
}
