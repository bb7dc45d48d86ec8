package cmd

import (
	"github.com/jrsteele09/go-auth-client/client"
	"github.com/jrsteele09/go-auth-client/lifecycle"
	"github.com/jrsteele09/go-auth-client/refresh"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/session/filestorage"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
)

// app wires the persisted session to the lifecycle controller and the
// authenticated client.
type app struct {
	store      *session.Store
	controller *lifecycle.Controller
	client     *client.Client
}

// consoleNavigator tells the user to log in again after a forced logout.
type consoleNavigator struct{}

func (consoleNavigator) OnForceLogout() {
	pterm.Warning.Println("Session expired. Run `authctl login` to sign in again.")
}

func newApp(opts *options) (*app, error) {
	var (
		storage *filestorage.FileStorage
		err     error
	)
	if opts.dataDir != "" {
		storage, err = filestorage.New(opts.dataDir)
	} else {
		storage, err = filestorage.NewInHome(defaultAppDir)
	}
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(storage, session.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}
	controller, err := lifecycle.NewController(opts.serverURL, store,
		lifecycle.WithNavigator(consoleNavigator{}),
		lifecycle.WithTimeout(opts.timeout),
		lifecycle.WithLogger(log.Logger),
	)
	if err != nil {
		return nil, err
	}
	refresher := refresh.New(opts.serverURL, store,
		refresh.WithTimeout(opts.timeout),
		refresh.WithLogger(log.Logger),
	)
	c, err := client.New(opts.serverURL, store, refresher,
		client.WithTimeout(opts.timeout),
		client.WithForceLogout(controller),
		client.WithLogger(log.Logger),
	)
	if err != nil {
		return nil, err
	}
	return &app{store: store, controller: controller, client: c}, nil
}
