package cmd

import (
	"os"

	"waterx/internal/api"
	"waterx/internal/backup"
	apperrors "waterx/internal/errors"
	"waterx/internal/fs"
	"waterx/internal/logger"
	"waterx/internal/notify"
	"waterx/internal/page"
	"waterx/internal/profile"
	"waterx/internal/session"
	"waterx/internal/settings"
)

// application is the object graph every command works against
type application struct {
	client   *api.Client
	notifier *notify.Manager
	session  *session.Session
	store    *settings.Store
	profiles *profile.Service
	page     *page.Page
	backup   *backup.Controller
}

// notifyConfig maps the CLI configuration onto the notification manager's
func notifyConfig() notify.Config {
	nc := notify.DefaultConfig()
	nc.WebhookEnabled = cfg.NotifyWebhookURL != ""
	nc.WebhookURL = cfg.NotifyWebhookURL
	if cfg.NotifyWebhookMethod != "" {
		nc.WebhookMethod = cfg.NotifyWebhookMethod
	}
	nc.WebhookSecret = cfg.NotifyWebhookSecret
	nc.SlackWebhookURL = cfg.NotifySlackURL
	if cfg.NotifyMinSeverity != "" {
		nc.MinSeverity = notify.Severity(cfg.NotifyMinSeverity)
	}
	nc.Retries = cfg.NotifyRetries
	return nc
}

// newApplication wires the components. locals receive every notification;
// pass the console notifier for one-shot commands or the TUI toast line
// for interactive mode.
func newApplication(log logger.Logger, locals ...notify.Notifier) (*application, error) {
	sess, err := session.Open(fs.OS(), cfg.SessionFile)
	if err != nil {
		return nil, err
	}

	mgr := notify.NewManager(notifyConfig(), log)
	mgr.AddLocal(events)
	for _, n := range locals {
		mgr.AddLocal(n)
	}

	client := api.NewClient(cfg.APIURL,
		api.WithToken(cfg.APIToken),
		api.WithTimeout(cfg.HTTPTimeout()),
		api.WithLogger(log),
	)

	store := settings.NewStore(client, mgr, log)
	profiles := profile.NewService(client, sess, mgr, log)
	pg := page.New(store, profiles, log)

	delay := cfg.RestoreReloadDelay
	if delay == 0 {
		delay = -1 // configured as "no pause"
	}
	ctrl := backup.NewController(client, fs.OS(), pg, mgr, log, backup.Options{
		AppName:     cfg.AppName,
		Dir:         cfg.BackupDir,
		ReloadDelay: delay,
	})

	return &application{
		client:   client,
		notifier: mgr,
		session:  sess,
		store:    store,
		profiles: profiles,
		page:     pg,
		backup:   ctrl,
	}, nil
}

// consoleApplication wires the components with console output
func consoleApplication() (*application, error) {
	return newApplication(log, notify.NewConsoleNotifier(os.Stdout, os.Stderr))
}

func (a *application) Close() {
	a.page.Close()
}

// signedIn returns the current user or a NoSession error
func (a *application) signedIn() (*session.User, error) {
	u := a.session.Current()
	if u == nil {
		return nil, apperrors.NoSession()
	}
	return u, nil
}
