package cmd

import (
	"log"

	"github.com/getsentry/sentry-go"
	"github.com/stephenafamo/orchestra"
	"github.com/stephenafamo/sentryscope/internal"
	"github.com/stephenafamo/sentryscope/monitor"
	"github.com/stephenafamo/sentryscope/workers"
)

func setPlayers(settings internal.Settings, hub *sentry.Hub, backend backend) map[string]orchestra.Player {
	players := map[string]orchestra.Player{}

	players["http-server"] = workers.HTTPServer{
		Addr:    settings.HTTP_ADDR,
		Handler: newHandler(settings, hub, backend.auth),
	}

	// only the file backend has something to watch
	if backend.file != nil {
		players["token-watcher"] = workers.TokenFileWatcher{
			File:     backend.file,
			Interval: settings.CONFIG_RELOAD_TIME,
			Reporter: hub,
		}
	}

	return players
}

func getMonitor(settings internal.Settings) (*sentry.Hub, error) {
	return monitor.NewHub(monitor.Options{
		DSN:            settings.SENTRY_DSN,
		Environment:    settings.SENTRY_ENVIRONMENT,
		SendDefaultPII: settings.SENTRY_SEND_DEFAULT_PII,
		Debug:          settings.SENTRY_DEBUG,
		Testing:        settings.TESTING,
		Logger:         sentryLogger{},
	})
}

type sentryLogger struct{}

func (sentryLogger) Printf(format string, a ...interface{}) (n int, err error) {
	log.Printf(format, a...)
	return 0, nil
}
