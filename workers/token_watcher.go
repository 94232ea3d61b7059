package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/stephenafamo/kronika"
	"github.com/stephenafamo/sentryscope/tokens"
)

// TokenFileWatcher reloads the tokens file whenever it changes
type TokenFileWatcher struct {
	File     *tokens.File
	Interval time.Duration
	Reporter tokens.Reporter
}

func (w TokenFileWatcher) Play(ctx context.Context) error {
	for range kronika.Every(ctx, time.Now(), w.Interval) {
		changed, err := w.File.ReloadIfChanged()
		if err != nil {
			err = fmt.Errorf("error reloading tokens file: %w", err)
			log.Println(err)
			w.Reporter.CaptureException(err)
			continue
		}

		if changed {
			log.Printf("RELOADED: %s", w.File.Path)
		}
	}

	return nil
}
