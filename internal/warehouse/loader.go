package warehouse

import (
	"context"
	"fmt"
	"os"
	"time"

	"sjsage522/bookworker/logger"
	"sjsage522/bookworker/pkg/errors"
)

const stage = "warehouse"

// Loader stages a transformed CSV and replaces the books table with it
type Loader struct {
	open      Opener
	namespace Namespace
	log       *logger.Logger
}

// NewLoader creates a loader that acquires sessions through open
func NewLoader(open Opener, namespace Namespace) *Loader {
	return &Loader{
		open:      open,
		namespace: namespace,
		log:       logger.ForWarehouse(),
	}
}

// Load runs the load plan for filePath. Every step but the table
// replacement is idempotent; the session is released on every exit path.
func (l *Loader) Load(ctx context.Context, filePath string) (err error) {
	if _, statErr := os.Stat(filePath); statErr != nil {
		return errors.NewLoad(stage, "transformed file", statErr)
	}

	session, err := l.open(ctx, Target{})
	if err != nil {
		return errors.NewLoad(stage, "open session", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			l.log.Warn().Err(closeErr).Msg("Failed to close warehouse session")
			if err == nil {
				err = errors.NewLoad(stage, "close session", closeErr)
			}
		}
	}()

	for _, st := range LoadPlan(l.namespace, filePath) {
		if st.Destructive {
			l.log.Warn().
				Str("table", l.namespace.Table).
				Str("step", st.Description).
				Msg("Replacing table; existing rows are discarded")
		}

		start := time.Now()
		if _, execErr := session.ExecContext(ctx, st.SQL); execErr != nil {
			l.log.Error().
				Err(execErr).
				Str("step", st.Description).
				Msg("Warehouse statement failed")
			return errors.NewLoad(stage, st.Description, execErr)
		}
		l.log.Debug().
			Str("step", st.Description).
			Dur("elapsed", time.Since(start)).
			Msg("Warehouse statement done")
	}

	l.log.Info().
		Str("table", fmt.Sprintf("%s.%s.%s", l.namespace.Database, l.namespace.Schema, l.namespace.Table)).
		Msg("Table loaded")
	return nil
}
