// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WritePicks prints the results of every pick round using the configured output format.
func (ow *OutWriter) WritePicks(results []*schema.PickResult, cfg *contract.Config, duration time.Duration) error {
	return WritePickResults(results, cfg, duration)
}

// WriteTarget prints the number of units a pick would aim for.
func (ow *OutWriter) WriteTarget(units int, cfg *contract.Config) error {
	return WriteTargetUnits(units, cfg)
}

// WriteStatus prints the state of the run history store.
func (ow *OutWriter) WriteStatus(w io.Writer, status schema.RunStatus, output schema.OutputMode) error {
	return WriteRunStatus(w, status, output)
}
