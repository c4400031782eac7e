// Package telemetry emits structured zerolog events for the editor's
// lifecycle and user-visible actions: startup/shutdown, mode changes,
// command execution, and saves. It is intentionally minimal; it has no
// opinion on where the sink writes to — that is internal/applog's job.
package telemetry

import (
	"time"

	"github.com/rs/zerolog"
)

// Hooks records editor lifecycle and workspace events. One Hooks is
// constructed per process and shared by the workspace controller.
type Hooks struct {
	logger zerolog.Logger
}

// NewHooks constructs a Hooks instance with the provided logger.
func NewHooks(logger zerolog.Logger) *Hooks {
	return &Hooks{logger: logger}
}

// OnStartup records the workbook path (empty when the workbook has no
// path) the editor opened with.
func (h *Hooks) OnStartup(path string) {
	h.logger.Info().Str("path", path).Msg("workbook opened")
}

// OnShutdown records the exit code the process is about to return.
func (h *Hooks) OnShutdown(code int) {
	h.logger.Info().Int("exit_code", code).Msg("workspace closing")
}

// OnModeChange records a mode-stack transition.
func (h *Hooks) OnModeChange(from, to string) {
	h.logger.Debug().Str("from", from).Str("to", to).Msg("mode change")
}

// OnCommand logs one executed ex-style command and its outcome.
func (h *Hooks) OnCommand(verb string, duration time.Duration, err error) {
	evt := h.logger.Info().Str("command", verb).Dur("duration", duration)
	if err != nil {
		h.logger.Warn().Str("command", verb).Dur("duration", duration).Err(err).Msg("command failed")
		return
	}
	evt.Msg("command executed")
}

// OnSave logs a successful or failed write to disk.
func (h *Hooks) OnSave(path string, err error) {
	if err != nil {
		h.logger.Error().Str("path", path).Err(err).Msg("save failed")
		return
	}
	h.logger.Info().Str("path", path).Msg("workbook saved")
}

// OnEngineError logs an error surfaced to the user as a Dialog, so the
// log retains a record even though the failure was handled, not fatal.
func (h *Hooks) OnEngineError(context string, err error) {
	h.logger.Warn().Str("context", context).Err(err).Msg("recoverable error")
}
