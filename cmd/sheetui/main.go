package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sheetui/sheetui/config"
	"github.com/sheetui/sheetui/internal/apperr"
	"github.com/sheetui/sheetui/internal/applog"
	"github.com/sheetui/sheetui/internal/display"
	"github.com/sheetui/sheetui/internal/keyevent"
	"github.com/sheetui/sheetui/internal/security"
	"github.com/sheetui/sheetui/internal/telemetry"
	"github.com/sheetui/sheetui/internal/workbook"
	"github.com/sheetui/sheetui/internal/workspace"
	"github.com/sheetui/sheetui/pkg/validation"
	"github.com/sheetui/sheetui/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	startup := applog.Startup()

	var (
		locale      string
		timezone    string
		logInput    string
		showVersion bool
	)
	flag.StringVar(&locale, "locale-name", config.DefaultLocale, "locale used to render numbers and dates")
	flag.StringVar(&timezone, "timezone-name", config.DefaultTimezone, "timezone used to evaluate date/time formulas")
	flag.StringVar(&logInput, "log-input", "", "append every key event to this JSON-lines file")
	flag.BoolVar(&showVersion, "version", false, "print the version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.Version())
		return 0
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sheetui [flags] <workbook.xlsx>")
		return 2
	}
	path := flag.Arg(0)

	flags := validation.CLIFlags{Path: path, Locale: locale, Timezone: timezone, LogInput: logInput}
	if msg := validation.ValidateCLIFlags(flags); msg != "" {
		fmt.Fprintln(os.Stderr, "invalid arguments: "+msg)
		return 2
	}

	secMgr, err := buildSecurityManager(path)
	if err != nil {
		startup.Error().Err(err).Msg("security: failed to initialize allow-list")
		fmt.Fprintln(os.Stderr, "invalid security configuration; set SHEETUI_ALLOWED_DIRS")
		return 1
	}

	wb, err := workbook.Load(path, locale, timezone, secMgr)
	if err != nil {
		startup.Error().Err(err).Str("path", path).Msg("failed to open workbook")
		fmt.Fprintln(os.Stderr, "cannot open "+path+": "+err.Error())
		return 1
	}

	logger, closeLog, err := applog.New(logFilePath())
	if err != nil {
		startup.Error().Err(err).Msg("failed to open application log")
		fmt.Fprintln(os.Stderr, "cannot open application log: "+err.Error())
		return 1
	}
	defer closeLog()

	var inputLog *keyevent.Logger
	if logInput != "" {
		inputLog, err = keyevent.OpenLogger(logInput)
		if err != nil {
			startup.Error().Err(err).Str("path", logInput).Msg("failed to open key event log")
			fmt.Fprintln(os.Stderr, "cannot open key event log: "+err.Error())
			return 1
		}
		defer inputLog.Close()
	}

	surface, err := display.New()
	if err != nil {
		startup.Error().Err(err).Msg("failed to initialize terminal")
		fmt.Fprintln(os.Stderr, "cannot initialize terminal: "+err.Error())
		return 1
	}
	defer surface.Close()

	ws := workspace.New(wb, workspace.Options{
		Locale:    locale,
		Timezone:  timezone,
		Validator: secMgr,
		Hooks:     telemetry.NewHooks(logger),
		InputLog:  inputLog,
	})

	return eventLoop(surface, ws, logger)
}

// eventLoop reads one key at a time, feeds it to the workspace, and
// renders the resulting frame — until HandleInput reports an exit code
// or a fatal error.
func eventLoop(surface *display.Surface, ws *workspace.Workspace, logger zerolog.Logger) int {
	render := func() bool {
		width, height := surface.Size()
		frame, err := ws.RenderTo(width, height)
		if err != nil {
			logger.Error().Err(err).Msg("render failed")
			return false
		}
		surface.Render(frame)
		return true
	}

	if !render() {
		return 1
	}

	for {
		key := surface.NextKey()
		code, err := ws.HandleInput(key)
		if err != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				logger.Error().Err(err).Str("kind", string(appErr.Kind)).Msg("fatal input error")
			} else {
				logger.Error().Err(err).Msg("fatal input error")
			}
			return 1
		}
		if code != nil {
			return *code
		}
		if !render() {
			return 1
		}
	}
}

func logFilePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sheetui", "sheetui.log")
}

func buildSecurityManager(path string) (*security.Manager, error) {
	mgr, err := security.NewManagerFromEnv()
	if err == nil && mgr.ValidateConfig() == nil {
		return mgr, nil
	}
	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		return nil, absErr
	}
	return security.NewManager([]string{filepath.Dir(abs)}, nil)
}
