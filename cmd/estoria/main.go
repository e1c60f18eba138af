package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"estoria/common"
	"estoria/config"
	"estoria/convert"
	"estoria/misc"
	"estoria/state"
)

// prepareEnv builds program environment from global flags once command line
// is parsed: configuration, optional debug report and logger.
func prepareEnv(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help or version only
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)
	configFile := cmd.String("config")

	cfg, err := config.LoadConfiguration(configFile)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	env.Cfg = cfg

	if cmd.Bool("debug") {
		if env.Rpt, err = openReport(env, configFile); err != nil {
			return ctx, err
		}
	}
	if env.Log, err = cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	announce(env, configFile)
	return ctx, nil
}

// openReport starts debug report with run identification and configuration
// the run is using.
func openReport(env *state.LocalEnv, configFile string) (*config.Report, error) {
	rpt, err := env.Cfg.Reporting.Prepare()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare debug report: %w", err)
	}
	rpt.StoreData("RUN", fmt.Appendf(nil, "%s\n%s\n", env.RunID, strings.Join(os.Args, " ")))

	name := "config/defaults.yaml"
	if len(configFile) > 0 {
		name = "config/" + filepath.Base(configFile)
	}
	if data, err := config.Dump(env.Cfg); err == nil {
		rpt.StoreData(name, data)
	}
	return rpt, nil
}

func announce(env *state.LocalEnv, configFile string) {
	log := env.Log.With(zap.Stringer("run", env.RunID))

	log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))
	if len(configFile) == 0 {
		log.Info("Using defaults (no configuration file)")
	} else {
		log.Info("Using configuration", zap.String("file", configFile))
	}
	if env.Rpt != nil {
		log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
}

// releaseEnv flushes logs, finalizes debug report and drops empty crash log.
// Logger is gone afterwards, returned errors are printed to stderr.
func releaseEnv(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Stringer("run", env.RunID), zap.Duration("elapsed", env.Uptime()))
	}
	env.RestoreStdLog()

	var err error
	if er := env.Rpt.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
	}
	if env.Cfg != nil {
		err = multierr.Append(err, dropEmptyPanicLog(env.Cfg.Logging.PanicLogName()))
	}
	return err
}

// dropEmptyPanicLog removes crash output file nothing was written to. Crash
// output is released first.
func dropEmptyPanicLog(name string) error {
	debug.SetCrashOutput(nil, debug.CrashOptions{})

	fi, err := os.Stat(name)
	if err != nil || fi.Size() > 0 {
		return nil
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", name, err)
	}
	return nil
}

// Subcommands return regular errors, cli.Exit() is not used.
var errWasHandled bool

// exitErrHandler runs before application context is destroyed, so the error
// still reaches the log.
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// interrupt stops rendering between pages, records already written stay
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "renders manuscript page transcriptions into HTML",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          prepareEnv,
		After:           releaseEnv,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "render",
				Usage:        "Renders HTML for every page record of the corpus",
				OnUsageError: usageErrorHandler,
				Action:       convert.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "data-path", Aliases: []string{"dp"}, Usage: "corpus `DIRECTORY`, overrides configured data path"},
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"},
						Usage: "display `MODE` to render (" + strings.Join(append(common.DisplayModeNames(), convert.ModeBoth), ", ") + "), overrides configured modes"},
					&cli.BoolFlag{Name: "strict", Usage: "abort page rendering on missing or invalid attributes instead of using defaults"},
					&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "number of pages rendered simultaneously, overrides configured value"},
				},
				CustomHelpTemplate: fmt.Sprintf(`%s
Page records are looked for in "<data path>/transcription/<siglum>/<page>.json"
and are rewritten in place: "html" field receives expanded rendering and
"html_abbrev" abbreviated one. Each display mode is a separate pass over the
corpus.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "page",
				Usage:        "Renders single page record and prints resulting HTML",
				OnUsageError: usageErrorHandler,
				Action:       convert.RunPage,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: common.DisplayModeExpanded.String(),
						Usage: "display `MODE` to render (" + strings.Join(common.DisplayModeNames(), ", ") + ")"},
					&cli.BoolFlag{Name: "strict", Usage: "abort rendering on missing or invalid attributes instead of using defaults"},
				},
				ArgsUsage: "SOURCE",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to page record, following forms are supported:
        path to a file: "[path_to_file]page.json"
        path to archive with path inside archive: "[path_to_archive]archive.zip/transcription/Q/1r.json"

	Record is not modified.
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()

	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
