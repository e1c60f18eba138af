package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"estoria/common"
	"estoria/state"
)

// ModeBoth selects every display mode from command line.
const ModeBoth = "both"

// ParseModes converts command line mode selection into list of passes.
func ParseModes(s string) ([]common.DisplayMode, error) {
	if s == ModeBoth {
		return []common.DisplayMode{common.DisplayModeAbbreviated, common.DisplayModeExpanded}, nil
	}
	mode, err := common.ParseDisplayMode(s)
	if err != nil {
		return nil, err
	}
	return []common.DisplayMode{mode}, nil
}

// Run renders the whole corpus, "render" command action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert").With(zap.Stringer("run", env.RunID))

	env.DataPath = cmd.String("data-path")
	if s := cmd.String("mode"); len(s) > 0 {
		if env.Modes, err = ParseModes(s); err != nil {
			return fmt.Errorf("unknown display mode requested: %w", err)
		}
	}
	env.Strict = cmd.Bool("strict")
	env.Workers = int(cmd.Int("jobs"))
	env.ApplyConfig()

	if cmd.Args().Len() > 0 {
		log.Warn("Malformed command line, unexpected arguments", zap.Strings("ignoring", cmd.Args().Slice()))
	}

	dataPath, err := filepath.Abs(env.DataPath)
	if err != nil {
		return err
	}
	if fi, err := os.Stat(dataPath); err != nil || !fi.IsDir() {
		return fmt.Errorf("data path is not a directory: %s", dataPath)
	}

	pages, err := Enumerate(dataPath)
	if err != nil {
		return err
	}

	log.Info("Rendering starting", zap.String("data", dataPath), zap.Int("pages", len(pages)),
		zap.Stringers("modes", env.Modes), zap.Bool("strict", env.Strict), zap.Int("workers", env.Workers))
	defer func(start time.Time) {
		log.Info("Rendering completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	p := NewProcessor(Options{
		Modes:   env.Modes,
		Strict:  env.Strict,
		Verify:  env.Cfg.Rendering.Verify,
		Workers: env.Workers,
	}, env.Rpt, log)

	stats, err := p.Process(ctx, pages)
	failed := 0
	for _, s := range stats {
		failed += s.Failed
	}
	if failed > 0 {
		log.Warn("Some pages were not rendered, see errors above", zap.Int("failed", failed))
	}
	return err
}

// RunPage renders single page record and prints result without modifying
// the record, "page" command action.
func RunPage(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no page record has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	mode, err := common.ParseDisplayMode(cmd.String("mode"))
	if err != nil {
		return fmt.Errorf("unknown display mode requested: %w", err)
	}

	rec, pf, err := LoadSource(ctx, src)
	if err != nil {
		return err
	}

	p := NewProcessor(Options{
		Modes:  []common.DisplayMode{mode},
		Strict: cmd.Bool("strict") || env.Cfg.Rendering.Strict,
		Verify: env.Cfg.Rendering.Verify,
	}, env.Rpt, log)

	html, err := p.RenderRecord(ctx, rec, pf, mode)
	if err != nil {
		return fmt.Errorf("unable to render page %s: %w", pf, err)
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	if _, err := fmt.Fprintln(out, html); err != nil {
		return fmt.Errorf("unable to write page: %w", err)
	}
	return nil
}
