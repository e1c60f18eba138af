package convert

import (
	"context"
	"errors"
	"fmt"
	"path"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"estoria/common"
	"estoria/config"
	"estoria/htmlcheck"
	"estoria/page"
	"estoria/render"
	"estoria/tei"
)

// ErrVerification is returned in strict mode when rendered page fails
// verification.
var ErrVerification = errors.New("rendered page failed verification")

// Options controls corpus rendering.
type Options struct {
	Modes   []common.DisplayMode
	Strict  bool
	Verify  bool
	Workers int
}

// Stats summarizes single pass.
type Stats struct {
	Mode     common.DisplayMode
	Rendered int
	Failed   int
}

// Processor renders page records. Failure of a page is logged and does not
// stop processing of other pages.
type Processor struct {
	opts     Options
	renderer *render.Renderer
	rpt      *config.Report
	log      *zap.Logger
}

func NewProcessor(opts Options, rpt *config.Report, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Processor{
		opts:     opts,
		renderer: render.New(log, opts.Strict),
		rpt:      rpt,
		log:      log,
	}
}

// Process runs one pass per display mode over pages. Passes are sequential
// since all of them rewrite the same records.
func (p *Processor) Process(ctx context.Context, pages []PageFile) ([]Stats, error) {
	stats := make([]Stats, 0, len(p.opts.Modes))
	for _, mode := range p.opts.Modes {
		s, err := p.pass(ctx, mode, pages)
		stats = append(stats, s)
		if err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (p *Processor) pass(ctx context.Context, mode common.DisplayMode, pages []PageFile) (Stats, error) {
	log := p.log.With(zap.Stringer("mode", mode))
	log.Info("Pass starting", zap.Int("pages", len(pages)))

	var rendered, failed atomic.Int64
	defer func(start time.Time) {
		log.Info("Pass completed",
			zap.Int64("rendered", rendered.Load()), zap.Int64("failed", failed.Load()), zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for _, pf := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := p.ProcessPage(gctx, pf, mode); err != nil {
				failed.Add(1)
				log.Error("Unable to render page", zap.String("siglum", pf.Siglum), zap.String("page", pf.Page), zap.Error(err))
				return nil
			}
			rendered.Add(1)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return Stats{Mode: mode, Rendered: int(rendered.Load()), Failed: int(failed.Load())}, err
}

// ProcessPage renders single page record for display mode and writes result
// back into the record.
func (p *Processor) ProcessPage(ctx context.Context, pf PageFile, mode common.DisplayMode) (rerr error) {
	log := p.log.With(zap.String("siglum", pf.Siglum), zap.String("page", pf.Page), zap.Stringer("mode", mode))

	defer func() {
		// one broken page should not take whole corpus down
		if r := recover(); r != nil {
			log.Error("Rendering ended with panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("rendering panic: %v", r)
		}
	}()

	rec, err := page.Load(pf.Path)
	if err != nil {
		return err
	}

	html, err := p.RenderRecord(ctx, rec, pf, mode)
	if err != nil {
		return err
	}

	if err := rec.SetHTML(mode, html); err != nil {
		return err
	}
	if err := rec.Save(pf.Path); err != nil {
		return err
	}

	if p.rpt != nil {
		name := slug.Make(pf.Siglum + "-" + pf.Page)
		p.rpt.StoreData(path.Join("html", mode.String(), name+".html"), []byte(html))
		p.rpt.StoreData(path.Join("tree", mode.String(), name+".txt"), []byte(cleanedTree(rec.Text(), mode)))
	}
	log.Debug("Page rendered", zap.Int("bytes", len(html)))
	return nil
}

// cleanedTree shows page tree the way renderer sees it.
func cleanedTree(markup string, mode common.DisplayMode) string {
	doc, err := tei.Parse(markup)
	if err != nil {
		return err.Error()
	}
	cleaned, err := tei.Clean(doc, mode, false)
	if err != nil {
		return err.Error()
	}
	return cleaned.String()
}

// RenderRecord renders markup of the record and verifies result when
// requested. Records without markup are malformed pages and stay untouched.
func (p *Processor) RenderRecord(ctx context.Context, rec *page.Record, pf PageFile, mode common.DisplayMode) (string, error) {
	html, err := p.renderer.Render(ctx, render.Page{Siglum: pf.Siglum, ID: pf.Page, Markup: rec.Text()}, mode)
	if err != nil {
		return "", err
	}

	if p.opts.Verify {
		if rpt := htmlcheck.Check(html); !rpt.OK() {
			p.log.Error("Rendered page failed verification",
				zap.String("siglum", pf.Siglum), zap.String("page", pf.Page), zap.Stringer("mode", mode), zap.Error(rpt.Err()))
			if p.opts.Strict {
				return "", fmt.Errorf("%w: %w", ErrVerification, rpt.Err())
			}
		}
	}
	return html, nil
}
