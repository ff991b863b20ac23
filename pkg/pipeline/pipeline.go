// Package pipeline runs a part script end to end: evaluate it, select the
// parts to export and tessellate them.
package pipeline

import (
	"io"
	"log/slog"

	"github.com/mege/idexforge/pkg/config"
	"github.com/mege/idexforge/pkg/engine"
	"github.com/mege/idexforge/pkg/kernel"
	"github.com/mege/idexforge/pkg/kernel/sdfx"
	"github.com/mege/idexforge/pkg/partlist"
	"github.com/mege/idexforge/pkg/tessellate"
)

// Result is everything a viewer or slicer hand-off needs from one run.
type Result struct {
	Meshes      []*kernel.Mesh
	Errors      []engine.EvalError
	ProcessData map[string]any
}

// OK reports whether the run produced no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Pipeline owns the kernel and engine configured from a Config.
type Pipeline struct {
	cfg    *config.Config
	k      kernel.Kernel
	engine *engine.Engine
	logger *slog.Logger
}

// New builds a pipeline from cfg, logging to w. A nil cfg uses
// config.Default().
func New(cfg *config.Config, w io.Writer) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(w)
	k := sdfx.NewWithCells(cfg.MeshCells)
	return &Pipeline{
		cfg:    cfg,
		k:      k,
		engine: engine.NewEngine(k, engine.WithLogger(logger)),
		logger: logger,
	}, nil
}

// Kernel returns the kernel scripts and designs should build on.
func (p *Pipeline) Kernel() kernel.Kernel {
	return p.k
}

// Evaluate runs source and tessellates the parts it registers. Fatal
// failures and script errors are both reported in Result.Errors.
func (p *Pipeline) Evaluate(source string) Result {
	parts, evalErrs, err := p.engine.Evaluate(source)
	if err != nil {
		return p.failed(engine.EvalError{Message: err.Error()})
	}
	if len(evalErrs) > 0 {
		return p.failed(evalErrs...)
	}
	return p.Render(parts)
}

// Render tessellates the exportable entries of parts. In production mode
// context parts are dropped and the rest are oriented for printing.
func (p *Pipeline) Render(parts *partlist.List) Result {
	var opts []tessellate.Option
	if p.cfg.Production {
		opts = append(opts, tessellate.Production())
	}
	entries := parts.ForExport(p.cfg.Production)
	meshes, err := tessellate.Tessellate(entries, p.k, opts...)
	if err != nil {
		p.logger.Error("tessellation failed", "error", err)
		return p.failed(engine.EvalError{Message: "tessellation failed: " + err.Error()})
	}
	p.logger.Info("parts rendered", "parts", len(meshes), "production", p.cfg.Production)
	return Result{
		Meshes:      meshes,
		Errors:      []engine.EvalError{},
		ProcessData: p.cfg.ProcessData(),
	}
}

func (p *Pipeline) failed(errs ...engine.EvalError) Result {
	return Result{
		Meshes:      []*kernel.Mesh{},
		Errors:      errs,
		ProcessData: p.cfg.ProcessData(),
	}
}
