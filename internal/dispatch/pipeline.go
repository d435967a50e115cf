// Package dispatch runs the fixed sequence of side effects a harness
// invocation performs: log the received flags, optionally fail, optionally
// evaluate, write the named and generic outputs, then confirm.
//
// Steps run in order and never roll back. Files written by a step stay on disk
// when a later step faults.
package dispatch

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"dummymodule/internal/expr"
	"dummymodule/internal/fault"
	"dummymodule/internal/flagmap"
	"dummymodule/internal/input"
	"dummymodule/internal/logging"
	"dummymodule/internal/metrics"
)

// Step names, used as log fields and metric labels.
const (
	StepLogFlags      = "log_flags"
	StepFail          = "fail"
	StepEvaluate      = "evaluate"
	StepNamedOutput   = "named_output"
	StepGenericOutput = "generic_output"
	StepOK            = "ok"
)

// Artifact names.
const (
	ArtifactCLI     = "cli"
	ArtifactNamed   = "named"
	ArtifactGeneric = "generic"
)

// CLIFile is the flag log written on every run.
const CLIFile = "cli.txt"

// NamedSuffix is appended to --name to form the named artifact's file name.
const NamedSuffix = "_data.json"

// Outcome is what a completed run produced.
type Outcome struct {
	Payload   *big.Int // nil when --evaluate was not given
	OK        bool     // --ok was given; the caller should confirm and exit 0
	Artifacts []string // paths written, in order
}

// Pipeline executes requests.
type Pipeline struct {
	evaluator *expr.Evaluator
	resolver  *input.Resolver
	metrics   *metrics.Collector
	logger    *zap.Logger
}

// New creates a Pipeline. A nil evaluator uses the default limits, a nil
// resolver reads from disk and a nil collector records into a throwaway
// registry.
func New(evaluator *expr.Evaluator, resolver *input.Resolver, collector *metrics.Collector, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if evaluator == nil {
		evaluator = expr.New(expr.DefaultLimits(), logging.For(logger, logging.CategoryEval))
	}
	if resolver == nil {
		resolver = input.NewResolver(logging.For(logger, logging.CategoryInput))
	}
	if collector == nil {
		collector = metrics.NewCollector("dummymodule", logging.For(logger, logging.CategoryMetrics))
	}
	return &Pipeline{
		evaluator: evaluator,
		resolver:  resolver,
		metrics:   collector,
		logger:    logging.For(logger, logging.CategoryDispatch),
	}
}

// Run executes every step for flags. The returned Outcome lists the
// artifacts written so far even when err is non-nil.
func (p *Pipeline) Run(ctx context.Context, flags *flagmap.Map) (Outcome, error) {
	start := time.Now()
	out, err := p.run(ctx, NewRequest(flags))
	if err != nil {
		p.metrics.RecordFault(fault.KindOf(err).Label())
	}
	p.metrics.RecordRun(time.Since(start), err == nil)
	return out, err
}

func (p *Pipeline) run(ctx context.Context, req Request) (Outcome, error) {
	var out Outcome
	dir := req.Dir()

	steps := []struct {
		name string
		fn   func() error
	}{
		{StepLogFlags, func() error { return p.logFlags(req, dir, &out) }},
		{StepFail, func() error { return p.injectFailure(req) }},
		{StepEvaluate, func() error { return p.evaluate(req, &out) }},
		{StepNamedOutput, func() error { return p.writeNamed(req, dir, &out) }},
		{StepGenericOutput, func() error { return p.writeGeneric(req, dir, &out) }},
		{StepOK, func() error { out.OK = req.OK.Present(); return nil }},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("run cancelled before %s: %w", s.name, err)
		}
		p.metrics.RecordStep(s.name)
		if err := s.fn(); err != nil {
			p.logger.Debug("step failed", zap.String(logging.FieldStep, s.name), zap.Error(err))
			return out, err
		}
	}
	return out, nil
}

// logFlags creates the output directory and writes cli.txt.
func (p *Pipeline) logFlags(req Request, dir string, out *Outcome) error {
	p.logger.Info("handling", zap.String("out_dir", dir), zap.Int("flags", req.Flags.Len()))
	for _, e := range req.Flags.Entries() {
		v, ok := e.Value.Get()
		p.logger.Debug("parsed argument",
			zap.String("flag", e.Name),
			zap.Bool("has_value", ok),
			zap.String("value", v),
		)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	var sb strings.Builder
	for _, line := range req.Flags.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return p.write(out, ArtifactCLI, filepath.Join(dir, CLIFile), []byte(sb.String()))
}

func (p *Pipeline) injectFailure(req Request) error {
	if req.Fail.Present() {
		return fault.Injected()
	}
	return nil
}

// evaluate resolves the input value, then evaluates the expression.
func (p *Pipeline) evaluate(req Request, out *Outcome) error {
	if !req.Evaluate.Present() {
		return nil
	}
	value, err := p.resolver.Resolve(req.Flags)
	if err != nil {
		return err
	}

	exprStr := req.Evaluate.Ptr()
	if exprStr != nil {
		p.logger.Info("evaluating", zap.String("expr", *exprStr), zap.String("input", value))
	}
	payload, err := p.evaluator.Evaluate(exprStr, value)
	if err != nil {
		return err
	}
	p.logger.Info("result", zap.String("value", payload.String()))
	out.Payload = payload
	return nil
}

func (p *Pipeline) writeNamed(req Request, dir string, out *Outcome) error {
	name, ok := req.Name.Get()
	if !ok {
		return nil
	}
	path := filepath.Join(dir, name+NamedSuffix)
	return p.write(out, ArtifactNamed, path, NamedContent(out.Payload))
}

func (p *Pipeline) writeGeneric(req Request, dir string, out *Outcome) error {
	target, ok := req.Output.Get()
	if !ok {
		return nil
	}
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, target)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return p.write(out, ArtifactGeneric, path, GenericContent(out.Payload))
}

// write truncates and writes path, then records the artifact.
func (p *Pipeline) write(out *Outcome, artifact, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	out.Artifacts = append(out.Artifacts, path)
	p.metrics.RecordArtifact(artifact, len(data))
	logging.ArtifactWritten(p.logger, artifact, path, len(data))
	return nil
}
