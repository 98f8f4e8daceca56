// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package ytdlp adapts the yt-dlp command line tool to the media.Invoker port.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/xgfetch/internal/domain/media"
	xglog "github.com/ManuGH/xgfetch/internal/log"
	"github.com/ManuGH/xgfetch/internal/metrics"
	"github.com/ManuGH/xgfetch/internal/procgroup"
	"github.com/ManuGH/xgfetch/internal/telemetry"
)

const (
	modeProbe = "probe"
	modeFetch = "fetch"

	// DefaultUserAgent is sent on every extractor call.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	DefaultRetries        = 3
	DefaultFetchTimeout   = 5 * time.Minute
	DefaultMaxOutputBytes = 10 << 20
	defaultStderrTail     = 4096
)

// unavailableMarkers identify extractor failures caused by the source itself.
var unavailableMarkers = []string{
	"Video unavailable",
	"is not available",
	"Private video",
	"This video has been removed",
}

// Config controls how the extractor is invoked.
type Config struct {
	// Bin is the yt-dlp executable (path or PATH name).
	Bin string
	// UserAgent is passed via --user-agent.
	UserAgent string
	// Retries is passed via --retries.
	Retries int
	// CheckCertificates drops --no-check-certificates when true.
	CheckCertificates bool
	// FetchTimeout bounds the wall-clock time of one fetch.
	FetchTimeout time.Duration
	// MaxOutputBytes caps captured stdout.
	MaxOutputBytes int64
	// StderrTail is how many trailing stderr bytes are kept for diagnostics.
	StderrTail int
	// KillGrace is the SIGTERM to SIGKILL escalation delay.
	KillGrace time.Duration
}

// DefaultConfig returns the resilience profile used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Bin:            "yt-dlp",
		UserAgent:      DefaultUserAgent,
		Retries:        DefaultRetries,
		FetchTimeout:   DefaultFetchTimeout,
		MaxOutputBytes: DefaultMaxOutputBytes,
		StderrTail:     defaultStderrTail,
		KillGrace:      procgroup.DefaultGrace,
	}
}

// Invoker runs yt-dlp as a subprocess. It is safe for concurrent use.
type Invoker struct {
	cfg Config
}

var _ media.Invoker = (*Invoker)(nil)

// New returns an Invoker. Zero fields in cfg fall back to DefaultConfig.
func New(cfg Config) *Invoker {
	def := DefaultConfig()
	if cfg.Bin == "" {
		cfg.Bin = def.Bin
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Retries < 0 {
		cfg.Retries = def.Retries
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.MaxOutputBytes <= 0 {
		cfg.MaxOutputBytes = def.MaxOutputBytes
	}
	if cfg.StderrTail <= 0 {
		cfg.StderrTail = def.StderrTail
	}
	if cfg.KillGrace <= 0 {
		cfg.KillGrace = def.KillGrace
	}
	return &Invoker{cfg: cfg}
}

// Probe runs the extractor in metadata mode. It follows ctx: a cancelled
// request stops the probe.
func (i *Invoker) Probe(ctx context.Context, url string) (*media.ProbeResult, error) {
	args := append(i.commonArgs(), "--dump-json", "--no-download", "--no-warnings", url)

	var res *media.ProbeResult
	err := i.run(ctx, modeProbe, args, func(out []byte) error {
		var perr error
		res, perr = parseProbe(out)
		return perr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Fetch runs the extractor in download mode. The fetch is detached from
// ctx cancellation and bounded by the configured timeout instead, so a
// client disconnect never leaves a half-written artifact behind a live process.
func (i *Invoker) Fetch(ctx context.Context, url string, req media.FetchRequest) error {
	if req.FormatSpec == "" || req.Destination == "" {
		return fmt.Errorf("ytdlp: fetch requires a format spec and a destination")
	}

	args := append(i.commonArgs(),
		"-f", req.FormatSpec,
		"-o", req.Destination,
		"--no-warnings",
		"--no-part",
		"--no-playlist",
	)
	if req.MergeContainer != "" {
		args = append(args, "--merge-output-format", req.MergeContainer)
	}
	args = append(args, url)

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), i.cfg.FetchTimeout)
	defer cancel()

	return i.run(fetchCtx, modeFetch, args, nil)
}

func (i *Invoker) commonArgs() []string {
	args := []string{
		"--user-agent", i.cfg.UserAgent,
		"--retries", strconv.Itoa(i.cfg.Retries),
	}
	if !i.cfg.CheckCertificates {
		args = append(args, "--no-check-certificates")
	}
	return args
}

// run starts the extractor in its own process group, waits for it or for
// ctx, classifies the outcome and hands captured stdout to decode on success.
func (i *Invoker) run(ctx context.Context, mode string, args []string, decode func([]byte) error) error {
	ctx, span := telemetry.Tracer("xgfetch.ytdlp").Start(ctx, "xgfetch.ytdlp."+mode,
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	logger := xglog.WithComponentFromContext(ctx, "ytdlp")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stdout := newCappedBuffer(i.cfg.MaxOutputBytes, cancel)
	stderr := newTailBuffer(i.cfg.StderrTail)

	// #nosec G204 - binary is operator-configured; args are fixed flags plus an opaque URL
	cmd := exec.Command(i.cfg.Bin, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = i.cfg.KillGrace
	procgroup.Set(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		metrics.ObserveExtractor(mode, string(media.KindProcessFailure), 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &media.ToolError{Kind: media.KindProcessFailure, Mode: mode, Err: fmt.Errorf("start: %w", err)}
	}
	span.SetAttributes(attribute.Int(telemetry.ExtractorPIDKey, cmd.Process.Pid))
	logger.Debug().
		Str(xglog.FieldEvent, "extractor.start").
		Str(xglog.FieldMode, mode).
		Int(xglog.FieldPID, cmd.Process.Pid).
		Msg("extractor started")

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	var waitErr error
	select {
	case waitErr = <-waitCh:
	case <-runCtx.Done():
		waitErr = procgroup.Terminate(cmd, waitCh, i.cfg.KillGrace)
	}
	elapsed := time.Since(start)

	err := classify(ctx, mode, waitErr, stdout.Overflowed(), stderr.String())
	if err == nil && decode != nil {
		if derr := decode(stdout.Bytes()); derr != nil {
			err = &media.ToolError{Kind: media.KindParseFailure, Mode: mode, Stderr: stderr.String(), Err: derr}
		}
	}
	outcome := outcomeOf(err)
	metrics.ObserveExtractor(mode, outcome, elapsed)
	span.SetAttributes(telemetry.ExtractorAttributes(mode, outcome)...)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(telemetry.ErrorAttributes(outcome)...)
		span.SetStatus(codes.Error, outcome)
		ev := logger.Warn()
		if outcome == "unavailable" {
			ev = logger.Info()
		}
		ev.Err(err).
			Str(xglog.FieldEvent, "extractor.failed").
			Str(xglog.FieldMode, mode).
			Str(xglog.FieldKind, outcome).
			Dur(xglog.FieldDuration, elapsed).
			Msg("extractor invocation failed")
		return err
	}

	logger.Debug().
		Str(xglog.FieldEvent, "extractor.done").
		Str(xglog.FieldMode, mode).
		Dur(xglog.FieldDuration, elapsed).
		Msg("extractor finished")
	return nil
}

// classify maps a finished invocation to the error taxonomy. ctx is the
// invocation context (not the overflow-cancel child). A clean exit wins over
// a deadline that expired while the process was finishing. Only probe
// failures are attributed to the source: in fetch mode the same markers also
// match "Requested format is not available", which is a tool failure.
func classify(ctx context.Context, mode string, waitErr error, overflowed bool, stderr string) error {
	if overflowed {
		return &media.ToolError{Kind: media.KindBufferOverflow, Mode: mode, Stderr: stderr,
			Err: errors.New("stdout exceeded capture limit")}
	}
	if waitErr == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return &media.ToolError{Kind: media.KindTimeout, Mode: mode, Stderr: stderr, Err: ctxErr}
		}
		return &media.ToolError{Kind: media.KindProcessFailure, Mode: mode, Stderr: stderr, Err: ctxErr}
	}
	if mode == modeProbe && isUnavailable(stderr) {
		return fmt.Errorf("%w: %s", media.ErrResourceUnavailable, firstLine(stderr))
	}
	return &media.ToolError{Kind: media.KindProcessFailure, Mode: mode, Stderr: stderr, Err: waitErr}
}

func isUnavailable(stderr string) bool {
	for _, m := range unavailableMarkers {
		if strings.Contains(stderr, m) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	if errors.Is(err, media.ErrResourceUnavailable) {
		return "unavailable"
	}
	var te *media.ToolError
	if errors.As(err, &te) {
		return string(te.Kind)
	}
	return "error"
}
