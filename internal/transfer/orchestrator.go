// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package transfer streams an acquired artifact to an HTTP client and
// releases it exactly once, whatever way the stream ends.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/ManuGH/xgfetch/internal/domain/media"
	xglog "github.com/ManuGH/xgfetch/internal/log"
	"github.com/ManuGH/xgfetch/internal/metrics"
	"github.com/ManuGH/xgfetch/internal/telemetry"
)

const defaultBufferSize = 32 << 10

// Artifact is the part of an acquisition handle the orchestrator needs.
type Artifact interface {
	Path() string
	Release()
}

// TransferError reports a failed stream. Committed is true once response
// bytes may have reached the client; such errors can only be logged.
type TransferError struct {
	Committed bool
	Written   int64
	Err       error
}

func (e *TransferError) Error() string {
	state := "before response"
	if e.Committed {
		state = fmt.Sprintf("after %d bytes", e.Written)
	}
	return fmt.Sprintf("transfer failed %s: %v", state, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Orchestrator streams artifacts with a pooled fixed-size buffer.
type Orchestrator struct {
	pool sync.Pool
}

func NewOrchestrator() *Orchestrator {
	return NewOrchestratorWithBuffer(defaultBufferSize)
}

// NewOrchestratorWithBuffer sets the copy buffer size in bytes.
func NewOrchestratorWithBuffer(size int) *Orchestrator {
	if size <= 0 {
		size = defaultBufferSize
	}
	o := &Orchestrator{}
	o.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return o
}

// Transfer writes the artifact behind a to w as an attachment named after
// title. a is released before Transfer returns, on every path including panics
// raised by w.
func (o *Orchestrator) Transfer(ctx context.Context, a Artifact, w http.ResponseWriter, title string, format media.Format) (err error) {
	defer a.Release()

	ctx, span := telemetry.Tracer("xgfetch.transfer").Start(ctx, "xgfetch.transfer")
	defer span.End()
	span.SetAttributes(telemetry.MediaAttributes(string(format), "")...)
	logger := xglog.WithComponentFromContext(ctx, "transfer")

	sink := &commitWriter{w: w}
	var size int64
	start := time.Now()
	defer func() {
		outcome := "complete"
		var te *TransferError
		if errors.As(err, &te) {
			outcome = "failed_uncommitted"
			if te.Committed {
				outcome = "aborted"
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		metrics.IncTransfer(string(format), outcome)
		metrics.AddTransferBytes(sink.written)
		span.SetAttributes(telemetry.TransferAttributes(sink.written, size)...)
	}()

	f, err := os.Open(a.Path())
	if err != nil {
		return &TransferError{Err: fmt.Errorf("open artifact: %w", err)}
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return &TransferError{Err: fmt.Errorf("stat artifact: %w", err)}
	}
	size = info.Size()
	name := SanitizeFilename(title, format)

	h := w.Header()
	h.Set("Content-Disposition", `attachment; filename="`+name+`"`)
	h.Set("Content-Type", format.ContentType())
	h.Set("Content-Length", strconv.FormatInt(size, 10))

	bufp := o.pool.Get().(*[]byte)
	defer o.pool.Put(bufp)

	// io.LimitReader hides *os.File's WriterTo so the copy goes through buf.
	n, copyErr := io.CopyBuffer(sink, io.LimitReader(f, size), *bufp)
	switch {
	case copyErr != nil:
		if !sink.committed {
			clearAttachmentHeaders(h)
		}
		return &TransferError{Committed: sink.committed, Written: sink.written, Err: copyErr}
	case n != size:
		return &TransferError{Committed: sink.committed, Written: sink.written,
			Err: fmt.Errorf("short transfer: wrote %d of %d bytes", n, size)}
	}

	logger.Info().
		Str(xglog.FieldEvent, "transfer.complete").
		Str(xglog.FieldFormat, string(format)).
		Int64(xglog.FieldSize, size).
		Dur(xglog.FieldDuration, time.Since(start)).
		Msg("artifact transferred")
	return nil
}

// clearAttachmentHeaders drops the attachment metadata so an error envelope
// can still be written.
func clearAttachmentHeaders(h http.Header) {
	h.Del("Content-Disposition")
	h.Del("Content-Type")
	h.Del("Content-Length")
}

// commitWriter tracks whether the response has been committed. net/http sends
// the status line and headers on the first Write, so any Write attempt commits.
type commitWriter struct {
	w         io.Writer
	committed bool
	written   int64
}

func (c *commitWriter) Write(p []byte) (int, error) {
	c.committed = true
	n, err := c.w.Write(p)
	c.written += int64(n)
	return n, err
}
