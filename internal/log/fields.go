// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID  = "request_id"
	FieldArtifactID = "artifact_id"
	FieldVideoID    = "video_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldMode      = "mode"
	FieldKind      = "kind"
	FieldPID       = "pid"

	// Media fields
	FieldFormat    = "format"
	FieldQuality   = "quality"
	FieldVariantID = "variant_id"
	FieldSize      = "size_bytes"

	// Path / URL fields
	FieldPath = "path"
	FieldURL  = "url"

	// HTTP fields
	FieldMethod   = "method"
	FieldRoute    = "route"
	FieldStatus   = "status"
	FieldBytes    = "bytes"
	FieldDuration = "duration"
)
