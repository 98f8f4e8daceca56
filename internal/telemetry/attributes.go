// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Extractor attributes
	ExtractorModeKey    = "extractor.mode"
	ExtractorOutcomeKey = "extractor.outcome"
	ExtractorPIDKey     = "extractor.pid"

	// Media attributes
	MediaFormatKey  = "media.format"
	MediaQualityKey = "media.quality"

	// Transfer attributes
	TransferBytesKey = "transfer.bytes"
	TransferSizeKey  = "transfer.size"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ExtractorAttributes describes one extractor invocation.
func ExtractorAttributes(mode, outcome string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(ExtractorModeKey, mode)}
	if outcome != "" {
		attrs = append(attrs, attribute.String(ExtractorOutcomeKey, outcome))
	}
	return attrs
}

// MediaAttributes describes the requested encoding. Empty values are skipped.
func MediaAttributes(format, quality string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if format != "" {
		attrs = append(attrs, attribute.String(MediaFormatKey, format))
	}
	if quality != "" {
		attrs = append(attrs, attribute.String(MediaQualityKey, quality))
	}
	return attrs
}

// TransferAttributes records how much of an artifact reached the client.
func TransferAttributes(written, size int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64(TransferBytesKey, written),
		attribute.Int64(TransferSizeKey, size),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
