// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package catalog turns the raw variant list reported by the extractor into
// a deduplicated, ranked set of qualities offered to clients.
package catalog

import (
	"github.com/ManuGH/xgfetch/internal/domain/media"
)

// QualityEntry is one offered encoding. Values are immutable once resolved.
type QualityEntry struct {
	// Quality is the client-facing label ("720p", "128kbps"), unique per sequence.
	Quality string
	// VariantID is the extractor's variant identifier. Never exposed to clients.
	VariantID string
	// Height is the vertical resolution (video only).
	Height int
	// HasAudio reports whether a video variant is muxed with audio.
	HasAudio bool
	// Bitrate is the total bitrate for video and the rounded effective bitrate for audio, in kbps.
	Bitrate float64
	Ext     string
	// Size is the exact or approximate size in bytes; nil when unknown.
	Size *int64
}

// Catalog is the resolved set of encodings for one resource.
type Catalog struct {
	Video []QualityEntry // height descending
	Audio []QualityEntry // bitrate descending
}

// Entries returns the sequence offered for format.
func (c Catalog) Entries(format media.Format) []QualityEntry {
	if format == media.FormatAudio {
		return c.Audio
	}
	return c.Video
}

// Lookup finds the entry with exactly the given label in the sequence for format.
func (c Catalog) Lookup(format media.Format, quality string) (QualityEntry, bool) {
	for _, e := range c.Entries(format) {
		if e.Quality == quality {
			return e, true
		}
	}
	return QualityEntry{}, false
}
