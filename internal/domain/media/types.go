// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package media holds the domain model shared by the extractor adapter, the
// catalog resolver and the acquisition pipeline.
package media

// codecNone is the sentinel the extractor reports for an absent stream.
const codecNone = "none"

// Format is the kind of encoding a client asks for.
type Format string

const (
	FormatVideo Format = "video"
	FormatAudio Format = "audio"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == FormatVideo || f == FormatAudio
}

// Ext returns the container extension used for artifacts of this format.
func (f Format) Ext() string {
	if f == FormatAudio {
		return "m4a"
	}
	return "mp4"
}

// ContentType returns the Content-Type label the delivery layer uses for f.
// It labels the download, it does not describe the container codec.
func (f Format) ContentType() string {
	if f == FormatAudio {
		return "audio/mpeg"
	}
	return "video/mp4"
}

// ProbeResult is the metadata a single probe call returns.
type ProbeResult struct {
	ID        string
	Title     string
	Duration  float64 // seconds, 0 when unknown
	Thumbnail string
	Variants  []RawVariant
}

// RawVariant is one encoding as reported by the extractor.
type RawVariant struct {
	ID           string
	VideoCodec   string
	AudioCodec   string
	Height       int     // 0 when unknown
	Bitrate      float64 // total bitrate in kbps, 0 when unknown
	AudioBitrate float64 // audio bitrate in kbps, 0 when unknown
	Ext          string
	Size         int64 // bytes, exact or approximate, 0 when unknown
}

// HasVideo reports whether the variant carries a video stream.
func (v RawVariant) HasVideo() bool {
	return v.VideoCodec != "" && v.VideoCodec != codecNone
}

// HasAudio reports whether the variant carries an audio stream.
func (v RawVariant) HasAudio() bool {
	return v.AudioCodec != "" && v.AudioCodec != codecNone
}

// AudioOnly reports whether the variant carries audio and no video.
func (v RawVariant) AudioOnly() bool {
	return v.HasAudio() && !v.HasVideo()
}

// FetchRequest describes one materialization of a chosen encoding.
type FetchRequest struct {
	// FormatSpec is the extractor format selector, e.g. "137+bestaudio/137/best".
	FormatSpec string
	// Destination is the absolute path the extractor writes to.
	Destination string
	// MergeContainer forces the post-merge container ("" leaves the extractor default).
	MergeContainer string
}
