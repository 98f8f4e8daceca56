// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package catalog

import (
	"math"
	"sort"
	"strconv"

	"github.com/ManuGH/xgfetch/internal/domain/media"
)

// Resolve builds the catalog for a probe result. It is pure: the same input
// always yields the same output, independent of map ordering.
//
// Video variants are bucketed by height; audio-only variants by rounded
// effective bitrate. Within a bucket the variant with the highest bitrate
// wins and ties keep the one seen first.
func Resolve(p *media.ProbeResult) Catalog {
	if p == nil {
		return Catalog{}
	}

	var video, audio buckets
	for _, v := range p.Variants {
		switch {
		case v.HasVideo():
			// Height is what the label is made of; unknown heights cannot be offered.
			if v.Height <= 0 {
				continue
			}
			video.offer(strconv.Itoa(v.Height)+"p", v.Bitrate, QualityEntry{
				VariantID: v.ID,
				Height:    v.Height,
				HasAudio:  v.HasAudio(),
				Bitrate:   v.Bitrate,
				Ext:       v.Ext,
				Size:      sizePtr(v.Size),
			})
		case v.AudioOnly():
			eff := effectiveAudioBitrate(v)
			rounded := math.Round(eff)
			audio.offer(strconv.Itoa(int(rounded))+"kbps", eff, QualityEntry{
				VariantID: v.ID,
				Bitrate:   rounded,
				Ext:       v.Ext,
				Size:      sizePtr(v.Size),
			})
		}
	}

	videoEntries := video.entries()
	sort.SliceStable(videoEntries, func(i, j int) bool {
		return videoEntries[i].Height > videoEntries[j].Height
	})

	audioEntries := make([]QualityEntry, 0, len(audio.order))
	for _, e := range audio.entries() {
		if e.Bitrate > 0 {
			audioEntries = append(audioEntries, e)
		}
	}
	sort.SliceStable(audioEntries, func(i, j int) bool {
		return audioEntries[i].Bitrate > audioEntries[j].Bitrate
	})

	return Catalog{Video: videoEntries, Audio: audioEntries}
}

// effectiveAudioBitrate prefers the audio bitrate and falls back to the total bitrate.
func effectiveAudioBitrate(v media.RawVariant) float64 {
	if v.AudioBitrate > 0 {
		return v.AudioBitrate
	}
	if v.Bitrate > 0 {
		return v.Bitrate
	}
	return 0
}

func sizePtr(n int64) *int64 {
	if n <= 0 {
		return nil
	}
	return &n
}

// buckets is an insertion-ordered label -> best entry map.
type buckets struct {
	order []string
	best  map[string]bucket
}

type bucket struct {
	score float64
	entry QualityEntry
}

// offer keeps e for label if the bucket is empty or score beats the current best.
func (b *buckets) offer(label string, score float64, e QualityEntry) {
	if b.best == nil {
		b.best = make(map[string]bucket)
	}
	e.Quality = label
	cur, ok := b.best[label]
	if !ok {
		b.order = append(b.order, label)
		b.best[label] = bucket{score: score, entry: e}
		return
	}
	if score > cur.score {
		b.best[label] = bucket{score: score, entry: e}
	}
}

func (b *buckets) entries() []QualityEntry {
	out := make([]QualityEntry, 0, len(b.order))
	for _, label := range b.order {
		out = append(out, b.best[label].entry)
	}
	return out
}
