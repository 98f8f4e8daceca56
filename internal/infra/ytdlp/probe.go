// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ytdlp

import (
	"encoding/json"
	"fmt"

	"github.com/ManuGH/xgfetch/internal/domain/media"
)

// probeData mirrors the subset of `yt-dlp --dump-json` we consume.
// Numeric fields are pointers because the extractor emits null for unknown values.
type probeData struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Duration  *float64      `json:"duration"`
	Thumbnail string        `json:"thumbnail"`
	Formats   []probeFormat `json:"formats"`
}

type probeFormat struct {
	FormatID       string   `json:"format_id"`
	VCodec         string   `json:"vcodec"`
	ACodec         string   `json:"acodec"`
	Height         *float64 `json:"height"`
	TBR            *float64 `json:"tbr"`
	ABR            *float64 `json:"abr"`
	Ext            string   `json:"ext"`
	Filesize       *float64 `json:"filesize"`
	FilesizeApprox *float64 `json:"filesize_approx"`
}

func parseProbe(out []byte) (*media.ProbeResult, error) {
	var data probeData
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, fmt.Errorf("decode probe output: %w", err)
	}

	res := &media.ProbeResult{
		ID:        data.ID,
		Title:     data.Title,
		Duration:  positive(data.Duration),
		Thumbnail: data.Thumbnail,
		Variants:  make([]media.RawVariant, 0, len(data.Formats)),
	}
	for _, f := range data.Formats {
		size := int64(positive(f.Filesize))
		if size == 0 {
			size = int64(positive(f.FilesizeApprox))
		}
		res.Variants = append(res.Variants, media.RawVariant{
			ID:           f.FormatID,
			VideoCodec:   f.VCodec,
			AudioCodec:   f.ACodec,
			Height:       int(positive(f.Height)),
			Bitrate:      positive(f.TBR),
			AudioBitrate: positive(f.ABR),
			Ext:          f.Ext,
			Size:         size,
		})
	}
	return res, nil
}

// positive maps null and non-positive values to 0.
func positive(v *float64) float64 {
	if v == nil || *v <= 0 {
		return 0
	}
	return *v
}
