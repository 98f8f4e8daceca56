// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/xgfetch/internal/catalog"
	"github.com/ManuGH/xgfetch/internal/domain/media"
)

// Variant identifiers are internal and never serialized.

type videoQuality struct {
	Quality  string `json:"quality"`
	Height   int    `json:"height"`
	HasAudio bool   `json:"hasAudio"`
	Ext      string `json:"ext"`
	Filesize *int64 `json:"filesize"`
}

type audioQuality struct {
	Quality  string  `json:"quality"`
	ABR      float64 `json:"abr"`
	Ext      string  `json:"ext"`
	Filesize *int64  `json:"filesize"`
}

type qualities struct {
	MP4 []videoQuality `json:"mp4"`
	MP3 []audioQuality `json:"mp3"`
}

type videoInfo struct {
	VideoID   string    `json:"videoId"`
	Title     string    `json:"title"`
	Duration  float64   `json:"duration"`
	Thumbnail string    `json:"thumbnail"`
	Qualities qualities `json:"qualities"`
}

type infoResponse struct {
	Success bool      `json:"success"`
	Data    videoInfo `json:"data"`
}

func toVideoInfo(p *media.ProbeResult, c catalog.Catalog) videoInfo {
	q := qualities{
		MP4: make([]videoQuality, 0, len(c.Video)),
		MP3: make([]audioQuality, 0, len(c.Audio)),
	}
	for _, e := range c.Video {
		q.MP4 = append(q.MP4, videoQuality{
			Quality:  e.Quality,
			Height:   e.Height,
			HasAudio: e.HasAudio,
			Ext:      e.Ext,
			Filesize: e.Size,
		})
	}
	for _, e := range c.Audio {
		q.MP3 = append(q.MP3, audioQuality{
			Quality:  e.Quality,
			ABR:      e.Bitrate,
			Ext:      e.Ext,
			Filesize: e.Size,
		})
	}
	return videoInfo{
		VideoID:   p.ID,
		Title:     p.Title,
		Duration:  p.Duration,
		Thumbnail: p.Thumbnail,
		Qualities: q,
	}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
