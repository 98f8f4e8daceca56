// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package transfer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuGH/xgfetch/internal/domain/media"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		format media.Format
		want   string
	}{
		{"accents and punctuation", "Zé's <Amazing> Vídeo!! ", media.FormatVideo, "Zes_Amazing_Video_.mp4"},
		{"audio extension", "Lo-Fi Beats", media.FormatAudio, "Lo-Fi_Beats.m4a"},
		{"whitespace runs", "a \t\n  b", media.FormatVideo, "a_b.mp4"},
		{"empty title", "", media.FormatVideo, "video.mp4"},
		{"only symbols", "!!!???", media.FormatAudio, "video.m4a"},
		{"non latin script", "日本語のタイトル", media.FormatVideo, "video.mp4"},
		{"no-break space", "Rock\u00a0Anthem", media.FormatVideo, "Rock_Anthem.mp4"},
		{"ideographic and narrow spaces", "Live\u3000at\u202fNight", media.FormatAudio, "Live_at_Night.m4a"},
		{"vertical tab and bom", "a\vb\ufeffc", media.FormatVideo, "a_b_c.mp4"},
		{"underscores kept", "snake_case-title", media.FormatVideo, "snake_case-title.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.title, tt.format))
		})
	}
}

func TestSanitizeFilename_SafeShape(t *testing.T) {
	got := SanitizeFilename("Zé's <Amazing> Vídeo!! ", media.FormatVideo)
	assert.Regexp(t, `^[\w-]+\.mp4$`, got)
	assert.LessOrEqual(t, len(got), 104)
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, "'")
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("x", 250), media.FormatVideo)
	assert.Equal(t, strings.Repeat("x", 100)+".mp4", got)
}
