// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package transfer

import (
	"regexp"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ManuGH/xgfetch/internal/domain/media"
)

const (
	maxFilenameStem = 100
	defaultStem     = "video"
)

// spaceClass covers Unicode spaces and the BOM in addition to ASCII whitespace.
const spaceClass = `\s\v\p{Z}\x{FEFF}`

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_` + spaceClass + `-]`)
	whitespace  = regexp.MustCompile(`[` + spaceClass + `]+`)
)

// SanitizeFilename turns a media title into an ASCII attachment filename:
// accents are folded ("Vídeo" -> "Video"), everything outside word, space and
// hyphen characters is dropped, whitespace runs become one underscore, the
// stem is capped at 100 characters and the format's extension is appended.
func SanitizeFilename(title string, format media.Format) string {
	return sanitizeStem(title) + "." + format.Ext()
}

func sanitizeStem(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	stem := unsafeChars.ReplaceAllString(folded, "")
	stem = whitespace.ReplaceAllString(stem, "_")
	if len(stem) > maxFilenameStem {
		stem = stem[:maxFilenameStem]
	}
	if stem == "" {
		return defaultStem
	}
	return stem
}
