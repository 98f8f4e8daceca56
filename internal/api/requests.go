// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/ManuGH/xgfetch/internal/domain/media"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 64 << 10

var youtubeURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(https?://)?(www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`^(https?://)?(www\.)?youtube\.com/shorts/[\w-]+`),
	regexp.MustCompile(`^(https?://)?youtu\.be/[\w-]+`),
	regexp.MustCompile(`^(https?://)?(www\.)?youtube\.com/embed/[\w-]+`),
	regexp.MustCompile(`^(https?://)?m\.youtube\.com/watch\?v=[\w-]+`),
}

// Wire format labels mapped to domain formats.
var wireFormats = map[string]media.Format{
	"mp4": media.FormatVideo,
	"mp3": media.FormatAudio,
}

var (
	errURLRequired     = errors.New("url is required")
	errURLInvalid      = errors.New("invalid url: provide a valid YouTube video URL")
	errFormatInvalid   = errors.New("invalid format: use one of mp4, mp3")
	errQualityRequired = errors.New("quality is required")
)

type infoRequest struct {
	URL string `json:"url"`
}

type downloadRequest struct {
	URL     string `json:"url"`
	Format  string `json:"format"`
	Quality string `json:"quality"`
}

func isYouTubeURL(raw string) bool {
	for _, p := range youtubeURLPatterns {
		if p.MatchString(raw) {
			return true
		}
	}
	return false
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errURLRequired
	}
	if !isYouTubeURL(raw) {
		return errURLInvalid
	}
	return nil
}

func (req infoRequest) validate() error {
	return validateURL(req.URL)
}

// validate checks the request shape and returns the domain format.
func (req downloadRequest) validate() (media.Format, error) {
	if err := validateURL(req.URL); err != nil {
		return "", err
	}
	format, ok := wireFormats[req.Format]
	if !ok {
		return "", errFormatInvalid
	}
	if strings.TrimSpace(req.Quality) == "" {
		return "", errQualityRequired
	}
	return format, nil
}

// decodeJSON reads a bounded JSON body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.New("invalid request body")
	}
	return nil
}
