// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package procgroup starts external tools in their own process group so that a
// timeout can reap the tool together with any helpers it spawned (yt-dlp runs
// ffmpeg for merging).
package procgroup

import "time"

// DefaultGrace is how long Terminate waits after SIGTERM before escalating.
const DefaultGrace = 2 * time.Second
