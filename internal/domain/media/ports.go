// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package media

import "context"

// Invoker is the contract for the external extraction tool.
// This interface MUST be implemented by the Infrastructure layer.
type Invoker interface {
	// Probe returns the metadata and raw variant list for url without
	// downloading media bytes.
	Probe(ctx context.Context, url string) (*ProbeResult, error)

	// Fetch writes the encoding selected by req to req.Destination.
	// The caller owns the destination file in every outcome.
	Fetch(ctx context.Context, url string, req FetchRequest) error
}
