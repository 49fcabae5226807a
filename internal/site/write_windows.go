// SPDX-License-Identifier: MIT

//go:build windows

package site

import (
	"context"
	"fmt"
	"os"
)

// WriteFile encodes d to path. renameio has no atomic replace on Windows.
func WriteFile(_ context.Context, path string, d *Descriptor, format Format) error {
	data, err := Marshal(d, format)
	if err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}
	// #nosec G306 -- the descriptor is public site configuration
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write descriptor file: %w", err)
	}
	return nil
}
