// SPDX-License-Identifier: MIT

//go:build !windows

package site

import (
	"context"
	"fmt"

	"github.com/google/renameio/v2"

	xlog "github.com/mehdiaitsaid/owasp-top-10-labs/internal/log"
)

// WriteFile encodes d to path atomically: readers see either the previous
// file or the complete new one, never a partial write.
func WriteFile(ctx context.Context, path string, d *Descriptor, format Format) error {
	logger := xlog.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending descriptor file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending descriptor file")
		}
	}()

	if err := Encode(pendingFile, d, format); err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}

	// fsync + rename
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace descriptor file: %w", err)
	}

	logger.Debug().
		Str(xlog.FieldEvent, "site.file_written").
		Str(xlog.FieldPath, path).
		Str(xlog.FieldFormat, string(format)).
		Msg("descriptor written")
	return nil
}
