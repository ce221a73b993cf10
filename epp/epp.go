// Package epp carries reusable helpers for EPP scripts: the automation
// programs the LIMS runs against processes. Scripts are short-lived, run
// unattended, and report through log files the LIMS collects, so the helpers
// here favor logging over aborting.
package epp

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nkongenelly/genologics/lims"
)

// AttachFile copies the file at src into the current directory under the
// name "<entity id>_<basename>". The EPP node uploads files matching that
// pattern automatically when the process output is set up for it. It returns
// the destination path.
func AttachFile(src string, e *lims.Entity) (string, error) {
	dst := filepath.Join(".", e.ID()+"_"+filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening attachment source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating attachment: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("copying attachment: %w", err)
	}
	return dst, nil
}

// UniqueOne requires entities to hold exactly one element and returns it.
// msg names what was being looked for in the error.
func UniqueOne(entities []*lims.Entity, msg string) (*lims.Entity, error) {
	switch len(entities) {
	case 0:
		return nil, &lims.EmptyResultError{What: msg}
	case 1:
		return entities[0], nil
	default:
		return nil, &lims.AmbiguousResultError{What: msg, Count: len(entities)}
	}
}

// SetField saves the entity's pending changes, logging a warning instead of
// failing the script when the remote system rejects the update. The error is
// returned for callers that do want to stop.
func SetField(ctx context.Context, log *zap.Logger, e *lims.Entity) error {
	if err := e.Put(ctx); err != nil {
		log.Warn("error while updating element",
			zap.String("uri", e.URI()),
			zap.Error(err))
		return err
	}
	return nil
}
