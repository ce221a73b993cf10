package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nkongenelly/genologics/internal/cli/config"
	"github.com/nkongenelly/genologics/lims"
)

var verbose bool

// newSession builds a LIMS session from the loaded configuration.
func newSession() (*lims.Lims, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := zap.NewNop()
	if verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("building logger: %w", err)
		}
	}

	return lims.New(cfg.BaseURI, cfg.Username, cfg.Password,
		lims.WithLogger(log),
		lims.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
}
