package main

import (
	"encoding/json"
	"fmt"
	"io"

	"address-validator/internal/app"
	"address-validator/internal/common/config"
	"address-validator/internal/common/logger"
)

// withApp loads config and builds the resolver handlers, then calls fn.
func withApp(fn func(*app.App) error) error {
	var (
		cfg *config.Config
		err error
	)
	if globalConfigPath != "" {
		cfg, err = config.LoadFromFile(globalConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if globalNoLog {
		cfg.Features.ServerSideLogging = false
	}
	// The CLI never touches session state.
	cfg.Session.Enabled = false

	level := "warn"
	if globalVerbose {
		level = "debug"
	}
	log := logger.NewStructured(level, "console")

	a, err := app.New(cfg, log, nil)
	if err != nil {
		return fmt.Errorf("building dependencies: %w", err)
	}
	defer a.Close()

	return fn(a)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
