package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production emits JSON for log
// shippers; everything else gets the readable text handler. Every line
// carries the service attribute so the register and the worker can
// share one log stream.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler
	if cfg != nil && (cfg.LogFormat == "json" || cfg.IsProduction()) {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "salepoint"))
}
