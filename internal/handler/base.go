// Package handler maps quote and pool HTTP requests onto the services.
package handler

import "log/slog"

// BaseHandler carries the logger shared by every handler.
type BaseHandler struct {
	logger *slog.Logger
}

func newBaseHandler(logger *slog.Logger, name string) BaseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return BaseHandler{logger: logger.With("handler", name)}
}
