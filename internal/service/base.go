// Package service holds the quoting and reserve-sync logic behind the HTTP
// handlers.
package service

import "log/slog"

// BaseService carries the logger shared by every service.
type BaseService struct {
	logger *slog.Logger
}

// newBaseService tags logger with the service name. A nil logger falls back
// to slog.Default.
func newBaseService(logger *slog.Logger, name string) BaseService {
	if logger == nil {
		logger = slog.Default()
	}
	return BaseService{logger: logger.With("service", name)}
}
