package fault

import (
	"errors"

	"github.com/planforge/planforge/internal/logger"
)

// Generic message surfaced for server-class failures so internal detail
// never leaks to callers.
const serverMessage = "internal error"

// Mapper translates any error into a (category, message) pair for the
// system boundary. Server-class failures are logged with full detail and
// surfaced as a generic message; every other category surfaces unmodified.
type Mapper struct {
	log *logger.Logger
}

// NewMapper creates a boundary mapper. A nil logger falls back to the
// package default.
func NewMapper(log *logger.Logger) *Mapper {
	if log == nil {
		log = logger.Default()
	}
	return &Mapper{log: log}
}

// Map classifies err. Untyped errors default to server.
func (m *Mapper) Map(err error) (Category, string) {
	if err == nil {
		return CategoryServer, serverMessage
	}

	var fe *Error
	if !errors.As(err, &fe) {
		m.log.Error("unclassified error: %v", err)
		return CategoryServer, serverMessage
	}

	switch fe.Category {
	case CategoryNotFound, CategoryValidation, CategoryUnavailable:
		return fe.Category, fe.Message
	default:
		m.log.WithField("detail", fe.Error()).Error("server error")
		return CategoryServer, serverMessage
	}
}
