package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shawnadoherty9/travelogie-sub001/model"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DATABASE_SVC is registered by whichever of PostgresService or
// SqliteService the process runs with.
const DATABASE_SVC = "database_svc"

type DatabaseService interface {
	Db() *gorm.DB
	HandleError(err error) error
}

// Models are the tables migrated on startup.
func Models() []interface{} {
	return []interface{}{
		&model.RateLimit{},
		&model.RateLimitConfig{},
		&model.City{},
		&model.Category{},
		&model.PointOfInterest{},
	}
}

// classifyDBError maps a gorm or driver error to an AppError and logs it.
func classifyDBError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	case strings.Contains(msg, "duplicate key value violates unique constraint"),
		strings.Contains(msg, "UNIQUE constraint failed"):
		statusCode = http.StatusConflict
		errorType = "UNIQUE_CONSTRAINT"
	case strings.Contains(msg, "no such table"),
		strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"):
		statusCode = http.StatusInternalServerError
		errorType = "SCHEMA_ERROR"
	case strings.Contains(msg, "connection refused"):
		statusCode = http.StatusServiceUnavailable
		errorType = "DATABASE_CONNECTION_ERROR"
	default:
		statusCode = http.StatusInternalServerError
		errorType = "INTERNAL_ERROR"
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       msg,
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return shared.NewAppError(statusCode, err, errorType, nil)
}
