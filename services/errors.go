package services

import (
	"context"
	"errors"
	"fmt"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrorKind is the stable machine-readable class of a failure. Controllers
// map kinds to HTTP statuses; callers can branch on them without string
// matching.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindInfrastructure ErrorKind = "infrastructure"
)

type DomainError struct {
	Kind    ErrorKind
	Code    string // stable, e.g. "reservation_not_found"
	Message string // human readable
	Err     error  // wrapped cause, may be nil
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

func Validation(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

func Infrastructure(code string, err error) *DomainError {
	return &DomainError{Kind: KindInfrastructure, Code: code, Message: "store unavailable, retry later", Err: err}
}

// KindOf returns the error's kind, defaulting unknown errors to
// infrastructure so they are never mistaken for domain failures.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInfrastructure
}

// MySQL error numbers worth distinguishing: duplicate key means our unique
// constraint fired (a concurrent writer won), lock wait / deadlock are
// transient and retryable.
const (
	mysqlDuplicateEntry = 1062
	mysqlLockWait       = 1205
	mysqlDeadlock       = 1213
)

// classifyStoreErr folds a raw gorm/driver error into the taxonomy.
// notFoundCode names the entity for gorm.ErrRecordNotFound.
func classifyStoreErr(err error, notFoundCode, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFoundCode, notFoundMessage)
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return Conflict("duplicate_entry", "a conflicting record already exists")
		case mysqlLockWait, mysqlDeadlock:
			return Infrastructure("store_contention", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Infrastructure("store_timeout", err)
	}
	return Infrastructure("store_error", err)
}

// retryable reports whether the operation may be re-run transparently.
func retryable(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Kind == KindInfrastructure && de.Code != "store_timeout"
}

// withRetry runs fn, retrying exactly once on a transient infrastructure
// failure. Domain errors surface immediately.
func withRetry(fn func() error) error {
	err := fn()
	if err == nil || !retryable(err) {
		return err
	}
	return fn()
}
