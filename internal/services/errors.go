// internal/services/errors.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/telemetry"
	"github.com/omstudio/studio-ops/internal/utils"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrPoolExhausted     = errors.New("option pool exhausted")
	ErrInvalidShareCount = errors.New("invalid share count")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrValidation        = errors.New("validation failed")
	ErrStorageFailure    = errors.New("storage failure")
	ErrAppendOnly        = models.ErrAppendOnly
)

// kindErrors are passed through untouched by storageError so a domain error
// raised inside a transaction keeps its kind.
var kindErrors = []error{
	ErrNotFound,
	ErrInvalidTransition,
	ErrPermissionDenied,
	ErrPoolExhausted,
	ErrInvalidShareCount,
	ErrInvalidAmount,
	ErrValidation,
	ErrStorageFailure,
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kindErrors {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}

// notFoundOr maps gorm's missing-row error to ErrNotFound.
func notFoundOr(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return storageError("load "+what, err)
}

// ValidationFailure carries the field errors of a rejected request.
type ValidationFailure struct {
	Fields []utils.ValidationError
	err    error
}

func (v *ValidationFailure) Error() string {
	return fmt.Sprintf("%s: %v", ErrValidation, v.err)
}

func (v *ValidationFailure) Unwrap() error { return ErrValidation }

func validationError(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationFailure{Fields: utils.GetValidationErrors(err), err: err}
}

func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}

// maxExactShares is the largest whole count a JSON float carries exactly.
const maxExactShares = 1 << 53

// SharesFromNumber converts a caller-supplied JSON share count into whole
// shares. Integer literals are taken exactly; float literals such as 1e6 must
// be whole and within float64 integer precision. Non-positive counts are
// rejected.
func SharesFromNumber(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		if v <= 0 {
			return 0, fmt.Errorf("%w: %d", ErrInvalidShareCount, v)
		}
		return v, nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 || f != math.Trunc(f) || f > maxExactShares {
		return 0, fmt.Errorf("%w: %q", ErrInvalidShareCount, n.String())
	}
	return int64(f), nil
}

// traced starts a span for an engine operation. The returned func records the
// final error and ends the span.
func traced(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	ctx, span := telemetry.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
	}
}
