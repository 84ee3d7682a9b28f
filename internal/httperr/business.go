package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind string

const (
	KindBusiness        Kind = "business"
	KindValidation      Kind = "validation"
	KindSlotConflict    Kind = "slot_conflict"
	KindPayment         Kind = "payment"
	KindPolicyViolation Kind = "policy_violation"
	KindNotFound        Kind = "not_found"
	KindInvalidState    Kind = "invalid_state"
)

// SQLSTATE codes the reservation writes can surface.
const (
	pgExclusionViolation   = "23P01"
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Field   string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindBusiness, Code: code}
}

// ErrValidation reports a missing or malformed input field.
func ErrValidation(field, code string) error {
	if code == "" {
		code = "invalid_" + field
	}
	return BusinessError{Kind: KindValidation, Code: code, Field: field}
}

func ErrSlotConflict() error {
	return BusinessError{
		Kind:    KindSlotConflict,
		Code:    "slot_no_longer_available",
		Message: "The selected time is no longer available.",
	}
}

// ErrPayment carries the payment collaborator's message verbatim.
func ErrPayment(message string) error {
	return BusinessError{Kind: KindPayment, Code: "payment_failed", Message: message}
}

func ErrPolicy(code string) error {
	return BusinessError{Kind: KindPolicyViolation, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrInvalidState(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// IsExclusionConflict reports whether err is a Postgres write conflict on
// the reservation overlap constraint (or a serialization retry signal).
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgExclusionViolation, pgUniqueViolation, pgSerializationFailure:
		return true
	}
	return false
}
