// Package fault defines the error kinds shared by the estate domain packages.
// Legal and financial figures are never silently corrected; every violation is
// reported at the point it occurs with a kind the caller can branch on.
package fault

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	// KindValidation is malformed or out-of-range input to a single operation.
	KindValidation Kind = "validation"
	// KindReference is an operation naming an id missing from its collection.
	KindReference Kind = "reference"
	// KindInvariant is an operation that would break a cross-field rule.
	KindInvariant Kind = "invariant"
	// KindImbalance is beneficiary share percentages not summing to 100.
	KindImbalance Kind = "imbalance"
	// KindConfiguration is an unknown jurisdiction or malformed rule table.
	KindConfiguration Kind = "configuration"
)

type Error struct {
	Kind Kind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func newError(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Validation(op, format string, args ...any) error {
	return newError(KindValidation, op, format, args...)
}

func Reference(op, format string, args ...any) error {
	return newError(KindReference, op, format, args...)
}

func Invariant(op, format string, args ...any) error {
	return newError(KindInvariant, op, format, args...)
}

func Configuration(op, format string, args ...any) error {
	return newError(KindConfiguration, op, format, args...)
}

// ImbalanceError reports beneficiary shares that do not sum to exactly 100.
// It carries the actual sum for diagnostics.
type ImbalanceError struct {
	Op  string
	Sum decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("%s: beneficiary shares sum to %s, want exactly 100", e.Op, e.Sum)
}

// KindOf returns the kind of err, or an empty kind for errors raised outside
// the taxonomy.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}

	var ie *ImbalanceError
	if errors.As(err, &ie) {
		return KindImbalance
	}

	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
