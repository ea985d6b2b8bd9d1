package bignum

import "github.com/pkg/errors"

var (
	// ErrInvalidLength is returned when an operand or result does not fit the
	// fixed capacity, or a bit index is out of range.
	ErrInvalidLength = errors.New("bignum: invalid length")

	// ErrDivisionByZero is returned for a zero divisor or modulus.
	ErrDivisionByZero = errors.New("bignum: division by zero")

	// ErrNotInvertible is returned when an element has no inverse modulo n
	// (gcd != 1), or when a Montgomery context is requested for an even
	// modulus.
	ErrNotInvertible = errors.New("bignum: not invertible")

	// ErrInvariantViolation reports a failed arithmetic self-check.
	ErrInvariantViolation = errors.New("bignum: invariant violation")

	// ErrAliasedOutputs is returned by DivMod when quotient and remainder
	// point to the same Int.
	ErrAliasedOutputs = errors.New("bignum: quotient and remainder alias")

	// ErrInvalidEncoding is returned for malformed hex text.
	ErrInvalidEncoding = errors.New("bignum: invalid encoding")
)
