package bignum

import "github.com/eth2030/bignum/internal/limb"

// ErrOutOfRange is returned when a magnitude would grow past the maximum
// supported length.
var ErrOutOfRange = limb.ErrOutOfRange

// ErrDomainError is returned for operations outside their mathematical
// domain: shift counts at or beyond MaxLen*E, division or modulus by zero,
// or a radix outside the supported range.
var ErrDomainError = domainError("bignum: invalid domain for operation")

// ErrInputFailure is returned when parsing textual input fails (malformed
// sign, prefix, or digit body).
var ErrInputFailure = domainError("bignum: malformed textual input")

type domainError string

func (e domainError) Error() string { return string(e) }
