package bignum

import "github.com/eth2030/bignum/internal/radix"

// Producer returns a streaming iterator over z's digits in the given
// radix (2-36), most-significant digit first (spec §6's
// `get_digit_producer`).
func (z *Int) Producer(base uint) (radix.Producer, error) {
	if base < 2 || base > 36 {
		return nil, ErrDomainError
	}
	return radix.NewProducer(z.mag, uint32(base))
}

// FromDigitConsumer finalizes c into a signed Int (spec §6's
// `get_digit_consumer`, construct-from-consumer lifecycle). nonneg is
// ignored if the finalized magnitude is zero (canonical zero is always
// non-negative).
func FromDigitConsumer(c radix.Consumer, nonneg bool) *Int {
	mag := c.Finalize()
	return (&Int{mag: mag, nonneg: nonneg}).canonicalize()
}

// FormatOptions controls the optional decorations FormatText applies
// around the bare digit string.
type FormatOptions struct {
	// ShowBase prepends a base prefix: "0x"/"0X" for 16, "0b"/"0B" for 2,
	// a bare "0" for 8. Bases other than 2, 8, 16 never get a prefix.
	ShowBase bool
	// ShowPositiveSign prepends '+' to non-negative, non-zero values.
	ShowPositiveSign bool
	// UppercaseHex uses uppercase letters for digit values above 9 and,
	// combined with ShowBase, an uppercase base prefix.
	UppercaseHex bool
}

// FormatText renders z in the given base (2-36). Thousands separators
// are not supported (an explicit open question in the original design,
// left unimplemented).
func (z *Int) FormatText(base int, opts FormatOptions) (string, error) {
	if base < 2 || base > 36 {
		return "", ErrDomainError
	}

	p, err := z.Producer(uint(base))
	if err != nil {
		return "", err
	}

	digits := make([]byte, 0, z.bitLen()/2+1)
	for {
		d, ok := p.Next()
		if !ok {
			break
		}
		digits = append(digits, digitChar(d, opts.UppercaseHex))
	}

	var out []byte
	if !z.nonneg {
		out = append(out, '-')
	} else if opts.ShowPositiveSign && !z.IsZero() {
		out = append(out, '+')
	}
	if opts.ShowBase && !z.IsZero() {
		out = append(out, basePrefix(base, opts.UppercaseHex)...)
	}
	out = append(out, digits...)
	return string(out), nil
}

func basePrefix(base int, upper bool) string {
	switch base {
	case 2:
		if upper {
			return "0B"
		}
		return "0b"
	case 8:
		return "0"
	case 16:
		if upper {
			return "0X"
		}
		return "0x"
	default:
		return ""
	}
}

func digitChar(d uint32, upper bool) byte {
	if d < 10 {
		return byte('0' + d)
	}
	if upper {
		return byte('A' + d - 10)
	}
	return byte('a' + d - 10)
}

func digitValue(ch byte) (uint32, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return uint32(ch - '0'), true
	case ch >= 'a' && ch <= 'z':
		return uint32(ch-'a') + 10, true
	case ch >= 'A' && ch <= 'Z':
		return uint32(ch-'A') + 10, true
	default:
		return 0, false
	}
}

// stripBasePrefix removes a base-matching prefix ("0x"/"0X", "0b"/"0B",
// or a bare leading "0" for base 8) if present, leaving a lone "0" body
// untouched.
func stripBasePrefix(s string, base int) string {
	switch {
	case base == 16 && len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		return s[2:]
	case base == 2 && len(s) >= 2 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B'):
		return s[2:]
	case base == 8 && len(s) > 1 && s[0] == '0':
		return s[1:]
	default:
		return s
	}
}

// FromString constructs an Int by parsing s in the given base (spec §6's
// "construct from a text/digit stream" lifecycle entry). It is ParseText
// under a name matching the other From* constructors.
func FromString(s string, base int) (*Int, error) {
	return ParseText(s, base)
}

// ParseText parses s -- an optional sign, an optional base prefix
// matching base, then a body of digits with optional apostrophe
// separators (spec §6's literal-parser escape, extended here to
// ParseText as well) -- as a signed integer in the given base (2-36).
// Any byte outside the digit/separator alphabet ends the body; trailing
// bytes of any kind are a malformed-input error (the "grouping" clause
// of the input grammar is explicitly unimplemented, per Non-goals).
func ParseText(s string, base int) (*Int, error) {
	if base < 2 || base > 36 {
		return nil, ErrDomainError
	}
	if s == "" {
		return nil, ErrInputFailure
	}

	i := 0
	neg := false
	if s[i] == '+' {
		i++
	} else if s[i] == '-' {
		neg = true
		i++
	}

	body := stripBasePrefix(s[i:], base)
	if body == "" {
		return nil, ErrInputFailure
	}

	consumer, err := radix.NewConsumer(uint32(base))
	if err != nil {
		return nil, err
	}

	any := false
	for j := 0; j < len(body); j++ {
		ch := body[j]
		if ch == '\'' {
			continue
		}
		d, ok := digitValue(ch)
		if !ok || int(d) >= base {
			return nil, ErrInputFailure
		}
		if err := consumer.Push(d); err != nil {
			return nil, ErrInputFailure
		}
		any = true
	}
	if !any {
		return nil, ErrInputFailure
	}

	mag := consumer.Finalize()
	z := &Int{mag: mag, nonneg: !neg}
	return z.canonicalize(), nil
}

// MustParseLiteral implements the compile-time integer literal grammar
// (prefix dispatch 0x/0X, 0b/0B, a leading 0 for octal, or decimal
// otherwise; apostrophe digit separators discarded) as a runtime
// convenience -- Go has no user-defined literal suffixes, so this is the
// closest faithful analogue to the original's literal operator (spec
// §6b). It panics on malformed input, matching the Must-prefixed
// convention used elsewhere for values that are compile-time constants
// in the caller's source.
func MustParseLiteral(s string) *Int {
	body := s
	sign := ""
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		if body[0] == '-' {
			sign = "-"
		}
		body = body[1:]
	}

	base := 10
	switch {
	case len(body) >= 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X'):
		base = 16
	case len(body) >= 2 && body[0] == '0' && (body[1] == 'b' || body[1] == 'B'):
		base = 2
	case len(body) >= 2 && body[0] == '0':
		base = 8
	}

	z, err := ParseText(sign+body, base)
	if err != nil {
		panic(err)
	}
	return z
}
