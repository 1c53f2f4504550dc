package code

import (
	"crypto/md5"
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/labmed/barcoder/pkg/errors"
)

const (
	// Alphanumeric is the default body alphabet: A-Z and 2-9 without I and O.
	Alphanumeric = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// Numeric is the alphabet for the first character of numeric-first codes.
	Numeric = "23456789"

	// MinLength is the shortest code that has both a body and a checksum.
	MinLength = 2

	// DefaultLength is the code length used by the pool sheet layouts.
	DefaultLength = 12
)

const hexDigits = "0123456789ABCDEF"

// Checksum returns the checksum character for body: the first hex digit of
// MD5(body), uppercased.
func Checksum(body string) byte {
	sum := md5.Sum([]byte(body))
	return hexDigits[sum[0]>>4]
}

// Verify reports whether the last character of c is the checksum of the
// characters before it.
func Verify(c string) bool {
	if len(c) < MinLength {
		return false
	}
	return c[len(c)-1] == Checksum(c[:len(c)-1])
}

// ValidateCode checks that c has the given length, uses only characters from
// the default alphabet in its body, and carries a correct checksum.
// A length of zero skips the length check.
func ValidateCode(c string, length int) error {
	if length > 0 && len(c) != length {
		return errors.New(errors.ErrCodeLengthMismatch, "code %q has length %d, want %d", c, len(c), length)
	}
	if len(c) < MinLength {
		return errors.New(errors.ErrCodeInvalidArgument, "code %q is too short", c)
	}
	body := c[:len(c)-1]
	if i := strings.IndexFunc(body, func(r rune) bool { return !strings.ContainsRune(Alphanumeric, r) }); i >= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "code %q contains invalid character %q", c, body[i])
	}
	if !Verify(c) {
		return errors.New(errors.ErrCodeInvalidArgument, "code %q has bad checksum (want %c)", c, Checksum(body))
	}
	return nil
}

// Make draws one code of the given length from r. The body has length-1
// characters taken uniformly from alphabet; when numericFirst is set the
// first body character comes from [Numeric] instead. A nil r reads from
// crypto/rand.
func Make(r io.Reader, length int, alphabet string, numericFirst bool) (string, error) {
	if err := validateParams(length, alphabet); err != nil {
		return "", err
	}
	if r == nil {
		r = rand.Reader
	}
	return makeCode(r, length, alphabet, numericFirst)
}

func validateParams(length int, alphabet string) error {
	if length < MinLength {
		return errors.New(errors.ErrCodeInvalidArgument, "code length %d is below minimum %d", length, MinLength)
	}
	return errors.ValidateAlphabet(alphabet)
}

// makeCode assumes validated parameters.
func makeCode(r io.Reader, length int, alphabet string, numericFirst bool) (string, error) {
	body := make([]byte, length-1)
	for i := range body {
		set := alphabet
		if i == 0 && numericFirst {
			set = Numeric
		}
		c, err := pick(r, set)
		if err != nil {
			return "", err
		}
		body[i] = c
	}
	return string(body) + string(Checksum(string(body))), nil
}

// pick returns a uniformly chosen character of set. Bytes at or above the
// largest multiple of len(set) are rejected so every character is equally
// likely.
func pick(r io.Reader, set string) (byte, error) {
	n := len(set)
	limit := 256 - 256%n
	var buf [1]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("reading random byte: %w", err)
		}
		if int(buf[0]) >= limit {
			continue
		}
		return set[int(buf[0])%n], nil
	}
}
