package code

import (
	"iter"
	"strings"

	"github.com/labmed/barcoder/pkg/errors"
)

// MinExhaustiveLength is the shortest code length for which the lead
// character is part of the body.
const MinExhaustiveLength = 3

// Exhaustive returns the deterministic test sequence of codes of the given
// length. For each lead character and each character c of [Alphanumeric] the
// body is the lead repeated length-2 times followed by c. An empty lead uses
// the whole alphabet; repeated lead characters are only used once.
//
// The sequence is restartable: ranging over it twice yields the same codes.
func Exhaustive(length int, lead string) (iter.Seq[string], error) {
	if length < MinExhaustiveLength {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"exhaustive codes need length >= %d, got %d", MinExhaustiveLength, length)
	}
	leads, err := uniqueLeads(lead)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		for _, l := range leads {
			prefix := strings.Repeat(string(l), length-2)
			for i := 0; i < len(Alphanumeric); i++ {
				body := prefix + Alphanumeric[i:i+1]
				if !yield(body + string(Checksum(body))) {
					return
				}
			}
		}
	}, nil
}

// ExhaustiveCount returns the number of codes Exhaustive yields for lead.
func ExhaustiveCount(lead string) int {
	leads, err := uniqueLeads(lead)
	if err != nil {
		return 0
	}
	return len(leads) * len(Alphanumeric)
}

func uniqueLeads(lead string) ([]byte, error) {
	if lead == "" {
		lead = Alphanumeric
	}
	var out []byte
	seen := make(map[byte]bool)
	for i := 0; i < len(lead); i++ {
		c := lead[i]
		if !strings.ContainsRune(Alphanumeric, rune(c)) {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "lead character %q is not in the code alphabet", c)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}
