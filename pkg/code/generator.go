package code

import (
	"crypto/rand"
	"io"
	"iter"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/observability"
)

// DefaultMaxRetries is the number of consecutive collisions a Generator
// tolerates before reporting an exhausted keyspace.
const DefaultMaxRetries = 10000

// Generator draws unique codes of a fixed length. Each code it returns has
// been added to its Seen set, so a code is emitted at most once per set even
// when several generators share it. Next is safe for concurrent use.
type Generator struct {
	length       int
	alphabet     string
	numericFirst bool
	strict       bool
	maxRetries   int

	rand   io.Reader
	seen   *Seen
	logger *log.Logger
	hooks  observability.CodeHooks

	mu sync.Mutex // serializes reads from rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source. The default is crypto/rand.
func WithRand(r io.Reader) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// WithSeen shares an existing set of issued codes with the generator.
// The caller observes the set growing as codes are emitted.
func WithSeen(s *Seen) Option {
	return func(g *Generator) {
		if s != nil {
			g.seen = s
		}
	}
}

// WithLogger sets the logger used to report collisions.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithAlphabet replaces the body alphabet.
func WithAlphabet(alphabet string) Option {
	return func(g *Generator) { g.alphabet = alphabet }
}

// WithNumericFirst controls whether the first body character is numeric.
func WithNumericFirst(v bool) Option {
	return func(g *Generator) { g.numericFirst = v }
}

// WithStopIfSeen makes a collision fatal instead of retried.
func WithStopIfSeen(v bool) Option {
	return func(g *Generator) { g.strict = v }
}

// WithMaxRetries caps consecutive collisions. Zero or less removes the cap.
func WithMaxRetries(n int) Option {
	return func(g *Generator) { g.maxRetries = n }
}

// WithHooks overrides the globally registered code hooks.
func WithHooks(h observability.CodeHooks) Option {
	return func(g *Generator) {
		if h != nil {
			g.hooks = h
		}
	}
}

// NewGenerator creates a generator of codes with the given total length.
// Codes are numeric-first unless WithNumericFirst(false) is passed.
func NewGenerator(length int, opts ...Option) (*Generator, error) {
	g := &Generator{
		length:       length,
		alphabet:     Alphanumeric,
		numericFirst: true,
		maxRetries:   DefaultMaxRetries,
		rand:         rand.Reader,
		logger:       log.Default(),
		hooks:        observability.Code(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := validateParams(length, g.alphabet); err != nil {
		return nil, err
	}
	if g.seen == nil {
		g.seen = NewSeen()
	}
	return g, nil
}

// Length returns the length of the codes produced.
func (g *Generator) Length() int { return g.length }

// Seen returns the set of issued codes backing the generator.
func (g *Generator) Seen() *Seen { return g.seen }

// Next draws the next unseen code.
//
// A collision is logged and either retried or, with WithStopIfSeen, returned
// as a DUPLICATE_CODE error. Too many consecutive collisions return
// EXHAUSTED_KEYSPACE.
func (g *Generator) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	collisions := 0
	for {
		c, err := makeCode(g.rand, g.length, g.alphabet, g.numericFirst)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "drawing code")
		}
		if g.seen.Add(c) {
			g.hooks.OnCodeIssued(g.length)
			return c, nil
		}

		g.logger.Warn("code already seen", "code", c)
		g.hooks.OnCollision(c, g.strict)
		if g.strict {
			return "", errors.New(errors.ErrCodeDuplicateCode, "code %s was already issued", c)
		}

		collisions++
		if g.maxRetries > 0 && collisions >= g.maxRetries {
			return "", errors.New(errors.ErrCodeExhaustedKeyspace,
				"%d consecutive collisions drawing length-%d codes (%d issued)", collisions, g.length, g.seen.Len())
		}
	}
}

// All returns the generator as a sequence. Iteration stops after the first
// error, which is yielded with an empty code.
func (g *Generator) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			c, err := g.Next()
			if !yield(c, err) || err != nil {
				return
			}
		}
	}
}

// Take draws n codes.
func (g *Generator) Take(n int) ([]string, error) {
	out := make([]string, 0, n)
	for len(out) < n {
		c, err := g.Next()
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, nil
}
