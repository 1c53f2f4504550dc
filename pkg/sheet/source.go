package sheet

import (
	"io"
	"iter"

	"github.com/labmed/barcoder/pkg/code"
)

// Record is the payload of one label cell. A Record with an empty Code is a
// placeholder: it consumes a cell and nothing is drawn there.
type Record struct {
	Code   string
	Fields map[string]string
}

// Empty reports whether r is a placeholder.
func (r Record) Empty() bool { return r.Code == "" }

// Field returns a named field, or "" when absent.
func (r Record) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// Source supplies records one at a time. Next returns io.EOF once the
// source is exhausted; any other error aborts the page being filled.
type Source interface {
	Next() (Record, error)
}

// GeneratorSource draws fresh codes from a generator. It never ends.
type GeneratorSource struct {
	Gen *code.Generator
}

// NewGeneratorSource wraps gen.
func NewGeneratorSource(gen *code.Generator) *GeneratorSource {
	return &GeneratorSource{Gen: gen}
}

// Next implements Source.
func (s *GeneratorSource) Next() (Record, error) {
	c, err := s.Gen.Next()
	if err != nil {
		return Record{}, err
	}
	return Record{Code: c}, nil
}

// ListSource replays a fixed list of records, then ends.
type ListSource struct {
	records []Record
	pos     int
}

// NewListSource creates a source over records.
func NewListSource(records []Record) *ListSource {
	return &ListSource{records: records}
}

// Codes creates a source over plain codes.
func Codes(codes ...string) *ListSource {
	records := make([]Record, len(codes))
	for i, c := range codes {
		records[i] = Record{Code: c}
	}
	return NewListSource(records)
}

// Next implements Source.
func (s *ListSource) Next() (Record, error) {
	if s.pos >= len(s.records) {
		return Record{}, io.EOF
	}
	r := s.records[s.pos]
	s.pos++
	return r, nil
}

// Remaining returns the number of records not yet consumed.
func (s *ListSource) Remaining() int { return len(s.records) - s.pos }

// FixedSource returns the same code for every cell. It is used to print
// proof sheets with a fake code and never ends.
type FixedSource struct {
	Code string
}

// Next implements Source.
func (s FixedSource) Next() (Record, error) {
	return Record{Code: s.Code}, nil
}

// SeqSource pulls codes from a sequence such as code.Exhaustive.
type SeqSource struct {
	next func() (string, bool)
	stop func()
}

// NewSeqSource adapts seq. Call Close to release the iterator early.
func NewSeqSource(seq iter.Seq[string]) *SeqSource {
	next, stop := iter.Pull(seq)
	return &SeqSource{next: next, stop: stop}
}

// Next implements Source.
func (s *SeqSource) Next() (Record, error) {
	c, ok := s.next()
	if !ok {
		return Record{}, io.EOF
	}
	return Record{Code: c}, nil
}

// Close stops the underlying iterator.
func (s *SeqSource) Close() { s.stop() }
