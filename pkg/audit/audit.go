// Package audit records every code placed on an output sheet and reads
// previously issued codes back.
//
// The log is CSV without a header, one row per placement:
//
//	pool-labels-20240102-f01-n03.pdf,1,2ABCDEFGHJKD
//
// Files of issued codes may be either such logs or flat lists with one code
// per line; [ReadIssued] accepts both so a seen set can be seeded from
// either.
package audit

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/labmed/barcoder/pkg/errors"
)

// Entry is one placement.
type Entry struct {
	File string
	Page int
	Code string
}

// Writer appends placements to a CSV log. It is safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  *csv.Writer
	n  int
}

// NewWriter creates a writer that appends to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// Record logs the codes placed on one page, in placement order, and flushes.
func (a *Writer) Record(file string, page int, codes []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := strconv.Itoa(page)
	for _, c := range codes {
		if err := a.w.Write([]string{file, p, c}); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "writing audit row")
		}
	}
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "flushing audit log")
	}
	a.n += len(codes)
	return nil
}

// Count returns the number of rows written.
func (a *Writer) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n
}

// ReadLog parses an audit log.
func ReadLog(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading audit log")
	}
	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		page, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "audit log line %d: bad page number", i+1)
		}
		entries = append(entries, Entry{File: row[0], Page: page, Code: row[2]})
	}
	return entries, nil
}

// ReadIssued reads previously issued codes. Blank lines and lines starting
// with '#' are skipped; a line containing commas contributes its last field.
func ReadIssued(r io.Reader) ([]string, error) {
	var codes []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.LastIndexByte(line, ','); i >= 0 {
			line = strings.TrimSpace(line[i+1:])
		}
		if line != "" {
			codes = append(codes, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "reading issued codes")
	}
	return codes, nil
}
