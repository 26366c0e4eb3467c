// Package trace reads and writes branch traces: one "<pc> <outcome>" pair
// per line, with the PC in hex and the outcome as 0 or 1.
package trace

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/bpsim/predictor"
)

// Record is one dynamic conditional branch.
type Record struct {
	// PC is the branch address.
	PC uint32
	// Outcome is the real direction of the branch.
	Outcome predictor.Outcome
}

// String renders the record in trace-line form.
func (r Record) String() string {
	return fmt.Sprintf("0x%x %d", r.PC, r.Outcome.Bit())
}

// ParseError reports a malformed trace line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrMalformed is wrapped by every ParseError.
var ErrMalformed = errors.New("malformed trace record")

// ParseLine parses "<hex pc> <0|1>". The 0x prefix is optional.
func ParseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Record{}, fmt.Errorf("%w: want 2 fields, got %d", ErrMalformed, len(fields))
	}

	pcText := strings.TrimPrefix(strings.TrimPrefix(fields[0], "0x"), "0X")
	pc, err := strconv.ParseUint(pcText, 16, 32)
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad pc %q", ErrMalformed, fields[0])
	}

	var outcome predictor.Outcome
	switch fields[1] {
	case "0":
		outcome = predictor.NotTaken
	case "1":
		outcome = predictor.Taken
	default:
		return Record{}, fmt.Errorf("%w: bad outcome %q", ErrMalformed, fields[1])
	}

	return Record{PC: uint32(pc), Outcome: outcome}, nil
}

// Reader streams records from a trace. Blank lines and lines starting with
// '#' are skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next record, or io.EOF at the end of the trace.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		rec, err := ParseLine(text)
		if err != nil {
			return Record{}, &ParseError{Line: r.line, Text: text, Err: err}
		}
		return rec, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("failed to read trace: %w", err)
	}
	return Record{}, io.EOF
}

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// File is a Reader bound to an opened trace file.
type File struct {
	*Reader
	closers []io.Closer
}

// Open opens a trace file. ".gz" and ".bz2" files are decompressed on the
// fly. An empty path or "-" reads standard input.
func Open(path string) (*File, error) {
	if path == "" || path == "-" {
		return &File{Reader: NewReader(os.Stdin)}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	file := &File{closers: []io.Closer{f}}
	var src io.Reader = f

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to open gzip trace: %w", err)
		}
		file.closers = append([]io.Closer{gz}, file.closers...)
		src = gz
	case strings.HasSuffix(path, ".bz2"):
		src = bzip2.NewReader(f)
	}

	file.Reader = NewReader(src)
	return file, nil
}

// Close releases the underlying file.
func (f *File) Close() error {
	var errs []error
	for _, c := range f.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.closers = nil
	return errors.Join(errs...)
}

// Writer emits records in trace-line form.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a Writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write emits one record.
func (w *Writer) Write(rec Record) error {
	if _, err := fmt.Fprintln(w.w, rec.String()); err != nil {
		return fmt.Errorf("failed to write trace record: %w", err)
	}
	return nil
}

// WriteAll emits every record and flushes.
func (w *Writer) WriteAll(records []Record) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush trace: %w", err)
	}
	return nil
}
