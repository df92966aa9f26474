package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// RecordReader parses a marketplace export file into NormalizedRecords for
// one record kind. It is a single-pass reader: rows come back in file order
// and the reader is not restartable.
type RecordReader struct {
	schema    Schema
	delimiter rune
	headerMap map[string]int
	headers   []string
	rowIndex  int
	reader    *csv.Reader
	bufReader *bufio.Reader
}

// ReaderOption is a functional option for RecordReader configuration
type ReaderOption func(*RecordReader)

// WithDelimiter forces a field delimiter instead of auto-detection
func WithDelimiter(d rune) ReaderOption {
	return func(p *RecordReader) {
		p.delimiter = d
	}
}

// NewRecordReader creates a reader over a raw export file. It validates the
// encoding, detects the delimiter from the header line (tab or comma) and
// checks the header against the record kind's required columns.
func NewRecordReader(r io.Reader, kind RecordKind, opts ...ReaderOption) (*RecordReader, error) {
	schema, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}

	p := &RecordReader{
		schema:    schema,
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.bufReader = bufio.NewReader(r)

	// Detect and strip UTF-8 BOM
	head, err := p.bufReader.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = p.bufReader.Discard(3)
	}

	if err := validateUTF8(p.bufReader); err != nil {
		return nil, err
	}

	if p.delimiter == 0 {
		p.delimiter = detectDelimiter(p.bufReader)
	}

	p.reader = csv.NewReader(p.bufReader)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1 // Allow variable number of fields

	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewRecordReaderFromBytes creates a reader from a byte slice
func NewRecordReaderFromBytes(data []byte, kind RecordKind, opts ...ReaderOption) (*RecordReader, error) {
	return NewRecordReader(bytes.NewReader(data), kind, opts...)
}

// validateUTF8 checks that the content is valid UTF-8
func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if len(content) == checkSize {
		// Trim a possibly split trailing rune before validating
		for i := 0; i < utf8.UTFMax && len(content) > 0; i++ {
			if r, _ := utf8.DecodeLastRune(content); r != utf8.RuneError {
				break
			}
			content = content[:len(content)-1]
		}
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// detectDelimiter inspects the header line: marketplace exports come as
// either tab- or comma-separated files.
func detectDelimiter(r *bufio.Reader) rune {
	const peekSize = 2048
	content, _ := r.Peek(peekSize)
	if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	if bytes.ContainsRune(content, '\t') {
		return '\t'
	}
	return ','
}

// parseHeader reads the header row and checks required columns
func (p *RecordReader) parseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := strings.TrimSpace(h)
		p.headers[i] = header
		p.headerMap[header] = i
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	if missing := p.schema.missingColumns(p.headerMap); len(missing) > 0 {
		return &MissingColumnsError{Kind: p.schema.Kind, Columns: missing}
	}
	return nil
}

// Headers returns the parsed header names
func (p *RecordReader) Headers() []string {
	return p.headers
}

// Schema returns the schema the reader validates against
func (p *RecordReader) Schema() Schema {
	return p.schema
}

// Next returns the next data row as a NormalizedRecord. It returns io.EOF at
// the end of the file. A RowError return reports a skipped row (malformed
// line or empty natural key); the reader stays usable and the caller decides
// whether to continue; the import policy is to proceed and report.
func (p *RecordReader) Next() (*NormalizedRecord, error) {
	for {
		record, err := p.reader.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		p.rowIndex++
		if err != nil {
			return nil, NewRowError(p.rowIndex, "", ErrCodeImportMalformedRow, err.Error())
		}

		fields := make(map[string]string, len(p.headers))
		empty := true
		for i, header := range p.headers {
			var value string
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			fields[header] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			// Blank padding rows are common at the end of exports
			p.rowIndex--
			continue
		}

		naturalKey := fields[p.schema.NaturalKeyColumn]
		if naturalKey == "" {
			return nil, NewRowError(p.rowIndex, p.schema.NaturalKeyColumn,
				ErrCodeImportEmptyNaturalKey, "natural key column is empty")
		}

		return &NormalizedRecord{
			RowIndex:   p.rowIndex,
			NaturalKey: naturalKey,
			Fields:     fields,
		}, nil
	}
}

// ReadAll drains the reader applying the skip policy: valid records are
// collected in file order, row errors are accumulated, and only a malformed
// stream aborts. Returns the records, the skipped-row errors and the total
// number of data rows seen.
func (p *RecordReader) ReadAll(maxErrors int) ([]*NormalizedRecord, *ErrorCollection, int, error) {
	var records []*NormalizedRecord
	errs := NewErrorCollection(maxErrors)
	total := 0

	for {
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var rowErr RowError
			if errors.As(err, &rowErr) {
				total++
				errs.Add(rowErr)
				continue
			}
			return records, errs, total, err
		}
		total++
		records = append(records, rec)
	}
	return records, errs, total, nil
}
