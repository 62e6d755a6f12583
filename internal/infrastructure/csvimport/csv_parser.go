package csvimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// CSVParser parses client CSV exports with encoding detection and
// delimiter sniffing.
type CSVParser struct {
	delimiter  rune
	lazyQuotes bool
	trimSpace  bool
	sniff      bool
	headerMap  map[string]int
	headers    []string
	currentRow int
	totalRows  int
	reader     *csv.Reader
}

// ParserOption is a functional option for CSVParser configuration
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter and disables sniffing
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
		p.sniff = false
	}
}

// WithLazyQuotes enables lazy quote handling
func WithLazyQuotes(lazy bool) ParserOption {
	return func(p *CSVParser) {
		p.lazyQuotes = lazy
	}
}

// WithTrimSpace enables trimming of leading/trailing spaces from fields
func WithTrimSpace(trim bool) ParserOption {
	return func(p *CSVParser) {
		p.trimSpace = trim
	}
}

// NewCSVParser creates a parser over the full file content. Content is
// decoded as UTF-8, with Latin-1 as the fallback for legacy exports,
// and a UTF-8 BOM is stripped when present.
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	parser := &CSVParser{
		delimiter:  ',',
		lazyQuotes: true,
		trimSpace:  true,
		sniff:      true,
		headerMap:  make(map[string]int),
	}

	for _, opt := range opts {
		opt(parser)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	if !utf8.Valid(data) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("failed to decode file: %w", decErr)
		}
		data = decoded
	}

	if parser.sniff {
		parser.delimiter = sniffDelimiter(data)
	}

	parser.reader = csv.NewReader(bytes.NewReader(data))
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = parser.lazyQuotes
	parser.reader.TrimLeadingSpace = parser.trimSpace
	parser.reader.FieldsPerRecord = -1 // Allow variable number of fields

	return parser, nil
}

// ParseFromBytes creates a parser from a byte slice
func ParseFromBytes(data []byte, opts ...ParserOption) (*CSVParser, error) {
	return NewCSVParser(bytes.NewReader(data), opts...)
}

// sniffDelimiter picks the candidate delimiter that splits the header
// line into the most fields.
func sniffDelimiter(data []byte) rune {
	headerLine := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		headerLine = data[:idx]
	}
	line := string(headerLine)

	best := ','
	bestCount := strings.Count(line, ",")
	for _, cand := range []rune{';', '\t', '|'} {
		if count := strings.Count(line, string(cand)); count > bestCount {
			best = cand
			bestCount = count
		}
	}
	return best
}

// ParseHeader reads and parses the header row
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := h
		if p.trimSpace {
			header = strings.TrimSpace(header)
		}
		p.headers[i] = header
		p.headerMap[header] = i
	}

	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	p.currentRow = 1 // Header is row 1

	return nil
}

// Headers returns the parsed header names
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// Delimiter returns the delimiter in use after sniffing.
func (p *CSVParser) Delimiter() rune {
	return p.delimiter
}

// Row represents a parsed CSV row with its data and line number
type Row struct {
	LineNumber int
	Data       map[string]string
	RawFields  []string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// GetOrDefault returns the value for a column, or default if not present
func (r *Row) GetOrDefault(header, defaultVal string) string {
	if val, ok := r.Data[header]; ok && val != "" {
		return val
	}
	return defaultVal
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// NonEmptyCount returns the number of populated cells.
func (r *Row) NonEmptyCount() int {
	count := 0
	for _, v := range r.Data {
		if v != "" {
			count++
		}
	}
	return count
}

// ReadRow reads the next row from the CSV
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		p.currentRow++
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	p.currentRow++
	p.totalRows++

	row := &Row{
		LineNumber: p.currentRow,
		Data:       make(map[string]string, len(p.headers)),
		RawFields:  record,
	}

	for i, header := range p.headers {
		if i < len(record) {
			value := record[i]
			if p.trimSpace {
				value = strings.TrimSpace(value)
			}
			row.Data[header] = value
		} else {
			row.Data[header] = ""
		}
	}

	return row, nil
}

// ReadAllRows reads all remaining data rows, skipping empty rows and
// report summary rows.
func (p *CSVParser) ReadAllRows() ([]*Row, error) {
	var rows []*Row

	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}

		if row.IsEmpty() || IsSummaryRow(row) {
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// CurrentRow returns the current row number (1-indexed)
func (p *CSVParser) CurrentRow() int {
	return p.currentRow
}

// TotalRows returns the total number of data rows read
func (p *CSVParser) TotalRows() int {
	return p.totalRows
}

// ValidateHeaders checks if required headers are present
func (p *CSVParser) ValidateHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}
