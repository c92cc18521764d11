// Package parse turns raw uploaded file content into generic rows (CSV) or a
// decoded value tree (JSON), ahead of any domain interpretation.
//
// CSV handling targets RFC4180 quoting: surrounding quotes are stripped,
// doubled quotes inside a quoted field collapse to one, and a quoted field
// containing commas is re-joined across the comma split so header alignment
// is preserved. Lines whose quoting never re-balances are kept best-effort
// and reported as warnings rather than guessed at.
package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a supported file format, derived from the file extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DefaultFormats is the format set accepted when the caller does not
// restrict it.
var DefaultFormats = []Format{FormatCSV, FormatJSON}

// PreviewRows is how many leading rows/elements the parse result previews.
const PreviewRows = 5

// contextCheckInterval is how often (in rows) the CSV loop checks for
// cancellation.
const contextCheckInterval = 100

// UnsupportedFormatError reports a file whose extension is not in the
// accepted format set. It is returned before any parsing work happens.
type UnsupportedFormatError struct {
	FileName  string
	Ext       string
	Supported []Format
}

func (e *UnsupportedFormatError) Error() string {
	exts := make([]string, len(e.Supported))
	for i, f := range e.Supported {
		exts[i] = string(f)
	}
	return fmt.Sprintf("unsupported file format %q for %s (expected one of: %s)",
		e.Ext, e.FileName, strings.Join(exts, ", "))
}

// ParseError reports content that does not decode under its declared format.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Row is one CSV data line keyed by header name. Values are unparsed strings;
// no type coercion has happened yet.
type Row map[string]string

// Result is the outcome of parsing one file.
type Result struct {
	Format Format

	// Rows is set for CSV input: one entry per non-empty data line.
	Rows []Row

	// Headers is set for CSV input only.
	Headers []string

	// Value is set for JSON input: the full decoded tree, shape unchecked.
	Value any

	// Preview holds up to PreviewRows leading rows (CSV) or elements (JSON
	// arrays). Nil when the JSON value is not a sequence.
	Preview []any

	// Warnings records ambiguous constructs the parser resolved best-effort,
	// such as unbalanced quotes.
	Warnings []string
}

// Objects returns the parsed content as a uniform list of generic objects,
// ready for the record transformers. CSV rows become string-valued objects;
// a JSON array (or {"data": [...]} envelope) yields its object elements.
func (r *Result) Objects() []map[string]any {
	if r.Format == FormatCSV {
		out := make([]map[string]any, len(r.Rows))
		for i, row := range r.Rows {
			obj := make(map[string]any, len(row))
			for k, v := range row {
				obj[k] = v
			}
			out[i] = obj
		}
		return out
	}

	arr, ok := r.Value.([]any)
	if !ok {
		// Accept the export envelope shape the backend emits.
		if env, isMap := r.Value.(map[string]any); isMap {
			arr, _ = env["data"].([]any)
		}
	}
	var out []map[string]any
	for _, el := range arr {
		if obj, isObj := el.(map[string]any); isObj {
			out = append(out, obj)
		}
	}
	return out
}

// Detect derives the format from the file name's extension and checks it
// against the supported set. Pass nil to accept DefaultFormats.
func Detect(fileName string, supported []Format) (Format, error) {
	if len(supported) == 0 {
		supported = DefaultFormats
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	for _, f := range supported {
		if string(f) == ext {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{FileName: fileName, Ext: ext, Supported: supported}
}

// Parse decodes fileContent according to the format declared by fileName's
// extension. The context is checked periodically while walking CSV rows so a
// cancelled import does not keep parsing.
func Parse(ctx context.Context, fileName string, fileContent []byte, supported []Format) (*Result, error) {
	format, err := Detect(fileName, supported)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return parseJSON(fileContent)
	default:
		return parseCSV(ctx, fileContent)
	}
}

func parseJSON(content []byte) (*Result, error) {
	var value any
	if err := json.Unmarshal(content, &value); err != nil {
		return nil, &ParseError{Format: FormatJSON, Err: err}
	}

	// Only record sequences are importable: a top-level array, or the
	// {"data": [...]} envelope the backend's own exports use. Anything else
	// is rejected here rather than imported as an empty batch.
	arr, ok := value.([]any)
	if !ok {
		if env, isMap := value.(map[string]any); isMap {
			arr, ok = env["data"].([]any)
		}
		if !ok {
			return nil, &ParseError{
				Format: FormatJSON,
				Err:    fmt.Errorf("expected an array of records or a {\"data\": [...]} envelope"),
			}
		}
	}

	res := &Result{Format: FormatJSON, Value: value}
	n := len(arr)
	if n > PreviewRows {
		n = PreviewRows
	}
	res.Preview = append(res.Preview, arr[:n]...)
	return res, nil
}

func parseCSV(ctx context.Context, content []byte) (*Result, error) {
	lines := splitLines(string(content))

	res := &Result{Format: FormatCSV}

	// First non-empty line is the header row.
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, &ParseError{Format: FormatCSV, Err: fmt.Errorf("file has no header row")}
	}

	for _, h := range strings.Split(lines[start], ",") {
		res.Headers = append(res.Headers, strings.TrimSpace(h))
	}

	for i, line := range lines[start+1:] {
		if i%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("parse cancelled at line %d: %w", start+i+2, err)
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		values, warn := splitFields(line)
		if warn != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: %s", start+i+2, warn))
		}

		row := make(Row, len(res.Headers))
		for pos, v := range values {
			// Positions past the header row are dropped; short rows simply
			// leave trailing fields absent.
			if pos >= len(res.Headers) {
				break
			}
			row[res.Headers[pos]] = v
		}
		res.Rows = append(res.Rows, row)
	}

	n := len(res.Rows)
	if n > PreviewRows {
		n = PreviewRows
	}
	for _, row := range res.Rows[:n] {
		res.Preview = append(res.Preview, row)
	}
	return res, nil
}

// splitLines splits on \n and drops trailing \r so CRLF files parse the same
// as LF files.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// splitFields splits one CSV line on commas, re-joining tokens that belong to
// a single quoted field. Quoted values come back with surrounding quotes
// stripped and doubled quotes collapsed; unquoted values pass through
// verbatim, whitespace included (only the header row is trimmed). The warning
// is non-empty when quoting was ambiguous.
func splitFields(line string) ([]string, string) {
	tokens := strings.Split(line, ",")
	var (
		values []string
		warn   string
	)

	for i := 0; i < len(tokens); i++ {
		tok := strings.TrimSpace(tokens[i])

		if strings.HasPrefix(tok, `"`) {
			if !selfClosed(tok) {
				// Quoted field containing commas: re-join following tokens
				// until one closes the quote, keeping later fields aligned to
				// headers.
				joined := tokens[i]
				closed := false
				for i+1 < len(tokens) {
					i++
					joined += "," + tokens[i]
					if closesQuote(strings.TrimSpace(tokens[i])) {
						closed = true
						break
					}
				}
				if !closed {
					warn = "unbalanced quote; field taken through end of line"
				}
				values = append(values, unquote(strings.TrimSpace(joined)))
				continue
			}
			values = append(values, unquote(tok))
			continue
		}

		values = append(values, tokens[i])
	}
	return values, warn
}

// trailingQuoteRun counts the consecutive quotes ending the token.
func trailingQuoteRun(tok string) int {
	run := 0
	for i := len(tok) - 1; i >= 0 && tok[i] == '"'; i-- {
		run++
	}
	return run
}

// selfClosed reports whether a token that opens with a quote also closes its
// own field. The opening quote is excluded, then the field is closed when the
// remainder ends with an odd run of quotes (an even run is escaped ""
// content). A lone `"` therefore opens rather than closes.
func selfClosed(tok string) bool {
	return closesQuote(tok[1:])
}

// closesQuote reports whether a continuation token ends the quoted field.
func closesQuote(tok string) bool {
	return trailingQuoteRun(tok)%2 == 1
}

// unquote strips a matched pair of surrounding quotes and collapses doubled
// quotes within. Unquoted values pass through unchanged.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
		s = strings.ReplaceAll(s, `""`, `"`)
	}
	return s
}
