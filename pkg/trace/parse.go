package trace

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	// Marker is the nesting character GCC and Clang print in -H output.
	Marker = '.'

	// Sentinel starts the include-guard notice that follows the trace.
	Sentinel = "Multiple include guards may be useful for:"
)

// maxLineSize bounds a single trace line. Paths longer than this are not
// produced by real compilers.
const maxLineSize = 1 << 20

// Entry is one line of a trace: a header and its nesting depth (1-based).
type Entry struct {
	Depth int
	ID    string
}

// Parser reads depth-indented traces. The zero value uses [Marker] and
// [Sentinel].
type Parser struct {
	Marker   byte   // Nesting character repeated depth times
	Sentinel string // Line content that ends the trace
}

// Parse reads a header trace with the default [Parser].
func Parse(r io.Reader) ([]Entry, error) {
	return Parser{}.Parse(r)
}

// ParseString is a convenience wrapper around [Parse].
func ParseString(s string) ([]Entry, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a trace and returns its entries in input order.
//
// Blank lines and lines without a leading marker (compiler warnings mixed
// into the same stream) are skipped. Everything from the sentinel line on
// is ignored. A trace with no content lines yields an empty slice and a nil
// error; callers decide whether to skip the file.
func (p Parser) Parse(r io.Reader) ([]Entry, error) {
	p = p.withDefaults()

	var entries []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		if strings.Contains(line, p.Sentinel) {
			break
		}
		if e, ok := p.parseLine(line); ok {
			entries = append(entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return entries, nil
}

// ParseLines parses an already split trace. Lines are taken as given, so
// the line size limit of [Parser.Parse] does not apply.
func (p Parser) ParseLines(lines []string) []Entry {
	p = p.withDefaults()

	var entries []Entry
	for _, line := range lines {
		if strings.Contains(line, p.Sentinel) {
			break
		}
		if e, ok := p.parseLine(line); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func (p Parser) withDefaults() Parser {
	if p.Marker == 0 {
		p.Marker = Marker
	}
	if p.Sentinel == "" {
		p.Sentinel = Sentinel
	}
	return p
}

func (p Parser) parseLine(line string) (Entry, bool) {
	line = strings.TrimRight(line, "\r")
	depth := 0
	for depth < len(line) && line[depth] == p.Marker {
		depth++
	}
	if depth == 0 {
		return Entry{}, false
	}
	id := normalize(line[depth:], p.Marker)
	if id == "" {
		return Entry{}, false
	}
	return Entry{Depth: depth, ID: id}, true
}

// Normalize strips leading markers and surrounding whitespace from a trace
// token and replaces characters Graphviz rejects in node names.
func Normalize(s string) string {
	return normalize(s, Marker)
}

func normalize(s string, marker byte) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, string(marker))
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, ":", "-")
}
