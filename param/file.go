package param

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/opencip/cip/internal/corerr"
)

// ReadFile parses r line by line against the grammar
// `WS? (name WS? "=" WS? value WS? ("#" .*)?)? EOL`. Unknown parameter
// names produce a warning (logged, not returned as an error) and are
// skipped; a malformed value aborts the read with a line-numbered error.
// Grounded on the teacher's hand-rolled, line-numbered parsers
// (solver/parser_pb.go), adapted from DIMACS/OPB tokens to `name = value`.
func (s *Store) ReadFile(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, raw, err := splitAssignment(line)
		if err != nil {
			return corerr.Wrap(corerr.ParseError, fmt.Sprintf("param.ReadFile: line %d", lineNo), err)
		}
		p, err := s.lookup("param.ReadFile", name)
		if err != nil {
			log.WithField("line", lineNo).Warnf("unknown parameter %q, skipping", name)
			continue
		}
		if err := p.setFromString(s, raw); err != nil {
			return corerr.Wrap(corerr.ParseError, fmt.Sprintf("param.ReadFile: line %d", lineNo), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return corerr.Wrap(corerr.ReadError, "param.ReadFile", err)
	}
	return nil
}

// ReadFilePath opens path and delegates to ReadFile.
func (s *Store) ReadFilePath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return corerr.Wrap(corerr.NoFile, "param.ReadFilePath: "+path, err)
		}
		return corerr.Wrap(corerr.ReadError, "param.ReadFilePath: "+path, err)
	}
	defer func() { _ = f.Close() }()
	return s.ReadFile(f)
}

func stripComment(line string) string {
	inQuotes := false
	for i, r := range line {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case '#':
			if !inQuotes {
				return line[:i]
			}
		}
	}
	return line
}

func splitAssignment(line string) (name, value string, err error) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", corerr.New(corerr.ParseError, "expected \"name = value\"")
	}
	name = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	if name == "" {
		return "", "", corerr.New(corerr.ParseError, "empty parameter name")
	}
	return name, value, nil
}

// WriteFile writes every parameter's current value in the same
// `name = value` grammar ReadFile accepts, sorted by name for a
// deterministic round-trip (§8 property 4).
func (s *Store) WriteFile(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	bw := bufio.NewWriter(w)
	for _, n := range names {
		p := s.byName[n]
		if desc := p.Description(); desc != "" {
			if _, err := fmt.Fprintf(bw, "# %s\n", desc); err != nil {
				return corerr.Wrap(corerr.WriteError, "param.WriteFile", err)
			}
		}
		if _, err := fmt.Fprintf(bw, "%s = %s\n", n, p.stringValue()); err != nil {
			return corerr.Wrap(corerr.WriteError, "param.WriteFile", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return corerr.Wrap(corerr.WriteError, "param.WriteFile", err)
	}
	return nil
}

// WriteFilePath creates (or truncates) path and delegates to WriteFile.
func (s *Store) WriteFilePath(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return corerr.Wrap(corerr.FileCreateError, "param.WriteFilePath: "+path, err)
	}
	defer func() { _ = f.Close() }()
	return s.WriteFile(f)
}
