// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package ini parses the configparser dialect used by setup.cfg: sections,
// = or : separators, comments, and indented multiline values.
package ini

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// File holds the parsed sections keyed by name.
type File struct {
	Sections map[string]map[string]string
}

// Value returns the value for key within section.
func (f *File) Value(section, key string) (string, bool) {
	if s, ok := f.Sections[section]; ok {
		v, ok := s[key]
		return v, ok
	}
	return "", false
}

func (f *File) section(name string) map[string]string {
	if _, ok := f.Sections[name]; !ok {
		f.Sections[name] = make(map[string]string)
	}
	return f.Sections[name]
}

// Parse reads an INI document. Continuation lines must be indented deeper
// than their key; comment lines inside a multiline value are dropped and
// blank lines are kept only between continuations.
func Parse(r io.Reader) (*File, error) {
	scanner := bufio.NewScanner(r)
	file := &File{Sections: make(map[string]map[string]string)}
	var (
		section     map[string]string
		key         string
		value       strings.Builder
		inMultiline bool
		lineNum     int
		keyIndent   int
		heldBlanks  int
	)
	flush := func() {
		if key == "" {
			return
		}
		if section == nil {
			section = file.section("")
		}
		section[key] = value.String()
		value.Reset()
		key = ""
	}
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
		indent := len(raw) - len(trimmed)
		isComment := len(trimmed) > 0 && (trimmed[0] == '#' || trimmed[0] == ';')
		isEmpty := len(trimmed) == 0
		if inMultiline {
			switch {
			case isComment:
				continue
			case isEmpty:
				heldBlanks++
				continue
			case indent > keyIndent:
				for range heldBlanks {
					value.WriteByte('\n')
				}
				heldBlanks = 0
				if idx := inlineComment(trimmed); idx != -1 {
					trimmed = trimmed[:idx]
				}
				value.WriteByte('\n')
				value.WriteString(strings.TrimSpace(trimmed))
				continue
			default:
				flush()
				inMultiline = false
				heldBlanks = 0
			}
		}
		if isEmpty || isComment {
			continue
		}
		line := trimmed
		if idx := inlineComment(line); idx != -1 {
			line = strings.TrimSpace(line[:idx])
			if len(line) == 0 {
				continue
			}
		}
		if line[0] == '[' {
			end := strings.LastIndexByte(line, ']')
			if end > 1 {
				section = file.section(line[1:end])
				continue
			}
			// configparser falls back to key-value parsing when a bracketed
			// line still carries a separator.
			if !strings.ContainsAny(line, "=:") {
				if end == -1 {
					return nil, errors.Errorf("line %d: unclosed section header", lineNum)
				}
				return nil, errors.Errorf("line %d: empty section name", lineNum)
			}
		}
		sep := strings.IndexAny(line, "=:")
		if sep == -1 {
			return nil, errors.Errorf("line %d: no key-value separator", lineNum)
		}
		k := strings.TrimSpace(line[:sep])
		if k == "" {
			return nil, errors.Errorf("line %d: empty key name", lineNum)
		}
		flush()
		key = k
		keyIndent = indent
		inMultiline = true
		value.WriteString(strings.TrimSpace(line[sep+1:]))
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	return file, nil
}

// inlineComment returns the byte index of a # or ; preceded by whitespace,
// or -1.
func inlineComment(s string) int {
	prev := rune(-1)
	idx := 0
	for _, r := range s {
		if (r == '#' || r == ';') && prev != -1 && unicode.IsSpace(prev) {
			return idx
		}
		prev = r
		idx += len(string(r))
	}
	return -1
}
