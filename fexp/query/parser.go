package query

import (
	"strconv"
	"strings"
)

const (
	directivePrefix = "@"
	extPrefix       = "@ext:"
	sizePrefix      = "@size"
	datePrefix      = "@date:"

	// "@size" plus an operator plus at least one payload byte.
	minSizeDirectiveLen = len(sizePrefix) + 2
)

// Warning records a directive that was dropped while parsing. Warnings never
// fail a query; the directive is treated as absent.
type Warning struct {
	Token  string `json:"token" yaml:"token"`
	Reason string `json:"reason" yaml:"reason"`
}

func (w Warning) String() string {
	return w.Token + ": " + w.Reason
}

// Query is a parsed query: structured filters plus the literal substring that
// is matched against full paths.
type Query struct {
	Filter   Filter
	Term     string
	Warnings []Warning
}

// Parse splits raw on whitespace and sorts each token into a directive or a
// search term.
//
//	@file            only files
//	@dir, @folder    only directories
//	@ext:<ext>       extension, compared case-insensitively
//	@size><n><unit>  at least n KB/MB/GB (files only)
//	@size<<n><unit>  at most n KB/MB/GB (files only)
//	@date:<year>     modified in year
//
// Plain tokens are joined into the term with single spaces. An "@" token that
// is not a directive is appended to the term without a separating space.
// Malformed directives are dropped and reported in Warnings.
func Parse(raw string) Query {
	var q Query
	var term strings.Builder

	for _, tok := range strings.Fields(raw) {
		if !strings.HasPrefix(tok, directivePrefix) {
			if term.Len() > 0 {
				term.WriteByte(' ')
			}
			term.WriteString(tok)
			continue
		}

		switch {
		case tok == "@file":
			q.Filter.IsFile = ptr(true)
		case tok == "@dir" || tok == "@folder":
			q.Filter.IsFile = ptr(false)
		case strings.HasPrefix(tok, extPrefix):
			q.Filter.Extension = ptr(tok[len(extPrefix):])
		case strings.HasPrefix(tok, sizePrefix):
			q.parseSize(tok)
		case strings.HasPrefix(tok, datePrefix):
			year, err := strconv.ParseInt(tok[len(datePrefix):], 10, 32)
			if err != nil {
				q.warn(tok, "year is not an integer")
				continue
			}
			q.Filter.Year = ptr(int(year))
		default:
			term.WriteString(tok)
		}
	}

	q.Term = term.String()
	return q
}

func (q *Query) parseSize(tok string) {
	if len(tok) < minSizeDirectiveLen {
		q.warn(tok, "size directive too short")
		return
	}

	size, err := parseSizeDirective(tok[len(sizePrefix)+1:])
	if err != nil {
		q.warn(tok, err.Error())
		return
	}

	switch tok[len(sizePrefix)] {
	case '>':
		q.Filter.MinSize = ptr(size)
	case '<':
		q.Filter.MaxSize = ptr(size)
	default:
		q.warn(tok, "size operator must be < or >")
	}
}

func (q *Query) warn(tok, reason string) {
	q.Warnings = append(q.Warnings, Warning{Token: tok, Reason: reason})
}

func ptr[T any](v T) *T {
	return &v
}
