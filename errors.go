package csvskema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/csvskema/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeParseError    = "parse_error"
	// Time normalization
	CodeMissingTimezone = "missing_timezone"
	CodeNotFuture       = "not_future"
	// Custom refine failures
	CodeCustom = "custom"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /age).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Value is the rejected input, when known.
	Value any
	// Line is the 1-based input line of the offending row (0 when unknown).
	Line int
	// Params carries structured parameters (e.g., {"min":1, "max":10})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /age (line 3)
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Line > 0 {
			fmt.Fprintf(b, " (line %d)", it.Line)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssuesFromErr converts an error into Issues, wrapping non-Issues with
// CodeParseError at path.
func IssuesFromErr(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{Issue{Path: path, Code: CodeParseError, Message: err.Error(), Cause: err}}
}

// Rebase prefixes every issue path with base. Root paths ("" or "/") collapse
// onto base itself.
func Rebase(base string, iss Issues) Issues {
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// AtLine returns a copy of iss with Line set on every entry that has none.
func (iss Issues) AtLine(line int) Issues {
	out := make(Issues, len(iss))
	copy(out, iss)
	for i := range out {
		if out[i].Line == 0 {
			out[i].Line = line
		}
	}
	return out
}

// IssueAt creates an Issue at path with a translated message for code.
func IssueAt(path, code string, value any) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, nil), Value: value}
}

func singleIssue(code, hint string) Issues {
	return Issues{Issue{Path: "/", Code: code, Message: i18n.T(code, nil), Hint: hint}}
}
