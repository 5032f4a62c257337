package serialize

import (
	"strings"

	"cif/internal/cerr"
)

// encodePresentText picks the CIF lexical form for a present, non-
// special value text: unquoted if it parses back as itself unquoted;
// else single-quoted if it holds no single quote and no newline; else
// double-quoted if it holds a single quote but no double quote (and no
// newline); else a semicolon text field.
func encodePresentText(v string) (string, error) {
	if canUnquote(v) {
		return v, nil
	}
	hasNewline := strings.ContainsRune(v, '\n')
	hasSingle := strings.ContainsRune(v, '\'')
	hasDouble := strings.ContainsRune(v, '"')
	switch {
	case !hasSingle && !hasNewline:
		return "'" + v + "'", nil
	case !hasDouble && !hasNewline:
		return "\"" + v + "\"", nil
	default:
		return textField(v)
	}
}

// canUnquote reports whether v round-trips as an unquoted value: the
// scanner splits unquoted lexemes on whitespace and reclassifies
// reserved prefixes/keywords, so v must contain none of that, must not
// start with a quote, '#' or ';', and must not collide with '.' or '?',
// the two special tokens.
func canUnquote(v string) bool {
	if v == "" || v == "." || v == "?" {
		return false
	}
	if strings.ContainsAny(v, " \t\n") {
		return false
	}
	if !isAllPrintable(v) {
		return false
	}
	if v[0] == '_' {
		return false
	}
	if strings.ContainsRune("'\"#;", rune(v[0])) {
		return false
	}
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "data_") || strings.HasPrefix(lower, "save_") {
		return false
	}
	if strings.Contains(lower, "loop_") || strings.Contains(lower, "stop_") || strings.Contains(lower, "global_") {
		return false
	}
	return true
}

func isAllPrintable(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c < 0x20 || c >= 0x7f {
			return false
		}
	}
	return true
}

// textField renders v as a semicolon-delimited text field. A content
// line beginning with ';' would be misread as the closing delimiter by
// the scanner (internal/scan has no escape convention for it), so such
// a value cannot be represented and is reported as an error rather than
// silently corrupted.
func textField(v string) (string, error) {
	for _, line := range strings.Split(v, "\n") {
		if strings.HasPrefix(line, ";") {
			return "", &cerr.ValidationError{Message: "value has a line starting with ';', cannot be written as a text field"}
		}
	}
	var b strings.Builder
	b.WriteByte(';')
	b.WriteString(v)
	if !strings.HasSuffix(v, "\n") {
		b.WriteByte('\n')
	}
	b.WriteByte(';')
	return b.String(), nil
}
