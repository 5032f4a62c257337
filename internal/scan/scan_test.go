package scan

import (
	"testing"

	"cif/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src string) []token.Token {
	t.Helper()
	sc := New([]byte(src), false)
	var toks []token.Token
	for {
		tok, err := sc.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestScanOffsetAndResume(t *testing.T) {
	src := "data_A\n_a.x 1\ndata_B\n_b.y 2\n"
	normalized := Normalize([]byte(src))
	sc := New(normalized, false)

	tok, err := sc.Next()
	require.NoError(t, err)
	require.Equal(t, token.Data, tok.Kind)
	require.Equal(t, "A", tok.Text)

	for {
		tok, err = sc.Next()
		require.NoError(t, err)
		if tok.Kind == token.Data {
			break
		}
	}
	require.Equal(t, "B", tok.Text)

	resumed := NewAt(normalized, sc.Offset(), sc.Line(), false)
	tok, err = resumed.Next()
	require.NoError(t, err)
	assert.Equal(t, token.Tag, tok.Kind)
	assert.Equal(t, "_b.y", tok.Text)
}

func TestScanLoop(t *testing.T) {
	toks := collect(t, "data_TEST\nloop_ _t.id _t.n\n1 aap  2 noot  3 mies\n")
	kinds := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.Data, token.Loop, token.Tag, token.Tag,
		token.Int, token.Unquoted, token.Int, token.Unquoted, token.Int, token.Unquoted,
		token.EOF,
	}, kinds)
	assert.Equal(t, "TEST", toks[0].Text)
	assert.Equal(t, "_t.id", toks[2].Text)
}

func TestScanNumericClassification(t *testing.T) {
	tests := []struct {
		lexeme string
		kind   token.Kind
	}{
		{"1.0", token.Float},
		{"-.2e11", token.Float},
		{"1.3e-10", token.Float},
		{"3.000000", token.Float},
		{"42", token.Int},
		{"-7", token.Int},
		{"1.2.3", token.Unquoted},
		{"aap", token.Unquoted},
	}
	for _, tt := range tests {
		toks := collect(t, tt.lexeme+"\n")
		require.Len(t, toks, 2)
		assert.Equalf(t, tt.kind, toks[0].Kind, "lexeme %q", tt.lexeme)
	}
}

func TestScanUnknownAndInapplicable(t *testing.T) {
	toks := collect(t, "? .\n")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Unknown, toks[0].Kind)
	assert.Equal(t, "", toks[0].Text)
	assert.Equal(t, token.Inapplicable, toks[1].Kind)
	assert.Equal(t, ".", toks[1].Text)
}

func TestScanQuotedStrings(t *testing.T) {
	toks := collect(t, "'it''s fine' \"she said 'hi'\"\n")
	require.Len(t, toks, 3)
	assert.Equal(t, token.SingleQuoted, toks[0].Kind)
	assert.Equal(t, "it''s fine", toks[0].Text)
	assert.Equal(t, token.DoubleQuoted, toks[1].Kind)
	assert.Equal(t, "she said 'hi'", toks[1].Text)
}

func TestScanQuoteNotFollowedByWhitespaceStaysOpen(t *testing.T) {
	toks := collect(t, "'isn't that nice' done\n")
	require.Len(t, toks, 3)
	assert.Equal(t, token.SingleQuoted, toks[0].Kind)
	assert.Equal(t, "isn't that nice", toks[0].Text)
}

func TestScanTextField(t *testing.T) {
	toks := collect(t, "_t.note\n;line one\nline two\n;\n")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Tag, toks[0].Kind)
	assert.Equal(t, token.TextField, toks[1].Kind)
	assert.Equal(t, "line one\nline two", toks[1].Text)
}

func TestScanUnterminatedTextFieldErrors(t *testing.T) {
	sc := New([]byte("_t.note\n;unterminated\n"), false)
	_, err := sc.Next()
	require.NoError(t, err)
	_, err = sc.Next()
	require.Error(t, err)
}

func TestScanUnterminatedQuoteErrors(t *testing.T) {
	sc := New([]byte("'never closed\n"), false)
	_, err := sc.Next()
	require.Error(t, err)
}

func TestScanCRLFNormalized(t *testing.T) {
	toks := collect(t, "data_A\r\nloop_ _t.id\r\n1\r\n")
	assert.Equal(t, token.Data, toks[0].Kind)
	assert.Equal(t, "A", toks[0].Text)
}

func TestScanCommentsDiscarded(t *testing.T) {
	toks := collect(t, "# a comment\ndata_A # trailing comment\n")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Data, toks[0].Kind)
}

func TestScanReservedWordsCaseInsensitive(t *testing.T) {
	toks := collect(t, "LOOP_ GLOBAL_ STOP_\n")
	require.Len(t, toks, 4)
	assert.Equal(t, token.Loop, toks[0].Kind)
	assert.Equal(t, token.Global, toks[1].Kind)
	assert.Equal(t, token.Stop, toks[2].Kind)
}
