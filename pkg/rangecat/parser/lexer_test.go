package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mungbai/rangecat/pkg/rangecat/parser"
)

func TestNextToken(t *testing.T) {
	input := `lambda x: (x % 2 == 0) and not x != 4 or x <= 1.5 ** 2 >= 3`

	expected := []struct {
		tokenType parser.TokenType
		literal   string
	}{
		{parser.LAMBDA, "lambda"},
		{parser.IDENT, "x"},
		{parser.COLON, ":"},
		{parser.LPAREN, "("},
		{parser.IDENT, "x"},
		{parser.PERCENT, "%"},
		{parser.INT, "2"},
		{parser.EQ, "=="},
		{parser.INT, "0"},
		{parser.RPAREN, ")"},
		{parser.AND, "and"},
		{parser.NOT, "not"},
		{parser.IDENT, "x"},
		{parser.NOT_EQ, "!="},
		{parser.INT, "4"},
		{parser.OR, "or"},
		{parser.IDENT, "x"},
		{parser.LTE, "<="},
		{parser.FLOAT, "1.5"},
		{parser.POW, "**"},
		{parser.INT, "2"},
		{parser.GTE, ">="},
		{parser.INT, "3"},
		{parser.EOF, ""},
	}

	l := parser.NewLexer(input)
	for i, want := range expected {
		tok := l.NextToken()
		require.Equal(t, want.tokenType, tok.Type,
			"token %d: want type %s, got %s (%q)", i, want.tokenType, tok.Type, tok.Literal)
		assert.Equal(t, want.literal, tok.Literal, "token %d", i)
	}
}

func TestNextToken_SymbolicConnectives(t *testing.T) {
	input := `x && y || !z`

	expected := []struct {
		tokenType parser.TokenType
		literal   string
	}{
		{parser.IDENT, "x"},
		{parser.AND, "&&"},
		{parser.IDENT, "y"},
		{parser.OR, "||"},
		{parser.NOT, "!"},
		{parser.IDENT, "z"},
		{parser.EOF, ""},
	}

	l := parser.NewLexer(input)
	for i, want := range expected {
		tok := l.NextToken()
		require.Equal(t, want.tokenType, tok.Type, "token %d", i)
		assert.Equal(t, want.literal, tok.Literal, "token %d", i)
	}
}

func TestNextToken_DotAndCall(t *testing.T) {
	input := `math.sqrt(x, 2)`

	expected := []struct {
		tokenType parser.TokenType
		literal   string
	}{
		{parser.IDENT, "math"},
		{parser.DOT, "."},
		{parser.IDENT, "sqrt"},
		{parser.LPAREN, "("},
		{parser.IDENT, "x"},
		{parser.COMMA, ","},
		{parser.INT, "2"},
		{parser.RPAREN, ")"},
		{parser.EOF, ""},
	}

	l := parser.NewLexer(input)
	for i, want := range expected {
		tok := l.NextToken()
		require.Equal(t, want.tokenType, tok.Type, "token %d", i)
		assert.Equal(t, want.literal, tok.Literal, "token %d", i)
	}
}

func TestNextToken_IllegalCharacters(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		literal string
	}{
		{"bare_assignment", "x = 2", "="},
		{"single_ampersand", "x & y", "&"},
		{"single_pipe", "x | y", "|"},
		{"at_sign", "@", "@"},
		{"semicolon", "x;", ";"},
		{"embedded_nul", "x > 0\x00y", "\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := parser.NewLexer(tt.input)
			for {
				tok := l.NextToken()
				require.NotEqual(t, parser.EOF, tok.Type, "reached EOF without an ILLEGAL token")
				if tok.Type == parser.ILLEGAL {
					assert.Equal(t, tt.literal, tok.Literal)
					return
				}
			}
		})
	}
}

func TestNextToken_Numbers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []struct {
			tokenType parser.TokenType
			literal   string
		}
	}{
		{
			name:  "integer",
			input: "42",
			expected: []struct {
				tokenType parser.TokenType
				literal   string
			}{{parser.INT, "42"}},
		},
		{
			name:  "float",
			input: "3.14",
			expected: []struct {
				tokenType parser.TokenType
				literal   string
			}{{parser.FLOAT, "3.14"}},
		},
		{
			name:  "fraction_below_one",
			input: "0.5",
			expected: []struct {
				tokenType parser.TokenType
				literal   string
			}{{parser.FLOAT, "0.5"}},
		},
		{
			// a trailing dot is not part of the number
			name:  "trailing_dot",
			input: "3.",
			expected: []struct {
				tokenType parser.TokenType
				literal   string
			}{{parser.INT, "3"}, {parser.DOT, "."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := parser.NewLexer(tt.input)
			for i, want := range tt.expected {
				tok := l.NextToken()
				require.Equal(t, want.tokenType, tok.Type, "token %d", i)
				assert.Equal(t, want.literal, tok.Literal, "token %d", i)
			}
			assert.Equal(t, parser.EOF, l.NextToken().Type)
		})
	}
}

func TestNextToken_KeywordsAreCaseSensitive(t *testing.T) {
	tests := []struct {
		input     string
		tokenType parser.TokenType
	}{
		{"True", parser.TRUE},
		{"true", parser.TRUE},
		{"False", parser.FALSE},
		{"false", parser.FALSE},
		{"TRUE", parser.IDENT},
		{"And", parser.IDENT},
		{"and", parser.AND},
		{"Not", parser.IDENT},
		{"lambda", parser.LAMBDA},
		{"Lambda", parser.IDENT},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := parser.NewLexer(tt.input)
			tok := l.NextToken()
			assert.Equal(t, tt.tokenType, tok.Type)
			assert.Equal(t, tt.input, tok.Literal)
		})
	}
}

func TestNextToken_TracksLineAndColumn(t *testing.T) {
	l := parser.NewLexer("x and\n  y")

	x := l.NextToken()
	assert.Equal(t, 1, x.Line)
	assert.Equal(t, 1, x.Column)
	assert.Equal(t, 0, x.Position)

	and := l.NextToken()
	assert.Equal(t, 1, and.Line)
	assert.Equal(t, 3, and.Column)

	y := l.NextToken()
	assert.Equal(t, parser.IDENT, y.Type)
	assert.Equal(t, 2, y.Line)
	assert.Equal(t, 3, y.Column)
	assert.Equal(t, 8, y.Position)
}

func TestNextToken_IdentifiersWithUnderscoresAndDigits(t *testing.T) {
	l := parser.NewLexer("my_var2")
	tok := l.NextToken()
	assert.Equal(t, parser.IDENT, tok.Type)
	assert.Equal(t, "my_var2", tok.Literal)
	assert.Equal(t, parser.EOF, l.NextToken().Type)
}
