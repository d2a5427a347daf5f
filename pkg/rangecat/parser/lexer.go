package parser

type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT // parameter and function names
	INT   // integers
	FLOAT // floating point numbers

	// Keywords
	LAMBDA
	TRUE
	FALSE

	// Operators
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %
	POW      // **
	EQ       // ==
	NOT_EQ   // !=
	LT       // <
	GT       // >
	LTE      // <=
	GTE      // >=
	AND      // && or "and"
	OR       // || or "or"
	NOT      // ! or "not"

	// Delimiters
	COMMA // ,
	DOT   // .
	COLON // :

	LPAREN // (
	RPAREN // )
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int
	Line     int
	Column   int
}

// Both the Python spellings and the symbolic forms are accepted for
// boolean connectives and literals; they collapse to the same tokens.
var keywords = map[string]TokenType{
	"lambda": LAMBDA,
	"and":    AND,
	"or":     OR,
	"not":    NOT,
	"True":   TRUE,
	"False":  FALSE,
	"true":   TRUE,
	"false":  FALSE,
}

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	tok.Position = l.position
	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: EQ, Literal: string(ch) + string(l.ch), Position: l.position - 1, Line: l.line, Column: l.column - 1}
		} else {
			// bare assignment is not part of the grammar
			tok = newToken(ILLEGAL, l.ch, l.position, l.line, l.column)
		}
	case '!':
		if l.peekChar() == '=' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: NOT_EQ, Literal: string(ch) + string(l.ch), Position: l.position - 1, Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(NOT, l.ch, l.position, l.line, l.column)
		}
	case '<':
		if l.peekChar() == '=' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: LTE, Literal: string(ch) + string(l.ch), Position: l.position - 1, Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(LT, l.ch, l.position, l.line, l.column)
		}
	case '>':
		if l.peekChar() == '=' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: GTE, Literal: string(ch) + string(l.ch), Position: l.position - 1, Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(GT, l.ch, l.position, l.line, l.column)
		}
	case '&':
		if l.peekChar() == '&' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: AND, Literal: string(ch) + string(l.ch), Position: l.position - 1, Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(ILLEGAL, l.ch, l.position, l.line, l.column)
		}
	case '|':
		if l.peekChar() == '|' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: OR, Literal: string(ch) + string(l.ch), Position: l.position - 1, Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(ILLEGAL, l.ch, l.position, l.line, l.column)
		}
	case '*':
		if l.peekChar() == '*' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: POW, Literal: string(ch) + string(l.ch), Position: l.position - 1, Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(ASTERISK, l.ch, l.position, l.line, l.column)
		}
	case '+':
		tok = newToken(PLUS, l.ch, l.position, l.line, l.column)
	case '-':
		tok = newToken(MINUS, l.ch, l.position, l.line, l.column)
	case '/':
		tok = newToken(SLASH, l.ch, l.position, l.line, l.column)
	case '%':
		tok = newToken(PERCENT, l.ch, l.position, l.line, l.column)
	case ',':
		tok = newToken(COMMA, l.ch, l.position, l.line, l.column)
	case '.':
		tok = newToken(DOT, l.ch, l.position, l.line, l.column)
	case ':':
		tok = newToken(COLON, l.ch, l.position, l.line, l.column)
	case '(':
		tok = newToken(LPAREN, l.ch, l.position, l.line, l.column)
	case ')':
		tok = newToken(RPAREN, l.ch, l.position, l.line, l.column)
	case 0:
		if l.position >= len(l.input) {
			tok.Literal = ""
			tok.Type = EOF
		} else {
			// an embedded NUL byte must not truncate the rule
			tok = newToken(ILLEGAL, l.ch, l.position, l.line, l.column)
		}
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = lookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Type, tok.Literal = l.readNumber()
			return tok
		} else {
			tok = newToken(ILLEGAL, l.ch, l.position, l.line, l.column)
		}
	}

	l.readChar()
	return tok
}

func newToken(tokenType TokenType, ch byte, position, line, column int) Token {
	return Token{
		Type:     tokenType,
		Literal:  string(ch),
		Position: position,
		Line:     line,
		Column:   column,
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() (TokenType, string) {
	position := l.position
	tokenType := INT

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		tokenType = FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return tokenType, l.input[position:l.position]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

func (t TokenType) String() string {
	switch t {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case IDENT:
		return "IDENT"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case LAMBDA:
		return "lambda"
	case TRUE:
		return "True"
	case FALSE:
		return "False"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case ASTERISK:
		return "*"
	case SLASH:
		return "/"
	case PERCENT:
		return "%"
	case POW:
		return "**"
	case EQ:
		return "=="
	case NOT_EQ:
		return "!="
	case LT:
		return "<"
	case GT:
		return ">"
	case LTE:
		return "<="
	case GTE:
		return ">="
	case AND:
		return "and"
	case OR:
		return "or"
	case NOT:
		return "not"
	case COMMA:
		return ","
	case DOT:
		return "."
	case COLON:
		return ":"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	default:
		return "UNKNOWN"
	}
}
