package token

type TokenType int

const (
	INT_LIT TokenType = iota
	IDENTIFIER

	KEYWORD_BEGIN
	LET
	PRINT
	FN
	RETURN
	KEYWORD_END

	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	EQUAL
	SEMICOLON

	binaryop_begin
	PLUS
	MINUS
	STAR
	SLASH
	binaryop_end
)

func (t TokenType) IsBinaryOperator() bool {
	return t > binaryop_begin && t < binaryop_end
}

func (t TokenType) IsKeyword() bool {
	return t > KEYWORD_BEGIN && t < KEYWORD_END
}

// String is the token's spelling as used in diagnostics, e.g.
// "Expected ';', got identifier".
func (t TokenType) String() string {
	switch t {
	case INT_LIT:
		return "integer literal"
	case IDENTIFIER:
		return "identifier"
	case LET:
		return "'let'"
	case PRINT:
		return "'print'"
	case FN:
		return "'fn'"
	case RETURN:
		return "'return'"
	case LEFT_PAREN:
		return "'('"
	case RIGHT_PAREN:
		return "')'"
	case LEFT_BRACE:
		return "'{'"
	case RIGHT_BRACE:
		return "'}'"
	case EQUAL:
		return "'='"
	case SEMICOLON:
		return "';'"
	case PLUS:
		return "'+'"
	case MINUS:
		return "'-'"
	case STAR:
		return "'*'"
	case SLASH:
		return "'/'"
	}

	return "unknown token"
}

type Token struct {
	Lexeme string
	Type   TokenType
	Pos    Pos
}

// Pos is 1-based in both line and column, matching how editors count.
type Pos struct {
	Line   int
	Column int
}

// Keywords maps spelling to token type. Order matters to the lexer: keyword
// recognizers are tried in this order, before the identifier recognizer.
var Keywords = []struct {
	Spelling string
	Type     TokenType
}{
	{"return", RETURN},
	{"print", PRINT},
	{"let", LET},
	{"fn", FN},
}

// Punctuation lists every single-character token in the language.
var Punctuation = []struct {
	Char byte
	Type TokenType
}{
	{'(', LEFT_PAREN},
	{')', RIGHT_PAREN},
	{'{', LEFT_BRACE},
	{'}', RIGHT_BRACE},
	{'+', PLUS},
	{'-', MINUS},
	{'*', STAR},
	{'/', SLASH},
	{'=', EQUAL},
	{';', SEMICOLON},
}
