package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/xiaobogaga/ic/util"
)

// A simple Tokenizer for IC.

// IC language has those elements:
// * KeyWord: class, extends, static, void, int, boolean, string, return, if, else, while, break, continue,
// 			this, new, length, true, false, null.
// * Symbol: {, }, (, ), [, ], ., ,, ;, =, +, -, *, /, %, <, <=, >, >=, ==, !=, !, &&, ||.
// * Constant: integer, string ("xxx")
// * Identifier: letters, digits, underscore, starting with a lower case letter.
// * ClassIdentifier: same as identifier but starting with an upper case letter.
// * Comment: /**/, //.

type TokenType int

const (
	ClassTP              TokenType = iota // class
	ExtendsTP                             // extends
	StaticTP                              // static
	VoidTP                                // void
	IntTP                                 // int
	BooleanTP                             // boolean
	StringKeyWordTP                       // string
	ReturnTP                              // return
	IfTP                                  // if
	ElseTP                                // else
	WhileTP                               // while
	BreakTP                               // break
	ContinueTP                            // continue
	ThisTP                                // this
	NewTP                                 // new
	LengthTP                              // length
	TrueTP                                // true
	FalseTP                               // false
	NullTP                                // null
	LeftBraceTP                           // {
	RightBraceTP                          // }
	LeftParentThesesTP                    // (
	RightParentThesesTP                   // )
	LeftSquareBracketTP                   // [
	RightSquareBracketTP                  // ]
	DotTP                                 // .
	CommaTP                               // ,
	SemiColonTP                           // ;
	AssignTP                              // =
	AddTP                                 // +
	MinusTP                               // -
	MultiplyTP                            // *
	DivideTP                              // /
	ModTP                                 // %
	LessTP                                // <
	LessEqualTP                           // <=
	GreaterTP                             // >
	GreaterEqualTP                        // >=
	EqualTP                               // ==
	NotEqualTP                            // !=
	NotTP                                 // !
	AndTP                                 // &&
	OrTP                                  // ||
	IntegerTP                             // 1010
	StringTP                              // "xxx"
	IdentifierTP                          // varA
	ClassIdentifierTP                     // ClassA
)

// keyWordTokenTPMap is the mapping from identifier to the corresponding TokenTP.
var keyWordTokenTPMap = map[string]TokenType{
	"class":    ClassTP,
	"extends":  ExtendsTP,
	"static":   StaticTP,
	"void":     VoidTP,
	"int":      IntTP,
	"boolean":  BooleanTP,
	"string":   StringKeyWordTP,
	"return":   ReturnTP,
	"if":       IfTP,
	"else":     ElseTP,
	"while":    WhileTP,
	"break":    BreakTP,
	"continue": ContinueTP,
	"this":     ThisTP,
	"new":      NewTP,
	"length":   LengthTP,
	"true":     TrueTP,
	"false":    FalseTP,
	"null":     NullTP,
}

// simpleSymbolTokenTPMap is the mapping from simple identifier to the corresponding TokenTP.
// There are some symbols which are very easy to distinguish, so we put those together.
var simpleSymbolTokenTPMap = map[string]TokenType{
	"{": LeftBraceTP,
	"}": RightBraceTP,
	"(": LeftParentThesesTP,
	")": RightParentThesesTP,
	"[": LeftSquareBracketTP,
	"]": RightSquareBracketTP,
	".": DotTP,
	",": CommaTP,
	";": SemiColonTP,
	"+": AddTP,
	"-": MinusTP,
	"*": MultiplyTP,
	"%": ModTP,
}

// twoCharSymbolTokenTPMap holds symbols that may be followed by '=' or need a doubled character.
var twoCharSymbolTokenTPMap = map[string]TokenType{
	"<":  LessTP,
	"<=": LessEqualTP,
	">":  GreaterTP,
	">=": GreaterEqualTP,
	"=":  AssignTP,
	"==": EqualTP,
	"!":  NotTP,
	"!=": NotEqualTP,
	"&&": AndTP,
	"||": OrTP,
}

type Token struct {
	content  string
	line     int
	startPos int
	endPos   int
	tp       TokenType
}

func (t *Token) String() string {
	return t.content
}

type Tokenizer struct {
	currentPos  int
	currentLine int
	inComment   bool
	tokens      []*Token
}

// getNextToken returns the next token from line, or nil when the rest of the line holds no token.
func (tokenizer *Tokenizer) getNextToken(line []byte) (*Token, error) {
	tokenizer.trimSpace(line)
	if !tokenizer.hasRemainCharacters(line) {
		return nil, nil
	}
	switch line[tokenizer.currentPos] {
	case '{', '}', '(', ')', '[', ']', '.', ',', ';', '+', '-', '*', '%':
		return tokenizer.tokenSimpleSymbol(line)
	case '<', '>', '=', '!', '&', '|':
		return tokenizer.tokenTwoCharSymbol(line)
	case '/':
		return tokenizer.tokenCommentOrDivide(line)
	case '"':
		return tokenizer.tokenString(line)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9', '0':
		return tokenizer.tokenNumber(line)
	default:
		return tokenizer.toKeywordOrIdentifier(line)
	}
}

// trimSpace will step forward through line and skip all continuous space.
func (tokenizer *Tokenizer) trimSpace(line []byte) {
	for tokenizer.currentPos < len(line) {
		if unicode.IsSpace(rune(line[tokenizer.currentPos])) {
			tokenizer.currentPos++
			continue
		}
		break
	}
}

func (tokenizer *Tokenizer) hasRemainCharacters(line []byte) bool {
	return tokenizer.currentPos < len(line)
}

func (tokenizer *Tokenizer) makeToken(content string, tp TokenType, startPos, endPos int) *Token {
	return &Token{
		content:  content,
		line:     tokenizer.currentLine,
		tp:       tp,
		startPos: startPos,
		endPos:   endPos,
	}
}

func (tokenizer *Tokenizer) tokenSimpleSymbol(line []byte) (*Token, error) {
	symbol := string(line[tokenizer.currentPos])
	token := tokenizer.makeToken(symbol, simpleSymbolTokenTPMap[symbol], tokenizer.currentPos, tokenizer.currentPos+1)
	tokenizer.currentPos++
	return token, nil
}

func (tokenizer *Tokenizer) tokenTwoCharSymbol(line []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	if startPos+1 < len(line) {
		symbol := string(line[startPos : startPos+2])
		if tp, ok := twoCharSymbolTokenTPMap[symbol]; ok {
			tokenizer.currentPos += 2
			return tokenizer.makeToken(symbol, tp, startPos, startPos+2), nil
		}
	}
	symbol := string(line[startPos])
	tp, ok := twoCharSymbolTokenTPMap[symbol]
	if !ok {
		// A single & or | is not part of IC.
		return nil, tokenizer.makeError(symbol, tokenizer.currentLine, "unknown symbol")
	}
	tokenizer.currentPos++
	return tokenizer.makeToken(symbol, tp, startPos, startPos+1), nil
}

func (tokenizer *Tokenizer) tokenCommentOrDivide(line []byte) (*Token, error) {
	// If / is not followed by * or /, then it's not a comment.
	if len(line[tokenizer.currentPos:]) == 1 || (line[tokenizer.currentPos+1] != '/' && line[tokenizer.currentPos+1] != '*') {
		token := tokenizer.makeToken("/", DivideTP, tokenizer.currentPos, tokenizer.currentPos+1)
		tokenizer.currentPos++
		return token, nil
	}
	if line[tokenizer.currentPos+1] == '/' {
		// The rest of the line is a comment.
		tokenizer.currentPos = len(line)
		return nil, nil
	}
	tokenizer.currentPos += 2
	tokenizer.inComment = true
	tokenizer.skipComment(line)
	return tokenizer.getNextToken(line)
}

// skipComment steps forward until the closing */ of a multiple line comment, or to the end of line
// when the comment continues on the next line.
func (tokenizer *Tokenizer) skipComment(line []byte) {
	for tokenizer.currentPos < len(line) {
		if tokenizer.currentPos < len(line)-1 && line[tokenizer.currentPos] == '*' &&
			line[tokenizer.currentPos+1] == '/' {
			tokenizer.currentPos += 2
			tokenizer.inComment = false
			return
		}
		tokenizer.currentPos++
	}
}

func (tokenizer *Tokenizer) tokenString(line []byte) (*Token, error) {
	// Looking forward through line to find a closing quote, escapes are kept as written.
	startPos := tokenizer.currentPos
	tokenizer.currentPos++
	foundClosingQuote := false
	for tokenizer.currentPos < len(line) {
		c := line[tokenizer.currentPos]
		if c == '"' {
			tokenizer.currentPos++
			foundClosingQuote = true
			break
		}
		if c == '\n' || c == '\r' {
			break
		}
		if c == '\\' {
			if tokenizer.currentPos+1 >= len(line) || !isEscapeCharacter(line[tokenizer.currentPos+1]) {
				return nil, tokenizer.makeError(string(line[startPos:]), tokenizer.currentLine, "illegal escape sequence")
			}
			tokenizer.currentPos += 2
			continue
		}
		tokenizer.currentPos++
	}
	// If cannot find an closing quote, then string format is not correct.
	if !foundClosingQuote {
		return nil, tokenizer.makeError(string(line[startPos:]), tokenizer.currentLine, "incorrect string format")
	}
	return tokenizer.makeToken(string(line[startPos+1:tokenizer.currentPos-1]), StringTP, startPos+1,
		tokenizer.currentPos-1), nil
}

func isEscapeCharacter(b byte) bool {
	return b == '"' || b == '\\' || b == 'n' || b == 't'
}

func (tokenizer *Tokenizer) tokenNumber(line []byte) (*Token, error) {
	// Look forward to find a continuous number
	startPos := tokenizer.currentPos
	tokenizer.currentPos++
	for tokenizer.currentPos < len(line) && util.IsNumber(line[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	content := line[startPos:tokenizer.currentPos]
	if len(content) > 1 && !util.IsNumberAndLargerThanZero(content[0]) {
		return nil, tokenizer.makeError(string(content), tokenizer.currentLine, "leading zeros are not allowed")
	}
	if tokenizer.currentPos < len(line) && util.IsLetterOrUnderscore(line[tokenizer.currentPos]) {
		return nil, tokenizer.makeError(string(line[startPos:]), tokenizer.currentLine, "incorrect identifier format")
	}
	// The value isn't range checked here, -2147483648 is only legal as a whole.
	return tokenizer.makeToken(string(content), IntegerTP, startPos, tokenizer.currentPos), nil
}

func (tokenizer *Tokenizer) toKeywordOrIdentifier(line []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	if !util.IsLetterOrUnderscore(line[startPos]) {
		return nil, tokenizer.makeError(string(line[startPos]), tokenizer.currentLine, "unknown character")
	}
	for tokenizer.currentPos < len(line) && util.IsLetterOrUnderscoreOrNumber(line[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	tokenBytes := line[startPos:tokenizer.currentPos]
	if keyWordTP, isKeyWord := keyWordTokenTPMap[string(tokenBytes)]; isKeyWord {
		return tokenizer.makeToken(string(tokenBytes), keyWordTP, startPos, tokenizer.currentPos), nil
	}
	switch {
	case util.IsUpperLetter(tokenBytes[0]):
		return tokenizer.makeToken(string(tokenBytes), ClassIdentifierTP, startPos, tokenizer.currentPos), nil
	case util.IsLowerLetter(tokenBytes[0]):
		return tokenizer.makeToken(string(tokenBytes), IdentifierTP, startPos, tokenizer.currentPos), nil
	default:
		return nil, tokenizer.makeError(string(tokenBytes), tokenizer.currentLine, "incorrect identifier format")
	}
}

func (tokenizer *Tokenizer) makeError(near string, line int, msg string) error {
	return errors.New(fmt.Sprintf("Tokenizer: tokenizer error near %s at line %d, msg: %s", near, line, msg))
}

// Tokenize accepts a source `rd` and tokenize it's content according to IC language rules.
// This method is the main method of this tokenizer.
func (tokenizer *Tokenizer) Tokenize(rd io.Reader) (tokens []*Token, err error) {
	bfReader := bufio.NewReader(rd)
	tokenizer.currentLine = 0
	commentStartLine := 0
	for {
		tokenizer.currentLine++
		tokenizer.currentPos = 0
		line, readErr := bfReader.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, readErr
		}
		if !tokenizer.inComment {
			commentStartLine = tokenizer.currentLine
		}
		err = tokenizer.parseLine(line)
		if err != nil {
			return nil, err
		}
		if readErr == io.EOF {
			break
		}
	}
	if tokenizer.inComment {
		return nil, tokenizer.makeError("/*", commentStartLine, "incorrect comment format")
	}
	return tokenizer.tokens, nil
}

func (tokenizer *Tokenizer) parseLine(line []byte) error {
	if tokenizer.inComment {
		tokenizer.skipComment(line)
	}
	for {
		token, err := tokenizer.getNextToken(line)
		if err != nil {
			return err
		}
		if token == nil {
			return nil
		}
		tokenizer.tokens = append(tokenizer.tokens, token)
	}
}

func (tokenizer *Tokenizer) Reset() {
	tokenizer.currentPos, tokenizer.currentLine, tokenizer.inComment = 0, 0, false
	tokenizer.tokens = nil
}
