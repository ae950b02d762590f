package internal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Parser struct {
	currentTokenPos int
	currentTokens   []*Token
	library         bool // parsing a library signature file, methods are `static sig;`
}

func (parser *Parser) reset() {
	parser.currentTokenPos, parser.currentTokens, parser.library = 0, nil, false
}

func isICFile(fileName string) bool {
	return strings.HasSuffix(fileName, ".ic") || strings.HasSuffix(fileName, ".sig")
}

// ParseFile tokenizes and parses a whole IC program.
func (parser *Parser) ParseFile(fileName string) (*Program, error) {
	if !isICFile(fileName) {
		return nil, fmt.Errorf("%s is not an IC file", fileName)
	}
	rd, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return parser.ParseProgram(filepath.Base(fileName), rd)
}

func (parser *Parser) ParseProgram(name string, rd io.Reader) (*Program, error) {
	parser.reset()
	tokenizer := &Tokenizer{}
	tokens, err := tokenizer.Tokenize(rd)
	if err != nil {
		return nil, err
	}
	parser.currentTokens = tokens
	program := &Program{Name: name, Position: Position{LineNo: 1}}
	for parser.hasRemainTokens() {
		class, err := parser.ParseClassDeclaration()
		if err != nil {
			return nil, err
		}
		program.Classes = append(program.Classes, class)
	}
	return program, nil
}

// ParseLibrary parses a library signature file. It holds a single class whose methods are static
// signatures without bodies.
func (parser *Parser) ParseLibrary(rd io.Reader) (*ClassAst, error) {
	parser.reset()
	tokenizer := &Tokenizer{}
	tokens, err := tokenizer.Tokenize(rd)
	if err != nil {
		return nil, err
	}
	parser.currentTokens, parser.library = tokens, true
	class, err := parser.ParseClassDeclaration()
	if err != nil {
		return nil, err
	}
	if parser.hasRemainTokens() {
		return nil, parser.makeError(true)
	}
	return class, nil
}

// class ClassId [extends ClassId] {
//    fields and methods
// }
func (parser *Parser) ParseClassDeclaration() (*ClassAst, error) {
	classToken, match := parser.expectToken(ClassTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	classNameToken, match := parser.expectToken(ClassIdentifierTP, true)
	if !match {
		return nil, parser.makeError(false)
	}
	class := &ClassAst{Position: Position{LineNo: classToken.line}, Name: classNameToken.content}
	if _, match = parser.expectToken(ExtendsTP, true); match {
		superToken, match := parser.expectToken(ClassIdentifierTP, true)
		if !match {
			return nil, parser.makeError(false)
		}
		class.SuperClass = superToken.content
	}
	err := parser.ParseClassBody(class)
	if err != nil {
		return nil, err
	}
	return class, nil
}

// ClassBody can contains field or method declaration.
func (parser *Parser) ParseClassBody(class *ClassAst) error {
	_, match := parser.expectToken(LeftBraceTP, true)
	if !match {
		return parser.makeError(false)
	}
	for {
		token, err := parser.getCurrentToken()
		if err != nil {
			return err
		}
		switch {
		case token.tp == RightBraceTP:
			parser.stepForward()
			return nil
		case token.tp == StaticTP || token.tp == VoidTP:
			method, err := parser.ParseMethodDeclaration()
			if err != nil {
				return err
			}
			class.Methods = append(class.Methods, method)
		case parser.isTypeStart(token):
			// Both fields and virtual methods start with a type, a method has a '(' after its name.
			if parser.isMethodAhead() {
				method, err := parser.ParseMethodDeclaration()
				if err != nil {
					return err
				}
				class.Methods = append(class.Methods, method)
				continue
			}
			fields, err := parser.ParseFieldDeclaration()
			if err != nil {
				return err
			}
			class.Fields = append(class.Fields, fields...)
		default:
			return parser.makeError(true)
		}
	}
}

func (parser *Parser) isTypeStart(token *Token) bool {
	switch token.tp {
	case IntTP, BooleanTP, StringKeyWordTP, ClassIdentifierTP:
		return true
	}
	return false
}

// isMethodAhead looks over `type ([ ])* id` and checks whether a '(' follows.
func (parser *Parser) isMethodAhead() bool {
	pos := parser.currentTokenPos + 1
	for pos+1 < len(parser.currentTokens) && parser.currentTokens[pos].tp == LeftSquareBracketTP &&
		parser.currentTokens[pos+1].tp == RightSquareBracketTP {
		pos += 2
	}
	pos++
	return pos < len(parser.currentTokens) && parser.currentTokens[pos].tp == LeftParentThesesTP
}

// Field declaration like: type name [, name]* ;
func (parser *Parser) ParseFieldDeclaration() (fields []*FieldAst, err error) {
	tp, err := parser.ParseType()
	if err != nil {
		return nil, err
	}
	for {
		nameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
		fields = append(fields, &FieldAst{Position: Position{LineNo: nameToken.line}, Type: tp, Name: nameToken.content})
		if _, match = parser.expectToken(CommaTP, true); match {
			continue
		}
		if _, match = parser.expectToken(SemiColonTP, true); !match {
			return nil, parser.makeError(true)
		}
		return fields, nil
	}
}

// ParseType parses int|boolean|string|ClassId followed by any number of [].
func (parser *Parser) ParseType() (*TypeAst, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	tp := &TypeAst{Position: Position{LineNo: token.line}}
	switch token.tp {
	case IntTP:
		tp.Primitive = IntPrimitive
	case BooleanTP:
		tp.Primitive = BooleanPrimitive
	case StringKeyWordTP:
		tp.Primitive = StringPrimitive
	case ClassIdentifierTP:
		tp.ClassName = token.content
	default:
		return nil, parser.makeError(true)
	}
	parser.stepForward()
	for parser.isEmptyBracketsAhead() {
		parser.currentTokenPos += 2
		tp.Dimension++
	}
	return tp, nil
}

func (parser *Parser) isEmptyBracketsAhead() bool {
	pos := parser.currentTokenPos
	return pos+1 < len(parser.currentTokens) && parser.currentTokens[pos].tp == LeftSquareBracketTP &&
		parser.currentTokens[pos+1].tp == RightSquareBracketTP
}

// [static] (type|void) name ( formals ) { statements }
// In a library, only `static (type|void) name ( formals ) ;` is allowed.
func (parser *Parser) ParseMethodDeclaration() (*MethodAst, error) {
	startToken, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	method := &MethodAst{Position: Position{LineNo: startToken.line}, Kind: VirtualMethodKind}
	if _, match := parser.expectToken(StaticTP, true); match {
		method.Kind = StaticMethodKind
		if parser.library {
			method.Kind = LibraryMethodKind
		}
	} else if parser.library {
		return nil, parser.makeError(true)
	}
	if voidToken, match := parser.expectToken(VoidTP, true); match {
		method.ReturnType = &TypeAst{Position: Position{LineNo: voidToken.line}, Primitive: VoidPrimitive}
	} else {
		method.ReturnType, err = parser.ParseType()
		if err != nil {
			return nil, err
		}
	}
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	method.Name = nameToken.content
	method.Formals, err = parser.parseFormals()
	if err != nil {
		return nil, err
	}
	if method.Kind == LibraryMethodKind {
		if _, match = parser.expectToken(SemiColonTP, true); !match {
			return nil, parser.makeError(true)
		}
		return method, nil
	}
	method.Body, err = parser.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return method, nil
}

// ( [type name [, type name]*] )
func (parser *Parser) parseFormals() (formals []*FormalAst, err error) {
	if _, match := parser.expectToken(LeftParentThesesTP, true); !match {
		return nil, parser.makeError(true)
	}
	if _, match := parser.expectToken(RightParentThesesTP, true); match {
		return nil, nil
	}
	for {
		tp, err := parser.ParseType()
		if err != nil {
			return nil, err
		}
		nameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
		formals = append(formals, &FormalAst{Position: Position{LineNo: nameToken.line}, Type: tp, Name: nameToken.content})
		if _, match = parser.expectToken(CommaTP, true); match {
			continue
		}
		if _, match = parser.expectToken(RightParentThesesTP, true); !match {
			return nil, parser.makeError(true)
		}
		return formals, nil
	}
}

// {
//    statements
// }
func (parser *Parser) parseBlockBody() (stms []StatementAst, err error) {
	if _, match := parser.expectToken(LeftBraceTP, true); !match {
		return nil, parser.makeError(true)
	}
	for {
		token, err := parser.getCurrentToken()
		if err != nil {
			return nil, err
		}
		if token.tp == RightBraceTP {
			parser.stepForward()
			return stms, nil
		}
		stm, err := parser.parseStatement()
		if err != nil {
			return nil, err
		}
		stms = append(stms, stm)
	}
}

func (parser *Parser) parseStatement() (StatementAst, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	pos := Position{LineNo: token.line}
	switch token.tp {
	case LeftBraceTP:
		stms, err := parser.parseBlockBody()
		if err != nil {
			return nil, err
		}
		return &BlockStatement{Position: pos, Statements: stms}, nil
	case ReturnTP:
		return parser.parseReturnStatement()
	case IfTP:
		return parser.parseIfStatement()
	case WhileTP:
		return parser.parseWhileStatement()
	case BreakTP:
		parser.stepForward()
		if !parser.expectTokens(SemiColonTP) {
			return nil, parser.makeError(false)
		}
		return &BreakStatement{Position: pos}, nil
	case ContinueTP:
		parser.stepForward()
		if !parser.expectTokens(SemiColonTP) {
			return nil, parser.makeError(false)
		}
		return &ContinueStatement{Position: pos}, nil
	case IntTP, BooleanTP, StringKeyWordTP:
		return parser.parseLocalVariableStatement()
	case ClassIdentifierTP:
		// `A a;` and `A[] a;` declare locals, `A.m();` is a static call.
		if next := parser.peekToken(1); next != nil && (next.tp == IdentifierTP || next.tp == LeftSquareBracketTP) {
			return parser.parseLocalVariableStatement()
		}
	}
	return parser.parseAssignmentOrCallStatement()
}

// type name [= expression] ;
func (parser *Parser) parseLocalVariableStatement() (StatementAst, error) {
	tp, err := parser.ParseType()
	if err != nil {
		return nil, err
	}
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	stm := &LocalVariableStatement{Position: Position{LineNo: tp.LineNo}, Type: tp, Name: nameToken.content}
	if _, match = parser.expectToken(AssignTP, true); match {
		stm.Init, err = parser.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, match = parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError(true)
	}
	return stm, nil
}

// location = expression ; | call ;
func (parser *Parser) parseAssignmentOrCallStatement() (StatementAst, error) {
	expr, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	pos := Position{LineNo: expr.Line()}
	if _, match := parser.expectToken(AssignTP, true); match {
		switch expr.(type) {
		case *VariableRef, *ArrayRef:
		default:
			return nil, parser.makeError(false)
		}
		value, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		if !parser.expectTokens(SemiColonTP) {
			return nil, parser.makeError(false)
		}
		return &AssignmentStatement{Position: pos, Location: expr, Value: value}, nil
	}
	switch expr.(type) {
	case *StaticCall, *VirtualCall:
	default:
		return nil, parser.makeError(true)
	}
	if !parser.expectTokens(SemiColonTP) {
		return nil, parser.makeError(true)
	}
	return &CallStatement{Position: pos, Call: expr}, nil
}

// return [expression] ;
func (parser *Parser) parseReturnStatement() (StatementAst, error) {
	returnToken, _ := parser.expectToken(ReturnTP, true)
	stm := &ReturnStatement{Position: Position{LineNo: returnToken.line}}
	if _, match := parser.expectToken(SemiColonTP, true); match {
		return stm, nil
	}
	value, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if !parser.expectTokens(SemiColonTP) {
		return nil, parser.makeError(false)
	}
	stm.Value = value
	return stm, nil
}

// if ( expression ) statement [else statement]
func (parser *Parser) parseIfStatement() (StatementAst, error) {
	ifToken, _ := parser.expectToken(IfTP, true)
	condition, err := parser.parseParenthesesExpression()
	if err != nil {
		return nil, err
	}
	then, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	stm := &IfStatement{Position: Position{LineNo: ifToken.line}, Condition: condition, Then: then}
	if _, match := parser.expectToken(ElseTP, true); match {
		stm.Else, err = parser.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return stm, nil
}

// while ( expression ) statement
func (parser *Parser) parseWhileStatement() (StatementAst, error) {
	whileToken, _ := parser.expectToken(WhileTP, true)
	condition, err := parser.parseParenthesesExpression()
	if err != nil {
		return nil, err
	}
	body, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStatement{Position: Position{LineNo: whileToken.line}, Condition: condition, Body: body}, nil
}

func (parser *Parser) parseParenthesesExpression() (ExpressionAst, error) {
	if _, match := parser.expectToken(LeftParentThesesTP, true); !match {
		return nil, parser.makeError(true)
	}
	expr, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(RightParentThesesTP, true); !match {
		return nil, parser.makeError(true)
	}
	return expr, nil
}

func (parser *Parser) getCurrentToken() (*Token, error) {
	if !parser.hasRemainTokens() {
		return nil, parser.makeError(true)
	}
	return parser.currentTokens[parser.currentTokenPos], nil
}

func (parser *Parser) peekToken(offset int) *Token {
	pos := parser.currentTokenPos + offset
	if pos >= len(parser.currentTokens) {
		return nil
	}
	return parser.currentTokens[pos]
}

func (parser *Parser) stepForward() {
	parser.currentTokenPos++
}

func (parser *Parser) hasRemainTokens() bool {
	return parser.currentTokenPos < len(parser.currentTokens)
}

func (parser *Parser) expectTokens(expectedTokenTPs ...TokenType) bool {
	for _, tokenType := range expectedTokenTPs {
		_, ok := parser.expectToken(tokenType, true)
		if !ok {
			return false
		}
	}
	return true
}

func (parser *Parser) expectToken(expectedTokenTp TokenType, walk bool) (*Token, bool) {
	if parser.currentTokenPos >= len(parser.currentTokens) || parser.currentTokens[parser.currentTokenPos].tp !=
		expectedTokenTp {
		return nil, false
	}
	token := parser.currentTokens[parser.currentTokenPos]
	if walk {
		parser.currentTokenPos++
	}
	return token, true
}

func (parser *Parser) makeError(useCurrentPos bool) error {
	currentPos := parser.currentTokenPos
	if !useCurrentPos {
		currentPos--
	}
	if currentPos < 0 || currentPos >= len(parser.currentTokens) {
		return errors.New("unexpected token ends")
	}
	currentToken := parser.currentTokens[currentPos]
	return errors.New(fmt.Sprintf("syntax error near %s at line %d", currentToken.content,
		currentToken.line))
}
