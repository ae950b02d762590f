package internal

// opPriority is the binding strength of binary operators, higher binds tighter.
var opPriority = map[BinaryOp]int{
	OrOp:           1,
	AndOp:          2,
	EqualOp:        3,
	NotEqualOp:     3,
	LessOp:         4,
	LessEqualOp:    4,
	GreaterOp:      4,
	GreaterEqualOp: 4,
	PlusOp:         5,
	MinusOp:        5,
	MultiplyOp:     6,
	DivideOp:       6,
	ModOp:          6,
}

var binaryOpTokenMap = map[TokenType]BinaryOp{
	AddTP:          PlusOp,
	MinusTP:        MinusOp,
	MultiplyTP:     MultiplyOp,
	DivideTP:       DivideOp,
	ModTP:          ModOp,
	LessTP:         LessOp,
	LessEqualTP:    LessEqualOp,
	GreaterTP:      GreaterOp,
	GreaterEqualTP: GreaterEqualOp,
	EqualTP:        EqualOp,
	NotEqualTP:     NotEqualOp,
	AndTP:          AndOp,
	OrTP:           OrOp,
}

type opAst struct {
	op   BinaryOp
	line int
}

func buildExpressionsTree(ops []*opAst, exprTerms []ExpressionAst) ExpressionAst {
	if len(ops) == 0 {
		return exprTerms[0]
	}
	ret, _ := buildExpressionsTree0(ops, exprTerms, 0, 0)
	return ret
}

// buildExpressionsTree0 is a precedence climbing over a flat list of terms and operators, operators of equal
// priority associate to the left.
func buildExpressionsTree0(ops []*opAst, exprTerms []ExpressionAst, loc int, minPriority int) (ExpressionAst, int) {
	lhs := exprTerms[loc]
	i := loc
	for i < len(ops) && opPriority[ops[i].op] >= minPriority {
		op := ops[i]
		rhs := exprTerms[i+1]
		j := i + 1
		for j < len(ops) && opPriority[ops[j].op] > opPriority[op.op] {
			rhs, j = buildExpressionsTree0(ops, exprTerms, j, opPriority[ops[j].op])
		}
		lhs = makeNewExpression(lhs, rhs, op)
		exprTerms[j] = lhs
		i = j
	}
	return lhs, i
}

func makeNewExpression(leftExpr ExpressionAst, rightExpr ExpressionAst, op *opAst) ExpressionAst {
	pos := Position{LineNo: op.line}
	if op.op.IsMath() {
		return &MathBinary{Position: pos, Op: op.op, Left: leftExpr, Right: rightExpr}
	}
	return &LogicalBinary{Position: pos, Op: op.op, Left: leftExpr, Right: rightExpr}
}

// ( [expression [, expression]*] )
func (parser *Parser) parseArguments() (exprs []ExpressionAst, err error) {
	if _, match := parser.expectToken(LeftParentThesesTP, true); !match {
		return nil, parser.makeError(true)
	}
	if _, match := parser.expectToken(RightParentThesesTP, true); match {
		return nil, nil
	}
	for {
		expression, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expression)
		if _, match := parser.expectToken(CommaTP, true); match {
			continue
		}
		if _, match := parser.expectToken(RightParentThesesTP, true); !match {
			return nil, parser.makeError(true)
		}
		return exprs, nil
	}
}

func (parser *Parser) parseExpression() (ExpressionAst, error) {
	leftExprTerm, err := parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	var ops []*opAst
	exprTerms := []ExpressionAst{leftExprTerm}
	for parser.matchOp() {
		token, _ := parser.getCurrentToken()
		parser.stepForward()
		exprTerm, err := parser.parseExpressionTerm()
		if err != nil {
			return nil, err
		}
		ops = append(ops, &opAst{op: binaryOpTokenMap[token.tp], line: token.line})
		exprTerms = append(exprTerms, exprTerm)
	}
	return buildExpressionsTree(ops, exprTerms), nil
}

func (parser *Parser) matchOp() bool {
	if !parser.hasRemainTokens() {
		return false
	}
	token, _ := parser.getCurrentToken()
	_, ok := binaryOpTokenMap[token.tp]
	return ok
}

// Note: for expression 5 + -2, the unary minus is parsed as part of the term.
func (parser *Parser) parseExpressionTerm() (ExpressionAst, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	pos := Position{LineNo: token.line}
	switch token.tp {
	case MinusTP:
		parser.stepForward()
		operand, err := parser.parseExpressionTerm()
		if err != nil {
			return nil, err
		}
		return &MathUnary{Position: pos, Operand: operand}, nil
	case NotTP:
		parser.stepForward()
		operand, err := parser.parseExpressionTerm()
		if err != nil {
			return nil, err
		}
		return &LogicalUnary{Position: pos, Operand: operand}, nil
	}
	expr, err := parser.parsePrimaryExpressionTerm()
	if err != nil {
		return nil, err
	}
	return parser.parsePostfix(expr)
}

// parsePostfix handles .length, .field, .method(args) and [index] after a term.
func (parser *Parser) parsePostfix(expr ExpressionAst) (ExpressionAst, error) {
	for parser.hasRemainTokens() {
		token, _ := parser.getCurrentToken()
		pos := Position{LineNo: token.line}
		switch token.tp {
		case DotTP:
			parser.stepForward()
			if _, match := parser.expectToken(LengthTP, true); match {
				expr = &LengthExpr{Position: pos, Array: expr}
				continue
			}
			nameToken, match := parser.expectToken(IdentifierTP, true)
			if !match {
				return nil, parser.makeError(true)
			}
			if _, match = parser.expectToken(LeftParentThesesTP, false); match {
				args, err := parser.parseArguments()
				if err != nil {
					return nil, err
				}
				expr = &VirtualCall{Position: pos, Location: expr, Method: nameToken.content, Args: args}
				continue
			}
			expr = &VariableRef{Position: pos, Location: expr, Name: nameToken.content}
		case LeftSquareBracketTP:
			parser.stepForward()
			index, err := parser.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, match := parser.expectToken(RightSquareBracketTP, true); !match {
				return nil, parser.makeError(true)
			}
			expr = &ArrayRef{Position: pos, Array: expr, Index: index}
		default:
			return expr, nil
		}
	}
	return expr, nil
}

func (parser *Parser) parsePrimaryExpressionTerm() (ExpressionAst, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	pos := Position{LineNo: token.line}
	switch token.tp {
	case IntegerTP:
		parser.stepForward()
		return &Literal{Position: pos, Kind: IntegerLiteral, Value: token.content}, nil
	case StringTP:
		parser.stepForward()
		return &Literal{Position: pos, Kind: StringLiteral, Value: token.content}, nil
	case TrueTP:
		parser.stepForward()
		return &Literal{Position: pos, Kind: TrueLiteral, Value: token.content}, nil
	case FalseTP:
		parser.stepForward()
		return &Literal{Position: pos, Kind: FalseLiteral, Value: token.content}, nil
	case NullTP:
		parser.stepForward()
		return &Literal{Position: pos, Kind: NullLiteral, Value: token.content}, nil
	case ThisTP:
		parser.stepForward()
		return &ThisExpr{Position: pos}, nil
	case NewTP:
		return parser.parseNewExpressionTerm()
	case LeftParentThesesTP:
		expr, err := parser.parseParenthesesExpression()
		if err != nil {
			return nil, err
		}
		return &Parenthesized{Position: pos, Expr: expr}, nil
	case IdentifierTP:
		parser.stepForward()
		if _, match := parser.expectToken(LeftParentThesesTP, false); match {
			args, err := parser.parseArguments()
			if err != nil {
				return nil, err
			}
			return &VirtualCall{Position: pos, Method: token.content, Args: args}, nil
		}
		return &VariableRef{Position: pos, Name: token.content}, nil
	case ClassIdentifierTP:
		// Class names only appear in expressions as the receiver of a static call.
		parser.stepForward()
		if !parser.expectTokens(DotTP) {
			return nil, parser.makeError(false)
		}
		methodToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
		args, err := parser.parseArguments()
		if err != nil {
			return nil, err
		}
		return &StaticCall{Position: pos, Class: token.content, Method: methodToken.content, Args: args}, nil
	default:
		return nil, parser.makeError(true)
	}
}

// new ClassId ( ) | new type [ expression ]
func (parser *Parser) parseNewExpressionTerm() (ExpressionAst, error) {
	newToken, _ := parser.expectToken(NewTP, true)
	pos := Position{LineNo: newToken.line}
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	if next := parser.peekToken(1); token.tp == ClassIdentifierTP && next != nil && next.tp == LeftParentThesesTP {
		parser.stepForward()
		if !parser.expectTokens(LeftParentThesesTP, RightParentThesesTP) {
			return nil, parser.makeError(false)
		}
		return &NewObject{Position: pos, Class: token.content}, nil
	}
	elementType, err := parser.ParseType()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(LeftSquareBracketTP, true); !match {
		return nil, parser.makeError(true)
	}
	size, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(RightSquareBracketTP, true); !match {
		return nil, parser.makeError(true)
	}
	return &NewArray{Position: pos, Type: elementType, Size: size}, nil
}
