package main

import "strconv"

//
// Recursive-descent parser (spec.md §4.2).  Grounded in the shape of
// teacher's grammar (one statement list per line, implicit LET,
// IF...THEN with no ELSE) but hand-written instead of goyacc-
// generated, per spec.md's explicit mandate.
//

type parser struct {
	toks []token
	pos  int
}

// parseLine parses one physical line of source into an nLine AST
// node.  An absent leading line number yields line number 0 (direct
// mode).

func parseLine(text string) (*node, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	lineNo := 0
	if p.cur().kind == tokNumber {
		n, err := strconv.Atoi(p.cur().lexeme)
		if err != nil {
			return nil, &basicError{msg: ESYNTAX}
		}
		lineNo = n
		p.advance()
	}

	var stmts []*node
	if p.cur().kind != tokEOF {
		stmts, err = p.parseStatementList()
		if err != nil {
			return nil, err
		}
	}

	if p.cur().kind != tokEOF {
		return nil, &basicError{msg: ESYNTAX}
	}

	return &node{kind: nLine, lineNumber: lineNo, kids: stmts}, nil
}

func (p *parser) cur() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expectDelim(d delimKind) error {
	if p.cur().kind != tokDelimiter || p.cur().delim != d {
		return &basicError{msg: ESYNTAX}
	}
	p.advance()
	return nil
}

// parseStatementList parses one or more statements separated by ':'.

func (p *parser) parseStatementList() ([]*node, error) {
	var stmts []*node

	for {
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)

		if p.cur().kind == tokDelimiter && p.cur().delim == delimColon {
			p.advance()
			continue
		}

		// IF cond THEN <stmt>: the first consequent statement follows
		// THEN with no ':' in between, so keep consuming it (and any
		// further ':'-separated statements) as flat siblings.
		if st.kind == nStmt && st.stmt == sIf && len(st.kids) == 1 && p.cur().kind != tokEOF {
			continue
		}
		break
	}

	return stmts, nil
}

func (p *parser) parseStatement() (*node, error) {
	t := p.cur()

	if t.kind == tokKeyword {
		switch t.kw {
		case kwPRINT:
			p.advance()
			return p.parsePrint()
		case kwINPUT:
			p.advance()
			return p.parseInput()
		case kwLET:
			p.advance()
			return p.parseLet()
		case kwIF:
			p.advance()
			return p.parseIf()
		case kwFOR:
			p.advance()
			return p.parseFor()
		case kwNEXT:
			p.advance()
			return p.parseNext()
		case kwGOTO:
			p.advance()
			return p.parseGotoGosub(sGoto)
		case kwGOSUB:
			p.advance()
			return p.parseGotoGosub(sGosub)
		case kwRETURN:
			p.advance()
			return &node{kind: nStmt, stmt: sReturn}, nil
		case kwREM:
			p.advance()
			return &node{kind: nStmt, stmt: sRem}, nil
		case kwDATA:
			p.advance()
			return p.parseData()
		case kwREAD:
			p.advance()
			return p.parseRead()
		case kwRESTORE:
			p.advance()
			return &node{kind: nStmt, stmt: sRestore}, nil
		case kwEND:
			p.advance()
			return &node{kind: nStmt, stmt: sEnd}, nil
		case kwSTOP:
			p.advance()
			return &node{kind: nStmt, stmt: sStop}, nil
		case kwLIST:
			p.advance()
			return p.parseList()
		case kwNEW:
			p.advance()
			return &node{kind: nStmt, stmt: sNew}, nil
		case kwRUN:
			p.advance()
			return &node{kind: nStmt, stmt: sRun}, nil
		case kwCLEAR:
			p.advance()
			return &node{kind: nStmt, stmt: sClear}, nil
		case kwDIM:
			p.advance()
			return p.parseDim()
		case kwDEF:
			p.advance()
			return p.parseDef()
		case kwON:
			p.advance()
			return p.parseOn()
		case kwTRON:
			p.advance()
			return &node{kind: nStmt, stmt: sTron}, nil
		case kwTROFF:
			p.advance()
			return &node{kind: nStmt, stmt: sTroff}, nil
		case kwSTATS:
			p.advance()
			return &node{kind: nStmt, stmt: sStats}, nil
		case kwDELETE:
			p.advance()
			return p.parseDelete()
		}

		return nil, &basicError{msg: ESYNTAX}
	}

	if t.kind == tokVariable {
		return p.parseLet()
	}

	return nil, &basicError{msg: ESYNTAX}
}

// --- LET / implicit LET ---

func (p *parser) parseLet() (*node, error) {
	lhs, err := p.parseLValue()
	if err != nil {
		return nil, err
	}

	if p.cur().kind != tokOperator || p.cur().op != opEq {
		return nil, &basicError{msg: ESYNTAX}
	}
	p.advance()

	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &node{kind: nStmt, stmt: sLet, kids: []*node{lhs, rhs}}, nil
}

// parseLValue parses a variable reference or array-element reference.

func (p *parser) parseLValue() (*node, error) {
	if p.cur().kind != tokVariable {
		return nil, &basicError{msg: ESYNTAX}
	}

	name := p.advance().lexeme

	if p.cur().kind == tokDelimiter && p.cur().delim == delimLParen {
		p.advance()
		idx, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if err := p.expectDelim(delimRParen); err != nil {
			return nil, err
		}
		return &node{kind: nArrayAccess, strVal: name, kids: idx}, nil
	}

	return &node{kind: nVariableRef, strVal: name}, nil
}

// --- PRINT ---

func (p *parser) parsePrint() (*node, error) {
	var kids []*node

	for !p.atStmtEnd() {
		if p.cur().kind == tokDelimiter && p.cur().delim == delimComma {
			p.advance()
			kids = append(kids, &node{kind: nPrintSep, isComma: true})
			continue
		}
		if p.cur().kind == tokDelimiter && p.cur().delim == delimSemi {
			p.advance()
			kids = append(kids, &node{kind: nPrintSep, isSemi: true})
			continue
		}

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		kids = append(kids, expr)
	}

	return &node{kind: nStmt, stmt: sPrint, kids: kids}, nil
}

func (p *parser) atStmtEnd() bool {
	t := p.cur()
	if t.kind == tokEOF {
		return true
	}
	if t.kind == tokDelimiter && t.delim == delimColon {
		return true
	}
	return false
}

// --- INPUT ---

func (p *parser) parseInput() (*node, error) {
	n := &node{kind: nStmt, stmt: sInput}

	if p.cur().kind == tokString {
		n.strVal = p.advance().lexeme
		n.hasPrompt = true

		if p.cur().kind != tokDelimiter || (p.cur().delim != delimSemi && p.cur().delim != delimComma) {
			return nil, &basicError{msg: ESYNTAX}
		}
		n.promptSep = p.cur().lexeme[0]
		p.advance()
	}

	vars, err := p.parseLValueList()
	if err != nil {
		return nil, err
	}
	n.kids = vars

	return n, nil
}

func (p *parser) parseLValueList() ([]*node, error) {
	var vars []*node

	for {
		v, err := p.parseLValue()
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)

		if p.cur().kind == tokDelimiter && p.cur().delim == delimComma {
			p.advance()
			continue
		}
		break
	}

	return vars, nil
}

// --- IF ... THEN ... ---

func (p *parser) parseIf() (*node, error) {
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.cur().kind != tokKeyword || p.cur().kw != kwTHEN {
		return nil, &basicError{msg: ESYNTAX}
	}
	p.advance()

	kids := []*node{cond}

	if p.cur().kind == tokNumber {
		n, err := strconv.Atoi(p.advance().lexeme)
		if err != nil {
			return nil, &basicError{msg: ESYNTAX}
		}
		kids = append(kids, &node{kind: nStmt, stmt: sGoto, targets: []int{n}})
	}

	// Non-numeric consequents are not nested here: the statement
	// list parsing loop that invoked us keeps consuming ':'-separated
	// statements as ordinary top-level siblings, and a false
	// condition skips the rest of the line at execution time -- which
	// is exactly "the entire remainder of the line is inside the IF".

	return &node{kind: nStmt, stmt: sIf, kids: kids}, nil
}

// --- FOR / NEXT ---

func (p *parser) parseFor() (*node, error) {
	v, err := p.parseLValue()
	if err != nil {
		return nil, err
	}
	if v.kind != nVariableRef {
		return nil, &basicError{msg: ESYNTAX}
	}

	if p.cur().kind != tokOperator || p.cur().op != opEq {
		return nil, &basicError{msg: ESYNTAX}
	}
	p.advance()

	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.cur().kind != tokKeyword || p.cur().kw != kwTO {
		return nil, &basicError{msg: ESYNTAX}
	}
	p.advance()

	end, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	kids := []*node{v, start, end}

	if p.cur().kind == tokKeyword && p.cur().kw == kwSTEP {
		p.advance()
		step, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		kids = append(kids, step)
	}

	return &node{kind: nStmt, stmt: sFor, kids: kids}, nil
}

func (p *parser) parseNext() (*node, error) {
	var kids []*node

	if p.cur().kind == tokVariable {
		v, err := p.parseLValue()
		if err != nil {
			return nil, err
		}
		kids = append(kids, v)
	}

	return &node{kind: nStmt, stmt: sNext, kids: kids}, nil
}

// --- GOTO / GOSUB ---

func (p *parser) parseGotoGosub(kind stmtKind) (*node, error) {
	if p.cur().kind != tokNumber {
		return nil, &basicError{msg: ESYNTAX}
	}
	n, err := strconv.Atoi(p.advance().lexeme)
	if err != nil {
		return nil, &basicError{msg: ESYNTAX}
	}

	return &node{kind: nStmt, stmt: kind, targets: []int{n}}, nil
}

// --- DATA / READ / RESTORE ---

func (p *parser) parseData() (*node, error) {
	var kids []*node

	for {
		item, err := p.parseDataItem()
		if err != nil {
			return nil, err
		}
		kids = append(kids, item)

		if p.cur().kind == tokDelimiter && p.cur().delim == delimComma {
			p.advance()
			continue
		}
		break
	}

	return &node{kind: nStmt, stmt: sData, kids: kids}, nil
}

// parseDataItem accepts a string literal verbatim, or concatenates
// the raw lexemes of an unquoted run of tokens up to the next comma,
// colon or end of line -- classic BASIC DATA allows unquoted text.

func (p *parser) parseDataItem() (*node, error) {
	if p.cur().kind == tokString {
		return &node{kind: nStringLit, strVal: p.advance().lexeme}, nil
	}

	text := ""
	for !p.atStmtEnd() && !(p.cur().kind == tokDelimiter && p.cur().delim == delimComma) {
		if text != "" {
			text += " "
		}
		text += p.advance().lexeme
	}

	return &node{kind: nStringLit, strVal: text}, nil
}

func (p *parser) parseRead() (*node, error) {
	vars, err := p.parseLValueList()
	if err != nil {
		return nil, err
	}

	return &node{kind: nStmt, stmt: sRead, kids: vars}, nil
}

// --- DIM ---

func (p *parser) parseDim() (*node, error) {
	var kids []*node

	for {
		if p.cur().kind != tokVariable {
			return nil, &basicError{msg: ESYNTAX}
		}
		name := p.advance().lexeme

		if err := p.expectDelim(delimLParen); err != nil {
			return nil, err
		}

		sizes, err := p.parseExprList()
		if err != nil {
			return nil, err
		}

		if err := p.expectDelim(delimRParen); err != nil {
			return nil, err
		}

		kids = append(kids, &node{kind: nDimDecl, strVal: name, kids: sizes})

		if p.cur().kind == tokDelimiter && p.cur().delim == delimComma {
			p.advance()
			continue
		}
		break
	}

	return &node{kind: nStmt, stmt: sDim, kids: kids}, nil
}

// --- DEF FNx(p) = expr ---

func (p *parser) parseDef() (*node, error) {
	if p.cur().kind != tokVariable {
		return nil, &basicError{msg: ESYNTAX}
	}
	name := p.advance().lexeme

	if err := p.expectDelim(delimLParen); err != nil {
		return nil, err
	}

	if p.cur().kind != tokVariable {
		return nil, &basicError{msg: ESYNTAX}
	}
	param := &node{kind: nVariableRef, strVal: p.advance().lexeme}

	if err := p.expectDelim(delimRParen); err != nil {
		return nil, err
	}

	if p.cur().kind != tokOperator || p.cur().op != opEq {
		return nil, &basicError{msg: ESYNTAX}
	}
	p.advance()

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &node{kind: nStmt, stmt: sDef, strVal: name, kids: []*node{param, body}}, nil
}

// --- ON expr GOTO/GOSUB n1, n2, ... ---

func (p *parser) parseOn() (*node, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	var kind stmtKind
	switch {
	case p.cur().kind == tokKeyword && p.cur().kw == kwGOTO:
		kind = sOnGoto
	case p.cur().kind == tokKeyword && p.cur().kw == kwGOSUB:
		kind = sOnGosub
	default:
		return nil, &basicError{msg: ESYNTAX}
	}
	p.advance()

	var targets []int
	for {
		if p.cur().kind != tokNumber {
			return nil, &basicError{msg: ESYNTAX}
		}
		n, err := strconv.Atoi(p.advance().lexeme)
		if err != nil {
			return nil, &basicError{msg: ESYNTAX}
		}
		targets = append(targets, n)

		if p.cur().kind == tokDelimiter && p.cur().delim == delimComma {
			p.advance()
			continue
		}
		break
	}

	return &node{kind: nStmt, stmt: kind, kids: []*node{expr}, targets: targets}, nil
}

// --- LIST / DELETE (supplemented commands, SPEC_FULL.md) ---

func (p *parser) parseList() (*node, error) {
	n := &node{kind: nStmt, stmt: sList}

	if p.cur().kind == tokNumber {
		lo, err := strconv.Atoi(p.advance().lexeme)
		if err != nil {
			return nil, &basicError{msg: ESYNTAX}
		}
		hi := lo
		if p.cur().kind == tokOperator && p.cur().op == opMinus {
			p.advance()
			if p.cur().kind != tokNumber {
				return nil, &basicError{msg: ESYNTAX}
			}
			hi, err = strconv.Atoi(p.advance().lexeme)
			if err != nil {
				return nil, &basicError{msg: ESYNTAX}
			}
		}
		n.targets = []int{lo, hi}
	}

	return n, nil
}

func (p *parser) parseDelete() (*node, error) {
	if p.cur().kind != tokNumber {
		return nil, &basicError{msg: ESYNTAX}
	}
	lo, err := strconv.Atoi(p.advance().lexeme)
	if err != nil {
		return nil, &basicError{msg: ESYNTAX}
	}
	hi := lo

	if p.cur().kind == tokOperator && p.cur().op == opMinus {
		p.advance()
		if p.cur().kind != tokNumber {
			return nil, &basicError{msg: ESYNTAX}
		}
		hi, err = strconv.Atoi(p.advance().lexeme)
		if err != nil {
			return nil, &basicError{msg: ESYNTAX}
		}
	}

	return &node{kind: nStmt, stmt: sDelete, targets: []int{lo, hi}}, nil
}

// --- Expressions ---
//
// Precedence, lowest to highest: OR, AND, relational, additive,
// multiplicative, exponentiation (right-assoc), unary, primary.

func (p *parser) parseExprList() ([]*node, error) {
	var list []*node

	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, e)

		if p.cur().kind == tokDelimiter && p.cur().delim == delimComma {
			p.advance()
			continue
		}
		break
	}

	return list, nil
}

func (p *parser) parseExpr() (*node, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (*node, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.cur().kind == tokKeyword && p.cur().kw == kwOR {
		p.advance()
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &node{kind: nBinaryOp, op: opOr, kids: []*node{lhs, rhs}}
	}

	return lhs, nil
}

func (p *parser) parseAnd() (*node, error) {
	lhs, err := p.parseRelational()
	if err != nil {
		return nil, err
	}

	for p.cur().kind == tokKeyword && p.cur().kw == kwAND {
		p.advance()
		rhs, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		lhs = &node{kind: nBinaryOp, op: opAnd, kids: []*node{lhs, rhs}}
	}

	return lhs, nil
}

func (p *parser) parseRelational() (*node, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for p.cur().kind == tokOperator && isRelOp(p.cur().op) {
		op := p.advance().op
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		lhs = &node{kind: nBinaryOp, op: op, kids: []*node{lhs, rhs}}
	}

	return lhs, nil
}

func isRelOp(op opKind) bool {
	switch op {
	case opEq, opNe, opLt, opLe, opGt, opGe:
		return true
	}
	return false
}

func (p *parser) parseAdditive() (*node, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.cur().kind == tokOperator && (p.cur().op == opPlus || p.cur().op == opMinus) {
		op := p.advance().op
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = &node{kind: nBinaryOp, op: op, kids: []*node{lhs, rhs}}
	}

	return lhs, nil
}

func (p *parser) parseMultiplicative() (*node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.cur().kind == tokOperator && (p.cur().op == opStar || p.cur().op == opSlash) {
		op := p.advance().op
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &node{kind: nBinaryOp, op: op, kids: []*node{lhs, rhs}}
	}

	return lhs, nil
}

func (p *parser) parseUnary() (*node, error) {
	if p.cur().kind == tokOperator && p.cur().op == opMinus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &node{kind: nUnaryOp, op: opMinus, kids: []*node{operand}}, nil
	}

	if p.cur().kind == tokKeyword && p.cur().kw == kwNOT {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &node{kind: nUnaryOp, op: opNot, kids: []*node{operand}}, nil
	}

	return p.parsePow()
}

// parsePow is right-associative: 2^3^2 == 2^(3^2).

func (p *parser) parsePow() (*node, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.cur().kind == tokOperator && p.cur().op == opPow {
		p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &node{kind: nBinaryOp, op: opPow, kids: []*node{lhs, rhs}}, nil
	}

	return lhs, nil
}

func (p *parser) parsePrimary() (*node, error) {
	t := p.cur()

	switch {
	case t.kind == tokNumber:
		p.advance()
		v, err := strconv.ParseFloat(t.lexeme, 64)
		if err != nil {
			return nil, &basicError{msg: ESYNTAX}
		}
		return &node{kind: nNumberLit, numVal: v}, nil

	case t.kind == tokString:
		p.advance()
		return &node{kind: nStringLit, strVal: t.lexeme}, nil

	case t.kind == tokDelimiter && t.delim == delimLParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectDelim(delimRParen); err != nil {
			return nil, err
		}
		return e, nil

	case t.kind == tokVariable:
		name := p.advance().lexeme

		if p.cur().kind == tokDelimiter && p.cur().delim == delimLParen {
			p.advance()
			args, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			if err := p.expectDelim(delimRParen); err != nil {
				return nil, err
			}

			switch {
			case isNumericBuiltin(name):
				return &node{kind: nBuiltinNumCall, strVal: name, kids: args}, nil
			case isStringBuiltin(name):
				return &node{kind: nBuiltinStrCall, strVal: name, kids: args}, nil
			default:
				return &node{kind: nArrayAccess, strVal: name, kids: args}, nil
			}
		}

		// RND is callable without parentheses ("draw a new value").
		if name == "RND" {
			return &node{kind: nBuiltinNumCall, strVal: name}, nil
		}

		return &node{kind: nVariableRef, strVal: name}, nil
	}

	return nil, &basicError{msg: ESYNTAX}
}
