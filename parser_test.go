package main

import "testing"

func mustParse(t *testing.T, src string) *node {
	t.Helper()
	n, err := parseLine(src)
	if err != nil {
		t.Fatalf("parseLine(%q): %v", src, err)
	}
	return n
}

func TestParseLineNumberAndDirectMode(t *testing.T) {
	n := mustParse(t, `10 PRINT "HI"`)
	if n.lineNumber != 10 {
		t.Errorf("lineNumber = %d, want 10", n.lineNumber)
	}

	n = mustParse(t, `PRINT "HI"`)
	if n.lineNumber != 0 {
		t.Errorf("direct-mode lineNumber = %d, want 0", n.lineNumber)
	}
}

func TestParseStatementList(t *testing.T) {
	n := mustParse(t, `10 A = 1 : B = 2 : PRINT A`)
	if len(n.kids) != 3 {
		t.Fatalf("got %d statements, want 3", len(n.kids))
	}
	if n.kids[0].stmt != sLet || n.kids[1].stmt != sLet || n.kids[2].stmt != sPrint {
		t.Errorf("unexpected statement kinds: %+v", n.kids)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	// 2 + 3 * 4 ^ 2 should bind as 2 + (3 * (4 ^ 2))
	n := mustParse(t, `10 A = 2 + 3 * 4 ^ 2`)
	rhs := n.kids[0].kids[1]
	if rhs.kind != nBinaryOp || rhs.op != opPlus {
		t.Fatalf("top-level op = %+v, want +", rhs)
	}
	mul := rhs.kids[1]
	if mul.kind != nBinaryOp || mul.op != opStar {
		t.Fatalf("rhs of + = %+v, want *", mul)
	}
	pow := mul.kids[1]
	if pow.kind != nBinaryOp || pow.op != opPow {
		t.Fatalf("rhs of * = %+v, want ^", pow)
	}
}

func TestParsePowRightAssociative(t *testing.T) {
	// 2 ^ 3 ^ 2 == 2 ^ (3 ^ 2)
	n := mustParse(t, `10 A = 2 ^ 3 ^ 2`)
	top := n.kids[0].kids[1]
	if top.kind != nBinaryOp || top.op != opPow {
		t.Fatalf("top op = %+v, want ^", top)
	}
	if top.kids[0].numVal != 2 {
		t.Errorf("lhs = %v, want 2", top.kids[0].numVal)
	}
	inner := top.kids[1]
	if inner.kind != nBinaryOp || inner.op != opPow {
		t.Fatalf("rhs = %+v, want nested ^", inner)
	}
}

func TestParseIfNumericThen(t *testing.T) {
	n := mustParse(t, `10 IF X = 1 THEN 100`)
	st := n.kids[0]
	if st.stmt != sIf || len(st.kids) != 2 {
		t.Fatalf("got %+v", st)
	}
	if st.kids[1].stmt != sGoto || st.kids[1].targets[0] != 100 {
		t.Errorf("synthetic goto = %+v", st.kids[1])
	}
}

func TestParseIfStatementListLeavesSiblingsFlat(t *testing.T) {
	n := mustParse(t, `10 IF X = 1 THEN PRINT "Y" : PRINT "Z"`)
	if len(n.kids) != 3 {
		t.Fatalf("got %d top-level statements, want 3 (IF, PRINT, PRINT)", len(n.kids))
	}
	if n.kids[0].stmt != sIf || len(n.kids[0].kids) != 1 {
		t.Fatalf("IF node = %+v, want a bare condition with no nested kids", n.kids[0])
	}
	if n.kids[1].stmt != sPrint || n.kids[2].stmt != sPrint {
		t.Errorf("trailing siblings = %+v", n.kids[1:])
	}
}

func TestParseForWithStep(t *testing.T) {
	n := mustParse(t, `10 FOR I = 1 TO 10 STEP 2`)
	st := n.kids[0]
	if st.stmt != sFor || len(st.kids) != 4 {
		t.Fatalf("got %+v", st)
	}
}

func TestParseArrayAccessVsBuiltinCall(t *testing.T) {
	n := mustParse(t, `10 A = ABS(X)`)
	rhs := n.kids[0].kids[1]
	if rhs.kind != nBuiltinNumCall || rhs.strVal != "ABS" {
		t.Errorf("ABS(X) parsed as %+v, want nBuiltinNumCall", rhs)
	}

	n = mustParse(t, `10 A = B(1,2)`)
	rhs = n.kids[0].kids[1]
	if rhs.kind != nArrayAccess || rhs.strVal != "B" || len(rhs.kids) != 2 {
		t.Errorf("B(1,2) parsed as %+v, want nArrayAccess with 2 indices", rhs)
	}
}

func TestParseBareRnd(t *testing.T) {
	n := mustParse(t, `10 A = RND`)
	rhs := n.kids[0].kids[1]
	if rhs.kind != nBuiltinNumCall || rhs.strVal != "RND" || len(rhs.kids) != 0 {
		t.Errorf("bare RND parsed as %+v, want a zero-argument builtin call", rhs)
	}
}

func TestParsePrintSeparators(t *testing.T) {
	n := mustParse(t, `10 PRINT A, B; C`)
	st := n.kids[0]
	if len(st.kids) != 5 {
		t.Fatalf("got %d PRINT children, want 5", len(st.kids))
	}
	if !st.kids[1].isComma {
		t.Errorf("kids[1] should be the comma separator, got %+v", st.kids[1])
	}
	if !st.kids[3].isSemi {
		t.Errorf("kids[3] should be the semicolon separator, got %+v", st.kids[3])
	}
}

func TestParseOnGoto(t *testing.T) {
	n := mustParse(t, `10 ON X GOTO 100, 200, 300`)
	st := n.kids[0]
	if st.stmt != sOnGoto || len(st.targets) != 3 || st.targets[1] != 200 {
		t.Fatalf("got %+v", st)
	}
}

func TestParseDimMultiple(t *testing.T) {
	n := mustParse(t, `10 DIM A(10), B$(5,5)`)
	st := n.kids[0]
	if st.stmt != sDim || len(st.kids) != 2 {
		t.Fatalf("got %+v", st)
	}
	if st.kids[1].strVal != "B$" || len(st.kids[1].kids) != 2 {
		t.Errorf("second DIM decl = %+v", st.kids[1])
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := parseLine(`10 = = =`); err == nil {
		t.Error("expected a syntax error")
	}
}
