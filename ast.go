package main

//
// AST node kinds.  Per spec.md §9's design note (itself grounded in
// teacher's own "design notes" self-critique of its single tokenNode
// type with an untyped tokenData field), we use a sum type over node
// kinds instead of one node shape with kind-specific payloads bolted
// on with "any" fields.
//

type nodeKind int

const (
	nProgram nodeKind = iota
	nLine
	nStmt
	nBinaryOp
	nUnaryOp
	nNumberLit
	nStringLit
	nVariableRef
	nBuiltinNumCall
	nBuiltinStrCall
	nArrayAccess
	nDimDecl
	nPrintSep
)

// stmtKind distinguishes statement nodes (all carried as nStmt nodes
// with a stmtKind tag, mirroring teacher's single stmtNode carrying a
// "token" discriminant in execute.go's big dispatch switch).

type stmtKind int

const (
	sLet stmtKind = iota
	sPrint
	sInput
	sIf
	sFor
	sNext
	sGoto
	sGosub
	sReturn
	sOnGoto
	sOnGosub
	sData
	sRead
	sRestore
	sDim
	sDef
	sRem
	sEnd
	sStop
	sList
	sNew
	sRun
	sClear
	sTron
	sTroff
	sStats
	sDelete
)

// node is the single AST node type: a kind tag plus an ordered child
// list, with kind-specific scalar payloads.  A line node additionally
// carries its line number (0 == direct mode).

type node struct {
	kind nodeKind
	kids []*node

	lineNumber int // nLine only

	stmt stmtKind // nStmt only

	op opKind // nBinaryOp, nUnaryOp ("-" vs NOT distinguished by op)

	numVal float64 // nNumberLit
	strVal string  // nStringLit, nVariableRef/nArrayAccess/nBuiltin*Call name, nDimDecl name

	// PRINT statement children are an ordered mix of expression nodes
	// and literal separator markers, carried as small sentinel nodes
	// so column semantics survive into the engine (spec.md §4.5).
	isComma bool
	isSemi  bool

	// ON expr GOTO/GOSUB n1, n2, ... and GOTO/IF-THEN-n: action node
	// carries targets; sOnGoto/sOnGosub distinguish GOTO vs GOSUB.
	targets []int

	// INPUT statement prompt (sInput only)
	hasPrompt bool
	promptSep byte // ';' or ','
}
