package main

import (
	"github.com/danswartzendruber/avl"
)

//
// Program store: an ordered mapping from line number to program line,
// kept in ascending order by an AVL tree (spec.md §3).  Grounded in
// teacher's stmt.go, which wraps the same avl package around a
// *stmtNode keyed by stmtNo; we widen the key from teacher's int16 to
// int, since spec.md's line numbers run up to 65529.
//

type programLine struct {
	avl avl.AvlNode
	no  int
	ast *node // nLine node
}

func cmpLineKey(key any, n any) int {
	return cmpLineNums(key.(int), n.(*programLine).no)
}

func cmpLineNode(n1, n2 any) int {
	return cmpLineNums(n1.(*programLine).no, n2.(*programLine).no)
}

func cmpLineNums(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func programFirst() *programLine {
	p := avl.AvlTreeFirstInOrder(g.program)
	if p == nil {
		return nil
	}
	return p.(*programLine)
}

func programNext(pl *programLine) *programLine {
	p := avl.AvlTreeNextInOrder(&pl.avl)
	if p == nil {
		return nil
	}
	return p.(*programLine)
}

func programLookup(no int) *programLine {
	p := avl.AvlTreeLookup(g.program, no, cmpLineKey)
	if p == nil {
		return nil
	}
	return p.(*programLine)
}

// programStore inserts ast at line number no, replacing any existing
// line.  Passing a nil ast (an empty line) deletes the existing entry
// instead, per spec.md §4.5's process_line contract.

func programStore(no int, ast *node) {
	if existing := programLookup(no); existing != nil {
		avl.AvlTreeRemove(&g.program, &existing.avl)
	}

	if ast == nil {
		return
	}

	pl := &programLine{no: no, ast: ast}

	if p := avl.AvlTreeInsert(&g.program, &pl.avl, pl, cmpLineNode); p != nil {
		fatalError("line already in program store")
	}
}

func programClear() {
	g.program = nil
}

// fatalError reports an internal invariant violation, mirroring
// teacher's basic.go function of the same name, minus the
// stack-walking caller lookup (we have no goyacc-generated callers to
// accommodate) -- a plain panic is enough since call() at the REPL
// top level recovers and reports it.

func fatalError(msg string) {
	panic(&basicError{msg: "INTERNAL ERROR: " + msg})
}
