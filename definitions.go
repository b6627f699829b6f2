package main

import (
	"time"

	"github.com/danswartzendruber/avl"
	"github.com/danswartzendruber/liner"
)

//
// Constants
//

const minLineNumber = 1
const maxLineNumber = 65529

const arrayDefaultSize = 11 // index 0..10

const minWindowRows = 24
const zoneWidth = 14

const executePrompt = "? "

const minExpArg = -745
const maxExpArg = 709

//
// Token kinds (lexer)
//

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokVariable
	tokString
	tokKeyword
	tokOperator
	tokDelimiter
	tokNewline
	tokEOF
)

//
// Keyword and operator subkinds
//

type keyword int

const (
	kwNone keyword = iota
	kwPRINT
	kwINPUT
	kwLET
	kwIF
	kwTHEN
	kwELSE
	kwFOR
	kwTO
	kwSTEP
	kwNEXT
	kwGOTO
	kwGOSUB
	kwRETURN
	kwREM
	kwDATA
	kwREAD
	kwRESTORE
	kwEND
	kwSTOP
	kwLIST
	kwNEW
	kwRUN
	kwCLEAR
	kwAND
	kwOR
	kwNOT
	kwDIM
	kwDEF
	kwON
	kwFN
	kwTRON
	kwTROFF
	kwSTATS
	kwDELETE
)

var keywords = map[string]keyword{
	"PRINT":   kwPRINT,
	"INPUT":   kwINPUT,
	"LET":     kwLET,
	"IF":      kwIF,
	"THEN":    kwTHEN,
	"ELSE":    kwELSE,
	"FOR":     kwFOR,
	"TO":      kwTO,
	"STEP":    kwSTEP,
	"NEXT":    kwNEXT,
	"GOTO":    kwGOTO,
	"GOSUB":   kwGOSUB,
	"RETURN":  kwRETURN,
	"REM":     kwREM,
	"DATA":    kwDATA,
	"READ":    kwREAD,
	"RESTORE": kwRESTORE,
	"END":     kwEND,
	"STOP":    kwSTOP,
	"LIST":    kwLIST,
	"NEW":     kwNEW,
	"RUN":     kwRUN,
	"CLEAR":   kwCLEAR,
	"AND":     kwAND,
	"OR":      kwOR,
	"NOT":     kwNOT,
	"DIM":     kwDIM,
	"DEF":     kwDEF,
	"ON":      kwON,
	"FN":      kwFN,
	"TRON":    kwTRON,
	"TROFF":   kwTROFF,
	"STATS":   kwSTATS,
	"DELETE":  kwDELETE,
}

type opKind int

const (
	opNone opKind = iota
	opPlus
	opMinus
	opStar
	opSlash
	opPow
	opEq
	opLt
	opGt
	opLe
	opGe
	opNe
	opAnd
	opOr
	opNot
)

type delimKind int

const (
	delimNone delimKind = iota
	delimLParen
	delimRParen
	delimComma
	delimSemi
	delimColon
)

//
// Global state, laid out the way the teacher does it: a persistent
// struct "g", a transient run struct "r", a print-column struct "p",
// and a statistics struct "s"
//

type window struct {
	rows int
	cols int
}

var g struct {
	program        *avl.AvlNode
	numOutputZones int
	window         window
	parserLiner    *liner.State
	inputLiner     *liner.State
	running        bool
	traceExec      bool
}

// print zone state, mirrors teacher's package-level "p"

var p struct {
	column int
}

// statistics, mirrors teacher's package-level "s"

var s struct {
	elapsed       time.Time
	numStatements int64
	utime         int64
	stime         int64
}
