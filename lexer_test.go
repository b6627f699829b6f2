package main

import "testing"

func TestLexNumber(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"10", "10"},
		{"3.14", "3.14"},
		{"1E10", "1E10"},
		{"2.5E-3", "2.5E-3"},
		{"5E", "5"}, // trailing bare E is not consumed
		{".5", ".5"},
	}

	for _, c := range cases {
		toks, err := lex(c.src)
		if err != nil {
			t.Fatalf("lex(%q): %v", c.src, err)
		}
		if toks[0].kind != tokNumber || toks[0].lexeme != c.want {
			t.Errorf("lex(%q) = %+v, want lexeme %q", c.src, toks[0], c.want)
		}
	}
}

func TestLexIdentAndKeyword(t *testing.T) {
	toks, err := lex("print x$")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].kind != tokKeyword || toks[0].kw != kwPRINT {
		t.Errorf("expected PRINT keyword, got %+v", toks[0])
	}
	if toks[1].kind != tokVariable || toks[1].lexeme != "X$" {
		t.Errorf("expected variable X$, got %+v", toks[1])
	}
}

func TestLexRemConsumesRestOfLine(t *testing.T) {
	toks, err := lex(`REM this has "unbalanced quotes and : colons`)
	if err != nil {
		t.Fatalf("REM should never fail to lex: %v", err)
	}
	if len(toks) != 2 || toks[0].kw != kwREM || toks[1].kind != tokEOF {
		t.Errorf("expected [REM, EOF], got %+v", toks)
	}
}

func TestLexString(t *testing.T) {
	toks, err := lex(`"hello, world"`)
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].kind != tokString || toks[0].lexeme != "hello, world" {
		t.Errorf("got %+v", toks[0])
	}
}

func TestLexUnterminatedString(t *testing.T) {
	if _, err := lex(`"no closing quote`); err == nil {
		t.Error("expected a syntax error for an unterminated string")
	}
}

func TestLexOperators(t *testing.T) {
	toks, err := lex("<= >= <>")
	if err != nil {
		t.Fatal(err)
	}
	want := []opKind{opLe, opGe, opNe}
	for i, op := range want {
		if toks[i].op != op {
			t.Errorf("token %d: got op %v, want %v", i, toks[i].op, op)
		}
	}
}

func TestLexIllegalCharacter(t *testing.T) {
	if _, err := lex("X = 1 @ 2"); err == nil {
		t.Error("expected a syntax error for an illegal character")
	}
}
