package main

import "testing"

func TestBasicFormatIntegers(t *testing.T) {
	cases := map[float64]string{
		0:    " 0 ",
		5:    " 5 ",
		-5:   "-5 ",
		999:  " 999 ",
		-999: "-999 ",
	}
	for in, want := range cases {
		if got := basicFormat(in); got != want {
			t.Errorf("basicFormat(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBasicFormatExponentialForLargeMagnitude(t *testing.T) {
	got := basicFormat(1.5e7)
	if len(got) == 0 || got[0] != ' ' {
		t.Fatalf("basicFormat(1.5e7) = %q, want leading space", got)
	}
	if !containsRune(got, 'E') {
		t.Errorf("basicFormat(1.5e7) = %q, want exponential form", got)
	}
}

func TestBasicFormatExponentialForTinyMagnitude(t *testing.T) {
	got := basicFormat(0.0001)
	if !containsRune(got, 'E') {
		t.Errorf("basicFormat(0.0001) = %q, want exponential form", got)
	}
}

func TestBasicFormatFixedTrimsTrailingZeros(t *testing.T) {
	got := basicFormat(3.5)
	want := " 3.5 "
	if got != want {
		t.Errorf("basicFormat(3.5) = %q, want %q", got, want)
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func TestPrintCommaAdvancesToNextZone(t *testing.T) {
	w := &bufWriter{}
	p.column = 0
	printWrite(w, "AB")
	printComma(w)
	if p.column != zoneWidth {
		t.Errorf("column after comma = %d, want %d", p.column, zoneWidth)
	}
}

func TestPrintTabNoOpPastColumn(t *testing.T) {
	w := &bufWriter{}
	p.column = 20
	printTab(w, 5)
	if p.column != 20 {
		t.Errorf("TAB should be a no-op once past the target column, column = %d", p.column)
	}
}

type bufWriter struct {
	s string
}

func (b *bufWriter) write(s string) { b.s += s }
