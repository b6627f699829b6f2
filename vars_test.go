package main

import "testing"

func TestVarStoreScalars(t *testing.T) {
	v := newVarStore()
	v.setNum("x", 42)
	if got := v.getNum("X"); got != 42 {
		t.Errorf("getNum(X) = %v, want 42 (names should fold case)", got)
	}

	v.setStr("a$", "hello")
	if got := v.getStr("A$"); got != "hello" {
		t.Errorf("getStr(A$) = %q, want %q", got, "hello")
	}
}

func TestVarStoreArrayDefaultBound(t *testing.T) {
	v := newVarStore()
	// undimensioned array: default bound is index 0..10
	if err := v.setElemNum("A", []int{10}, 99); err != nil {
		t.Fatalf("setElemNum at default bound: %v", err)
	}
	if err := v.setElemNum("A", []int{11}, 0); err == nil {
		t.Error("expected a subscript-range error past the default bound")
	}
}

func TestVarStoreDimAndLinearIndex(t *testing.T) {
	v := newVarStore()
	v.dim("A", []int{2, 3}) // sizes 2,3 -> dims 3x4

	if err := v.setElemNum("A", []int{1, 2}, 7); err != nil {
		t.Fatalf("setElemNum: %v", err)
	}
	got, err := v.getElemNum("A", []int{1, 2})
	if err != nil {
		t.Fatalf("getElemNum: %v", err)
	}
	if got != 7 {
		t.Errorf("got %v, want 7", got)
	}

	if _, err := v.getElemNum("A", []int{3, 0}); err == nil {
		t.Error("expected subscript-range error for out-of-bounds first axis")
	}
}

func TestLinearIndexFormula(t *testing.T) {
	// dims {2,3} means axis sizes 3 and 4 (s_i+1); index (1,2) should be
	// 1*4 + 2 = 6.
	got, err := linearIndex([]int{2, 3}, []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if got != 6 {
		t.Errorf("linearIndex = %d, want 6", got)
	}
}

func TestVarStoreRedimReallocates(t *testing.T) {
	v := newVarStore()
	v.dim("A", []int{5})
	v.setElemNum("A", []int{5}, 123)

	v.dim("A", []int{2}) // re-DIM: silently reallocates and clears
	if _, err := v.getElemNum("A", []int{5}); err == nil {
		t.Error("expected the old out-of-range index to fail after re-DIM shrank the array")
	}
	got, err := v.getElemNum("A", []int{2})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("re-DIM should clear storage, got %v", got)
	}
}

func TestIsStringName(t *testing.T) {
	if !isStringName("A$") {
		t.Error("A$ should be a string name")
	}
	if isStringName("A") {
		t.Error("A should not be a string name")
	}
}
