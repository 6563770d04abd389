package ast

import "testing"

func pos(offset int) Position {
	return Position{Line: 0, Column: offset, Offset: offset}
}

func TestSpan_Contains(t *testing.T) {
	s := Span{Start: pos(2), End: pos(5)}

	if !s.Contains(pos(2)) {
		t.Errorf("expected span to contain its start (inclusive)")
	}
	if s.Contains(pos(5)) {
		t.Errorf("expected span to exclude its end (exclusive)")
	}
	if !s.Contains(pos(3)) {
		t.Errorf("expected span to contain an interior point")
	}
	if s.Contains(pos(1)) {
		t.Errorf("expected span to exclude a point before start")
	}
}

func TestSpan_Merge(t *testing.T) {
	a := Span{Start: pos(2), End: pos(5)}
	b := Span{Start: pos(4), End: pos(10)}

	merged := a.Merge(b)
	if merged.Start.Offset != 2 || merged.End.Offset != 10 {
		t.Errorf("expected merged span [2,10), got [%d,%d)", merged.Start.Offset, merged.End.Offset)
	}

	// Merge is commutative regardless of argument order.
	reversed := b.Merge(a)
	if reversed != merged {
		t.Errorf("expected Merge to be commutative, got %#v vs %#v", reversed, merged)
	}
}

func TestSpan_LenAndIsEmpty(t *testing.T) {
	s := Span{Start: pos(2), End: pos(5)}
	if s.Len() != 3 {
		t.Errorf("expected length 3, got %d", s.Len())
	}
	if s.IsEmpty() {
		t.Errorf("expected non-empty span")
	}

	empty := Point(pos(2))
	if !empty.IsEmpty() {
		t.Errorf("expected Point span to be empty")
	}
	if empty.Len() != 0 {
		t.Errorf("expected zero length, got %d", empty.Len())
	}
}

func TestNumberValue_AsFloat64(t *testing.T) {
	tests := []struct {
		name string
		nv   NumberValue
		want float64
	}{
		{"pos int", NumberValue{Kind: PosInt, PosIntVal: 42}, 42},
		{"neg int", NumberValue{Kind: NegInt, NegIntVal: -7}, -7},
		{"float", NumberValue{Kind: Float, FloatVal: 3.5}, 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.nv.AsFloat64(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNumberValue_AsInt64(t *testing.T) {
	v, ok := NumberValue{Kind: PosInt, PosIntVal: 10}.AsInt64()
	if !ok || v != 10 {
		t.Errorf("expected (10, true), got (%d, %v)", v, ok)
	}

	v, ok = NumberValue{Kind: NegInt, NegIntVal: -10}.AsInt64()
	if !ok || v != -10 {
		t.Errorf("expected (-10, true), got (%d, %v)", v, ok)
	}

	_, ok = NumberValue{Kind: Float, FloatVal: 1.5}.AsInt64()
	if ok {
		t.Errorf("expected Float to not convert to int64")
	}

	_, ok = NumberValue{Kind: PosInt, PosIntVal: 1 << 63}.AsInt64()
	if ok {
		t.Errorf("expected an out-of-range PosInt to not convert to int64")
	}
}

func TestArrayForm_String(t *testing.T) {
	tests := map[ArrayForm]string{
		Inline:   "Inline",
		Expanded: "Expanded",
		Tabular:  "Tabular",
	}
	for form, want := range tests {
		if got := form.String(); got != want {
			t.Errorf("ArrayForm(%d).String() = %q, want %q", form, got, want)
		}
	}
}

func TestNodeVariants_SpanAccessors(t *testing.T) {
	sp := Span{Start: pos(0), End: pos(1)}

	var nodes = []Node{
		&Document{Sp: sp},
		&Object{Sp: sp},
		&Array{Sp: sp},
		&String{Sp: sp},
		&Number{Sp: sp},
		&Bool{Sp: sp},
		&Null{Sp: sp},
	}
	for _, n := range nodes {
		if n.Span() != sp {
			t.Errorf("%T.Span() = %#v, want %#v", n, n.Span(), sp)
		}
	}
}
