package utf16pos

import "testing"

func TestUTF8ToUTF16Col_ASCII(t *testing.T) {
	line := "hello"
	if got := UTF8ToUTF16Col(line, 3); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestUTF8ToUTF16Col_BeyondLineEnd(t *testing.T) {
	line := "hi"
	if got := UTF8ToUTF16Col(line, 50); got != 2 {
		t.Errorf("expected clamp to line length 2, got %d", got)
	}
}

func TestUTF8ToUTF16Col_NegativeClampsToZero(t *testing.T) {
	if got := UTF8ToUTF16Col("hi", -5); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestUTF8ToUTF16Col_SupplementaryPlane(t *testing.T) {
	// U+1F600 (😀) is 4 UTF-8 bytes and 2 UTF-16 code units.
	line := "a😀b"
	// byte column 1 is right after 'a', before the emoji: UTF-16 col 1.
	if got := UTF8ToUTF16Col(line, 1); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	// byte column 5 is right after the emoji (1 + 4 bytes): UTF-16 col 3.
	if got := UTF8ToUTF16Col(line, 5); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestUTF16ToUTF8Col_ASCII(t *testing.T) {
	if got := UTF16ToUTF8Col("hello", 3); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestUTF16ToUTF8Col_BeyondLineEnd(t *testing.T) {
	if got := UTF16ToUTF8Col("hi", 50); got != 2 {
		t.Errorf("expected clamp to byte length 2, got %d", got)
	}
}

func TestUTF16ToUTF8Col_SupplementaryPlane(t *testing.T) {
	line := "a😀b"
	// UTF-16 col 3 is right after the 2-unit emoji: byte offset 5.
	if got := UTF16ToUTF8Col(line, 3); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestRoundTrip_ASCII(t *testing.T) {
	line := "the quick brown fox"
	for col := 0; col <= len(line); col++ {
		u16 := UTF8ToUTF16Col(line, col)
		back := UTF16ToUTF8Col(line, u16)
		if back != col {
			t.Errorf("round trip failed at col %d: got %d via u16=%d", col, back, u16)
		}
	}
}

func TestLines_SplitsOnLFAndCRLF(t *testing.T) {
	got := Lines("a\nb\r\nc")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLines_EmptySource(t *testing.T) {
	got := Lines("")
	if len(got) != 1 || got[0] != "" {
		t.Errorf("expected a single empty line, got %v", got)
	}
}

func TestLine_OutOfRange(t *testing.T) {
	if got := Line("a\nb\n", 5); got != "" {
		t.Errorf("expected empty string for out-of-range line, got %q", got)
	}
	if got := Line("a\nb\n", -1); got != "" {
		t.Errorf("expected empty string for negative line, got %q", got)
	}
}

func TestLine_InRange(t *testing.T) {
	if got := Line("a\nbb\nccc\n", 1); got != "bb" {
		t.Errorf("expected %q, got %q", "bb", got)
	}
}
