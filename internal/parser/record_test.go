package parser

import "testing"

var testSchema = Schema{
	{Name: "a", Start: 0, End: 3},
	{Name: "b", Start: 4, End: 7},
	{Name: "c", Start: 8, End: 12},
}

func TestExplode_TrimsValues(t *testing.T) {
	got := Explode(" x  yy  zzz", testSchema)
	if v, ok := got["a"].Get(); !ok || v != "x" {
		t.Errorf("a = %q (%v), want %q", v, ok, "x")
	}
	if v, ok := got["b"].Get(); !ok || v != "yy" {
		t.Errorf("b = %q (%v), want %q", v, ok, "yy")
	}
	if v, ok := got["c"].Get(); !ok || v != "zzz" {
		t.Errorf("c = %q (%v), want %q", v, ok, "zzz")
	}
}

func TestExplode_BlankAndSentinelAreAbsent(t *testing.T) {
	got := Explode("    N/A", testSchema)
	for _, name := range []string{"a", "b"} {
		if got[name].Valid {
			t.Errorf("%s should be absent, got %q", name, got[name].Value)
		}
	}
}

func TestExplode_ShortLineKeepsEveryField(t *testing.T) {
	for _, line := range []string{"", "ab", "abc d"} {
		got := Explode(line, testSchema)
		if len(got) != len(testSchema) {
			t.Fatalf("line %q: %d fields, want %d", line, len(got), len(testSchema))
		}
		if got["c"].Valid {
			t.Errorf("line %q: c should be absent", line)
		}
	}

	got := Explode("abc d", testSchema)
	if got["b"].Value != "d" {
		t.Errorf("clipped b = %q, want %q", got["b"].Value, "d")
	}
}

func TestExplode_InvertedSpan(t *testing.T) {
	got := Explode("abcdef", Schema{{Name: "x", Start: 4, End: 2}})
	if got["x"].Valid {
		t.Error("inverted span should be absent")
	}
}

func TestField_Or(t *testing.T) {
	if None[string]().Or("d") != "d" {
		t.Error("absent field should fall back to default")
	}
	if Some("v").Or("d") != "v" {
		t.Error("present field should keep its value")
	}
}
