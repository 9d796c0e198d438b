package codes

import (
	"encoding/json"
	"testing"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		in   string
		want Side
		ok   bool
	}{
		{"a", SideA, true},
		{"B", SideB, true},
		{" b ", SideB, true},
		{"", NoSide, false},
		{"c", NoSide, false},
		{"ab", NoSide, false},
	}

	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("ParseSide(%q): expected ok=%v, got err %v", tt.in, tt.ok, err)
		}
		if got != tt.want {
			t.Fatalf("ParseSide(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestSideOther(t *testing.T) {
	if SideA.Other() != SideB || SideB.Other() != SideA {
		t.Fatal("expected A and B to oppose each other")
	}
	if NoSide.Other() != NoSide {
		t.Fatalf("expected NoSide to have no opponent, got %v", NoSide.Other())
	}
	if NoSide.Valid() {
		t.Fatal("expected NoSide to be invalid")
	}
}

func TestSideJSON(t *testing.T) {
	data, err := json.Marshal(map[Side][]string{SideA: {"alice"}, SideB: {"bob"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"a":["alice"],"b":["bob"]}` {
		t.Fatalf("unexpected json %s", data)
	}

	var s struct {
		Side Side `json:"side"`
	}
	if err := json.Unmarshal([]byte(`{"side":"b"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Side != SideB {
		t.Fatalf("expected side b, got %v", s.Side)
	}
	if err := json.Unmarshal([]byte(`{"side":"x"}`), &s); err == nil {
		t.Fatal("expected error for unknown side")
	}
}
