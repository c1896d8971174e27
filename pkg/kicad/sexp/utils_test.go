package sexp

import (
	"testing"

	"github.com/OpenTraceLab/ucfgen/pkg/kicad/sexp/kicadsexp"
)

// Helper to parse s-expression from string
func parseSexp(t *testing.T, input string) kicadsexp.Sexp {
	t.Helper()
	sexps, err := kicadsexp.ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse s-expression %q: %v", input, err)
	}
	if len(sexps) == 0 {
		t.Fatalf("No s-expressions parsed from %q", input)
	}
	return sexps[0]
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		index   int
		want    string
		wantErr bool
	}{
		{
			name:  "get key",
			input: "(ref R1)",
			index: 0,
			want:  "ref",
		},
		{
			name:  "get value",
			input: "(ref R1)",
			index: 1,
			want:  "R1",
		},
		{
			name:  "quoted value",
			input: `(name "/HDMI IN/D0+")`,
			index: 1,
			want:  "/HDMI IN/D0+",
		},
		{
			name:    "index out of bounds",
			input:   "(ref R1)",
			index:   5,
			wantErr: true,
		},
		{
			name:    "nested list is not a symbol",
			input:   "(comp (ref R1))",
			index:   1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseSexp(t, tt.input)
			got, err := GetString(s, tt.index)

			if tt.wantErr {
				if err == nil {
					t.Errorf("GetString() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("GetString() unexpected error: %v", err)
				return
			}

			if got != tt.want {
				t.Errorf("GetString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetInt(t *testing.T) {
	s := parseSexp(t, "(code 42)")
	got, err := GetInt(s, 1)
	if err != nil {
		t.Fatalf("GetInt() unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("GetInt() = %d, want 42", got)
	}

	if _, err := GetInt(parseSexp(t, "(code abc)"), 1); err == nil {
		t.Errorf("GetInt() expected error for non-numeric value")
	}
}

func TestFindNodes(t *testing.T) {
	s := parseSexp(t, `(net (code 1) (name GND)
		(node (ref R1) (pin 2))
		(node (ref C1) (pin 1)))`)

	name, ok := ChildValue(s, "name")
	if !ok || name != "GND" {
		t.Errorf("ChildValue(name) = %q, %v; want GND, true", name, ok)
	}

	if _, ok := FindNode(s, "missing"); ok {
		t.Errorf("FindNode(missing) should not be found")
	}

	nodes := FindAllNodes(s, "node")
	if len(nodes) != 2 {
		t.Fatalf("FindAllNodes(node) returned %d nodes, want 2", len(nodes))
	}
	ref, _ := ChildValue(nodes[1], "ref")
	if ref != "C1" {
		t.Errorf("second node ref = %q, want C1", ref)
	}

	if got := Line(nodes[1]); got != 3 {
		t.Errorf("Line() = %d, want 3", got)
	}
}

func TestGetListItems(t *testing.T) {
	items := GetListItems(parseSexp(t, `(names "/" "/sub/")`))
	if len(items) != 2 {
		t.Fatalf("GetListItems() returned %d items, want 2", len(items))
	}
	if items[1].String() != "/sub/" {
		t.Errorf("items[1] = %q, want /sub/", items[1].String())
	}

	if items := GetListItems(parseSexp(t, "(empty)")); len(items) != 0 {
		t.Errorf("GetListItems() on key-only list returned %d items", len(items))
	}
}

func TestGetNodeName(t *testing.T) {
	name, err := GetNodeName(parseSexp(t, "(export (version D))"))
	if err != nil {
		t.Fatalf("GetNodeName() unexpected error: %v", err)
	}
	if name != "export" {
		t.Errorf("GetNodeName() = %q, want export", name)
	}

	if _, err := GetNodeName(parseSexp(t, "((nested))")); err == nil {
		t.Errorf("GetNodeName() expected error for list head")
	}
}
