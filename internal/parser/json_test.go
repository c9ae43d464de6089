package parser

import (
	"strings"
	"testing"
)

func TestParseJSONFlatObjects(t *testing.T) {
	data := []byte(`[
		{"date": "2023-01-01", "sales": 1200, "active": true, "note": null},
		{"date": "2023-01-02", "sales": 800, "active": false, "note": "ok"}
	]`)
	rows, cols, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	want := []string{"date", "sales", "active", "note"}
	for i, c := range want {
		if cols[i] != c {
			t.Errorf("cols[%d] = %q, want %q", i, cols[i], c)
		}
	}
	if v, ok := rows[0]["sales"].(float64); !ok || v != 1200 {
		t.Errorf("sales = %#v, want float64 1200", rows[0]["sales"])
	}
	if rows[0]["active"] != true {
		t.Errorf("active = %#v, want true", rows[0]["active"])
	}
	if rows[0]["note"] != nil {
		t.Errorf("note = %#v, want nil", rows[0]["note"])
	}
}

func TestParseJSONNestedKeptAsText(t *testing.T) {
	data := []byte(`[{"name": "a", "meta": {"x": 1}}]`)
	rows, _, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	s, ok := rows[0]["meta"].(string)
	if !ok || !strings.Contains(s, `"x"`) {
		t.Errorf("meta = %#v, want the raw JSON text", rows[0]["meta"])
	}
}

func TestParseJSONRejectsNonObjects(t *testing.T) {
	if _, _, err := ParseJSON([]byte(`[1, 2, 3]`)); err == nil {
		t.Fatal("want error for non-object elements")
	}
	if _, _, err := ParseJSON([]byte(`{"not": "an array"}`)); err == nil {
		t.Fatal("want error for a non-array document")
	}
}
