package catalog

import (
	"strings"
	"testing"
)

func TestParseValidRecords(t *testing.T) {
	input := `
1 12.5 -45.25
2 0.0 0.0

3 359.99 89.5
`
	cat, err := Parse(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cat) != 3 {
		t.Fatalf("unexpected record count: got=%d want=3", len(cat))
	}
	if cat[0].ID != 1 || cat[0].RightAscension != 12.5 || cat[0].Declination != -45.25 {
		t.Fatalf("unexpected first record: %+v", cat[0])
	}
	if cat[2].ID != 3 {
		t.Fatalf("unexpected last record id: got=%d want=3", cat[2].ID)
	}
}

func TestParseRejectsMalformedLines(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{name: "too many columns", input: "1 2.0 3.0 4.0\n"},
		{name: "too few columns", input: "1 2.0\n"},
		{name: "bad id", input: "abc 2.0 3.0\n"},
		{name: "bad right ascension", input: "1 x 3.0\n"},
		{name: "bad declination", input: "1 2.0 y\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.input), 0); err == nil {
				t.Fatalf("expected parse error for %q", tc.input)
			}
		})
	}
}

func TestParseReportsLineNumber(t *testing.T) {
	input := "1 2.0 3.0\n2 bad 3.0\n"
	_, err := Parse(strings.NewReader(input), 0)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in error, got: %v", err)
	}
}

func TestParseEnforcesRecordCap(t *testing.T) {
	input := "1 0 0\n2 0 0\n3 0 0\n"
	if _, err := Parse(strings.NewReader(input), 2); err == nil {
		t.Fatalf("expected record cap error")
	}
	cat, err := Parse(strings.NewReader(input), 3)
	if err != nil {
		t.Fatalf("parse at cap: %v", err)
	}
	if len(cat) != 3 {
		t.Fatalf("unexpected record count: got=%d want=3", len(cat))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.csv", 0); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
