package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/bytefield/dsl"
)

const sampleDSL = `
// IPv4 header, first word only
record IPv4 {
  title: "IPv4 header"
  bytes-per-line: 4
  offset: 0

  field "Version/IHL" 1
  field "DSCP/ECN" 1; field "Total Length" 2
  # addresses
  field "Source ${host}" 4
}

/* second record */
record UDP {
  field "Source Port" 2
  field "Destination Port" 2
  field "Length" 2
  field "Checksum" 2
  bytes-per-line: 8
  bytes-per-line: 16
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(doc.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(doc.Records))
	}

	ipv4 := doc.Records[0]
	if ipv4.Name != "IPv4" {
		t.Fatalf("expected record name IPv4, got %s", ipv4.Name)
	}
	fields := ipv4.Fields()
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(fields))
	}
	if fields[0].Label != "Version/IHL" || fields[0].Size != 1 {
		t.Fatalf("unexpected first field: %+v", fields[0])
	}
	if fields[2].Label != "Total Length" || fields[2].Size != 2 {
		t.Fatalf("unexpected third field: %+v", fields[2])
	}
	if got := string(fields[3].Label); !strings.Contains(got, "${host}") {
		t.Fatalf("expected placeholder in label, got %s", got)
	}

	title, ok := ipv4.Setting("title")
	if !ok || title.Value.Text() != "IPv4 header" {
		t.Fatalf("expected title setting, got %+v", title)
	}
	bpl, ok := ipv4.Setting("bytes-per-line")
	if !ok {
		t.Fatalf("bytes-per-line setting missing")
	}
	if n, err := bpl.Value.Int(); err != nil || n != 4 {
		t.Fatalf("expected bytes-per-line 4, got %d (%v)", n, err)
	}
	if fields[0].Pos.Line != 8 {
		t.Fatalf("expected first field on line 8, got %d", fields[0].Pos.Line)
	}
}

func TestSettingLastWins(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	udp := doc.Records[1]
	s, ok := udp.Setting("bytes-per-line")
	if !ok {
		t.Fatalf("bytes-per-line setting missing")
	}
	if n, _ := s.Value.Int(); n != 16 {
		t.Fatalf("expected last bytes-per-line 16, got %d", n)
	}
	if _, ok := udp.Setting("title"); ok {
		t.Fatalf("unexpected title setting")
	}
}

func TestParseEscapedLabel(t *testing.T) {
	doc, err := dsl.ParseString(`record R { field "say \"hi\"" 3 }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := string(doc.Records[0].Fields()[0].Label); got != `say "hi"` {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestParseEmptyRecord(t *testing.T) {
	doc, err := dsl.ParseString("record Empty {\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Records[0].Fields()) != 0 {
		t.Fatalf("expected no fields")
	}
}

func TestParseRejectsMissingSize(t *testing.T) {
	if _, err := dsl.ParseString(`record R { field "x" }`); err == nil {
		t.Fatalf("expected error for field without size")
	}
}

func TestParseRejectsNegativeSize(t *testing.T) {
	if _, err := dsl.ParseString(`record R { field "x" -1 }`); err == nil {
		t.Fatalf("expected error for negative size")
	}
}

func TestValueInt(t *testing.T) {
	doc, err := dsl.ParseString(`record R { offset: "12"
 mode: wide }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	off, _ := doc.Records[0].Setting("offset")
	if n, err := off.Value.Int(); err != nil || n != 12 {
		t.Fatalf("expected 12, got %d (%v)", n, err)
	}
	mode, _ := doc.Records[0].Setting("mode")
	if _, err := mode.Value.Int(); err == nil {
		t.Fatalf("expected error for identifier value")
	}
	if mode.Value.Text() != "wide" {
		t.Fatalf("unexpected mode text %q", mode.Value.Text())
	}
}
