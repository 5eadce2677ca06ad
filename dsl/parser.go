package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node for a bytefield description file.
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Records []*Record      `parser:"Newline* ( @@ Newline* )*"`
}

// Record describes one binary record: its settings and its fields in byte order.
type Record struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       string         `parser:"'record' @Ident"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a record body (field declaration or setting).
type Statement struct {
	Field   *FieldDecl `parser:"  @@"`
	Setting *Setting   `parser:"| @@"`
}

// FieldDecl declares a labelled span of Size bytes.
type FieldDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Label StringLiteral  `parser:"'field' @String"`
	Size  int            `parser:"@Number"`
}

// Setting uses colon syntax (key: value).
type Setting struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value is a setting's right-hand side.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *int           `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value rendered as plain text.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return strconv.Itoa(*v.Number)
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Int returns the value as an integer. Quoted digits are accepted.
func (v *Value) Int() (int, error) {
	switch {
	case v == nil:
		return 0, fmt.Errorf("missing value")
	case v.Number != nil:
		return *v.Number, nil
	default:
		n, err := strconv.Atoi(v.Text())
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", v.Text())
		}
		return n, nil
	}
}

// Fields returns the record's field declarations in order.
func (r *Record) Fields() []*FieldDecl {
	var out []*FieldDecl
	for _, st := range r.Statements {
		if st.Field != nil {
			out = append(out, st.Field)
		}
	}
	return out
}

// Setting returns the last setting named key.
func (r *Record) Setting(key string) (*Setting, bool) {
	var found *Setting
	for _, st := range r.Statements {
		if st.Setting != nil && st.Setting.Key == key {
			found = st.Setting
		}
	}
	return found, found != nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// ParseFile parses DSL content read from r, naming filename in error positions.
func ParseFile(filename string, r io.Reader) (*Document, error) {
	return documentParser.Parse(filename, r)
}
