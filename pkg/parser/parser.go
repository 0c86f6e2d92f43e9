package parser

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

const summaryLength = 72

var (
	// sqlLexer only distinguishes the tokens that can hide a semicolon (comments, strings and
	// quoted identifiers). Everything else is opaque text that is copied through verbatim.
	sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `--[^\r\n]*`},
		{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
		{Name: "String", Pattern: `'(?:[^']|'')*'`},
		{Name: "QuotedIdent", Pattern: `"(?:[^"]|"")*"`},
		{Name: "Semicolon", Pattern: `;`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Text", Pattern: `[^;'"\s\-/]+|[\-/]`},
	})

	// parser is the participle parser instance for SQL scripts
	parser = participle.MustBuild[Script](
		participle.Lexer(sqlLexer),
		participle.Elide("Comment", "MultilineComment"),
	)
)

type (
	// Script is a sequence of semicolon terminated statements.
	Script struct {
		Statements []*Statement `parser:"(@@ | ';')*"`
	}

	// Statement is a single SQL statement without its terminating semicolon.
	Statement struct {
		Tokens []string `parser:"@(~';')+ ';'?"`
	}
)

// Parse splits the SQL read from reader into individual statements.
//
// Comments are dropped, semicolons inside string literals and quoted identifiers are
// preserved, and statements containing only whitespace are discarded.
//
// Example usage:
//
//	script, err := parser.Parse(strings.NewReader(`
//		-- staging
//		CREATE SCHEMA IF NOT EXISTS staging_schema;
//		DROP TABLE IF EXISTS staging_schema.events;
//	`))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, stmt := range script.Statements {
//		fmt.Println(stmt.String())
//	}
func Parse(reader io.Reader) (*Script, error) {
	script, err := parser.Parse("", reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse SQL")
	}

	script.compact()
	return script, nil
}

// ParseString splits the provided SQL string into individual statements.
func ParseString(sql string) (*Script, error) {
	script, err := parser.ParseString("", sql)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse SQL")
	}

	script.compact()
	return script, nil
}

// ParseFile splits the SQL contained in the file at path into individual statements.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Strings returns the text of every statement in order.
func (s *Script) Strings() []string {
	out := make([]string, len(s.Statements))
	for i, stmt := range s.Statements {
		out[i] = stmt.String()
	}

	return out
}

// String returns the statement text with surrounding whitespace removed.
func (s *Statement) String() string {
	return strings.TrimSpace(strings.Join(s.Tokens, ""))
}

// Summary returns the statement collapsed onto a single line and truncated, suitable for
// log fields and progress output.
func (s *Statement) Summary() string {
	return Summarize(s.String())
}

// Summarize collapses sql onto a single line and truncates it to at most summaryLength
// characters. Truncation never splits a multi-byte character.
func Summarize(sql string) string {
	line := strings.Join(strings.Fields(sql), " ")
	runes := []rune(line)
	if len(runes) <= summaryLength {
		return line
	}

	return string(runes[:summaryLength-3]) + "..."
}

func (s *Script) compact() {
	stmts := s.Statements[:0]
	for _, stmt := range s.Statements {
		if stmt.String() != "" {
			stmts = append(stmts, stmt)
		}
	}

	s.Statements = stmts
}
