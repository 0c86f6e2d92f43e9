// Package parser splits SQL scripts into executable statements.
//
// The parser is built with github.com/alecthomas/participle/v2 and understands just
// enough SQL to find statement boundaries safely: line and block comments, single quoted
// string literals (with '' escapes) and double quoted identifiers. A semicolon inside any
// of those never ends a statement.
//
// Basic usage:
//
//	script, err := parser.ParseString("CREATE SCHEMA a; CREATE SCHEMA b;")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, sql := range script.Strings() {
//		fmt.Println(sql)
//	}
//
// Statements are returned without their trailing semicolon, which is what both
// Redshift and PostgreSQL expect when statements are sent one at a time.
package parser
