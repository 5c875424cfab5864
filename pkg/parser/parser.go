package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// ddlLexer tokenizes the head of a MySQL DDL statement. Only the leading
// keywords and the (optionally qualified, optionally backticked) table name
// are structurally interpreted; everything after the table name is carried
// verbatim as the alter clause.
var ddlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\r\n]*`},
	{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
	{Name: "String", Pattern: `'([^'\\]|\\.)*'`},
	{Name: "BacktickIdent", Pattern: "`([^`]|``)*`"},
	{Name: "Number", Pattern: `\d+(\.\d*)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_$]*`},
	{Name: "Punct", Pattern: `[(),.;=+\-*/%<>\[\]!]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type (
	// AlterTable is the parsed head of an ALTER TABLE statement.
	AlterTable struct {
		// Database is the schema qualifier, empty when the statement does
		// not qualify the table name
		Database string

		// Table is the unquoted table name
		Table string

		// Clause is everything after the table name with its original
		// spacing preserved, trailing semicolon removed
		Clause string
	}

	// ParseError reports a statement whose head does not form a valid
	// ALTER TABLE statement.
	ParseError struct {
		Reason string
	}
)

func (e *ParseError) Error() string {
	return "invalid ALTER TABLE statement: " + e.Reason
}

// QualifiedTable returns the table name with its schema qualifier when one
// was present (e.g. "app.users"), otherwise just the table name.
func (a *AlterTable) QualifiedTable() string {
	if a.Database != "" {
		return a.Database + "." + a.Table
	}
	return a.Table
}

// ParseAlter parses the head of an ALTER TABLE statement, extracting the
// target table and the alter clause. Keyword matching is case-insensitive
// and backtick-quoted identifiers are unquoted.
//
// Example:
//
//	alter, err := parser.ParseAlter("ALTER TABLE `app`.`users` ADD COLUMN age INT")
//	if err != nil {
//		return err
//	}
//	fmt.Println(alter.Table)  // users
//	fmt.Println(alter.Clause) // ADD COLUMN age INT
func ParseAlter(sql string) (*AlterTable, error) {
	lex, err := ddlLexer.Lex("", strings.NewReader(sql))
	if err != nil {
		return nil, errors.Wrap(err, "failed to tokenize statement")
	}

	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	toks := significant(tokens)
	if len(toks) == 0 {
		return nil, &ParseError{Reason: "statement is empty"}
	}

	if len(toks) < 2 || !isKeyword(toks[0], "ALTER") || !isKeyword(toks[1], "TABLE") {
		return nil, &ParseError{Reason: "statement does not begin with ALTER TABLE"}
	}

	name, rest, err := parseTableName(toks[2:])
	if err != nil {
		return nil, err
	}

	if len(rest) == 0 {
		return nil, &ParseError{Reason: "missing alter clause"}
	}

	clause := strings.TrimSpace(sql[rest[0].Pos.Offset:])
	clause = strings.TrimSuffix(clause, ";")
	clause = strings.TrimRight(clause, " \t\r\n")
	if clause == "" {
		return nil, &ParseError{Reason: "missing alter clause"}
	}

	alter := &AlterTable{Table: name[len(name)-1], Clause: clause}
	if len(name) == 2 {
		alter.Database = name[0]
	}

	return alter, nil
}

// parseTableName consumes an optionally qualified identifier (ident or
// `ident`, with at most one schema qualifier) and returns its parts along
// with the remaining tokens.
func parseTableName(toks []lexer.Token) ([]string, []lexer.Token, error) {
	if len(toks) == 0 || !isIdent(toks[0]) {
		return nil, nil, &ParseError{Reason: "missing table name"}
	}

	parts := []string{unquote(toks[0].Value)}
	toks = toks[1:]

	if len(toks) >= 2 && toks[0].Value == "." && isIdent(toks[1]) {
		parts = append(parts, unquote(toks[1].Value))
		toks = toks[2:]
	}

	return parts, toks, nil
}

// significant filters out whitespace and comment tokens.
func significant(tokens []lexer.Token) []lexer.Token {
	symbols := ddlLexer.Symbols()
	skip := map[lexer.TokenType]bool{
		symbols["Whitespace"]:       true,
		symbols["Comment"]:          true,
		symbols["MultilineComment"]: true,
		lexer.EOF:                   true,
	}

	out := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if !skip[tok.Type] {
			out = append(out, tok)
		}
	}
	return out
}

func isKeyword(tok lexer.Token, keyword string) bool {
	return tok.Type == ddlLexer.Symbols()["Ident"] && strings.EqualFold(tok.Value, keyword)
}

func isIdent(tok lexer.Token) bool {
	symbols := ddlLexer.Symbols()
	return tok.Type == symbols["Ident"] || tok.Type == symbols["BacktickIdent"]
}

// unquote strips surrounding backticks from an identifier and unescapes
// doubled backticks within it.
func unquote(ident string) string {
	if len(ident) >= 2 && ident[0] == '`' && ident[len(ident)-1] == '`' {
		return strings.ReplaceAll(ident[1:len(ident)-1], "``", "`")
	}
	return ident
}
