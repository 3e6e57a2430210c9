package main

import (
	"strings"
	"unicode"
)

// ddlField is one column from a CREATE TABLE field list: its name and
// whether it carries a PRIMARY KEY constraint. Field order
// matches the record column order of the underlying table.
type ddlField struct {
	Name         string
	IsPrimaryKey bool
}

// ddlIndex is the parsed shape of a CREATE INDEX statement.
type ddlIndex struct {
	Name   string
	Table  string
	Column string
}

// ddlScanner is a tiny hand-rolled tokenizer over CREATE TABLE/CREATE
// INDEX text: bare identifiers, double-quoted identifiers (which may
// contain spaces), punctuation, and whitespace. This mirrors the grammar
// the original Rust source hand-wrote with `nom`
// (original_source/src/creation_sql.rs) rather than a general SQL
// tokenizer — SQLite schema SQL allows constructs (double-quoted
// multi-word identifiers, PRIMARY KEY/AUTOINCREMENT in either order) that
// a MySQL-grammar parser like xwb1989/sqlparser cannot represent; see
// DESIGN.md.
type ddlScanner struct {
	s   string
	pos int
}

func newDDLScanner(s string) *ddlScanner {
	return &ddlScanner{s: s}
}

func (s *ddlScanner) skipSpace() {
	for s.pos < len(s.s) && unicode.IsSpace(rune(s.s[s.pos])) {
		s.pos++
	}
}

func (s *ddlScanner) peekByte() (byte, bool) {
	if s.pos >= len(s.s) {
		return 0, false
	}
	return s.s[s.pos], true
}

// matchKeyword consumes a case-insensitive literal keyword (possibly
// multi-word, e.g. "IF NOT EXISTS") if it appears next, surrounded by
// word boundaries, returning whether it matched.
func (s *ddlScanner) matchKeyword(kw string) bool {
	s.skipSpace()
	rest := s.s[s.pos:]
	if len(rest) < len(kw) || !strings.EqualFold(rest[:len(kw)], kw) {
		return false
	}
	after := s.pos + len(kw)
	if after < len(s.s) && isIdentByte(s.s[after]) {
		return false
	}
	s.pos = after
	return true
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// matchByte consumes a single literal byte (e.g. '(' ',' ')') if present.
func (s *ddlScanner) matchByte(b byte) bool {
	s.skipSpace()
	if cur, ok := s.peekByte(); ok && cur == b {
		s.pos++
		return true
	}
	return false
}

// identifier reads a bare alnum+underscore identifier, or a double-quoted
// identifier that may contain arbitrary characters (including spaces)
// except the closing quote.
func (s *ddlScanner) identifier() (string, bool) {
	s.skipSpace()
	if cur, ok := s.peekByte(); ok && cur == '"' {
		start := s.pos + 1
		end := strings.IndexByte(s.s[start:], '"')
		if end < 0 {
			return "", false
		}
		s.pos = start + end + 1
		return s.s[start : start+end], true
	}

	start := s.pos
	for s.pos < len(s.s) && isIdentByte(s.s[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return "", false
	}
	return s.s[start:s.pos], true
}

// bareWord reads one run of non-space, non-punctuation characters — used
// to skip an optional type-name token ("INTEGER", "TEXT", ...) a field
// declaration may carry.
func (s *ddlScanner) bareWord() (string, bool) {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.s) {
		c := s.s[s.pos]
		if unicode.IsSpace(rune(c)) || c == ',' || c == '(' || c == ')' {
			break
		}
		s.pos++
	}
	if s.pos == start {
		return "", false
	}
	return s.s[start:s.pos], true
}

// parseCreateTable recognizes `CREATE TABLE [IF NOT EXISTS] <ident> (
// <field>, ... )` case-insensitively and returns the table name and its
// ordered field list.
func parseCreateTable(sql string) (tableName string, fields []ddlField, err error) {
	s := newDDLScanner(sql)

	if !s.matchKeyword("CREATE") {
		return "", nil, NewDatabaseError("parse_create_table", ErrParse, map[string]interface{}{"reason": "missing CREATE"})
	}
	if !s.matchKeyword("TABLE") {
		return "", nil, NewDatabaseError("parse_create_table", ErrParse, map[string]interface{}{"reason": "missing TABLE"})
	}
	s.matchKeyword("IF NOT EXISTS")

	name, ok := s.identifier()
	if !ok {
		return "", nil, NewDatabaseError("parse_create_table", ErrParse, map[string]interface{}{"reason": "missing table name"})
	}
	tableName = name

	if !s.matchByte('(') {
		return "", nil, NewDatabaseError("parse_create_table", ErrParse, map[string]interface{}{"reason": "missing ("})
	}

	for {
		s.skipSpace()
		if s.matchByte(')') {
			break
		}

		field, ok := s.identifier()
		if !ok {
			return "", nil, NewDatabaseError("parse_create_table", ErrParse, map[string]interface{}{
				"reason": "expected field name", "offset": s.pos,
			})
		}

		isPK := false
		// Optional type-name token, then zero or more constraints, until
		// the field's terminating ',' or the closing ')'.
		s.bareWord()
		for {
			s.skipSpace()
			switch {
			case s.matchKeyword("PRIMARY KEY"):
				isPK = true
			case s.matchKeyword("AUTOINCREMENT"):
				isPK = true
			case s.matchKeyword("NOT NULL"):
			default:
				goto doneConstraints
			}
		}
	doneConstraints:

		fields = append(fields, ddlField{Name: field, IsPrimaryKey: isPK})

		s.skipSpace()
		if s.matchByte(',') {
			continue
		}
		if s.matchByte(')') {
			break
		}
		return "", nil, NewDatabaseError("parse_create_table", ErrParse, map[string]interface{}{
			"reason": "expected , or ) after field", "offset": s.pos,
		})
	}

	return tableName, fields, nil
}

// parseCreateIndex recognizes `CREATE [UNIQUE] INDEX <ident> ON <ident> (
// <ident> )` case-insensitively.
func parseCreateIndex(sql string) (*ddlIndex, error) {
	s := newDDLScanner(sql)

	if !s.matchKeyword("CREATE") {
		return nil, NewDatabaseError("parse_create_index", ErrParse, map[string]interface{}{"reason": "missing CREATE"})
	}
	s.matchKeyword("UNIQUE")
	if !s.matchKeyword("INDEX") {
		return nil, NewDatabaseError("parse_create_index", ErrParse, map[string]interface{}{"reason": "missing INDEX"})
	}

	indexName, ok := s.identifier()
	if !ok {
		return nil, NewDatabaseError("parse_create_index", ErrParse, map[string]interface{}{"reason": "missing index name"})
	}
	if !s.matchKeyword("ON") {
		return nil, NewDatabaseError("parse_create_index", ErrParse, map[string]interface{}{"reason": "missing ON"})
	}
	tableName, ok := s.identifier()
	if !ok {
		return nil, NewDatabaseError("parse_create_index", ErrParse, map[string]interface{}{"reason": "missing table name"})
	}
	if !s.matchByte('(') {
		return nil, NewDatabaseError("parse_create_index", ErrParse, map[string]interface{}{"reason": "missing ("})
	}
	columnName, ok := s.identifier()
	if !ok {
		return nil, NewDatabaseError("parse_create_index", ErrParse, map[string]interface{}{"reason": "missing column name"})
	}
	if !s.matchByte(')') {
		return nil, NewDatabaseError("parse_create_index", ErrParse, map[string]interface{}{"reason": "missing )"})
	}

	return &ddlIndex{Name: indexName, Table: tableName, Column: columnName}, nil
}
