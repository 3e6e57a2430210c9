package main

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// projectionKind distinguishes a column-list SELECT from an aggregate
// function-call SELECT.
type projectionKind int

const (
	projectionColumns projectionKind = iota
	projectionAggregate
)

// projection is the parsed SELECT clause: either a list of column names
// or a single aggregate function name.
type projection struct {
	kind    projectionKind
	columns []string
	aggFunc string
}

// filter is the parsed WHERE clause: `<column> = '<literal>'`. This
// engine supports nothing else.
type filter struct {
	column  string
	literal string
}

// selectStatement is the AST the query executor consumes. It is deliberately narrower than anything sqlparser.Select can
// represent — ParseSelect rejects every construct outside this shape.
type selectStatement struct {
	projection projection
	table      string
	filter     *filter
}

// ParseSelect parses the supported SELECT subset:
//
//	select_stmt := "SELECT" select_clause "FROM" ident [where_clause]
//	select_clause := function_call | column_list
//	function_call := ident "(*)"
//	column_list := ident ("," ident)*
//	where_clause := "WHERE" ident "=" "'" raw_text "'"
//
// It leans on xwb1989/sqlparser for tokenizing and structurally parsing
// the statement (its MySQL grammar is a strict superset of this one) and
// then explicitly rejects every construct outside the grammar above —
// joins, ORDER BY, GROUP BY, LIMIT, operators other than `=`, compound
// WHERE clauses, double-quoted string literals — rather than silently
// accepting and misinterpreting them.
func ParseSelect(text string) (*selectStatement, error) {
	stmt, err := sqlparser.Parse(text)
	if err != nil {
		return nil, NewDatabaseError("parse_select", ErrParse, map[string]interface{}{"err": err.Error(), "sql": text})
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "not a SELECT statement"})
	}

	if len(sel.From) != 1 {
		return nil, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "exactly one table is supported (no joins)"})
	}
	aliased, ok := sel.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "unsupported FROM expression"})
	}
	tableName, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return nil, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "unsupported table reference"})
	}

	if sel.GroupBy != nil || len(sel.OrderBy) != 0 || sel.Limit != nil || sel.Having != nil {
		return nil, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "GROUP BY/ORDER BY/LIMIT/HAVING are not supported"})
	}

	proj, err := parseProjection(sel.SelectExprs)
	if err != nil {
		return nil, err
	}

	var f *filter
	if sel.Where != nil {
		// sqlparser's MySQL tokenizer reads "..." as a string literal just
		// like '...', so a double quote outside a single-quoted literal is
		// rejected here before the predicate is inspected.
		inSingle := false
		for i := 0; i < len(text); i++ {
			switch {
			case text[i] == '\'':
				inSingle = !inSingle
			case text[i] == '"' && !inSingle:
				return nil, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "double-quoted string literals are not supported"})
			}
		}
		f, err = parseFilter(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	return &selectStatement{
		projection: proj,
		table:      tableName.Name.String(),
		filter:     f,
	}, nil
}

func parseProjection(exprs sqlparser.SelectExprs) (projection, error) {
	if len(exprs) == 1 {
		if aliased, ok := exprs[0].(*sqlparser.AliasedExpr); ok {
			if fn, ok := aliased.Expr.(*sqlparser.FuncExpr); ok {
				if isStarCount(fn) {
					return projection{kind: projectionAggregate, aggFunc: fn.Name.String()}, nil
				}
			}
		}
	}

	cols := make([]string, 0, len(exprs))
	for _, e := range exprs {
		aliased, ok := e.(*sqlparser.AliasedExpr)
		if !ok {
			return projection{}, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "unsupported select expression"})
		}
		col, ok := aliased.Expr.(*sqlparser.ColName)
		if !ok {
			return projection{}, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "projection must be a bare column or a COUNT(*) call"})
		}
		cols = append(cols, col.Name.String())
	}
	return projection{kind: projectionColumns, columns: cols}, nil
}

// isStarCount reports whether fn is the `ident(*)` shape
// (function_call := ident "(*)"). sqlparser parses COUNT(*) as a FuncExpr
// whose single argument is a StarExpr.
func isStarCount(fn *sqlparser.FuncExpr) bool {
	if len(fn.Exprs) != 1 {
		return false
	}
	_, ok := fn.Exprs[0].(*sqlparser.StarExpr)
	return ok
}

func parseFilter(expr sqlparser.Expr) (*filter, error) {
	cmp, ok := expr.(*sqlparser.ComparisonExpr)
	if !ok || cmp.Operator != sqlparser.EqualStr {
		return nil, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "WHERE supports only a single column = 'literal' predicate"})
	}
	col, ok := cmp.Left.(*sqlparser.ColName)
	if !ok {
		return nil, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "WHERE left-hand side must be a column"})
	}
	val, ok := cmp.Right.(*sqlparser.SQLVal)
	if !ok || val.Type != sqlparser.StrVal {
		return nil, NewDatabaseError("parse_select", ErrUnsupportedQuery, map[string]interface{}{"reason": "WHERE right-hand side must be a single-quoted string literal"})
	}

	return &filter{column: col.Name.String(), literal: string(val.Val)}, nil
}

// isCountAggregate reports whether an aggregate's function name is
// case-insensitively COUNT.
func isCountAggregate(name string) bool {
	return strings.EqualFold(name, "COUNT")
}
