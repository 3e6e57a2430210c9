package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// resultRow is one output row: either rendered column strings (for a
// column-list projection) or a single rendered count (for an aggregate
// projection).
type resultRow struct {
	values []string
}

// QueryResult is everything Execute needs to hand the formatter: the
// rendered rows, or a scalar count when the statement projected an
// aggregate.
type QueryResult struct {
	Rows     []resultRow
	IsCount  bool
	Count    int
	NoAggOut bool // unknown aggregate name: produce no output
}

// tableSchema is a CREATE TABLE's parsed field list together with the
// index of its INTEGER PRIMARY KEY column, if any.
type tableSchema struct {
	fields   []ddlField
	rowidCol int // index into fields, or -1
}

func buildTableSchema(entry *schemaEntry) (*tableSchema, error) {
	_, fields, err := parseCreateTable(entry.SQL)
	if err != nil {
		return nil, err
	}
	rowidCol := -1
	for i, f := range fields {
		if f.IsPrimaryKey {
			rowidCol = i
			break
		}
	}
	return &tableSchema{fields: fields, rowidCol: rowidCol}, nil
}

func (s *tableSchema) columnIndex(name string) (int, bool) {
	for i, f := range s.fields {
		if strings.EqualFold(f.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// Execute runs a parsed SELECT against db: it resolves
// the table, picks the index path or the full-scan path depending on
// whether an index covers the filter column, fetches the matching rows,
// and renders the requested projection.
func Execute(ctx context.Context, db *Database, stmt *selectStatement) (*QueryResult, error) {
	entry, ok := db.catalog.findTable(stmt.table)
	if !ok {
		return nil, NewDatabaseError("execute_select", ErrTableNotFound, map[string]interface{}{"table": stmt.table})
	}
	schema, err := buildTableSchema(entry)
	if err != nil {
		return nil, err
	}

	rows, err := fetchRows(ctx, db, entry, schema, stmt.filter)
	if err != nil {
		return nil, err
	}

	switch stmt.projection.kind {
	case projectionAggregate:
		if !isCountAggregate(stmt.projection.aggFunc) {
			return &QueryResult{NoAggOut: true}, nil
		}
		return &QueryResult{IsCount: true, Count: len(rows)}, nil

	default:
		out := make([]resultRow, 0, len(rows))
		for _, row := range rows {
			values := make([]string, len(stmt.projection.columns))
			for i, col := range stmt.projection.columns {
				idx, ok := schema.columnIndex(col)
				if !ok {
					return nil, NewDatabaseError("execute_select", ErrColumnNotFound, map[string]interface{}{"column": col, "table": stmt.table})
				}
				values[i] = renderColumn(schema, idx, row)
			}
			out = append(out, resultRow{values: values})
		}
		return &QueryResult{Rows: out}, nil
	}
}

// fetchRows resolves the set of matching rows for stmt.filter, choosing
// between the index-accelerated path and a full table scan.
func fetchRows(ctx context.Context, db *Database, entry *schemaEntry, schema *tableSchema, f *filter) ([]tableRow, error) {
	if f == nil {
		return collectAllTableRows(db.reader, int(entry.RootPage))
	}

	if idxEntry, idx, ok := db.catalog.findIndexOnColumn(entry.Name, f.column); ok {
		return fetchViaIndex(ctx, db, idxEntry, idx, f.literal)
	}

	rows, err := collectAllTableRows(db.reader, int(entry.RootPage))
	if err != nil {
		return nil, err
	}
	colIdx, ok := schema.columnIndex(f.column)
	if !ok {
		return nil, NewDatabaseError("fetch_rows", ErrColumnNotFound, map[string]interface{}{"column": f.column})
	}

	matches := rows[:0]
	for _, row := range rows {
		if rowMatchesFilter(schema, colIdx, row, f.literal) {
			matches = append(matches, row)
		}
	}
	return matches, nil
}

// rowMatchesFilter compares a row's value at colIdx to literal using
// byte-wise comparison, rendering the INTEGER PRIMARY KEY column from the
// row's own rowid the same way projection does.
func rowMatchesFilter(schema *tableSchema, colIdx int, row tableRow, literal string) bool {
	if colIdx == schema.rowidCol {
		return strconv.FormatInt(row.rowid, 10) == literal
	}
	col := row.record.at(colIdx)
	if !isTextSerialType(col.serialType) {
		return false
	}
	return bytesEqual(col.raw, []byte(literal))
}

// fetchViaIndex finds every rowid whose indexed column byte-equals
// literal, then fetches the corresponding rows from the table B-tree in
// parallel, bounded by db.config.MaxConcurrency and db.config.ReadTimeout.
func fetchViaIndex(ctx context.Context, db *Database, idxEntry *schemaEntry, idx *ddlIndex, literal string) ([]tableRow, error) {
	rowids, err := collectRowids(db.reader, int(idxEntry.RootPage), []byte(literal))
	if err != nil {
		return nil, err
	}
	if len(rowids) == 0 {
		return nil, nil
	}

	tableEntry, ok := db.catalog.findTable(idx.Table)
	if !ok {
		return nil, NewDatabaseError("fetch_via_index", ErrTableNotFound, map[string]interface{}{"table": idx.Table})
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, db.config.ReadTimeout)
	defer cancel()

	maxWorkers := db.config.MaxConcurrency
	if maxWorkers > len(rowids) {
		maxWorkers = len(rowids)
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	type work struct {
		index int
		rowid int64
	}
	type result struct {
		index int
		row   tableRow
		err   error
	}

	workChan := make(chan work, len(rowids))
	resultChan := make(chan result, len(rowids))

	for i, rowid := range rowids {
		workChan <- work{index: i, rowid: rowid}
	}
	close(workChan)

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workChan {
				select {
				case <-timeoutCtx.Done():
					resultChan <- result{index: item.index, err: timeoutCtx.Err()}
					continue
				default:
				}
				row, err := fetchByRowid(db.reader, int(tableEntry.RootPage), item.rowid)
				if err != nil {
					resultChan <- result{index: item.index, err: err}
					continue
				}
				resultChan <- result{index: item.index, row: *row}
			}
		}()
	}
	wg.Wait()
	close(resultChan)

	rows := make([]tableRow, len(rowids))
	for res := range resultChan {
		if res.err != nil {
			return nil, NewDatabaseError("fetch_via_index", res.err, map[string]interface{}{"rowid_index": res.index})
		}
		rows[res.index] = res.row
	}
	return rows, nil
}

// renderColumn renders one output column exactly as SELECT output does:
// the INTEGER PRIMARY KEY column renders the cell's own
// rowid (its record slot stores NULL), everything else renders its
// decoded value.
func renderColumn(schema *tableSchema, idx int, row tableRow) string {
	if idx == schema.rowidCol {
		return strconv.FormatInt(row.rowid, 10)
	}
	return renderValue(row.record.at(idx))
}

// renderValue converts one decoded column to the text the CLI prints:
// NULL as empty, TEXT/BLOB as their raw bytes, integers as decimal, and
// floats via their IEEE-754 bit pattern.
func renderValue(c column) string {
	switch {
	case c.isNull():
		return ""
	case isTextSerialType(c.serialType):
		return string(c.raw)
	case c.serialType == serialTypeFloat:
		bits := binary.BigEndian.Uint64(c.raw)
		return strconv.FormatFloat(math.Float64frombits(bits), 'g', -1, 64)
	case c.serialType >= 12 && c.serialType%2 == 0:
		return string(c.raw) // BLOB, rendered lossily as text
	default:
		return fmt.Sprintf("%d", c.int64Value())
	}
}
