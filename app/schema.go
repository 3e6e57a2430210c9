package main

import "strings"

// schemaEntry is one row of the special root table on page 1: columns (kind, name, table_name, root_page, sql).
type schemaEntry struct {
	Kind      string // "table", "index", "view", "trigger"
	Name      string
	TableName string
	RootPage  int64
	SQL       string
}

// schemaCatalog is the decoded contents of page 1's root B-tree, built
// once when a Database is opened and consulted by every query afterward.
type schemaCatalog struct {
	entries []schemaEntry
}

// loadSchemaCatalog reads page 1, skips the 100-byte file header, parses
// the B-tree header, and decodes each leaf-table cell's 5-column record
// into a schemaEntry. Page 1 is always a LeafTable in practice for any
// database small enough that its schema fits on one page; an interior
// root page is walked the same way collectAllTableRows walks any other
// table B-tree.
func loadSchemaCatalog(reader *fileReader) (*schemaCatalog, error) {
	raw, err := reader.readPage(1)
	if err != nil {
		return nil, err
	}

	pg, err := decodePage(raw, 1)
	if err != nil {
		return nil, err
	}

	rows, err := collectAllTableRows(reader, 1)
	if err != nil {
		return nil, err
	}
	_ = pg // header already validated by collectAllTableRows's own decode

	entries := make([]schemaEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := decodeSchemaEntry(row.record)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return &schemaCatalog{entries: entries}, nil
}

// decodeSchemaEntry interprets a table-row record as the 5-column schema
// shape. root_page is a small signed integer stored at whatever width (1,
// 2, or 3 bytes) it fits; it is sign-extended to its true value rather
// than truncated to its first byte.
func decodeSchemaEntry(r *record) (*schemaEntry, error) {
	if len(r.columns) < 5 {
		return nil, NewDatabaseError("decode_schema_entry", ErrInvalidDatabase, map[string]interface{}{
			"column_count": len(r.columns),
		})
	}

	return &schemaEntry{
		Kind:      string(r.at(0).text()),
		Name:      string(r.at(1).text()),
		TableName: string(r.at(2).text()),
		RootPage:  r.at(3).int64Value(),
		SQL:       string(r.at(4).text()),
	}, nil
}

// pageHeaderCellCount re-reads page 1's own B-tree header to report the
// raw cell count used by `.dbinfo`.
func pageHeaderCellCount(reader *fileReader) (uint16, error) {
	raw, err := reader.readPage(1)
	if err != nil {
		return 0, err
	}
	pg, err := decodePage(raw, 1)
	if err != nil {
		return 0, err
	}
	return pg.header.numberOfCells, nil
}

// findTable looks up a user table by name (kind=='table').
func (c *schemaCatalog) findTable(name string) (*schemaEntry, bool) {
	for i := range c.entries {
		e := &c.entries[i]
		if e.Kind == "table" && e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// findIndexOnColumn finds an index over the given table whose indexed
// column equals column (case-insensitive, matching SQL identifier rules),
// used by the query executor to decide between the index and scan paths.
func (c *schemaCatalog) findIndexOnColumn(table, column string) (*schemaEntry, *ddlIndex, bool) {
	for i := range c.entries {
		e := &c.entries[i]
		if e.Kind != "index" || !strings.EqualFold(e.TableName, table) {
			continue
		}
		idx, err := parseCreateIndex(e.SQL)
		if err != nil {
			continue
		}
		if strings.EqualFold(idx.Column, column) {
			return e, idx, true
		}
	}
	return nil, nil, false
}

// tableNames returns every schema entry's Name in catalog order, the
// behavior `.tables` relies on.
func (c *schemaCatalog) tableNames() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}
