package main

import "testing"

// buildSchemaPage1 builds a page-1 buffer whose schema catalog holds the
// given CREATE TABLE/CREATE INDEX rows.
func buildSchemaPage1(pageSize int, entries []schemaEntry) []byte {
	var cells [][]byte
	for i, e := range entries {
		record := buildRecordBytes(
			textField(e.Kind),
			textField(e.Name),
			textField(e.TableName),
			int8Field(int8(e.RootPage)),
			textField(e.SQL),
		)
		cells = append(cells, buildTableCell(int64(i+1), record))
	}
	page := buildLeafPage(pageTypeLeafTable, pageSize, fileHeaderSize, cells)
	setFileHeaderPageSize(page, uint16(pageSize))
	return page
}

func TestLoadSchemaCatalog(t *testing.T) {
	pageSize := 512
	entries := []schemaEntry{
		{Kind: "table", Name: "widgets", TableName: "widgets", RootPage: 2,
			SQL: "CREATE TABLE widgets (id integer primary key, label text)"},
		{Kind: "index", Name: "idx_widgets_label", TableName: "widgets", RootPage: 3,
			SQL: "CREATE INDEX idx_widgets_label ON widgets (label)"},
	}
	page1 := buildSchemaPage1(pageSize, entries)
	page2 := buildLeafPage(pageTypeLeafTable, pageSize, 0, nil)
	page3 := buildLeafPage(pageTypeLeafIndex, pageSize, 0, nil)

	reader := writeDBFile(t, pageSize, page1, page2, page3)

	catalog, err := loadSchemaCatalog(reader)
	if err != nil {
		t.Fatalf("loadSchemaCatalog() error = %v", err)
	}
	if len(catalog.entries) != 2 {
		t.Fatalf("catalog has %d entries, want 2", len(catalog.entries))
	}

	entry, ok := catalog.findTable("widgets")
	if !ok {
		t.Fatalf("findTable(widgets) not found")
	}
	if entry.RootPage != 2 {
		t.Errorf("widgets.RootPage = %d, want 2", entry.RootPage)
	}

	idxEntry, idx, ok := catalog.findIndexOnColumn("widgets", "label")
	if !ok {
		t.Fatalf("findIndexOnColumn(widgets, label) not found")
	}
	if idxEntry.RootPage != 3 || idx.Column != "label" {
		t.Errorf("findIndexOnColumn() = (%+v, %+v), want RootPage=3 Column=label", idxEntry, idx)
	}

	names := catalog.tableNames()
	if len(names) != 2 || names[0] != "widgets" || names[1] != "idx_widgets_label" {
		t.Errorf("tableNames() = %v, want [widgets idx_widgets_label]", names)
	}
}

func TestFindTableNotFound(t *testing.T) {
	c := &schemaCatalog{}
	if _, ok := c.findTable("missing"); ok {
		t.Errorf("findTable() on an empty catalog should report not found")
	}
}

func TestPageHeaderCellCount(t *testing.T) {
	pageSize := 512
	entries := []schemaEntry{
		{Kind: "table", Name: "a", TableName: "a", RootPage: 2, SQL: "CREATE TABLE a (id integer primary key)"},
		{Kind: "table", Name: "b", TableName: "b", RootPage: 3, SQL: "CREATE TABLE b (id integer primary key)"},
	}
	page1 := buildSchemaPage1(pageSize, entries)
	reader := writeDBFile(t, pageSize, page1)

	count, err := pageHeaderCellCount(reader)
	if err != nil {
		t.Fatalf("pageHeaderCellCount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("pageHeaderCellCount() = %d, want 2", count)
	}
}
