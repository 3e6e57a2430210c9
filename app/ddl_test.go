package main

import "testing"

func TestParseCreateTableSimple(t *testing.T) {
	sql := `CREATE TABLE apples (id integer primary key, name text, color text)`
	name, fields, err := parseCreateTable(sql)
	if err != nil {
		t.Fatalf("parseCreateTable() error = %v", err)
	}
	if name != "apples" {
		t.Errorf("table name = %q, want %q", name, "apples")
	}
	if len(fields) != 3 {
		t.Fatalf("field count = %d, want 3", len(fields))
	}
	if fields[0].Name != "id" || !fields[0].IsPrimaryKey {
		t.Errorf("fields[0] = %+v, want id with IsPrimaryKey=true", fields[0])
	}
	if fields[1].Name != "name" || fields[1].IsPrimaryKey {
		t.Errorf("fields[1] = %+v, want name with IsPrimaryKey=false", fields[1])
	}
}

func TestParseCreateTableIfNotExists(t *testing.T) {
	sql := `CREATE TABLE IF NOT EXISTS oranges (id integer, weight text)`
	name, fields, err := parseCreateTable(sql)
	if err != nil {
		t.Fatalf("parseCreateTable() error = %v", err)
	}
	if name != "oranges" || len(fields) != 2 {
		t.Errorf("parseCreateTable() = (%q, %v), want (oranges, 2 fields)", name, fields)
	}
}

func TestParseCreateTableQuotedIdentifier(t *testing.T) {
	sql := `CREATE TABLE companies (id integer primary key, "size range" text)`
	_, fields, err := parseCreateTable(sql)
	if err != nil {
		t.Fatalf("parseCreateTable() error = %v", err)
	}
	if len(fields) != 2 || fields[1].Name != "size range" {
		t.Errorf("parseCreateTable() fields = %+v, want second field named %q", fields, "size range")
	}
}

func TestParseCreateTableAutoincrement(t *testing.T) {
	sql := `CREATE TABLE widgets (id integer primary key autoincrement, label text)`
	_, fields, err := parseCreateTable(sql)
	if err != nil {
		t.Fatalf("parseCreateTable() error = %v", err)
	}
	if !fields[0].IsPrimaryKey {
		t.Errorf("id field should be marked primary key when declared with AUTOINCREMENT")
	}
}

func TestParseCreateTableMissingKeyword(t *testing.T) {
	if _, _, err := parseCreateTable(`CREATE VIEW foo AS SELECT 1`); err == nil {
		t.Errorf("parseCreateTable() on a non-table statement should return an error")
	}
}

func TestParseCreateIndex(t *testing.T) {
	sql := `CREATE INDEX idx_companies_country ON companies (country)`
	idx, err := parseCreateIndex(sql)
	if err != nil {
		t.Fatalf("parseCreateIndex() error = %v", err)
	}
	if idx.Name != "idx_companies_country" || idx.Table != "companies" || idx.Column != "country" {
		t.Errorf("parseCreateIndex() = %+v, want {idx_companies_country companies country}", idx)
	}
}

func TestParseCreateIndexUnique(t *testing.T) {
	sql := `CREATE UNIQUE INDEX idx_apples_name ON apples (name)`
	idx, err := parseCreateIndex(sql)
	if err != nil {
		t.Fatalf("parseCreateIndex() error = %v", err)
	}
	if idx.Column != "name" {
		t.Errorf("idx.Column = %q, want %q", idx.Column, "name")
	}
}
