package main

import (
	"encoding/binary"
	"os"
)

// fileHeaderSize is the fixed 100-byte SQLite file header that precedes
// page 1's own B-tree header.
const fileHeaderSize = 100

// Database is an open, read-only handle on a SQLite file: its page reader
// and its schema catalog, loaded once at open time and reused by every
// query afterward.
type Database struct {
	reader   *fileReader
	catalog  *schemaCatalog
	pageSize uint32
	config   *DatabaseConfig
}

// OpenDatabase opens path, parses the 100-byte file header to recover the
// page size, and loads the schema catalog from page 1. The returned
// Database owns the underlying file handle; callers must call Close.
func OpenDatabase(path string, opts ...DatabaseOption) (*Database, error) {
	cfg := DefaultDatabaseConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, NewDatabaseError("open_database", err, map[string]interface{}{"path": path})
	}

	header := make([]byte, fileHeaderSize)
	if _, err := file.ReadAt(header, 0); err != nil {
		file.Close()
		return nil, NewDatabaseError("read_file_header", err, map[string]interface{}{"path": path})
	}

	pageSize := uint32(binary.BigEndian.Uint16(header[16:18]))
	// SQLite encodes a 65536-byte page size as 1, since it doesn't fit in
	// a 16-bit field.
	if pageSize == 1 {
		pageSize = 65536
	}
	if pageSize == 0 {
		file.Close()
		return nil, NewDatabaseError("read_file_header", ErrInvalidDatabase, map[string]interface{}{"path": path, "reason": "page size is zero"})
	}

	reader := newFileReader(file, pageSize)

	catalog, err := loadSchemaCatalog(reader)
	if err != nil {
		reader.close()
		return nil, err
	}

	return &Database{reader: reader, catalog: catalog, pageSize: pageSize, config: cfg}, nil
}

// Close releases the underlying file handle.
func (db *Database) Close() error {
	return db.reader.close()
}

// PageSize returns the database's fixed page size, in bytes.
func (db *Database) PageSize() uint32 {
	return db.pageSize
}

// CellCount returns page 1's raw cell count, the figure `.dbinfo` reports
// as "number of tables".
func (db *Database) CellCount() (uint16, error) {
	return pageHeaderCellCount(db.reader)
}

// TableNames returns every schema entry's name, in catalog order.
func (db *Database) TableNames() []string {
	return db.catalog.tableNames()
}
