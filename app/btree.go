package main

import "encoding/binary"

// tableRow is one decoded leaf-table cell: its rowid (the table B-tree
// key) and its parsed record. A table's INTEGER PRIMARY KEY column is
// stored as NULL in the record itself; its value lives here.
type tableRow struct {
	rowid  int64
	record *record
}

// decodeLeafTableCell parses a LeafTable cell: payload_size (varint,
// unused beyond bounds-checking), rowid (varint), then a record payload.
func decodeLeafTableCell(cell []byte) (*tableRow, error) {
	payloadSize, n := readVarint(cell)
	if n == 0 {
		return nil, NewDatabaseError("decode_leaf_table_cell", ErrInvalidVarint, map[string]interface{}{"field": "payload_size"})
	}
	rowid, m := readVarintAt(cell, n)
	if m == 0 {
		return nil, NewDatabaseError("decode_leaf_table_cell", ErrInvalidVarint, map[string]interface{}{"field": "rowid"})
	}

	start := n + m
	end := start + int(payloadSize)
	if end > len(cell) {
		return nil, NewDatabaseError("decode_leaf_table_cell", ErrInsufficientData, map[string]interface{}{
			"needed_bytes": end,
			"have_bytes":   len(cell),
		})
	}

	rec, err := decodeRecord(cell[start:end])
	if err != nil {
		return nil, err
	}

	return &tableRow{rowid: int64(rowid), record: rec}, nil
}

// decodeInteriorTableCell parses an InteriorTable cell: a 4-byte
// left-child page number followed by a rowid_key varint. No payload.
func decodeInteriorTableCell(cell []byte) (childPage int, rowidKey int64, err error) {
	if len(cell) < 4 {
		return 0, 0, NewDatabaseError("decode_interior_table_cell", ErrInsufficientData, nil)
	}
	child := binary.BigEndian.Uint32(cell[0:4])
	key, n := readVarintAt(cell, 4)
	if n == 0 {
		return 0, 0, NewDatabaseError("decode_interior_table_cell", ErrInvalidVarint, nil)
	}
	return int(child), int64(key), nil
}

// decodeIndexPayload decodes the record embedded in an index cell (leaf
// or interior): columns are (indexed_key, rowid_bytes). rowid_bytes is
// returned raw; callers sign-extend it themselves (widths 1-3 typically).
func decodeIndexPayload(payload []byte) (key []byte, rowidBytes []byte, err error) {
	rec, err := decodeRecord(payload)
	if err != nil {
		return nil, nil, err
	}
	if len(rec.columns) < 2 {
		return nil, nil, NewDatabaseError("decode_index_payload", ErrInvalidDatabase, map[string]interface{}{
			"column_count": len(rec.columns),
		})
	}
	return rec.at(0).text(), rec.at(1).raw, nil
}

// collectAllTableRows performs a full table scan: left-to-right depth-first over an InteriorTable's
// cells then its right-most pointer, yielding every row of a LeafTable in
// ascending rowid order. Non-table page types yield nothing.
func collectAllTableRows(reader *fileReader, pageNum int) ([]tableRow, error) {
	raw, err := reader.readPage(pageNum)
	if err != nil {
		return nil, err
	}
	pg, err := decodePage(raw, pageNum)
	if err != nil {
		return nil, err
	}

	switch pg.header.pageType {
	case pageTypeLeafTable:
		rows := make([]tableRow, 0, len(pg.cellPointers))
		for i := range pg.cellPointers {
			row, err := decodeLeafTableCell(pg.cell(i))
			if err != nil {
				return nil, err
			}
			rows = append(rows, *row)
		}
		return rows, nil

	case pageTypeInteriorTable:
		var rows []tableRow
		for i := range pg.cellPointers {
			child, _, err := decodeInteriorTableCell(pg.cell(i))
			if err != nil {
				return nil, err
			}
			childRows, err := collectAllTableRows(reader, child)
			if err != nil {
				return nil, err
			}
			rows = append(rows, childRows...)
		}
		if pg.header.rightMostPointer == 0 {
			return nil, NewDatabaseError("collect_all_table_rows", ErrInvalidDatabase, map[string]interface{}{
				"reason": "interior table page missing right-most pointer",
			})
		}
		rightRows, err := collectAllTableRows(reader, int(pg.header.rightMostPointer))
		if err != nil {
			return nil, err
		}
		return append(rows, rightRows...), nil

	default:
		return nil, nil
	}
}

// fetchByRowid descends a table B-tree to the single row with rowid ==
// target. Interior cells carry non-decreasing
// keys; the descent follows the first cell whose key is >= target,
// falling through to the right-most pointer if none matches. The caller
// must guarantee target exists; if the leaf scan doesn't find it, that is
// the documented internal-invariant violation and panics.
func fetchByRowid(reader *fileReader, pageNum int, target int64) (*tableRow, error) {
	raw, err := reader.readPage(pageNum)
	if err != nil {
		return nil, err
	}
	pg, err := decodePage(raw, pageNum)
	if err != nil {
		return nil, err
	}

	switch pg.header.pageType {
	case pageTypeLeafTable:
		for i := range pg.cellPointers {
			row, err := decodeLeafTableCell(pg.cell(i))
			if err != nil {
				return nil, err
			}
			if row.rowid == target {
				return row, nil
			}
		}
		panic("fetchByRowid: rowid not found on leaf page after a descent that claimed it existed")

	case pageTypeInteriorTable:
		for i := range pg.cellPointers {
			child, key, err := decodeInteriorTableCell(pg.cell(i))
			if err != nil {
				return nil, err
			}
			if key >= target {
				return fetchByRowid(reader, child, target)
			}
		}
		if pg.header.rightMostPointer == 0 {
			return nil, NewDatabaseError("fetch_by_rowid", ErrInvalidDatabase, map[string]interface{}{
				"reason": "interior table page missing right-most pointer",
			})
		}
		return fetchByRowid(reader, int(pg.header.rightMostPointer), target)

	default:
		return nil, NewDatabaseError("fetch_by_rowid", ErrInvalidPageType, map[string]interface{}{
			"page_num": pageNum,
		})
	}
}

// collectRowids performs the index equality search: returns every rowid whose indexed key byte-equals
// value. Interior index cells partition the key space so that a cell's
// left subtree holds keys <= the cell's own key; the loop skips cells
// whose key is provably too small (value > key), records + descends on
// an exact match (duplicates may continue in the same left subtree), and
// stops scanning sibling cells the instant it descends past value (value
// < key) since no later cell's subtree can hold it — then always visits
// the right-most pointer once the loop is done.
func collectRowids(reader *fileReader, pageNum int, value []byte) ([]int64, error) {
	raw, err := reader.readPage(pageNum)
	if err != nil {
		return nil, err
	}
	pg, err := decodePage(raw, pageNum)
	if err != nil {
		return nil, err
	}

	switch pg.header.pageType {
	case pageTypeLeafIndex:
		var rowids []int64
		for i := range pg.cellPointers {
			cell := pg.cell(i)
			_, n := readVarint(cell)
			key, rowidBytes, err := decodeIndexPayload(cell[n:])
			if err != nil {
				return nil, err
			}
			if bytesEqual(key, value) {
				rowids = append(rowids, signExtend(rowidBytes))
			}
		}
		return rowids, nil

	case pageTypeInteriorIndex:
		var rowids []int64
		for i := range pg.cellPointers {
			cell := pg.cell(i)
			if len(cell) < 4 {
				return nil, NewDatabaseError("collect_rowids", ErrInsufficientData, nil)
			}
			child := int(binary.BigEndian.Uint32(cell[0:4]))
			_, n := readVarintAt(cell, 4)
			key, rowidBytes, err := decodeIndexPayload(cell[4+n:])
			if err != nil {
				return nil, err
			}

			cmp := bytesCompare(value, key)
			if cmp > 0 {
				continue // value > key: target is to the right, skip this subtree entirely
			}
			if cmp == 0 {
				rowids = append(rowids, signExtend(rowidBytes))
			}

			childRowids, err := collectRowids(reader, child, value)
			if err != nil {
				return nil, err
			}
			rowids = append(rowids, childRowids...)

			if cmp < 0 {
				break // value < key: no later cell's subtree can contain value
			}
		}

		if pg.header.rightMostPointer == 0 {
			return nil, NewDatabaseError("collect_rowids", ErrInvalidDatabase, map[string]interface{}{
				"reason": "interior index page missing right-most pointer",
			})
		}
		rightRowids, err := collectRowids(reader, int(pg.header.rightMostPointer), value)
		if err != nil {
			return nil, err
		}
		return append(rowids, rightRowids...), nil

	default:
		return nil, nil
	}
}

func bytesEqual(a, b []byte) bool {
	return bytesCompare(a, b) == 0
}

// bytesCompare is a byte-wise lexicographic comparator: the only
// collation this engine implements.
func bytesCompare(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
