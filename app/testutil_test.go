package main

import (
	"os"
	"testing"
)

// encodeVarint is the inverse of readVarint, supporting the 1-byte through
// 8-byte forms (the fixtures in this package never need the 9-byte form).
func encodeVarint(v uint64) []byte {
	if v < 0x80 {
		return []byte{byte(v)}
	}
	var out []byte
	for v > 0 {
		out = append([]byte{byte(v & 0x7f)}, out...)
		v >>= 7
	}
	for i := 0; i < len(out)-1; i++ {
		out[i] |= 0x80
	}
	return out
}

// fieldValue is one column of a hand-built record: its serial type and,
// for non-NULL/non-literal types, its raw bytes.
type fieldValue struct {
	serialType uint64
	raw        []byte
}

func textField(s string) fieldValue {
	return fieldValue{serialType: uint64(13 + 2*len(s)), raw: []byte(s)}
}

func nullField() fieldValue {
	return fieldValue{serialType: serialTypeNull}
}

// int8Field builds a single-byte INTEGER column (serial type 1).
func int8Field(v int8) fieldValue {
	return fieldValue{serialType: serialTypeInt8, raw: []byte{byte(v)}}
}

// buildRecordBytes lays out a record: header-length varint, serial-type
// varints, then concatenated values, exactly as decodeRecord expects.
// Fixtures built with this helper stay well under 128 bytes of header, so
// the header-length varint is always exactly one byte.
func buildRecordBytes(fields ...fieldValue) []byte {
	var serialTypes []byte
	var values []byte
	for _, f := range fields {
		serialTypes = append(serialTypes, encodeVarint(f.serialType)...)
		values = append(values, f.raw...)
	}
	headerLen := byte(1 + len(serialTypes))
	out := append([]byte{headerLen}, serialTypes...)
	out = append(out, values...)
	return out
}

// buildTableCell builds a LeafTable cell: payload_size varint, rowid
// varint, then the record payload.
func buildTableCell(rowid int64, record []byte) []byte {
	cell := encodeVarint(uint64(len(record)))
	cell = append(cell, encodeVarint(uint64(rowid))...)
	cell = append(cell, record...)
	return cell
}

// buildIndexCell builds a leaf-index cell: a payload_size varint followed
// directly by a (key, rowid) record — no separate rowid field, unlike a
// table cell.
func buildIndexCell(key string, rowid int64) []byte {
	record := buildRecordBytes(textField(key), int8Field(int8(rowid)))
	cell := encodeVarint(uint64(len(record)))
	cell = append(cell, record...)
	return cell
}

// buildLeafPage lays out a LeafTable or LeafIndex page: header, cell
// pointer array, and cells packed from the end of the page backward.
// headerOffset is 0 for ordinary pages, fileHeaderSize for page 1.
func buildLeafPage(pageType byte, pageSize int, headerOffset int, cells [][]byte) []byte {
	data := make([]byte, pageSize)
	data[headerOffset] = pageType

	contentEnd := pageSize
	offsets := make([]int, len(cells))
	for i, cell := range cells {
		contentEnd -= len(cell)
		copy(data[contentEnd:], cell)
		offsets[i] = contentEnd
	}

	numCells := len(cells)
	data[headerOffset+3] = byte(numCells >> 8)
	data[headerOffset+4] = byte(numCells)
	data[headerOffset+5] = byte(contentEnd >> 8)
	data[headerOffset+6] = byte(contentEnd)

	ptrStart := headerOffset + 8
	for i, off := range offsets {
		data[ptrStart+i*2] = byte(off >> 8)
		data[ptrStart+i*2+1] = byte(off)
	}

	return data
}

// writeDBFile concatenates pages (each exactly pageSize bytes) into a
// temp file and returns an opened fileReader over it.
func writeDBFile(t *testing.T, pageSize int, pages ...[]byte) *fileReader {
	t.Helper()

	var file []byte
	for _, p := range pages {
		if len(p) != pageSize {
			t.Fatalf("page is %d bytes, want exactly %d", len(p), pageSize)
		}
		file = append(file, p...)
	}

	dir := t.TempDir()
	path := dir + "/fixture.db"
	if err := os.WriteFile(path, file, 0o600); err != nil {
		t.Fatalf("failed to write fixture file: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open fixture file: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	return newFileReader(f, uint32(pageSize))
}

// setFileHeaderPageSize stamps the page-size field of a page-1 buffer's
// leading 100-byte file header (the rest is left zero, since this engine
// never reads the rest of it).
func setFileHeaderPageSize(page []byte, pageSize uint16) {
	page[16] = byte(pageSize >> 8)
	page[17] = byte(pageSize)
}
