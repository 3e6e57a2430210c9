package main

import "testing"

func TestDecodePageHeaderLeafTable(t *testing.T) {
	data := []byte{
		0x0d,       // page type: LeafTable
		0x00, 0x00, // first free block
		0x00, 0x02, // number of cells: 2
		0x0f, 0xf0, // start of content area
		0x00, // fragmented bytes
	}
	h, err := decodePageHeader(data)
	if err != nil {
		t.Fatalf("decodePageHeader() error = %v", err)
	}
	if h.isInterior() {
		t.Errorf("LeafTable header should not be interior")
	}
	if h.size() != 8 {
		t.Errorf("LeafTable header size = %d, want 8", h.size())
	}
	if h.numberOfCells != 2 {
		t.Errorf("numberOfCells = %d, want 2", h.numberOfCells)
	}
}

func TestDecodePageHeaderInteriorTable(t *testing.T) {
	data := []byte{
		0x05,       // page type: InteriorTable
		0x00, 0x00,
		0x00, 0x01,
		0x10, 0x00,
		0x00,
		0x00, 0x00, 0x00, 0x03, // right-most pointer: page 3
	}
	h, err := decodePageHeader(data)
	if err != nil {
		t.Fatalf("decodePageHeader() error = %v", err)
	}
	if !h.isInterior() || h.size() != 12 {
		t.Errorf("InteriorTable header should be interior with size 12")
	}
	if h.rightMostPointer != 3 {
		t.Errorf("rightMostPointer = %d, want 3", h.rightMostPointer)
	}
}

func TestDecodePageHeaderUnknownType(t *testing.T) {
	data := []byte{0x07, 0, 0, 0, 0, 0, 0, 0}
	if _, err := decodePageHeader(data); err == nil {
		t.Errorf("decodePageHeader() with unknown page type should return an error")
	}
}

func TestDecodePageCellPointerBounds(t *testing.T) {
	// A LeafTable page whose single cell pointer claims to point past the
	// end of the page buffer.
	data := make([]byte, 32)
	data[0] = 0x0d
	data[3] = 0x00
	data[4] = 0x01 // numberOfCells = 1
	// cell pointer array starts at offset 8 (leaf header size)
	data[8] = 0xff
	data[9] = 0xff // pointer value 65535, far beyond len(data)

	if _, err := decodePage(data, 2); err == nil {
		t.Errorf("decodePage() with out-of-bounds cell pointer should return an error")
	}
}

func TestDecodePageFirstPageOffsetsPastFileHeader(t *testing.T) {
	data := make([]byte, fileHeaderSize+16)
	data[fileHeaderSize+0] = 0x0d // page type at offset 100
	data[fileHeaderSize+4] = 0x00
	// numberOfCells = 0, so there are no cell pointers to validate
	pg, err := decodePage(data, 1)
	if err != nil {
		t.Fatalf("decodePage() error = %v", err)
	}
	if pg.contentOffset != fileHeaderSize {
		t.Errorf("page 1 contentOffset = %d, want %d", pg.contentOffset, fileHeaderSize)
	}
}
