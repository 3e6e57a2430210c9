package main

import "encoding/binary"

// B-tree page types.
const (
	pageTypeInteriorIndex byte = 2
	pageTypeInteriorTable byte = 5
	pageTypeLeafIndex     byte = 10
	pageTypeLeafTable     byte = 13
)

// pageHeader is the 8 or 12 byte B-tree page header that starts every
// page (immediately after the 100-byte file header, on page 1).
type pageHeader struct {
	pageType           byte
	firstFreeBlock     uint16
	numberOfCells      uint16
	startOfContentArea uint16
	fragmentedBytes    uint8
	rightMostPointer   uint32 // only meaningful when isInterior()
}

func (h pageHeader) isInterior() bool {
	return h.pageType == pageTypeInteriorIndex || h.pageType == pageTypeInteriorTable
}

func (h pageHeader) isTable() bool {
	return h.pageType == pageTypeLeafTable || h.pageType == pageTypeInteriorTable
}

// size returns the header's byte length: 12 for interior pages (8 bytes of
// fixed fields plus the 4-byte right-most pointer), 8 for leaf pages.
func (h pageHeader) size() int {
	if h.isInterior() {
		return 12
	}
	return 8
}

// decodePageHeader reads a page header from data[0:]. Rejects any page
// type byte outside {2,5,10,13} as a format error.
func decodePageHeader(data []byte) (*pageHeader, error) {
	if len(data) < 8 {
		return nil, NewDatabaseError("decode_page_header", ErrInsufficientData, map[string]interface{}{
			"have_bytes": len(data),
		})
	}

	pt := data[0]
	switch pt {
	case pageTypeInteriorIndex, pageTypeInteriorTable, pageTypeLeafIndex, pageTypeLeafTable:
	default:
		return nil, NewDatabaseError("decode_page_header", ErrInvalidPageType, map[string]interface{}{
			"page_type_byte": pt,
		})
	}

	h := &pageHeader{
		pageType:           pt,
		firstFreeBlock:     binary.BigEndian.Uint16(data[1:3]),
		numberOfCells:      binary.BigEndian.Uint16(data[3:5]),
		startOfContentArea: binary.BigEndian.Uint16(data[5:7]),
		fragmentedBytes:    data[7],
	}

	if h.isInterior() {
		if len(data) < 12 {
			return nil, NewDatabaseError("decode_page_header", ErrInsufficientData, map[string]interface{}{
				"reason": "interior page missing right-most pointer",
			})
		}
		h.rightMostPointer = binary.BigEndian.Uint32(data[8:12])
	}

	return h, nil
}

// page is a fixed-size page buffer together with its decoded header and
// cell-pointer array. contentOffset is the byte offset, within data, at
// which the page's own content starts — 100 on page 1 (after the file
// header), 0 everywhere else.
type page struct {
	data          []byte
	header        *pageHeader
	cellPointers  []uint16
	contentOffset int
}

// decodePage parses a raw page buffer (as read by fileReader.readPage)
// into a page header plus cell-pointer array. pageNum is 1-based; page 1
// carries the 100-byte file header before its B-tree header.
func decodePage(data []byte, pageNum int) (*page, error) {
	contentOffset := 0
	if pageNum == 1 {
		contentOffset = fileHeaderSize
	}

	h, err := decodePageHeader(data[contentOffset:])
	if err != nil {
		return nil, err
	}

	ptrStart := contentOffset + h.size()
	ptrEnd := ptrStart + int(h.numberOfCells)*2
	if ptrEnd > len(data) {
		return nil, NewDatabaseError("decode_page_cell_pointers", ErrInsufficientData, map[string]interface{}{
			"page_num": pageNum,
		})
	}

	pointers := make([]uint16, h.numberOfCells)
	for i := range pointers {
		off := ptrStart + i*2
		ptr := binary.BigEndian.Uint16(data[off : off+2])
		if int(ptr) < contentOffset+h.size() || int(ptr) >= len(data) {
			return nil, NewDatabaseError("decode_page_cell_pointers", ErrInvalidCellPointer, map[string]interface{}{
				"page_num":      pageNum,
				"pointer_index": i,
				"pointer_value": ptr,
			})
		}
		pointers[i] = ptr
	}

	return &page{data: data, header: h, cellPointers: pointers, contentOffset: contentOffset}, nil
}

// cell returns the raw byte slice starting at the i-th cell pointer,
// running to the end of the page buffer (cells are variable length and
// self-describing; callers parse only as many bytes as they need).
func (p *page) cell(i int) []byte {
	return p.data[p.cellPointers[i]:]
}
