package main

// Serial type codes from the SQLite record format.
const (
	serialTypeNull  = 0
	serialTypeInt8  = 1
	serialTypeInt16 = 2
	serialTypeInt24 = 3
	serialTypeInt32 = 4
	serialTypeInt48 = 5
	serialTypeInt64 = 6
	serialTypeFloat = 7
	serialTypeZero  = 8
	serialTypeOne   = 9
)

// serialTypeSize returns the number of payload bytes a serial type code
// declares.
func serialTypeSize(serialType uint64) int {
	switch serialType {
	case serialTypeNull, serialTypeZero, serialTypeOne:
		return 0
	case serialTypeInt8:
		return 1
	case serialTypeInt16:
		return 2
	case serialTypeInt24:
		return 3
	case serialTypeInt32:
		return 4
	case serialTypeInt48:
		return 6
	case serialTypeInt64, serialTypeFloat:
		return 8
	default:
		if serialType >= 12 && serialType%2 == 0 {
			return int((serialType - 12) / 2) // BLOB
		}
		if serialType >= 13 && serialType%2 == 1 {
			return int((serialType - 13) / 2) // TEXT
		}
		return 0
	}
}

// isTextSerialType reports whether a serial type code denotes TEXT.
func isTextSerialType(serialType uint64) bool {
	return serialType >= 13 && serialType%2 == 1
}

// column is one decoded record value: its serial type and the raw bytes
// from the page buffer. Callers that want to keep a column beyond the
// traversal that produced it must copy raw.
type column struct {
	serialType uint64
	raw        []byte // nil for NULL/zero/one types; length given by serialTypeSize
}

// isNull reports whether this column is the NULL serial type (0). Note
// that serial types 8 and 9 ("literal 0"/"literal 1") are distinct from
// NULL and from each other; isNull deliberately only covers type 0.
func (c column) isNull() bool {
	return c.serialType == serialTypeNull
}

// text returns the raw bytes of a TEXT column unchanged; this engine does
// no collation or Unicode normalization.
func (c column) text() []byte {
	return c.raw
}

// int64Value decodes an integer-typed column (serial types 1-6, 8, 9) as a
// sign-extended int64. Types 8/9 are the literal constants 0 and 1.
func (c column) int64Value() int64 {
	switch c.serialType {
	case serialTypeZero:
		return 0
	case serialTypeOne:
		return 1
	default:
		return signExtend(c.raw)
	}
}

// record is a decoded row or index payload: a self-describing sequence of
// columns in declaration order.
type record struct {
	columns []column
}

// decodeRecord parses a record beginning at payload[0]: a record-header-
// length varint, a run of serial-type-code varints consuming exactly that
// many bytes (including the length varint itself), then the concatenated
// column values.
func decodeRecord(payload []byte) (*record, error) {
	headerSize, n := readVarint(payload)
	if n == 0 {
		return nil, NewDatabaseError("decode_record_header_length", ErrInvalidVarint, nil)
	}

	var serialTypes []uint64
	offset := n
	for offset < int(headerSize) {
		st, m := readVarintAt(payload, offset)
		if m == 0 {
			return nil, NewDatabaseError("decode_record_serial_type", ErrInvalidVarint, map[string]interface{}{
				"offset": offset,
			})
		}
		serialTypes = append(serialTypes, st)
		offset += m
	}

	cols := make([]column, len(serialTypes))
	for i, st := range serialTypes {
		size := serialTypeSize(st)
		if size == 0 {
			cols[i] = column{serialType: st}
			continue
		}
		if offset+size > len(payload) {
			return nil, NewDatabaseError("decode_record_value", ErrInsufficientData, map[string]interface{}{
				"column_index": i,
				"needed_bytes": offset + size,
				"have_bytes":   len(payload),
			})
		}
		cols[i] = column{serialType: st, raw: payload[offset : offset+size]}
		offset += size
	}

	return &record{columns: cols}, nil
}

// at returns the i-th column, or a NULL column if the record is shorter
// than expected (a schema can describe more columns than a given row's
// record stores, e.g. after an ALTER TABLE ADD COLUMN on real SQLite
// files — this engine tolerates that the way NULL-default columns would
// read).
func (r *record) at(i int) column {
	if i < 0 || i >= len(r.columns) {
		return column{serialType: serialTypeNull}
	}
	return r.columns[i]
}
