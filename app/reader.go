package main

import "os"

// fileReader provides page-sized random access over a database file. All
// reads are positional (io.ReaderAt) rather than Seek+Read, so concurrent
// callers never race over a shared file offset.
type fileReader struct {
	file     *os.File
	pageSize uint32
}

func newFileReader(file *os.File, pageSize uint32) *fileReader {
	return &fileReader{file: file, pageSize: pageSize}
}

// readPage returns the n-th page (1-based) as exactly pageSize bytes.
func (r *fileReader) readPage(n int) ([]byte, error) {
	if n < 1 {
		return nil, NewDatabaseError("read_page", ErrInvalidDatabase, map[string]interface{}{
			"page_num": n,
		})
	}

	buf := make([]byte, r.pageSize)
	offset := int64(n-1) * int64(r.pageSize)
	if _, err := r.file.ReadAt(buf, offset); err != nil {
		return nil, NewDatabaseError("read_page", err, map[string]interface{}{
			"page_num": n,
			"offset":   offset,
		})
	}
	return buf, nil
}

func (r *fileReader) close() error {
	return r.file.Close()
}
