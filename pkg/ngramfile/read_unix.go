//go:build unix

package ngramfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// ReadFile loads and validates the document stored at path. The file is
// mapped read-only when possible; decoding copies everything it keeps, so the
// mapping is released before returning.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size <= 0 || size > int64(int(^uint(0)>>1)) {
		return Decode(f)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		// Some filesystems refuse mmap; read normally instead.
		return Decode(f)
	}
	defer func() { _ = unix.Munmap(data) }()
	return Unmarshal(data)
}
