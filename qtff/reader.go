package qtff

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// File is a movie file held in memory, mmapped when the platform
// allows it.
type File struct {
	Data    []byte
	mmapped bool
}

// Open maps a movie file read-only. If mmap is unavailable, it falls
// back to ReadAt-based loading. The returned file must be closed to
// release any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 < 0 || size64 > int64(int(^uint(0)>>1)) {
		// cannot index this file safely as []byte on this architecture.
		return nil, fmt.Errorf("qtff: %s: file size %d out of range", path, size64)
	}
	size := int(size64)

	if size > 0 {
		data, err := unix.Mmap(
			int(f.Fd()),
			0,
			size,
			unix.PROT_READ,
			unix.MAP_SHARED,
		)
		if err == nil {
			return &File{Data: data, mmapped: true}, nil
		}
	}

	// Fallback path that does not require mmap support.
	data, err := readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return &File{Data: data}, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Reader returns a fresh seekable view over the file contents.
func (self *File) Reader() *bytes.Reader {
	return bytes.NewReader(self.Data)
}

func (self *File) Size() int64 {
	return int64(len(self.Data))
}

// Atoms decodes the top level of the file, keeping unknown atoms.
func (self *File) Atoms() ([]Atom, error) {
	return ReadFileAtoms(self.Reader())
}

// Movie decodes the file as a complete movie file.
func (self *File) Movie() (*MovieFile, error) {
	return ReadMovieFile(self.Reader())
}

// Close releases file resources and any mmap backing.
func (self *File) Close() error {
	if self == nil || self.Data == nil {
		return nil
	}
	var err error
	if self.mmapped {
		err = unix.Munmap(self.Data)
	}
	self.Data = nil
	self.mmapped = false
	return err
}
