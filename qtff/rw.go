package qtff

import (
	"io"

	"github.com/frankplow/mutff-sub002/utils/bits/pio"
)

// The primitive readers consume exactly the width of their type from
// the stream. A clean end of stream surfaces as io.EOF, a short read
// as io.ErrUnexpectedEOF, and any other transport failure as the
// transport's own error.

func ReadU8(r io.Reader) (v uint8, err error) {
	var b [1]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	v = pio.U8(b[:])
	return
}

func ReadU16(r io.Reader) (v uint16, err error) {
	var b [2]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	v = pio.U16BE(b[:])
	return
}

func ReadI16(r io.Reader) (v int16, err error) {
	var b [2]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	v = pio.I16BE(b[:])
	return
}

func ReadU24(r io.Reader) (v uint32, err error) {
	var b [3]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	v = pio.U24BE(b[:])
	return
}

func ReadU32(r io.Reader) (v uint32, err error) {
	var b [4]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	v = pio.U32BE(b[:])
	return
}

func ReadI32(r io.Reader) (v int32, err error) {
	var b [4]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	v = pio.I32BE(b[:])
	return
}

func ReadU64(r io.Reader) (v uint64, err error) {
	var b [8]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	v = pio.U64BE(b[:])
	return
}

func ReadFourCC(r io.Reader) (v FourCC, err error) {
	_, err = io.ReadFull(r, v[:])
	return
}

func ReadFixed16(r io.Reader) (v Fixed16, err error) {
	var b [2]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	v.Integral = int8(b[0])
	v.Fractional = b[1]
	return
}

func ReadFixed32(r io.Reader) (v Fixed32, err error) {
	var b [4]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	v.Integral = pio.I16BE(b[0:2])
	v.Fractional = pio.U16BE(b[2:4])
	return
}

func WriteU8(w io.Writer, v uint8) (err error) {
	var b [1]byte
	pio.PutU8(b[:], v)
	_, err = w.Write(b[:])
	return
}

func WriteU16(w io.Writer, v uint16) (err error) {
	var b [2]byte
	pio.PutU16BE(b[:], v)
	_, err = w.Write(b[:])
	return
}

func WriteI16(w io.Writer, v int16) (err error) {
	var b [2]byte
	pio.PutI16BE(b[:], v)
	_, err = w.Write(b[:])
	return
}

func WriteU24(w io.Writer, v uint32) (err error) {
	var b [3]byte
	pio.PutU24BE(b[:], v)
	_, err = w.Write(b[:])
	return
}

func WriteU32(w io.Writer, v uint32) (err error) {
	var b [4]byte
	pio.PutU32BE(b[:], v)
	_, err = w.Write(b[:])
	return
}

func WriteI32(w io.Writer, v int32) (err error) {
	var b [4]byte
	pio.PutI32BE(b[:], v)
	_, err = w.Write(b[:])
	return
}

func WriteU64(w io.Writer, v uint64) (err error) {
	var b [8]byte
	pio.PutU64BE(b[:], v)
	_, err = w.Write(b[:])
	return
}

func WriteFourCC(w io.Writer, v FourCC) (err error) {
	_, err = w.Write(v[:])
	return
}

func WriteFixed16(w io.Writer, v Fixed16) (err error) {
	var b [2]byte
	b[0] = uint8(v.Integral)
	b[1] = v.Fractional
	_, err = w.Write(b[:])
	return
}

func WriteFixed32(w io.Writer, v Fixed32) (err error) {
	var b [4]byte
	pio.PutI16BE(b[0:2], v.Integral)
	pio.PutU16BE(b[2:4], v.Fractional)
	_, err = w.Write(b[:])
	return
}

// ReadHeader consumes the 8 byte atom header at the current position.
// The size includes the header itself.
func ReadHeader(r io.Reader) (size uint32, tag Tag, err error) {
	var b [8]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	size = pio.U32BE(b[0:4])
	tag = Tag(pio.U32BE(b[4:8]))
	return
}

// PeekHeader reads the atom header at the current position and seeks
// back so the stream position is unchanged.
func PeekHeader(r io.ReadSeeker) (size uint32, tag Tag, err error) {
	if size, tag, err = ReadHeader(r); err != nil {
		return
	}
	_, err = r.Seek(-8, io.SeekCurrent)
	return
}

func WriteHeader(w io.Writer, size uint32, tag Tag) (err error) {
	var b [8]byte
	pio.PutU32BE(b[0:4], size)
	pio.PutU32BE(b[4:8], uint32(tag))
	_, err = w.Write(b[:])
	return
}

func tell(r io.Seeker) (int64, error) {
	return r.Seek(0, io.SeekCurrent)
}

func discard(r io.ReadSeeker, n int) (err error) {
	_, err = r.Seek(int64(n), io.SeekCurrent)
	return
}

var zeros [4096]byte

func writeZeros(w io.Writer, n int) (err error) {
	for n > 0 {
		chunk := n
		if chunk > len(zeros) {
			chunk = len(zeros)
		}
		if _, err = w.Write(zeros[:chunk]); err != nil {
			return
		}
		n -= chunk
	}
	return
}

// readAtomStart consumes the header of the atom at the current
// position, checking that it carries the wanted tag and a size large
// enough to cover the header.
func readAtomStart(r io.ReadSeeker, want Tag) (offset int64, size uint32, err error) {
	if offset, err = tell(r); err != nil {
		return
	}
	var tag Tag
	if size, tag, err = ReadHeader(r); err != nil {
		err = parseErr(want.String(), offset, err)
		return
	}
	if tag != want || size < 8 {
		err = parseErr(want.String(), offset, ErrBadFormat)
		return
	}
	return
}
