// Package qtff implements reading and writing of QuickTime movie files.
//
// A movie file is a tree of atoms. Every atom starts with an 8 byte
// header holding the atom size in bytes (header included) and a four
// character type tag, followed by either interpreted fields or child
// atoms. Decoding walks the tree over an io.ReadSeeker and produces
// plain value structs with fixed capacity, encoding walks the structs
// and writes the tree back out. All integers are big-endian.
package qtff

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/frankplow/mutff-sub002/utils/bits/pio"
)

var (
	// ErrBadFormat reports bytes that cannot be interpreted as the
	// atom structure they claim to be.
	ErrBadFormat = errors.New("qtff: bad format")

	// ErrTooManyAtoms reports input exceeding a fixed capacity, for
	// example more child atoms than a parent has slots for.
	ErrTooManyAtoms = errors.New("qtff: too many atoms")
)

type ParseError struct {
	Debug  string
	Offset int64
	prev   error
}

func (self *ParseError) Error() string {
	s := []string{}
	var p error = self
	for p != nil {
		pe, ok := p.(*ParseError)
		if !ok {
			s = append(s, p.Error())
			break
		}
		s = append(s, fmt.Sprintf("%s:%d", pe.Debug, pe.Offset))
		p = pe.prev
	}
	return "qtff: parse error: " + strings.Join(s, ",")
}

func (self *ParseError) Unwrap() error {
	return self.prev
}

func parseErr(debug string, offset int64, prev error) error {
	return &ParseError{Debug: debug, Offset: offset, prev: prev}
}

// countErr reports an in-memory count field that cannot be encoded,
// either negative or beyond the slot's fixed capacity.
func countErr(name string, count, max int) error {
	return fmt.Errorf("qtff: %s: invalid count %d (max %d): %w", name, count, max, ErrTooManyAtoms)
}

// Tag is a four character atom type.
type Tag uint32

func (self Tag) String() string {
	var b [4]byte
	pio.PutU32BE(b[:], uint32(self))
	for i := 0; i < len(b); i++ {
		if b[i] == 0 {
			b[i] = ' '
		}
	}
	return string(b[:])
}

func StringToTag(tag string) Tag {
	var b [4]byte
	copy(b[:], []byte(tag))
	return Tag(pio.U32BE(b[:]))
}

// FourCC is a four character code carried as an ordinary field value,
// such as a file type brand or a handler component subtype.
type FourCC [4]byte

func (self FourCC) String() string {
	b := self
	for i := 0; i < len(b); i++ {
		if b[i] == 0 {
			b[i] = ' '
		}
	}
	return string(b[:])
}

func (self FourCC) Tag() Tag {
	return Tag(pio.U32BE(self[:]))
}

func StringToFourCC(s string) FourCC {
	var b FourCC
	copy(b[:], []byte(s))
	return b
}

// Fixed16 is a signed 8.8 fixed-point number. Its value is
// Integral + Fractional/256.
type Fixed16 struct {
	Integral   int8
	Fractional uint8
}

func (self Fixed16) Float64() float64 {
	return float64(self.Integral) + float64(self.Fractional)/256
}

// Fixed32 is a signed 16.16 fixed-point number. Its value is
// Integral + Fractional/65536.
type Fixed32 struct {
	Integral   int16
	Fractional uint16
}

func (self Fixed32) Float64() float64 {
	return float64(self.Integral) + float64(self.Fractional)/65536
}

// Atom is a node of the movie file tree. Decoded atoms remember the
// stream position they were read from. Marshal writes the atom and
// returns the number of bytes written, which always equals Len.
type Atom interface {
	Pos() (int64, int)
	Tag() Tag
	Len() int
	Marshal(w io.Writer) (int, error)
	Children() []Atom
}

// unmarshaler is the common decode shape. MediaInformation is the one
// atom outside it, its layout depends on the handler subtype and its
// Unmarshal takes that as an extra argument.
type unmarshaler interface {
	Unmarshal(r io.ReadSeeker) (n int, err error)
}

type AtomPos struct {
	Offset int64
	Size   int
}

func (self AtomPos) Pos() (int64, int) {
	return self.Offset, self.Size
}

func (self *AtomPos) setPos(offset int64, size int) {
	self.Offset = offset
	self.Size = size
}

func FindChildren(root Atom, tag Tag) Atom {
	if root.Tag() == tag {
		return root
	}
	for _, child := range root.Children() {
		if found := FindChildren(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func FindChildrenByName(root Atom, tag string) Atom {
	return FindChildren(root, StringToTag(tag))
}
