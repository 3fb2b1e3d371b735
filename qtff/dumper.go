package qtff

import (
	"fmt"
	"io"
	"os"
	"strings"
)

func printatom(out io.Writer, root Atom, depth int, maxdepth int) {
	offset, size := root.Pos()

	type stringintf interface {
		String() string
	}

	fmt.Fprintf(out,
		"%s%s offset=%d size=%d",
		strings.Repeat(" ", depth*2), root.Tag(), offset, size,
	)
	if str, ok := root.(stringintf); ok {
		fmt.Fprint(out, " ", str.String())
	}
	fmt.Fprintln(out)

	if maxdepth >= 0 && depth >= maxdepth {
		return
	}
	for _, child := range root.Children() {
		printatom(out, child, depth+1, maxdepth)
	}
}

func FprintAtom(out io.Writer, root Atom) {
	printatom(out, root, 0, -1)
}

// FprintAtomDepth prints the tree no deeper than maxdepth levels below
// root. A negative maxdepth means no limit.
func FprintAtomDepth(out io.Writer, root Atom, maxdepth int) {
	printatom(out, root, 0, maxdepth)
}

func PrintAtom(root Atom) {
	FprintAtom(os.Stdout, root)
}

func (self *FileType) String() string {
	return fmt.Sprintf("brand=%s", self.MajorBrand)
}

func (self *MovieHeader) String() string {
	return fmt.Sprintf("timescale=%d dur=%d", self.TimeScale, self.Duration)
}

func (self *TrackHeader) String() string {
	return fmt.Sprintf("id=%d dur=%d", self.TrackId, self.Duration)
}

func (self *HandlerReference) String() string {
	return fmt.Sprintf("subtype=%s", self.ComponentSubtype)
}

func (self *MediaInformation) String() string {
	return fmt.Sprintf("kind=%s", self.Kind)
}

func (self *EditList) String() string {
	return fmt.Sprintf("entries=%d", self.EntryCount)
}

func (self *SampleDescriptionTable) String() string {
	return fmt.Sprintf("entries=%d", self.EntryCount)
}

func (self *DataReferenceList) String() string {
	return fmt.Sprintf("entries=%d", self.EntryCount)
}

func (self *TimeToSample) String() string {
	return fmt.Sprintf("entries=%d", self.EntryCount)
}

func (self *CompositionOffset) String() string {
	return fmt.Sprintf("entries=%d", self.EntryCount)
}

func (self *SampleToChunk) String() string {
	return fmt.Sprintf("entries=%d", self.EntryCount)
}

func (self *SampleSize) String() string {
	return fmt.Sprintf("entries=%d", self.EntryCount)
}

func (self *ChunkOffset) String() string {
	return fmt.Sprintf("entries=%d", self.EntryCount)
}

func (self *SyncSample) String() string {
	return fmt.Sprintf("entries=%d", self.EntryCount)
}

func (self *PartialSyncSample) String() string {
	return fmt.Sprintf("entries=%d", self.EntryCount)
}

func (self *MovieData) String() string {
	return fmt.Sprintf("bytes=%d", self.DataSize)
}
