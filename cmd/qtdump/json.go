package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/frankplow/mutff-sub002/qtff"
)

type fileTypeSummary struct {
	MajorBrand       string   `json:"major_brand"`
	MinorVersion     uint32   `json:"minor_version"`
	CompatibleBrands []string `json:"compatible_brands,omitempty"`
}

type sampleTableSummary struct {
	Descriptions       int `json:"descriptions"`
	TimeToSample       int `json:"time_to_sample"`
	CompositionOffsets int `json:"composition_offsets,omitempty"`
	SyncSamples        int `json:"sync_samples,omitempty"`
	SampleToChunk      int `json:"sample_to_chunk,omitempty"`
	SampleSizes        int `json:"sample_sizes,omitempty"`
	ChunkOffsets       int `json:"chunk_offsets,omitempty"`
}

type trackSummary struct {
	Id             uint32              `json:"id"`
	Duration       uint32              `json:"duration"`
	Width          float64             `json:"width"`
	Height         float64             `json:"height"`
	Handler        string              `json:"handler"`
	HandlerName    string              `json:"handler_name,omitempty"`
	MediaTimeScale uint32              `json:"media_time_scale"`
	MediaDuration  uint32              `json:"media_duration"`
	MediaKind      string              `json:"media_kind,omitempty"`
	EditEntries    int                 `json:"edit_entries,omitempty"`
	SampleTable    *sampleTableSummary `json:"sample_table,omitempty"`
}

type movieSummary struct {
	TimeScale   uint32         `json:"time_scale"`
	Duration    uint32         `json:"duration"`
	NextTrackId uint32         `json:"next_track_id"`
	Tracks      []trackSummary `json:"tracks"`
}

type movieDataSummary struct {
	Offset int64  `json:"offset"`
	Bytes  uint32 `json:"bytes"`
}

type previewSummary struct {
	AtomType  string `json:"atom_type"`
	AtomIndex uint16 `json:"atom_index"`
}

type fileSummary struct {
	FileType  *fileTypeSummary   `json:"file_type,omitempty"`
	Movie     movieSummary       `json:"movie"`
	MovieData []movieDataSummary `json:"movie_data,omitempty"`
	FreeAtoms int                `json:"free_atoms,omitempty"`
	Preview   *previewSummary    `json:"preview,omitempty"`
}

func sampleTableOf(mi *qtff.MediaInformation) *qtff.SampleTable {
	switch mi.Kind {
	case qtff.MediaInfoVideo:
		if mi.Video.SampleTable.Present {
			return &mi.Video.SampleTable.Value
		}
	case qtff.MediaInfoSound:
		if mi.Sound.SampleTable.Present {
			return &mi.Sound.SampleTable.Value
		}
	}
	return nil
}

func summarize(mf *qtff.MovieFile) fileSummary {
	var out fileSummary

	if mf.FileType.Present {
		ftyp := &mf.FileType.Value
		s := &fileTypeSummary{
			MajorBrand:   ftyp.MajorBrand.String(),
			MinorVersion: ftyp.MinorVersion,
		}
		for i := 0; i < ftyp.BrandCount; i++ {
			s.CompatibleBrands = append(s.CompatibleBrands, ftyp.CompatibleBrands[i].String())
		}
		out.FileType = s
	}

	out.Movie = movieSummary{
		TimeScale:   mf.Movie.Header.TimeScale,
		Duration:    mf.Movie.Header.Duration,
		NextTrackId: mf.Movie.Header.NextTrackId,
		Tracks:      []trackSummary{},
	}
	for i := 0; i < mf.Movie.TrackCount; i++ {
		trak := &mf.Movie.Tracks[i]
		t := trackSummary{
			Id:             trak.Header.TrackId,
			Duration:       trak.Header.Duration,
			Width:          trak.Header.TrackWidth.Float64(),
			Height:         trak.Header.TrackHeight.Float64(),
			Handler:        trak.Media.Handler.ComponentSubtype.String(),
			HandlerName:    trak.Media.Handler.Name(),
			MediaTimeScale: trak.Media.Header.TimeScale,
			MediaDuration:  trak.Media.Header.Duration,
		}
		if trak.Edits.Present && trak.Edits.Value.List.Present {
			t.EditEntries = trak.Edits.Value.List.Value.EntryCount
		}
		if trak.Media.Info.Present {
			mi := &trak.Media.Info.Value
			t.MediaKind = mi.Kind.String()
			if stbl := sampleTableOf(mi); stbl != nil {
				s := &sampleTableSummary{
					Descriptions: stbl.Descriptions.EntryCount,
					TimeToSample: stbl.TimeToSample.EntryCount,
				}
				if stbl.CompositionOffsets.Present {
					s.CompositionOffsets = stbl.CompositionOffsets.Value.EntryCount
				}
				if stbl.SyncSamples.Present {
					s.SyncSamples = stbl.SyncSamples.Value.EntryCount
				}
				if stbl.SampleToChunk.Present {
					s.SampleToChunk = stbl.SampleToChunk.Value.EntryCount
				}
				if stbl.SampleSizes.Present {
					s.SampleSizes = stbl.SampleSizes.Value.EntryCount
				}
				if stbl.ChunkOffsets.Present {
					s.ChunkOffsets = stbl.ChunkOffsets.Value.EntryCount
				}
				t.SampleTable = s
			}
		}
		out.Movie.Tracks = append(out.Movie.Tracks, t)
	}

	for i := 0; i < mf.MovieDataCount; i++ {
		offset, _ := mf.MovieData[i].Pos()
		out.MovieData = append(out.MovieData, movieDataSummary{
			Offset: offset,
			Bytes:  mf.MovieData[i].DataSize,
		})
	}
	out.FreeAtoms = mf.FreeCount + mf.SkipCount + mf.WideCount

	if mf.Preview.Present {
		out.Preview = &previewSummary{
			AtomType:  mf.Preview.Value.AtomType.String(),
			AtomIndex: mf.Preview.Value.AtomIndex,
		}
	}

	return out
}

func jsonCmd() *cli.Command {
	return &cli.Command{
		Name:      "json",
		Usage:     "Print a JSON summary of a movie file",
		ArgsUsage: "FILE",
		Flags:     loggingFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			applyConfig(c, LoadConfig())
			log := newLogger()

			if c.Args().Len() != 1 {
				return fmt.Errorf("json: expected exactly one FILE argument")
			}
			path := c.Args().First()

			f, err := qtff.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			mf, err := f.Movie()
			if err != nil {
				return err
			}
			log.Debug("decoded", "path", path, "tracks", mf.Movie.TrackCount)

			data, err := json.MarshalIndent(summarize(mf), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
