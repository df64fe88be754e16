package naming

import "path"

type Policy string

const (
	// PolicyArchive copies and keeps the source.
	PolicyArchive Policy = "archive"
	// PolicyRename copies and deletes the source.
	PolicyRename Policy = "rename"
)

type Walk string

const (
	WalkProducts Walk = "products"
	WalkTree     Walk = "tree"
	WalkAll      Walk = "all"
	WalkDumps    Walk = "dumps"
	WalkLatest   Walk = "latest"
)

const (
	TargetKeep = "keep"
	TargetLong = "long"
)

// Convention describes how one station lays out and names its imagery.
type Convention struct {
	Station        string
	ShortName      string
	RawSegment     bool
	CameraRemap    bool
	LongNames      bool
	Walk           Walk
	SourcePrefixes []string
	Policy         Policy
	RelocateLogs   bool
}

// Name is the station name written into long-form filenames.
func (c Convention) Name() string {
	if c.ShortName != "" {
		return c.ShortName
	}
	return c.Station
}

func (c Convention) camera(p *ParsedFilename) string {
	if c.CameraRemap {
		return RemapCamera(p.Camera)
	}
	return p.Camera
}

// TargetName is the filename an image gets in the day tree: zero padded,
// camera remapped when configured, and converted to long form when the
// station keeps long names.
func (c Convention) TargetName(p *ParsedFilename) string {
	camera := c.camera(p)
	if c.LongNames && p.Dialect == DialectShort {
		q := *p
		q.Camera = camera
		return ArgusName(&q, c.Name())
	}
	if camera != p.Camera {
		return p.build(true, camera)
	}
	return p.Canonical()
}

// Derive computes the day-tree destination key for filename. Year and day
// folder come from the decoded epoch, never from the name's year field.
func Derive(p *ParsedFilename, filename string, conv Convention) string {
	cal := p.Calendar()
	camera := conv.camera(p)
	if camera == MergeCamera {
		return path.Join(CamerasRoot, conv.Station, MergeCamera, mergeSegment, cal.YearString(), cal.DayFolder(), filename)
	}
	parts := []string{CamerasRoot, conv.Station, camera, cal.YearString(), cal.DayFolder()}
	if conv.RawSegment {
		parts = append(parts, rawSegment)
	}
	parts = append(parts, filename)
	return path.Join(parts...)
}
