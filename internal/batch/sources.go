package batch

import (
	"CoastCam/internal/naming"
	"CoastCam/internal/relocate"
)

// Source is one listing prefix. Tree sources only yield keys that
// naming.ParseTreeKey accepts.
type Source struct {
	Prefix string
	Tree   bool
}

// Sources returns the listing prefixes for a station and operation.
// Explicit source prefixes win over the walk strategy.
func Sources(conv naming.Convention, op relocate.Operation) []Source {
	if len(conv.SourcePrefixes) > 0 {
		out := make([]Source, 0, len(conv.SourcePrefixes))
		for _, p := range conv.SourcePrefixes {
			out = append(out, Source{Prefix: p})
		}
		return out
	}
	return walkSources(conv.Station, walkFor(conv, op))
}

func walkFor(conv naming.Convention, op relocate.Operation) naming.Walk {
	walk := conv.Walk
	switch op {
	case relocate.OpArchive:
		return naming.WalkDumps
	case relocate.OpRemap:
		if walk == "" || walk == naming.WalkProducts {
			return naming.WalkTree
		}
	}
	if walk == "" {
		return naming.WalkProducts
	}
	return walk
}

func walkSources(station string, walk naming.Walk) []Source {
	switch walk {
	case naming.WalkTree:
		return []Source{{Prefix: naming.StationPrefix(station), Tree: true}}
	case naming.WalkAll:
		return []Source{
			{Prefix: naming.ProductsPrefix(station)},
			{Prefix: naming.StationPrefix(station), Tree: true},
		}
	case naming.WalkDumps:
		return []Source{{Prefix: naming.DumpsPrefix(station)}}
	case naming.WalkLatest:
		return []Source{{Prefix: naming.LatestPrefix(station)}}
	default:
		return []Source{{Prefix: naming.ProductsPrefix(station)}}
	}
}
