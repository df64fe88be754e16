package naming

import (
	"path"
	"regexp"
	"strings"
)

const (
	CamerasRoot = "cameras"

	productsSegment   = "products"
	rawSegment        = "raw"
	mergeSegment      = "merge"
	logsSegment       = "logs"
	archivesSegment   = "archives"
	dumpsSegment      = "dumps"
	latestSegment     = "latest"
	calibrationSuffix = "calibration"

	markerSuffix = "_most_recent_time.csv"
	tallySuffix  = "_daily_tally.csv"
)

var (
	yearPattern      = regexp.MustCompile(`^[0-9]{4}$`)
	dayFolderPattern = regexp.MustCompile(`^[0-9]{1,3}_[A-Z][a-z]{2}\.[0-9]{1,2}$`)
)

func StationPrefix(station string) string {
	return path.Join(CamerasRoot, station) + "/"
}

func ProductsPrefix(station string) string {
	return path.Join(CamerasRoot, station, productsSegment) + "/"
}

func DumpsPrefix(station string) string {
	return path.Join(CamerasRoot, station, dumpsSegment, dumpsSegment) + "/"
}

func LatestPrefix(station string) string {
	return path.Join(CamerasRoot, station, latestSegment) + "/"
}

func ProductKey(station, filename string) string {
	return path.Join(CamerasRoot, station, productsSegment, filename)
}

func LogKey(station, filename string) string {
	return path.Join(CamerasRoot, station, logsSegment, filename)
}

func ArchiveKey(station, filename string) string {
	return path.Join(CamerasRoot, station, archivesSegment, filename)
}

// DayPrefix is the listing prefix of one camera's images for one day.
func DayPrefix(station, camera string, c Calendar) string {
	return path.Join(CamerasRoot, station, camera, c.YearString(), c.DayFolder())
}

func MarkerKey(station string) string {
	return path.Join(CamerasRoot, station, station+markerSuffix)
}

func TallyKey(station string) string {
	return path.Join(CamerasRoot, station, station+tallySuffix)
}

// SplitKey splits a key into its directory (without trailing slash) and
// filename.
func SplitKey(key string) (dir, filename string) {
	i := strings.LastIndex(key, "/")
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+1:]
}

func JoinKey(dir, filename string) string {
	if dir == "" {
		return filename
	}
	return dir + "/" + filename
}

// TreeKey is a key inside a station's camera/year/day tree.
type TreeKey struct {
	Camera    string
	Year      string
	DayFolder string
	Filename  string
	Raw       bool
	Merge     bool
}

// ParseTreeKey recognises <camera>/<year>/<day>/[raw/]<file> and
// cx/merge/<year>/<day>/<file> below cameras/<station>/. Calibration folders
// are not image trees.
func ParseTreeKey(station, key string) (TreeKey, bool) {
	rel, ok := strings.CutPrefix(key, StationPrefix(station))
	if !ok {
		return TreeKey{}, false
	}
	parts := strings.Split(rel, "/")
	if len(parts) < 4 || len(parts) > 5 {
		return TreeKey{}, false
	}
	camera := parts[0]
	if camera == "" || strings.HasSuffix(camera, calibrationSuffix) || !cameraFolder(camera) {
		return TreeKey{}, false
	}

	if len(parts) == 5 && parts[1] == mergeSegment {
		if !yearPattern.MatchString(parts[2]) || !dayFolderPattern.MatchString(parts[3]) || parts[4] == "" {
			return TreeKey{}, false
		}
		return TreeKey{Camera: camera, Year: parts[2], DayFolder: parts[3], Filename: parts[4], Merge: true}, true
	}

	if !yearPattern.MatchString(parts[1]) || !dayFolderPattern.MatchString(parts[2]) {
		return TreeKey{}, false
	}
	tk := TreeKey{Camera: camera, Year: parts[1], DayFolder: parts[2]}
	if len(parts) == 5 {
		if parts[3] != rawSegment {
			return TreeKey{}, false
		}
		tk.Raw = true
		tk.Filename = parts[4]
	} else {
		tk.Filename = parts[3]
	}
	if tk.Filename == "" {
		return TreeKey{}, false
	}
	return tk, true
}

func cameraFolder(name string) bool {
	switch name {
	case productsSegment, logsSegment, archivesSegment, dumpsSegment, latestSegment:
		return false
	}
	return true
}
