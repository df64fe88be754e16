package s3

import (
	"path"
	"strings"
)

const (
	AuditPrefix     = "audit"
	ManifestsPrefix = "manifests"
	LatestPrefix    = "latest"
	LocksPrefix     = "locks"
)

func AuditObjectKey(station, yyyy, mm, dd, filename string) string {
	return path.Join(AuditPrefix, station, yyyy, mm, dd, filename)
}

func AuditManifestKey(station, timestamp string) string {
	return path.Join(AuditPrefix, ManifestsPrefix, station, timestamp+".json")
}

func AuditLatestKey(station string) string {
	return path.Join(AuditPrefix, LatestPrefix, station+".json")
}

func AuditManifestsPrefix(station string) string {
	return path.Join(AuditPrefix, ManifestsPrefix, station) + "/"
}

func LockKey(name string) string {
	return path.Join(LocksPrefix, name+".lock")
}

// ParseAuditKey splits audit/<station>/<yyyy>/<mm>/<dd>/<file>. Manifest and
// latest keys are not audit objects and yield empty strings.
func ParseAuditKey(relativeKey string) (station, yyyy, mm, dd, filename string) {
	relativeKey = strings.Trim(relativeKey, "/")
	parts := strings.Split(relativeKey, "/")
	if len(parts) < 6 || parts[0] != AuditPrefix || parts[1] == ManifestsPrefix || parts[1] == LatestPrefix {
		return "", "", "", "", ""
	}
	return parts[1], parts[2], parts[3], parts[4], strings.Join(parts[5:], "/")
}
