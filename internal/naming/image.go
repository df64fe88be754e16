package naming

import "strings"

// Matched as case-sensitive suffixes. "jpg", "raw" and "cr2" carry no
// leading dot and match any name ending in those letters.
var imageSuffixes = []string{".tif", ".tiff", ".bmp", "jpg", ".jpeg", ".gif", ".png", ".eps", "raw", "cr2", ".nef", ".orf", ".sr2"}

const logSuffix = ".txt"

func IsImageLike(name string) bool {
	for _, s := range imageSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// IsLogFile reports whether name is a station log file rather than imagery.
func IsLogFile(name string) bool {
	return strings.HasSuffix(name, logSuffix)
}

func ImageSuffixes() []string {
	return append([]string(nil), imageSuffixes...)
}
