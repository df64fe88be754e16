package naming

import "strings"

const (
	verboseCameraPrefix = "Camera"
	shortCameraPrefix   = "c"

	// MergeCamera is the synthetic camera id of composite products.
	MergeCamera = "cx"
)

// RemapCamera converts "Camera<N>" to "c<N>". Other tokens are returned as is.
func RemapCamera(token string) string {
	n, ok := strings.CutPrefix(token, verboseCameraPrefix)
	if !ok || !allDigits(n) {
		return token
	}
	return shortCameraPrefix + n
}
