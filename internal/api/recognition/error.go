package recognition

import (
	"AttendanceGolang/pkg/response"
	"net/http"
)

var (
	// ErrStoreUnavailable means the encoding store could not be reached.
	// Transient; the caller may retry. A failed cache refresh is absorbed
	// by serving the previous snapshot and only surfaces through status.
	ErrStoreUnavailable = response.NewError(http.StatusServiceUnavailable, "encoding store unavailable")

	// ErrNoCandidates means the candidate set was empty before any frame
	// was considered, distinct from a below-threshold miss.
	ErrNoCandidates = response.NewError(http.StatusNotFound, "no enrolled face data for this roster")

	// ErrCaptureUnavailable is a device fault, never to be conflated with
	// a timeout: "check the camera" versus "nobody showed up in time".
	ErrCaptureUnavailable = response.NewError(http.StatusBadGateway, "capture device unavailable")

	ErrCaptureBusy = response.NewError(http.StatusConflict, "camera already serving a capture session")

	ErrNoFaceInFrames  = response.NewError(http.StatusBadRequest, "no usable face found in the supplied images")
	ErrStudentNotFound = response.NewError(http.StatusNotFound, "student not found")
)
