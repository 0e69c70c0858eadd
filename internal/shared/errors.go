package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Collaborator errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrLibraryUnavailable = fmt.Errorf("library not initialized")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrNoStoredLyrics     = fmt.Errorf("track has no stored lyrics")

	// Download state errors
	ErrDownloadRunning     = fmt.Errorf("download already running")
	ErrDownloadNotRunning  = fmt.Errorf("no download in progress")
	ErrDownloadNotFinished = fmt.Errorf("download has not finished")
	ErrDownloadActive      = fmt.Errorf("download still active")
	ErrNoFailedTracks      = fmt.Errorf("no failed tracks to retry")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
