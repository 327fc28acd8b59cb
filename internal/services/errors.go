package services

import "errors"

// Dashboard service errors. Pipeline and parser failures are returned
// wrapped around the dataprocessing sentinels.
var (
	ErrNoUpload         = errors.New("no annotation table uploaded in this session")
	ErrMissingSession   = errors.New("session id is required")
	ErrUnsupportedFile  = errors.New("unsupported upload")
	ErrUploadTooLarge   = errors.New("upload too large")
	ErrStoreUnavailable = errors.New("session store unavailable")
)
