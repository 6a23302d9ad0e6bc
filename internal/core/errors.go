package core

import "errors"

var (
	// ErrDecode is returned when a message part is not valid base64url
	ErrDecode = errors.New("failed to decode message part")
	// ErrModelNotLoaded is returned when a prediction is requested before any model is installed
	ErrModelNotLoaded = errors.New("model not loaded")
	// ErrModelNotFound is returned by a model store that holds no artifact
	ErrModelNotFound = errors.New("model not found")
)
