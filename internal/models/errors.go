package models

import (
	"errors"
	"fmt"
)

// ErrRemoteNotFound means the artifact is absent from the remote
// store. Fatal for the resolve call; no cache file is created.
var ErrRemoteNotFound = errors.New("model artifact not found in remote store")

// CorruptArtifactError means an artifact that exists on disk failed to
// decode. It is not retried: the bytes themselves are bad, so a
// refetch would fail the same way.
type CorruptArtifactError struct {
	Identifier string
	Err        error
}

func (e *CorruptArtifactError) Error() string {
	return fmt.Sprintf("corrupt model artifact %s: %v", e.Identifier, e.Err)
}

func (e *CorruptArtifactError) Unwrap() error {
	return e.Err
}
