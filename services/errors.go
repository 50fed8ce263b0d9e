package services

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means the request carried no usable Google credential.
// It is raised before any remote call is attempted.
var ErrUnauthorized = errors.New("unauthorized: missing or invalid credential")

// RemoteStoreError wraps a transport or API failure from the remote file
// store, keeping the upstream status and message for diagnostics.
type RemoteStoreError struct {
	Op         string // remote operation that failed, e.g. "files.list"
	StatusCode int    // upstream HTTP status when known, 0 otherwise
	Message    string
}

func (e *RemoteStoreError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote store %s failed (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote store %s failed: %s", e.Op, e.Message)
}

// StorageProvisioningError means the containing folder could not be found
// or created; the save is aborted before any document write.
type StorageProvisioningError struct {
	Err error
}

func (e *StorageProvisioningError) Error() string {
	return fmt.Sprintf("storage provisioning failed: %v", e.Err)
}

func (e *StorageProvisioningError) Unwrap() error { return e.Err }

// SaveFailedError means the document create/update failed after the folder
// was ensured. The write is whole-document; no partial state is left by
// this layer.
type SaveFailedError struct {
	Err error
}

func (e *SaveFailedError) Error() string {
	return fmt.Sprintf("case book save failed: %v", e.Err)
}

func (e *SaveFailedError) Unwrap() error { return e.Err }

// IntegrityError means remote content was present but could not be parsed
// as the case book schema. It is never silently treated as an empty book.
type IntegrityError struct {
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("case book content is not parseable: %v", e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }
