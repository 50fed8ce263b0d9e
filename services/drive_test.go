package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeDriveQuery(t *testing.T) {
	assert.Equal(t, "my_lawyer_cases.json", escapeDriveQuery("my_lawyer_cases.json"))
	assert.Equal(t, `O\'Brien vs State`, escapeDriveQuery("O'Brien vs State"))
}

func TestErrorTaxonomy(t *testing.T) {
	remoteErr := &RemoteStoreError{Op: "drive.Files.List", StatusCode: 403, Message: "insufficient scope"}
	assert.Contains(t, remoteErr.Error(), "drive.Files.List")
	assert.Contains(t, remoteErr.Error(), "403")

	provisionErr := &StorageProvisioningError{Err: remoteErr}
	assert.ErrorContains(t, provisionErr, "insufficient scope")

	var unwrapped *RemoteStoreError
	assert.ErrorAs(t, provisionErr, &unwrapped)
}
