package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeFile is one entry in the simulated drive space. A drive file has
// exactly one parent here; "" means it sits outside any app folder.
type fakeFile struct {
	id      string
	name    string
	parent  string
	content []byte
}

// fakeDrive simulates the drive surface the store discovers against,
// honoring the parent scoping of FindByName.
type fakeDrive struct {
	files []*fakeFile

	findErr   error
	folderErr error
	createErr error
	updateErr error

	createFolderCalls int
	updateCalls       int
	createFileCalls   int
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{}
}

func (f *fakeDrive) FindByName(ctx context.Context, name, parentID string) (string, error) {
	if f.findErr != nil {
		return "", f.findErr
	}
	for _, file := range f.files {
		if file.name != name {
			continue
		}
		if parentID != "" && file.parent != parentID {
			continue
		}
		return file.id, nil
	}
	return "", nil
}

func (f *fakeDrive) CreateFolder(ctx context.Context, name string) (string, error) {
	f.createFolderCalls++
	if f.folderErr != nil {
		return "", f.folderErr
	}
	file := &fakeFile{id: "folder-" + name, name: name}
	f.files = append(f.files, file)
	return file.id, nil
}

func (f *fakeDrive) CreateFile(ctx context.Context, name, parentID, mimeType string, content []byte) (string, error) {
	f.createFileCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	file := &fakeFile{id: "file-" + name, name: name, parent: parentID, content: content}
	f.files = append(f.files, file)
	return file.id, nil
}

func (f *fakeDrive) UpdateFile(ctx context.Context, fileID, folderID string, content []byte) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, file := range f.files {
		if file.id == fileID {
			// The real client adds the folder and strips stale parents.
			file.parent = folderID
			file.content = content
			return nil
		}
	}
	return &RemoteStoreError{Op: "files.update", StatusCode: 404, Message: "not found"}
}

func (f *fakeDrive) Download(ctx context.Context, fileID string) ([]byte, error) {
	for _, file := range f.files {
		if file.id == fileID {
			return file.content, nil
		}
	}
	return nil, &RemoteStoreError{Op: "files.get media", StatusCode: 404, Message: "not found"}
}

func (f *fakeDrive) lookup(id string) *fakeFile {
	for _, file := range f.files {
		if file.id == id {
			return file
		}
	}
	return nil
}

func TestDriveStoreLoadFirstTimeUser(t *testing.T) {
	store := &DriveStore{api: newFakeDrive()}

	content, found, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, content)
}

func TestDriveStoreSaveProvisionsFolderOnce(t *testing.T) {
	drive := newFakeDrive()
	store := &DriveStore{api: drive}

	fileID, err := store.Save(context.Background(), []byte(`[]`))
	assert.NoError(t, err)
	assert.NotEmpty(t, fileID)
	assert.Equal(t, 1, drive.createFolderCalls)
	assert.Equal(t, 1, drive.createFileCalls)

	// Second save reuses folder and file; nothing is duplicated.
	sameID, err := store.Save(context.Background(), []byte(`[{"id":"c"}]`))
	assert.NoError(t, err)
	assert.Equal(t, fileID, sameID)
	assert.Equal(t, 1, drive.createFolderCalls)
	assert.Equal(t, 1, drive.createFileCalls)
	assert.Equal(t, 1, drive.updateCalls)
}

func TestDriveStoreSaveMovesLegacyFileIntoFolder(t *testing.T) {
	drive := newFakeDrive()
	// A case file written before folder scoping, sitting outside any
	// app folder.
	drive.files = append(drive.files, &fakeFile{
		id:      "legacy-file",
		name:    CaseFileName,
		parent:  "",
		content: []byte(`[]`),
	})
	store := &DriveStore{api: drive}

	fileID, err := store.Save(context.Background(), []byte(`[{"id":"c"}]`))
	assert.NoError(t, err)
	assert.Equal(t, "legacy-file", fileID)
	// No duplicate file; the legacy one is updated in place.
	assert.Zero(t, drive.createFileCalls)
	assert.Equal(t, 1, drive.updateCalls)

	// The update relocates the file into the provisioned folder, so the
	// next save finds it by the scoped lookup alone.
	moved := drive.lookup("legacy-file")
	assert.Equal(t, "folder-"+CaseFolderName, moved.parent)
	assert.Equal(t, `[{"id":"c"}]`, string(moved.content))

	sameID, err := store.Save(context.Background(), []byte(`[]`))
	assert.NoError(t, err)
	assert.Equal(t, "legacy-file", sameID)
	assert.Zero(t, drive.createFileCalls)
}

func TestDriveStoreSaveThenLoad(t *testing.T) {
	drive := newFakeDrive()
	store := &DriveStore{api: drive}

	_, err := store.Save(context.Background(), []byte(`[{"id":"c"}]`))
	assert.NoError(t, err)

	content, found, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"c"}]`, string(content))
}

func TestDriveStoreSaveFolderFailureIsProvisioningError(t *testing.T) {
	drive := newFakeDrive()
	drive.folderErr = &RemoteStoreError{Op: "files.create folder", StatusCode: 403, Message: "insufficient scope"}
	store := &DriveStore{api: drive}

	_, err := store.Save(context.Background(), []byte(`[]`))
	var provisionErr *StorageProvisioningError
	assert.ErrorAs(t, err, &provisionErr)
}

func TestDriveStoreSaveWriteFailure(t *testing.T) {
	drive := newFakeDrive()
	drive.createErr = errors.New("quota exceeded")
	store := &DriveStore{api: drive}

	_, err := store.Save(context.Background(), []byte(`[]`))
	var saveErr *SaveFailedError
	assert.ErrorAs(t, err, &saveErr)
}

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "user-1")

	_, found, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.False(t, found)

	path, err := store.Save(context.Background(), []byte(`[]`))
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "user-1", CaseFileName), path)

	content, found, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(content))

	// Documents are namespaced per user.
	_, err = os.Stat(filepath.Join(dir, "user-1", CaseFileName))
	assert.NoError(t, err)
	other := NewLocalStore(dir, "user-2")
	_, found, err = other.Load(context.Background())
	assert.NoError(t, err)
	assert.False(t, found)
}
