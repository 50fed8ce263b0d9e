package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const driveFolderMimeType = "application/vnd.google-apps.folder"

// DriveClient is a capability-scoped wrapper around the Drive v3 API,
// constructed per request from the session's OAuth token. The drive.file
// scope means listings only ever see files this app created.
type DriveClient struct {
	svc *drive.Service
}

// NewDriveClient builds a Drive client from the given token source.
func NewDriveClient(ctx context.Context, ts oauth2.TokenSource) (*DriveClient, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, &RemoteStoreError{Op: "init", Message: err.Error()}
	}
	return &DriveClient{svc: svc}, nil
}

// FindByName returns the id of the first non-trashed file with exactly the
// given name, or "" when none exists. When parentID is non-empty the search
// is scoped to that folder. Drive's listing order is stable, so "first
// match" is deterministic; ties are not otherwise broken.
func (d *DriveClient) FindByName(ctx context.Context, name, parentID string) (string, error) {
	q := fmt.Sprintf("name='%s' and trashed=false", escapeDriveQuery(name))
	if parentID != "" {
		q += fmt.Sprintf(" and '%s' in parents", escapeDriveQuery(parentID))
	}

	list, err := d.svc.Files.List().
		Q(q).
		Fields("files(id, name)").
		Spaces("drive").
		Context(ctx).Do()
	if err != nil {
		return "", wrapDriveError("files.list", err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// CreateFolder creates a folder with the given name and returns its id.
func (d *DriveClient) CreateFolder(ctx context.Context, name string) (string, error) {
	folder, err := d.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: driveFolderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", wrapDriveError("files.create folder", err)
	}
	return folder.Id, nil
}

// CreateFile creates a file with the given content inside parentID and
// returns its id.
func (d *DriveClient) CreateFile(ctx context.Context, name, parentID, mimeType string, content []byte) (string, error) {
	file, err := d.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{parentID},
	}).
		Media(bytes.NewReader(content), googleapi.ContentType(mimeType)).
		Fields("id").
		Context(ctx).Do()
	if err != nil {
		return "", wrapDriveError("files.create", err)
	}
	return file.Id, nil
}

// UpdateFile replaces the file's content and moves it into folderID,
// removing any other parents so repeated saves converge on a single parent
// instead of accumulating one per save.
func (d *DriveClient) UpdateFile(ctx context.Context, fileID, folderID string, content []byte) error {
	current, err := d.svc.Files.Get(fileID).Fields("parents").Context(ctx).Do()
	if err != nil {
		return wrapDriveError("files.get parents", err)
	}

	var stale []string
	for _, p := range current.Parents {
		if p != folderID {
			stale = append(stale, p)
		}
	}

	call := d.svc.Files.Update(fileID, &drive.File{}).
		Media(bytes.NewReader(content), googleapi.ContentType("application/json"))
	if !contains(current.Parents, folderID) {
		call = call.AddParents(folderID)
	}
	if len(stale) > 0 {
		call = call.RemoveParents(strings.Join(stale, ","))
	}

	if _, err := call.Context(ctx).Do(); err != nil {
		return wrapDriveError("files.update", err)
	}
	return nil
}

// Download fetches the file's raw content, reading the stream to completion
// before returning so callers never parse a partial body.
func (d *DriveClient) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := d.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, wrapDriveError("files.get media", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapDriveError("files.get media read", err)
	}
	return content, nil
}

// wrapDriveError converts a googleapi failure into a RemoteStoreError,
// preserving the upstream status code and message.
func wrapDriveError(op string, err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return &RemoteStoreError{Op: op, StatusCode: gErr.Code, Message: gErr.Message}
	}
	return &RemoteStoreError{Op: op, Message: err.Error()}
}

// escapeDriveQuery escapes single quotes for use inside a Drive query
// literal.
func escapeDriveQuery(s string) string {
	return strings.ReplaceAll(s, `'`, `\'`)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
