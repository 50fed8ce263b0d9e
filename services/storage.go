package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"lawyer_app_go/config"
	"lawyer_app_go/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/oauth2"
)

// Fixed resource names used in the user's drive space. These are process
// constants, not configurable per call.
const (
	CaseFolderName = "LawyerApp_CaseData"
	CaseFileName   = "my_lawyer_cases.json"

	caseFileMimeType = "application/json"
)

// DocumentStore is the narrow contract the sync protocol persists through:
// exactly one opaque case-book document per account, replaced wholesale on
// every save. Keeping the surface this small lets the blob-in-a-drive
// backend be swapped for a real document database without touching the
// sync protocol or the domain model.
type DocumentStore interface {
	// Load fetches the current document. found is false for a first-time
	// user with no document yet; that is an expected state, not an error.
	Load(ctx context.Context) (content []byte, found bool, err error)
	// Save replaces the document wholesale and returns the backend's file
	// identifier. No partial or merge write is ever attempted.
	Save(ctx context.Context, content []byte) (fileID string, err error)
}

// driveAPI is the slice of DriveClient the drive store needs. It exists so
// tests can exercise the discovery protocol without the network.
type driveAPI interface {
	FindByName(ctx context.Context, name, parentID string) (string, error)
	CreateFolder(ctx context.Context, name string) (string, error)
	CreateFile(ctx context.Context, name, parentID, mimeType string, content []byte) (string, error)
	UpdateFile(ctx context.Context, fileID, folderID string, content []byte) error
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// DriveStore keeps the case book as a single JSON file in the user's
// Google Drive, inside a dedicated app folder.
type DriveStore struct {
	api driveAPI
}

// NewDriveStore creates a document store backed by the given Drive client.
func NewDriveStore(client *DriveClient) *DriveStore {
	return &DriveStore{api: client}
}

// Load looks the case file up anywhere in the drive space. Absence means a
// first-time user.
func (s *DriveStore) Load(ctx context.Context) ([]byte, bool, error) {
	fileID, err := s.api.FindByName(ctx, CaseFileName, "")
	if err != nil {
		return nil, false, err
	}
	if fileID == "" {
		return nil, false, nil
	}

	content, err := s.api.Download(ctx, fileID)
	if err != nil {
		return nil, false, err
	}
	return content, true, nil
}

// Save ensures the app folder exists, then replaces the case file inside
// it, creating the file on first save. Folder discovery, file discovery
// and the write happen strictly in that order; a folder provisioned by a
// save that later failed is discovered and reused on the next attempt.
func (s *DriveStore) Save(ctx context.Context, content []byte) (string, error) {
	folderID, err := s.api.FindByName(ctx, CaseFolderName, "")
	if err != nil {
		return "", &StorageProvisioningError{Err: err}
	}
	if folderID == "" {
		folderID, err = s.api.CreateFolder(ctx, CaseFolderName)
		if err != nil {
			return "", &StorageProvisioningError{Err: err}
		}
	}

	// Prefer the copy inside our folder. The unscoped fallback picks up a
	// legacy file written before folder scoping; updating moves it in.
	fileID, err := s.api.FindByName(ctx, CaseFileName, folderID)
	if err != nil {
		return "", &SaveFailedError{Err: err}
	}
	if fileID == "" {
		fileID, err = s.api.FindByName(ctx, CaseFileName, "")
		if err != nil {
			return "", &SaveFailedError{Err: err}
		}
	}

	if fileID != "" {
		if err := s.api.UpdateFile(ctx, fileID, folderID, content); err != nil {
			return "", &SaveFailedError{Err: err}
		}
		return fileID, nil
	}

	fileID, err = s.api.CreateFile(ctx, CaseFileName, folderID, caseFileMimeType, content)
	if err != nil {
		return "", &SaveFailedError{Err: err}
	}
	return fileID, nil
}

// R2Store keeps the case book as one object in a Cloudflare R2 bucket.
// Unlike Drive, the bucket is shared across accounts, so the object key is
// namespaced by user.
type R2Store struct {
	client *s3.Client
	bucket string
	key    string
}

// NewR2Store creates an R2-backed document store for the given user.
func NewR2Store(cfg *config.Config, userID string) (*R2Store, error) {
	// R2 endpoint format: https://<account_id>.r2.cloudflarestorage.com
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)

	creds := credentials.NewStaticCredentialsProvider(
		cfg.R2AccessKeyID,
		cfg.R2SecretAccessKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion("auto"), // R2 uses "auto" region
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &R2Store{
		client: client,
		bucket: cfg.R2BucketName,
		key:    fmt.Sprintf("casebooks/%s/%s", userID, CaseFileName),
	}, nil
}

// Load fetches the case-book object; a missing key means a first-time user.
func (s *R2Store) Load(ctx context.Context) ([]byte, bool, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, false, nil
		}
		return nil, false, &RemoteStoreError{Op: "s3.GetObject", Message: err.Error()}
	}
	defer result.Body.Close()

	content, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, false, &RemoteStoreError{Op: "s3.GetObject read", Message: err.Error()}
	}
	return content, true, nil
}

// Save replaces the case-book object.
func (s *R2Store) Save(ctx context.Context, content []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(caseFileMimeType),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		return "", &SaveFailedError{Err: &RemoteStoreError{Op: "s3.PutObject", Message: err.Error()}}
	}
	return s.key, nil
}

// LocalStore keeps the case book on the local filesystem, namespaced by
// user. Used in development and as the test backend.
type LocalStore struct {
	baseDir string
	userID  string
}

// NewLocalStore creates a filesystem-backed document store.
func NewLocalStore(baseDir, userID string) *LocalStore {
	return &LocalStore{baseDir: baseDir, userID: userID}
}

func (s *LocalStore) path() string {
	return filepath.Join(s.baseDir, s.userID, CaseFileName)
}

// Load reads the case-book file; absence means a first-time user.
func (s *LocalStore) Load(ctx context.Context) ([]byte, bool, error) {
	content, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &RemoteStoreError{Op: "local read", Message: err.Error()}
	}
	return content, true, nil
}

// Save writes the case-book file, creating the user directory on first
// save.
func (s *LocalStore) Save(ctx context.Context, content []byte) (string, error) {
	dir := filepath.Dir(s.path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &StorageProvisioningError{Err: err}
	}
	if err := os.WriteFile(s.path(), content, 0644); err != nil {
		return "", &SaveFailedError{Err: err}
	}
	return s.path(), nil
}

// NewDocumentStore selects the configured backend for the given user. The
// drive backend needs the user's OAuth token source; the others are keyed
// by user ID against server-wide credentials.
func NewDocumentStore(ctx context.Context, cfg *config.Config, user *models.User, ts oauth2.TokenSource) (DocumentStore, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendR2:
		return NewR2Store(cfg, user.ID)
	case config.StorageBackendLocal:
		return NewLocalStore(cfg.DataDir, user.ID), nil
	default:
		if ts == nil {
			return nil, ErrUnauthorized
		}
		client, err := NewDriveClient(ctx, ts)
		if err != nil {
			return nil, err
		}
		return NewDriveStore(client), nil
	}
}
