package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/Nahnamehran/study-planner/config"
	"github.com/Nahnamehran/study-planner/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Object layout inside the bucket:
//
//	users/<id>.json
//	users/by-email/<email>.json
//	plans/<id>.json
//	owners/<userID>/<planID>   empty marker
const (
	usersPrefix   = "users/"
	byEmailPrefix = "users/by-email/"
	plansPrefix   = "plans/"
	ownersPrefix  = "owners/"
)

// MinIOService stores users and plans as JSON objects in a single bucket.
type MinIOService struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewMinIOService(cfg *config.Config, logger *zap.Logger) (*MinIOService, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MinIOService{
		client: client,
		bucket: cfg.MinIOBucket,
		logger: logger,
	}, nil
}

// EnsureBucket creates the bucket on first start.
func (s *MinIOService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	s.logger.Info("minio bucket created", zap.String("bucket", s.bucket))
	return nil
}

func (s *MinIOService) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	emailPath := byEmailPrefix + url.PathEscape(strings.ToLower(strings.TrimSpace(user.Email))) + ".json"

	var existing models.User
	found, err := s.getJSON(ctx, emailPath, &existing)
	if err != nil {
		return nil, &models.PersistenceError{Op: "find user", Err: err}
	}
	if found {
		return &existing, nil
	}

	if err := s.putJSON(ctx, usersPrefix+user.ID+".json", user); err != nil {
		return nil, &models.PersistenceError{Op: "create user", Err: err}
	}
	if err := s.putJSON(ctx, emailPath, user); err != nil {
		return nil, &models.PersistenceError{Op: "index user email", Err: err}
	}
	u := *user
	return &u, nil
}

func (s *MinIOService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	found, err := s.getJSON(ctx, usersPrefix+id+".json", &user)
	if err != nil {
		return nil, &models.PersistenceError{Op: "get user", Err: err}
	}
	if !found {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return &user, nil
}

func (s *MinIOService) SavePlan(ctx context.Context, record *models.PlanRecord) error {
	if err := s.putJSON(ctx, plansPrefix+record.ID+".json", record); err != nil {
		return &models.PersistenceError{Op: "save plan", Err: err}
	}
	if record.OwnerID == "" {
		return nil
	}
	marker := ownersPrefix + record.OwnerID + "/" + record.ID
	if err := s.UploadFile(ctx, marker, bytes.NewReader(nil), 0, "application/octet-stream"); err != nil {
		return &models.PersistenceError{Op: "index plan owner", Err: err}
	}
	return nil
}

func (s *MinIOService) GetPlan(ctx context.Context, id string) (*models.PlanRecord, error) {
	var record models.PlanRecord
	found, err := s.getJSON(ctx, plansPrefix+id+".json", &record)
	if err != nil {
		return nil, &models.PersistenceError{Op: "get plan", Err: err}
	}
	if !found {
		return nil, fmt.Errorf("plan %s: %w", id, models.ErrNotFound)
	}
	return &record, nil
}

func (s *MinIOService) ListPlans(ctx context.Context, ownerID string) ([]models.PlanRecord, error) {
	keys, err := s.ListAllObjects(ctx, ownersPrefix+ownerID+"/")
	if err != nil {
		return nil, &models.PersistenceError{Op: "list plans", Err: err}
	}

	plans := make([]models.PlanRecord, 0, len(keys))
	for _, key := range keys {
		record, err := s.GetPlan(ctx, path.Base(key))
		if err != nil {
			// marker without a plan object: skip it
			s.logger.Warn("dangling plan marker", zap.String("key", key), zap.Error(err))
			continue
		}
		plans = append(plans, *record)
	}
	sortNewestFirst(plans)
	return plans, nil
}

// ObjectExists treats NoSuchKey as a clean miss.
func (s *MinIOService) ObjectExists(ctx context.Context, objectPath string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, objectPath, minio.StatObjectOptions{})
	if err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListAllObjects returns every key under prefix.
func (s *MinIOService) ListAllObjects(ctx context.Context, prefix string) ([]string, error) {
	var objects []string

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	for object := range s.client.ListObjects(ctx, s.bucket, opts) {
		if object.Err != nil {
			return nil, object.Err
		}
		objects = append(objects, object.Key)
	}

	return objects, nil
}

func (s *MinIOService) DownloadFile(ctx context.Context, objectPath string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	return data, nil
}

func (s *MinIOService) UploadFile(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

func (s *MinIOService) putJSON(ctx context.Context, objectPath string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", objectPath, err)
	}
	return s.UploadFile(ctx, objectPath, bytes.NewReader(data), int64(len(data)), "application/json")
}

// getJSON reports found=false when the object does not exist.
func (s *MinIOService) getJSON(ctx context.Context, objectPath string, v interface{}) (bool, error) {
	exists, err := s.ObjectExists(ctx, objectPath)
	if err != nil || !exists {
		return false, err
	}
	data, err := s.DownloadFile(ctx, objectPath)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", objectPath, err)
	}
	return true, nil
}
