package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/logging"
	sc "github.com/florify/florify/internal/server/config"
	"github.com/florify/florify/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

// PlantPhotoService hands out presigned object-storage URLs for plant
// photos. Photo bytes never pass through the server.
type PlantPhotoService struct {
	store
	config *sc.Config
}

func NewPlantPhotoService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, log logging.Logger) *PlantPhotoService {
	return &PlantPhotoService{store: newStore(db, m, cfg, log), config: cfg}
}

// PhotoStorageKey returns a fresh object key for a photo of plantID.
func PhotoStorageKey(plantID int64) string {
	d := now()
	return fmt.Sprintf("plants/%d/%d/%02d/%v", plantID, d.Year(), int(d.Month()), uuid.New())
}

func (s *PlantPhotoService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PhotoUploadURL assigns a new photo key to the plant and returns the key
// with a presigned PUT URL for it. The key is recorded before the object
// exists; a caller whose upload fails should call DiscardPhotoUpload.
func (s *PlantPhotoService) PhotoUploadURL(ctx context.Context, plantID int64) (string, string, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: s3 client: %w", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := PhotoStorageKey(plantID)

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PhotoURLTTL))
	if err != nil {
		return "", "", fmt.Errorf("%w: presign put: %w", common.ErrorInternal, err)
	}

	if err := s.repomanager.Plants(s.db).SetPhotoKey(ctx, plantID, key); err != nil {
		return "", "", dbx.Classify(err)
	}

	s.log.Info(ctx, "photo upload issued", "plant_id", plantID, "key", key)
	return key, req.URL, nil
}

// PhotoDownloadURL returns a presigned GET URL for the plant's photo, or
// common.ErrorNotFound when the plant has none.
func (s *PlantPhotoService) PhotoDownloadURL(ctx context.Context, plantID int64) (string, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	p, err := s.repomanager.Plants(s.db).GetByID(ctx, plantID)
	if err != nil {
		return "", dbx.Classify(err)
	}
	if p.PhotoKey == nil || *p.PhotoKey == "" {
		return "", common.ErrorNotFound
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: s3 client: %w", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    p.PhotoKey,
	}, s3.WithPresignExpires(s.config.PhotoURLTTL))
	if err != nil {
		return "", fmt.Errorf("%w: presign get: %w", common.ErrorInternal, err)
	}

	return req.URL, nil
}

// DiscardPhotoUpload forgets key after a failed upload so the plant does not
// point at a missing object. A key replaced by a later upload is kept.
func (s *PlantPhotoService) DiscardPhotoUpload(ctx context.Context, plantID int64, key string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.repomanager.Plants(s.db).ClearPhotoKey(ctx, plantID, key); err != nil {
		return dbx.Classify(err)
	}
	s.log.Warn(ctx, "photo upload discarded", "plant_id", plantID, "key", key)
	return nil
}
