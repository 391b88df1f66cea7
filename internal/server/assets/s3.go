package assets

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/avoronin/placekeeper/internal/logging"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store keeps assets in an S3-compatible bucket (minio works). References
// are object keys.
type S3Store struct {
	client  *s3.Client
	bucket  string
	maxSize int64
	logger  logging.Logger
}

// S3Options carries connection settings for the object storage backend.
type S3Options struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Bucket       string
}

// NewS3Store builds the S3 client once at startup from static credentials.
func NewS3Store(ctx context.Context, opts S3Options, maxSize int64, logger logging.Logger) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:  client,
		bucket:  opts.Bucket,
		maxSize: maxSize,
		logger:  logger.With("module", "assets_s3"),
	}, nil
}

func storageKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("images/%d/%02d/%02d/%v.%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func (s *S3Store) Store(ctx context.Context, data []byte, declaredMime string) (string, error) {
	ext, err := checkPayload(data, declaredMime, s.maxSize)
	if err != nil {
		return "", err
	}

	key := storageKey(ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(declaredMime),
	})
	if err != nil {
		return "", fmt.Errorf("putting object %s: %w", key, err)
	}

	return key, nil
}

// Remove deletes the object. S3 DeleteObject succeeds for missing keys, which
// matches the tolerant-removal contract.
func (s *S3Store) Remove(ctx context.Context, ref string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", ref, err)
	}

	return nil
}

var _ Store = (*S3Store)(nil)
