package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/config"
)

// PutObjectAPI is the slice of the S3 client S3Store needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads into bucket/prefix and returns the public object URL.
type S3Store struct {
	client        PutObjectAPI
	bucket        string
	prefix        string
	publicBaseURL string
}

// NewS3Store loads the default AWS credential chain. A custom endpoint (LocalStack, MinIO)
// switches to path-style addressing.
func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, cfg, awsCfg.Region), nil
}

func NewS3StoreWithClient(client PutObjectAPI, cfg config.S3Config, region string) *S3Store {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		switch {
		case cfg.Endpoint != "":
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		default:
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}
	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		publicBaseURL: base,
	}
}

func (s *S3Store) Backend() string { return "s3" }

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *S3Store) Put(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	key := s.key(name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		logger.ErrorWithFields("failed to upload object", logger.Fields{"bucket": s.bucket, "key": key, "error": err.Error()})
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	logger.InfoWithFields("uploaded object", logger.Fields{"bucket": s.bucket, "key": key})
	return s.publicBaseURL + "/" + key, nil
}
