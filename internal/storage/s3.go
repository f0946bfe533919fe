// Package storage delivers rendered invoices to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"invoicer/internal/logger"
	"invoicer/pkg/services"
)

// Ensure S3Sink implements DeliverySink
var _ services.DeliverySink = (*S3Sink)(nil)

// ErrBucketRequired is returned when no bucket is configured
var ErrBucketRequired = errors.New("storage bucket is required")

// Config describes the target bucket
type Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Endpoint     string // empty for AWS, set for MinIO and friends
	AccessKey    string // empty to use the default credential chain
	SecretKey    string
	UsePathStyle bool
}

// objectAPI is the part of the S3 client the sink uses
type objectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink writes invoices as objects below a key prefix
type S3Sink struct {
	client objectAPI
	bucket string
	prefix string
	log    zerolog.Logger
}

// S3SinkOption is a functional option for configuring S3Sink
type S3SinkOption func(*S3Sink)

// WithLogger sets a custom logger
func WithLogger(log zerolog.Logger) S3SinkOption {
	return func(s *S3Sink) {
		s.log = log
	}
}

// withClient replaces the S3 client
func withClient(c objectAPI) S3SinkOption {
	return func(s *S3Sink) {
		s.client = c
	}
}

// NewS3Sink creates a sink from configuration
func NewS3Sink(ctx context.Context, cfg Config, opts ...S3SinkOption) (*S3Sink, error) {
	const op = "NewS3Sink"

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrBucketRequired)
	}

	sink := &S3Sink{
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		log:    logger.WithComponent("s3"),
	}
	for _, opt := range opts {
		opt(sink)
	}
	if sink.client != nil {
		return sink, nil
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create AWS config: %w", op, err)
	}

	sink.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return sink, nil
}

// Key returns the object key for a file name
func (s *S3Sink) Key(fileName string) string {
	if s.prefix == "" {
		return fileName
	}
	return path.Join(s.prefix, fileName)
}

// Deliver uploads the file, overwriting an object with the same key
func (s *S3Sink) Deliver(ctx context.Context, fileName string, data []byte, mimeType string) (*services.DeliveryResult, error) {
	const op = "Deliver"

	key := s.Key(fileName)

	exists, err := s.exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to upload %s: %w", op, key, err)
	}

	action := services.ActionCreated
	if exists {
		action = services.ActionUpdated
	}

	s.log.Info().
		Str("bucket", s.bucket).
		Str("key", key).
		Str("action", action).
		Msg("Invoice uploaded")

	return &services.DeliveryResult{
		FileName: fileName,
		Action:   action,
		Location: "s3://" + s.bucket + "/" + key,
	}, nil
}

func (s *S3Sink) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check object %s: %w", key, err)
}
