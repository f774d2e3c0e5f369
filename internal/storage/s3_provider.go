package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"recipebook/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectAPI is the subset of the S3 client used by the provider.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Provider implements Provider for documents stored in an S3 bucket.
type s3Provider struct {
	client objectAPI
	bucket string
	logger zerolog.Logger
}

// NewS3Provider creates a new S3-backed provider.
func NewS3Provider(ctx context.Context, bucket, region string, logger zerolog.Logger) (Provider, error) {
	logger = logger.With().Str("component", "s3-provider").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 provider initialised")

	return newS3Provider(s3.NewFromConfig(cfg), bucket, logger), nil
}

func newS3Provider(client objectAPI, bucket string, logger zerolog.Logger) *s3Provider {
	return &s3Provider{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Read fetches the object stored under key. Keys ending in .gz are decompressed.
func (p *s3Provider) Read(ctx context.Context, key string) ([]byte, error) {
	p.logger.Debug().
		Str("bucket", p.bucket).
		Str("key", key).
		Msg("reading document from S3")

	result, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("bucket", p.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, &model.ReadError{
			Path: key,
			Err:  fmt.Errorf("failed to get object from S3 (bucket=%s): %w", p.bucket, err),
		}
	}
	defer result.Body.Close()

	data, err := decodeBody(key, result.Body)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("bucket", p.bucket).
			Str("key", key).
			Msg("failed to read object body")
		return nil, &model.ReadError{Path: key, Err: err}
	}

	p.logger.Info().
		Str("bucket", p.bucket).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("document read from S3")
	return data, nil
}

// Write stores data under key. Keys ending in .gz are compressed.
func (p *s3Provider) Write(ctx context.Context, key string, data []byte) error {
	body, err := encodeBody(key, data)
	if err != nil {
		return &model.WriteError{Path: key, Err: err}
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType(key)),
	})
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("bucket", p.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return &model.WriteError{
			Path: key,
			Err:  fmt.Errorf("failed to put object to S3 (bucket=%s): %w", p.bucket, err),
		}
	}

	p.logger.Info().
		Str("bucket", p.bucket).
		Str("key", key).
		Int("bytes", len(body)).
		Msg("document written to S3")
	return nil
}

func contentType(key string) string {
	if compressed(key) {
		return "application/gzip"
	}
	return "application/json"
}

// fallbackProvider tries S3 first, then falls back to the local file system.
type fallbackProvider struct {
	s3Provider   Provider
	fileProvider Provider
	s3Prefix     string
	s3Enabled    bool
	logger       zerolog.Logger
}

// NewFallbackProvider creates a provider that tries S3 first, then falls back to
// the local file system. If s3Provider is nil, only the file provider is used.
func NewFallbackProvider(s3Provider, fileProvider Provider, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Provider {
	return &fallbackProvider{
		s3Provider:   s3Provider,
		fileProvider: fileProvider,
		s3Prefix:     s3Prefix,
		s3Enabled:    s3Enabled,
		logger:       logger.With().Str("component", "fallback-provider").Logger(),
	}
}

func (p *fallbackProvider) useS3() bool {
	if p.s3Enabled && p.s3Provider != nil {
		return true
	}
	p.logger.Debug().
		Bool("s3_enabled", p.s3Enabled).
		Bool("has_s3_provider", p.s3Provider != nil).
		Msg("S3 disabled or not configured, using local file system")
	return false
}

// objectKey maps a local document path to its key under the S3 prefix.
func (p *fallbackProvider) objectKey(localPath string) string {
	key := strings.TrimLeft(filepath.ToSlash(localPath), "/")
	if p.s3Prefix == "" {
		return path.Clean(key)
	}
	return path.Join(p.s3Prefix, key)
}

// Read loads the document from S3 under the prefixed key, falling back to path on disk.
func (p *fallbackProvider) Read(ctx context.Context, path string) ([]byte, error) {
	if p.useS3() {
		s3Key := p.objectKey(path)
		data, err := p.s3Provider.Read(ctx, s3Key)
		if err == nil {
			return data, nil
		}

		p.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to read from S3, falling back to local file system")
	}

	return p.fileProvider.Read(ctx, path)
}

// Write stores the document in S3 under the prefixed key, falling back to path on disk.
func (p *fallbackProvider) Write(ctx context.Context, path string, data []byte) error {
	if p.useS3() {
		s3Key := p.objectKey(path)
		err := p.s3Provider.Write(ctx, s3Key, data)
		if err == nil {
			return nil
		}

		p.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to write to S3, falling back to local file system")
	}

	return p.fileProvider.Write(ctx, path, data)
}
