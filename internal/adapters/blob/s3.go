// Package blob stores code and assets that are too large to send over the channel.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

// ObjectPutter is the part of the S3 client the store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads content to an S3 compatible bucket.
// Objects are content addressed, so repeated uploads of the same bytes share a key.
type S3Store struct {
	client    ObjectPutter
	bucket    string
	publicURL string
}

var _ ports.BlobStore = (*S3Store)(nil)

// NewS3Store creates a store that writes through client.
func NewS3Store(client ObjectPutter, cfg domain.S3Config) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL(cfg),
	}
}

// NewS3Client builds an S3 client for cfg. A custom endpoint switches to path style addressing.
func NewS3Client(ctx context.Context, cfg domain.S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(
			func(_, _ string, _ ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			},
		)
		opts = append(opts, config.WithEndpointResolverWithOptions(resolver)) //nolint:staticcheck // Custom endpoints for S3 compatible stores
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load aws config")
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.Endpoint != ""
	}), nil
}

func publicURL(cfg domain.S3Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	case cfg.Region != "":
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}
}

// Key returns the object key for content stored under prefix.
func Key(prefix, name string, data []byte) string {
	sum := fmt.Sprintf("%016x", xxhash.Sum64(data))
	if name == "" {
		return path.Join(prefix, sum)
	}
	return path.Join(prefix, sum+"-"+path.Base(name))
}

// UploadText stores source text and returns its public URL.
func (s *S3Store) UploadText(ctx context.Context, content string) (string, error) {
	return s.put(ctx, Key("code", "", []byte(content)), []byte(content), "text/plain; charset=utf-8")
}

// UploadAsset stores a binary asset and returns its public URL.
func (s *S3Store) UploadAsset(ctx context.Context, name string, data []byte) (string, error) {
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.put(ctx, Key("assets", name, data), data, contentType)
}

func (s *S3Store) put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", zerr.With(zerr.With(zerr.Wrap(err, domain.ErrUploadFailed.Error()), "bucket", s.bucket), "key", key)
	}
	return s.publicURL + "/" + key, nil
}
