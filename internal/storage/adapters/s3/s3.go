// Package s3 implements ObjectStorage on AWS S3. Intended for runs that
// archive fetched images to a bucket instead of the local disk.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/BrianKoge/Ubuntu-Requests/internal/config"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
	"github.com/BrianKoge/Ubuntu-Requests/internal/storage"
)

// Client implements storage.ObjectStorage backed by an S3 bucket
type Client struct {
	s3     *awss3.Client
	bucket string
	prefix string

	logger  observability.Logger
	metrics observability.Metrics
}

// New creates an S3 storage client and verifies the bucket is reachable.
func New(cfg *config.Storage, logger observability.Logger, metrics observability.Metrics) (*Client, error) {
	awsCfg, err := buildAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	s3Client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		// Path style keeps custom endpoints (localstack, minio) working.
		o.UsePathStyle = cfg.Endpoint != ""
	})

	c := &Client{
		s3:      s3Client,
		bucket:  cfg.S3Bucket,
		prefix:  cfg.S3Prefix,
		logger:  logger,
		metrics: metrics.WithTags(map[string]string{"storage": "s3"}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := c.s3.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return nil, fmt.Errorf("failed to verify bucket %q: %w", c.bucket, err)
	}

	logger.Info("s3 storage initialized", "bucket", c.bucket, "region", cfg.Region)
	return c, nil
}

// Put stores an object under key
func (c *Client) Put(ctx context.Context, key string, reader io.Reader, metadata storage.ObjectMetadata) error {
	start := time.Now()

	buf := &bytes.Buffer{}
	size, err := io.Copy(buf, reader)
	if err != nil {
		c.metrics.IncrementCounter("storage.put.errors", map[string]string{"error": "read"})
		return storage.ErrWriteObject(key, err)
	}

	input := &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.objectKey(key)),
		Body:   bytes.NewReader(buf.Bytes()),
	}
	if metadata.ContentType != "" {
		input.ContentType = aws.String(metadata.ContentType)
	}
	if len(metadata.UserMetadata) > 0 {
		input.Metadata = metadata.UserMetadata
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		c.metrics.IncrementCounter("storage.put.errors", map[string]string{"error": "s3"})
		return storage.ErrWriteObject(key, err)
	}

	c.logger.Info("object stored",
		"key", key,
		"bytes", size,
		"duration_ms", time.Since(start).Milliseconds())
	c.metrics.IncrementCounter("storage.put.success", nil)
	c.metrics.RecordHistogram("storage.put.bytes", float64(size), nil)

	return nil
}

// Get retrieves an object by key
func (c *Client) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := c.s3.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, storage.ErrObjectNotFound
		}
		return nil, storage.ErrReadObject(key, err)
	}
	return out.Body, nil
}

// Exists reports whether an object is already stored under key
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.s3.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, storage.ErrReadObject(key, err)
	}
	return true, nil
}

// List returns objects whose key starts with prefix
func (c *Client) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var objects []storage.ObjectInfo

	paginator := awss3.NewListObjectsV2Paginator(c.s3, &awss3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(c.objectKey(prefix)),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, storage.ObjectInfo{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}
	}

	return objects, nil
}

func (c *Client) objectKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return path.Join(c.prefix, key)
}

func buildAWSConfig(cfg *config.Storage) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.Endpoint != "" {
		// Local development endpoints use static dummy credentials.
		opts = append(opts,
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("test", "test", ""),
			),
			awsconfig.WithBaseEndpoint(cfg.Endpoint),
		)
	}

	return awsconfig.LoadDefaultConfig(context.Background(), opts...)
}

func isNotFound(err error) bool {
	var notFound *s3types.NotFound
	var noSuchKey *s3types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
