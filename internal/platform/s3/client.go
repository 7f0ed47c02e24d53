package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/imamik/rentwise/internal/creator"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = creator.ErrPhotoNotFound

// Options configures a PhotoStore.
type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PathStyle selects path-style addressing, required by MinIO.
	PathStyle bool
	// PublicURL is the base URL photos are served from. Defaults to the
	// endpoint plus bucket.
	PublicURL string
}

// PhotoStore writes photos as objects in a single bucket.
type PhotoStore struct {
	s3        *s3.Client
	bucket    string
	publicURL string
}

// NewPhotoStore creates a PhotoStore from static credentials.
func NewPhotoStore(ctx context.Context, opts Options) (*PhotoStore, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})

	return newPhotoStore(client, opts), nil
}

func newPhotoStore(client *s3.Client, opts Options) *PhotoStore {
	public := opts.PublicURL
	if public == "" {
		switch {
		case opts.Endpoint == "":
			public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		case opts.PathStyle:
			public = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		default:
			public = virtualHostURL(opts.Endpoint, opts.Bucket)
		}
	}
	return &PhotoStore{s3: client, bucket: opts.Bucket, publicURL: strings.TrimRight(public, "/")}
}

// Backend names the store for metrics and logs.
func (p *PhotoStore) Backend() string { return "s3" }

// Bucket returns the bucket name.
func (p *PhotoStore) Bucket() string { return p.bucket }

// EnsureBucket creates the bucket unless it already exists.
func (p *PhotoStore) EnsureBucket(ctx context.Context) error {
	_, err := p.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.bucket)})
	if err == nil {
		return nil
	}
	if !isNotFoundError(err) {
		return fmt.Errorf("failed to check bucket %s: %w", p.bucket, err)
	}

	_, err = p.s3.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(p.bucket)})
	if err != nil && !isBucketAlreadyOwnedByYou(err) {
		return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
	}
	return nil
}

// Put uploads data under key and returns its public URL.
func (p *PhotoStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := p.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put photo %s in bucket %s: %w", key, p.bucket, err)
	}
	return p.URL(key), nil
}

// Get downloads the photo stored under key.
func (p *PhotoStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := p.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get photo %s from bucket %s: %w", key, p.bucket, err)
	}
	defer result.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, fmt.Errorf("failed to read photo body: %w", err)
	}
	return buf.Bytes(), nil
}

// Delete removes the photo stored under key. Missing keys are not an error.
func (p *PhotoStore) Delete(ctx context.Context, key string) error {
	_, err := p.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete photo %s from bucket %s: %w", key, p.bucket, err)
	}
	return nil
}

// List returns the keys under prefix.
func (p *PhotoStore) List(ctx context.Context, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(p.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(p.s3, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list photos in bucket %s: %w", p.bucket, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

// URL returns the public URL of key.
func (p *PhotoStore) URL(key string) string {
	return p.publicURL + "/" + key
}

func virtualHostURL(endpoint, bucket string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return strings.TrimRight(endpoint, "/") + "/" + bucket
	}
	u.Host = bucket + "." + u.Host
	return strings.TrimRight(u.String(), "/")
}

// isBucketAlreadyOwnedByYou checks if the error indicates the bucket exists and is owned by us.
func isBucketAlreadyOwnedByYou(err error) bool {
	if err == nil {
		return false
	}

	var baoby *types.BucketAlreadyOwnedByYou
	if errors.As(err, &baoby) {
		return true
	}

	// S3-compatible services may not return the exact SDK error types
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "BucketAlreadyOwnedByYou"
	}

	return false
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket", "NoSuchKey", "404":
			return true
		}
	}

	// HEAD responses carry no error body
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == http.StatusNotFound
	}

	return false
}

// IsAccessDenied reports whether err is a rejection of the configured
// credentials. Retrying such an error does not help.
func IsAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "Forbidden":
			return true
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == http.StatusForbidden
	}
	return false
}
