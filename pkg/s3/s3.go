package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const uriScheme = "s3://"

var ErrInvalidURI = errors.New("invalid s3 uri")

type ItfS3 interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

type s3Client struct {
	client *s3.S3
}

func New() (ItfS3, error) {
	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	return &s3Client{
		client: s3.New(sess),
	}, nil
}

func (s *s3Client) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer func() {
		_ = out.Body.Close()
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}

	return data, nil
}

// IsURI reports whether location points into a bucket.
func IsURI(location string) bool {
	return strings.HasPrefix(location, uriScheme)
}

// ParseURI splits "s3://bucket/path/to/key" into bucket and key.
func ParseURI(uri string) (bucket string, key string, err error) {
	if !IsURI(uri) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}

	bucket, key, found := strings.Cut(strings.TrimPrefix(uri, uriScheme), "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}

	return bucket, key, nil
}

func newSession() (*session.Session, error) {
	cfg := &aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
	}

	// Without static keys the SDK's default chain applies.
	if id := os.Getenv("AWS_ACCESS_KEY_ID"); id != "" {
		cfg.Credentials = credentials.NewStaticCredentials(
			id,
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}

	return sess, nil
}
