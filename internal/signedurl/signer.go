package signedurl

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"careerhub-utils/internal/config"
)

// Signer produces a signed URL for an object
type Signer interface {
	Sign(ctx context.Context, bucket, path string) (string, error)
}

// SignedURLClient is the part of the backend client BackendSigner needs
type SignedURLClient interface {
	SignedURL(ctx context.Context, bucket, path string) (string, error)
}

// BackendSigner asks the platform backend to sign URLs
type BackendSigner struct {
	client SignedURLClient
}

func NewBackendSigner(client SignedURLClient) *BackendSigner {
	return &BackendSigner{client: client}
}

func (b *BackendSigner) Sign(ctx context.Context, bucket, path string) (string, error) {
	return b.client.SignedURL(ctx, bucket, path)
}

// S3Signer presigns GET requests against an S3-compatible bucket locally
type S3Signer struct {
	client *s3.S3
	expiry time.Duration
}

// NewS3Signer builds a signer from the storage section of cfg. URLs are
// valid for expiry.
func NewS3Signer(cfg *config.Config, expiry time.Duration) (*S3Signer, error) {
	if cfg.Storage.AccessKeyID == "" || cfg.Storage.AccessKeySecret == "" {
		return nil, fmt.Errorf("storage credentials are required")
	}

	awsCfg := &aws.Config{
		Credentials: credentials.NewStaticCredentials(
			cfg.Storage.AccessKeyID,
			cfg.Storage.AccessKeySecret,
			"",
		),
		Region:           aws.String(cfg.Storage.Region),
		S3ForcePathStyle: aws.Bool(cfg.Storage.ForcePathStyle),
	}
	if cfg.Storage.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Storage.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create storage session: %w", err)
	}
	return &S3Signer{client: s3.New(sess), expiry: expiry}, nil
}

func (s *S3Signer) Sign(ctx context.Context, bucket, path string) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	req.SetContext(ctx)

	u, err := req.Presign(s.expiry)
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, path, err)
	}
	return u, nil
}
