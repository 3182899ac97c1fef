// Package service holds the pieces of business logic that don't belong
// in a handler, currently the avatar media storage
package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	a "devlink/connect-api/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AvatarStore puts profile images somewhere public and returns the URL
// to persist on the user record. The S3 implementation is the only
// real one, tests stub this out
type AvatarStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (url string, err error)
}

type S3AvatarStore struct {
	S3        *a.S3Client
	publicURL string
}

func NewS3AvatarStore(c *a.S3Client) *S3AvatarStore {
	return &S3AvatarStore{
		S3:        c,
		publicURL: strings.TrimSuffix(viper.GetString("aws.public_url"), "/"),
	}
}

// Upload stores a single avatar object. Avatars are small so a plain
// PutObject is enough, no multipart upload needed
func (s *S3AvatarStore) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	ctx, cancel := context.WithDeadline(ctx, time.Now().Add(time.Minute))
	defer cancel()

	_, err := s.S3.C.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        s.S3.Bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar to s3, %w", err)
	}

	zap.L().Debug("Avatar uploaded", zap.String("key", key))

	return s.publicURL + "/" + key, nil
}
