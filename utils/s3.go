package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore stores uploaded receipts and hands out short-lived links to them.
type ObjectStore struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	publicURL string
	ttl       time.Duration
}

// LoadAWSConfig resolves credentials the usual SDK way, pinned to region.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
	}
	return cfg, nil
}

func NewObjectStore(client *s3.Client, bucket, publicURL string, ttl time.Duration) *ObjectStore {
	return &ObjectStore{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		ttl:       ttl,
	}
}

// Upload writes body under key and returns the key.
func (o *ObjectStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}

// URL returns a link a third party can fetch the object from. A configured public
// (CDN) URL wins; otherwise the link is a presigned GET valid for the store's TTL.
func (o *ObjectStore) URL(ctx context.Context, key string) (string, error) {
	if o.publicURL != "" {
		return fmt.Sprintf("%s/%s", o.publicURL, key), nil
	}
	req, err := o.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(o.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// DecodeDataURI accepts "data:<mime>;base64,<data>" or bare base64 and returns the
// content type (empty for bare input) and the decoded bytes.
func DecodeDataURI(s string) (string, []byte, error) {
	contentType := ""
	data := s
	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s, ",")
		if !ok {
			return "", nil, fmt.Errorf("invalid data URI")
		}
		mediaType := strings.TrimPrefix(meta, "data:")  // "image/jpeg;base64"
		contentType, _, _ = strings.Cut(mediaType, ";") // "image/jpeg"
		data = payload
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return contentType, raw, nil
}
