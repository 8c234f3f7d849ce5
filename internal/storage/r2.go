package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"gifts-backend/internal/config"
)

// R2Store uploads invoice documents to a Cloudflare R2 bucket through the
// S3-compatible API.
type R2Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewR2Store builds the S3 client against the R2 endpoint. Returns an error
// when the storage settings are incomplete so the caller can run without
// document uploads.
func NewR2Store(ctx context.Context, cfg *config.Config) (*R2Store, error) {
	st := cfg.Storage
	if st.Endpoint == "" || st.AccessKey == "" || st.SecretKey == "" || st.Bucket == "" {
		return nil, errors.New("object storage is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			st.AccessKey,
			st.SecretKey,
			"",
		)),
		awsconfig.WithRegion(st.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure R2 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(st.Endpoint)
	})

	return &R2Store{
		client:        client,
		bucket:        st.Bucket,
		publicBaseURL: strings.TrimRight(st.PublicBaseURL, "/"),
	}, nil
}

// UploadDocument stores the document under key and returns the URL it is
// reachable at.
func (s *R2Store) UploadDocument(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	log.Printf("[Storage] uploaded %s (%d bytes)", key, len(body))
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// IsHealthy probes the bucket with a cheap list call.
func (s *R2Store) IsHealthy(ctx context.Context) bool {
	_, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(1),
	})
	return err == nil
}
