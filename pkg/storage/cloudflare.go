package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	internalConfig "github.com/genscoutai/genscout-backend/internal/config"
	"go.uber.org/zap"
)

// CloudflareStorage R2'ye S3 API üzerinden yazar
type CloudflareStorage struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

func NewCloudflareStorage(cfg internalConfig.R2Config, logger *zap.Logger) (*CloudflareStorage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	})

	return &CloudflareStorage{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.Named("r2"),
	}, nil
}

// Upload dosyayı R2'ye yükler
func (s *CloudflareStorage) Upload(ctx context.Context, key, contentType string, src io.Reader) error {
	// R2 PutObject için içerik uzunluğu gerekli
	buf, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws.Int64(int64(len(buf))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Warn("r2 upload failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to upload to R2: %w", err)
	}

	s.logger.Debug("r2 upload done", zap.String("key", key), zap.Int("bytes", len(buf)))
	return nil
}
