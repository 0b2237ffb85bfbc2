package r2

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appconfig "quizgen/internal/config"
)

// putObjectAPI is the subset of the S3 client used for uploads.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client mirrors generated artifacts to a Cloudflare R2 bucket.
type Client struct {
	s3Client   putObjectAPI
	bucketName string
	publicURL  string // Base public URL for the bucket (e.g., https://pub-xxxxxxxx.r2.dev)
	logger     *zap.Logger
}

// NewClient creates an R2 client from cfg.
// It returns (nil, nil) if R2 is not fully configured, so the application
// can run with mirroring disabled.
func NewClient(ctx context.Context, cfg appconfig.R2Config, logger *zap.Logger) (*Client, error) {
	if !cfg.Enabled() {
		logger.Warn("Cloudflare R2 not fully configured (CLOUDFLARE_ACCOUNT_ID, R2_BUCKET_NAME, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_PUBLIC_URL); artifact mirroring disabled")
		return nil, nil
	}
	if _, err := url.Parse(cfg.PublicURL); err != nil {
		return nil, fmt.Errorf("invalid R2 public URL %q: %w", cfg.PublicURL, err)
	}

	// R2 endpoint format: https://<ACCOUNT_ID>.r2.cloudflarestorage.com
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID),
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	logger.Info("R2 client initialized", zap.String("bucket", cfg.Bucket))
	return newClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.PublicURL, logger), nil
}

func newClient(api putObjectAPI, bucket, publicURL string, logger *zap.Logger) *Client {
	return &Client{
		s3Client:   api,
		bucketName: bucket,
		publicURL:  publicURL,
		logger:     logger,
	}
}

// ObjectKey returns the bucket key for an artifact: "results/<requestID>/<filename>".
func ObjectKey(requestID uuid.UUID, filename string) string {
	return fmt.Sprintf("results/%s/%s", requestID.String(), filename)
}

// UploadArtifact uploads content under ObjectKey and returns its public URL.
func (c *Client) UploadArtifact(ctx context.Context, requestID uuid.UUID, filename string, content io.Reader) (string, error) {
	if c == nil || c.s3Client == nil {
		return "", fmt.Errorf("R2 client not initialized, skipping upload")
	}

	objectKey := ObjectKey(requestID, filename)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(c.bucketName),
		Key:                aws.String(objectKey),
		Body:               content,
		ACL:                types.ObjectCannedACLPublicRead,
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to R2 (key: %s): %w", objectKey, err)
	}

	baseURL, err := url.Parse(c.publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid R2 public base URL configured: %w", err)
	}
	baseURL.Path = path.Join(baseURL.Path, objectKey)

	publicFileURL := baseURL.String()
	c.logger.Info("uploaded artifact to R2", zap.String("url", publicFileURL))
	return publicFileURL, nil
}
