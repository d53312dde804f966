package media

import (
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Config holds the settings for an S3-compatible media backend.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS proper; set for S3-compatible services
	AccessKey string
	SecretKey string
}

// S3Storage implements Store against an S3-compatible bucket. Objects are
// uploaded with public-read so the bucket URL doubles as the public URL.
type S3Storage struct {
	cfg      S3Config
	s3Client *s3.S3
	uploader *s3manager.Uploader
}

// NewS3Storage creates a new S3-backed store
func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := s3.New(sess)
	return &S3Storage{
		cfg:      cfg,
		s3Client: client,
		uploader: s3manager.NewUploaderWithClient(client),
	}, nil
}

// Save uploads data to the bucket under relativePath.
func (s *S3Storage) Save(relativePath string, contentType string, data io.Reader) error {
	_, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(relativePath),
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
		Body:        data,
	})
	if err != nil {
		return fmt.Errorf("failed to upload '%s' to s3: %w", relativePath, err)
	}
	return nil
}

// Delete removes the object at relativePath.
func (s *S3Storage) Delete(relativePath string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(relativePath),
	})
	if err != nil {
		return fmt.Errorf("failed to delete '%s' from s3: %w", relativePath, err)
	}
	return nil
}

// PublicURL returns the bucket URL of an object.
func (s *S3Storage) PublicURL(relativePath string) string {
	key := strings.TrimLeft(relativePath, "/")
	if s.cfg.Endpoint != "" {
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
