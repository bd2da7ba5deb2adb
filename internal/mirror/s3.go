package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/htmlkeeper/internal/logging"
	"github.com/dmitrijs2005/htmlkeeper/internal/netx"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Config describes an S3-compatible bucket (AWS, MinIO, Aliyun OSS).
type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	BaseEndpoint string
	UsePathStyle bool

	// PublicBaseURL, when set, is used verbatim as the URL prefix for keys
	// (a CDN in front of the bucket, for example).
	PublicBaseURL string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Mirror struct {
	client objectPutter
	cfg    S3Config
	logger logging.Logger
}

// NewS3Mirror builds the SDK client once; credentials are never re-read at
// call time.
func NewS3Mirror(ctx context.Context, cfg S3Config, logger logging.Logger) (*S3Mirror, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Mirror{client: client, cfg: cfg, logger: logger}, nil
}

func (m *S3Mirror) Put(ctx context.Context, localPath, key string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", localPath, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %q: %w", localPath, err)
	}

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(fi.Size()),
		ContentType:   aws.String(contentType(localPath)),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			m.logger.Warn(ctx, "s3 put rejected", "key", key, "code", apiErr.ErrorCode(), "fault", apiErr.ErrorFault().String())
		}
		return "", fmt.Errorf("put s3://%s/%s: %w", m.cfg.Bucket, key, err)
	}

	url := m.ObjectURL(key)
	m.logger.Debug(ctx, "mirrored to s3", "key", key, "bytes", fi.Size(), "url", url)
	return url, nil
}

// ObjectURL is the public address of key.
func (m *S3Mirror) ObjectURL(key string) string {
	switch {
	case m.cfg.PublicBaseURL != "":
		return netx.JoinURL(m.cfg.PublicBaseURL, key)
	case m.cfg.BaseEndpoint != "" && m.cfg.UsePathStyle:
		return netx.JoinURL(m.cfg.BaseEndpoint, m.cfg.Bucket+"/"+key)
	case m.cfg.BaseEndpoint != "":
		return netx.VirtualHostURL(m.cfg.BaseEndpoint, m.cfg.Bucket, key)
	default:
		return netx.JoinURL(fmt.Sprintf("https://%s.s3.%s.amazonaws.com", m.cfg.Bucket, m.cfg.Region), key)
	}
}
