// Package archive ships the timelines of finished bookings to object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/deeptimaan-k/radiantgo-sub000/config"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
)

// Archiver stores a finished booking and returns where it was written.
type Archiver interface {
	Archive(ctx context.Context, booking *domain.Booking) (string, error)
}

// Uploader is the subset of manager.Uploader used here.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Archiver writes bookings to
//
//	s3://<bucket>/<prefix>/bookings/YYYY/MM/DD/<ref_id>.json
//
// where the date is that of the booking's final event.
type S3Archiver struct {
	bucket   string
	prefix   string
	uploader Uploader
}

// NewS3Archiver loads AWS credentials from the environment. A non-empty
// endpoint switches to path-style addressing for S3-compatible stores.
func NewS3Archiver(ctx context.Context, cfg config.ArchiveConfig) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket required")
	}

	var loadOpts []func(*awsConfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsConfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3ArchiverWithUploader(cfg.Bucket, cfg.Prefix, manager.NewUploader(client)), nil
}

func NewS3ArchiverWithUploader(bucket, prefix string, uploader Uploader) *S3Archiver {
	return &S3Archiver{bucket: bucket, prefix: prefix, uploader: uploader}
}

func (a *S3Archiver) ObjectKey(booking *domain.Booking) string {
	ts := booking.UpdatedAt
	if last, ok := booking.LastEvent(); ok {
		ts = last.Timestamp
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	year, month, day := ts.UTC().Date()
	return path.Join(a.prefix, "bookings",
		fmt.Sprintf("%04d", year),
		fmt.Sprintf("%02d", int(month)),
		fmt.Sprintf("%02d", day),
		booking.RefID+".json",
	)
}

func (a *S3Archiver) Archive(ctx context.Context, booking *domain.Booking) (string, error) {
	if booking == nil {
		return "", fmt.Errorf("nil booking")
	}
	body, err := json.Marshal(booking)
	if err != nil {
		return "", fmt.Errorf("encode booking %s: %w", booking.RefID, err)
	}

	key := a.ObjectKey(booking)
	_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(a.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(body),
		ContentType:          aws.String("application/json"),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return key, nil
}

var _ Archiver = (*S3Archiver)(nil)
