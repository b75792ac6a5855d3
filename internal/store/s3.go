package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"stockledger/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// S3Store keeps one object per portfolio under a key prefix of a bucket.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	codec    Codec
	log      *logrus.Logger
}

func NewS3Store(client *s3.Client, bucket, prefix string, codec Codec, log *logrus.Logger) *S3Store {
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
		codec:    codec,
		log:      log,
	}
}

func (s *S3Store) key(name string) (string, error) {
	base, err := blobName(name)
	if err != nil {
		return "", err
	}
	return s.prefix + base, nil
}

func (s *S3Store) Load(ctx context.Context, name string) (models.Snapshot, error) {
	key, err := s.key(name)
	if err != nil {
		return models.Snapshot{}, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return models.Snapshot{}, models.ErrPortfolioNotFound
		}
		return models.Snapshot{}, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()
	b, err := io.ReadAll(out.Body)
	if err != nil {
		return models.Snapshot{}, err
	}
	return decode(s.codec, b)
}

// Save replaces the object in one PUT; readers never see a partial blob.
func (s *S3Store) Save(ctx context.Context, snap models.Snapshot) error {
	key, err := s.key(snap.Name)
	if err != nil {
		return err
	}
	b, err := s.codec.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", s.codec.Name(), err)
	}
	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String(s.codec.ContentType()),
	}); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	s.log.Debugf("uploaded s3://%s/%s (%d bytes)", s.bucket, key, len(b))
	return nil
}
