// Package media stores uploaded assets (logos, gallery images, payment QR
// codes, voice intros) in object storage and hands back URLs. The config
// document only ever holds the returned URL, never binary content.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"micropage/api/internal/util"
)

// Kind classifies an upload; it becomes the object key prefix.
type Kind string

const (
	KindLogo        Kind = "logo"
	KindGallery     Kind = "gallery"
	KindService     Kind = "service"
	KindTestimonial Kind = "testimonial"
	KindPaymentQR   Kind = "payment-qr"
	KindVoice       Kind = "voice"
	KindSnapshot    Kind = "snapshot"
)

func ValidKind(k Kind) bool {
	switch k {
	case KindLogo, KindGallery, KindService, KindTestimonial, KindPaymentQR, KindVoice, KindSnapshot:
		return true
	}
	return false
}

// Service is the upload collaborator backed by a MinIO-compatible store.
type Service struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func New(endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*Service, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &Service{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *Service) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload stores one asset and returns its public URL. The original filename
// only contributes its extension; the key is generated.
func (s *Service) Upload(ctx context.Context, kind Kind, filename, contentType string, r io.Reader, size int64) (string, error) {
	if !ValidKind(kind) {
		return "", fmt.Errorf("unknown upload kind %q", kind)
	}
	key := string(kind) + "/" + util.NewID("") + path.Ext(filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.publicURL + "/" + s.bucket + "/" + key, nil
}

// Remove deletes one stored asset by its object key.
func (s *Service) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
