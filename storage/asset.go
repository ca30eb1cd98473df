package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vidtube/domain"
	"vidtube/errs"
)

// MaxUploadSize caps a single asset upload.
const MaxUploadSize int64 = 100 << 20 // 100 Megabyte

// allowedTypes maps acceptable content types to their expected extensions.
var allowedTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"video/mp4":  {".mp4"},
	"video/webm": {".webm"},
}

// AssetService stores opaque media assets in an S3-compatible object store
// and hands back {referenceID, url, duration} tuples that records consume
// verbatim. The bytes themselves are never interpreted here.
// It implements the domain.AssetService interface.
type AssetService struct {
	assetValidator
}

// assetValidator runs validations on incoming uploads.
// On success, it passes the upload on to assetMinio.
// Otherwise, it returns the error of the validation that has failed.
type assetValidator struct {
	assetMinio
}

// assetMinio talks to the object store. It assumes the upload has been
// validated.
type assetMinio struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewAssetService connects to the object store and ensures the bucket exists.
func NewAssetService(endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*AssetService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &AssetService{
		assetValidator{
			assetMinio{
				client:    client,
				bucket:    bucket,
				publicURL: strings.TrimRight(publicURL, "/"),
			},
		},
	}, nil
}

// Ensure the AssetService struct properly implements the domain.AssetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.AssetService = &AssetService{}

// Upload runs validations needed before storing a new asset.
func (av *assetValidator) Upload(ctx context.Context, upload domain.AssetUpload) (*domain.AssetRef, error) {
	err := runAssetValFns(&upload,
		av.fileRequired,
		av.belowMaxSize,
		av.contentTypeAllowed,
		av.extensionMatchesType)
	if err != nil {
		return nil, err
	}
	return av.assetMinio.Upload(ctx, upload)
}

// runAssetValFns runs any number of functions of type assetValFn on the
// passed in upload. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runAssetValFns(upload *domain.AssetUpload, fns ...assetValFn) error {
	for _, fn := range fns {
		if err := fn(upload); err != nil {
			return err
		}
	}
	return nil
}

// An assetValFn is any function that takes in a pointer to a
// domain.AssetUpload and returns an error.
type assetValFn func(upload *domain.AssetUpload) error

func (av *assetValidator) fileRequired(upload *domain.AssetUpload) error {
	if upload.File == nil || upload.Size <= 0 {
		return errs.Errorf(errs.EINVALID, "Asset file is required.")
	}
	return nil
}

func (av *assetValidator) belowMaxSize(upload *domain.AssetUpload) error {
	if upload.Size > MaxUploadSize {
		return errs.Errorf(errs.EINVALID, "Asset exceeds the maximum upload size.")
	}
	return nil
}

func (av *assetValidator) contentTypeAllowed(upload *domain.AssetUpload) error {
	if _, ok := allowedTypes[upload.ContentType]; !ok {
		return errs.Errorf(errs.EINVALID, "Content type %q is not supported.", upload.ContentType)
	}
	return nil
}

func (av *assetValidator) extensionMatchesType(upload *domain.AssetUpload) error {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	for _, allowed := range allowedTypes[upload.ContentType] {
		if ext == allowed {
			return nil
		}
	}
	return errs.Errorf(errs.EINVALID, "File extension %q does not match content type %q.", ext, upload.ContentType)
}

// Upload stores the asset under a fresh uuid key and returns the reference
// tuple. The duration is passed through from the caller untouched.
func (am *assetMinio) Upload(ctx context.Context, upload domain.AssetUpload) (*domain.AssetRef, error) {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(upload.Filename))
	_, err := am.client.PutObject(ctx, am.bucket, key, upload.File, upload.Size,
		minio.PutObjectOptions{ContentType: upload.ContentType})
	if err != nil {
		return nil, errs.Errorf(errs.EUNAVAILABLE, "Asset upload failed: %v", err)
	}
	return &domain.AssetRef{
		ReferenceID: key,
		URL:         fmt.Sprintf("%s/%s/%s", am.publicURL, am.bucket, key),
		Duration:    upload.Duration,
	}, nil
}

// Delete removes the asset with the given reference id. Callers treat a
// failure here as a non-fatal inconsistency, mirroring the cascade rules.
func (am *assetMinio) Delete(ctx context.Context, referenceID string) error {
	if referenceID == "" {
		return nil
	}
	err := am.client.RemoveObject(ctx, am.bucket, referenceID, minio.RemoveObjectOptions{})
	if err != nil {
		return errs.Errorf(errs.EUNAVAILABLE, "Asset delete failed: %v", err)
	}
	return nil
}
