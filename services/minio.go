package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	appcontext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	log "github.com/sirupsen/logrus"
)

// MinIOService stores POI datasets. It stays disabled when MINIO_ENDPOINT is
// not set; callers check Enabled.
type MinIOService struct {
	appcontext.DefaultService
	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
}

const MINIO_SVC = "minio_svc"

// maxDatasetSize bounds how much of an object GetObjectText reads.
const maxDatasetSize = 64 << 20

func (svc MinIOService) Id() string {
	return MINIO_SVC
}

func (svc *MinIOService) Configure(ctx *appcontext.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	if svc.accessKey == "" {
		svc.accessKey = "admin"
	}

	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	if svc.secretKey == "" {
		svc.secretKey = "password123"
	}

	svc.useSSL = shared.GetEnvBool("MINIO_USE_SSL", false)

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "poi-datasets"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MinIOService) Start() error {
	if svc.endpoint == "" {
		log.Info("MinIO not configured, dataset storage disabled")
		return nil
	}

	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(context.Background()); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("MinIO service started successfully with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *MinIOService) Enabled() bool {
	return svc.client != nil
}

func (svc *MinIOService) ensureBucket(ctx context.Context) error {
	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("Created MinIO bucket: %s", svc.bucketName)
	}

	return nil
}

// GetObjectText reads a whole dataset object as text.
func (svc *MinIOService) GetObjectText(ctx context.Context, objectName string) (string, error) {
	if svc.client == nil {
		return "", fmt.Errorf("dataset storage is not configured")
	}

	obj, err := svc.client.GetObject(ctx, svc.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get object %s: %w", objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxDatasetSize))
	if err != nil {
		return "", fmt.Errorf("failed to read object %s: %w", objectName, err)
	}

	return string(data), nil
}

// PutText uploads text under objectName.
func (svc *MinIOService) PutText(ctx context.Context, objectName, text, contentType string) (*minio.UploadInfo, error) {
	if svc.client == nil {
		return nil, fmt.Errorf("dataset storage is not configured")
	}

	uploadInfo, err := svc.client.PutObject(ctx, svc.bucketName, objectName, bytes.NewReader([]byte(text)), int64(len(text)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to MinIO: %v", err)
	}

	return &uploadInfo, nil
}
