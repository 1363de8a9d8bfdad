// Package objectstore replica los snapshots locales en un bucket
// S3-compatible y da acceso remoto a los reportes. Los archivos locales
// siguen siendo la fuente de verdad: un fallo de sync se loguea y el run
// continúa.
package objectstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

const (
	rawPrefix       = "raw/"
	processedPrefix = "processed/"
	reportPrefix    = processedPrefix + "investment_ideas_"
)

// Minio implementa ports.ObjectStore sobre cualquier API S3 (MinIO, S3,
// GCS en modo interoperable).
type Minio struct {
	client *minio.Client
	bucket string
}

// New crea el cliente y verifica que el bucket exista.
func New(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Minio, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore.New: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("objectstore.New: check bucket %q: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("objectstore.New: bucket %q does not exist", bucket)
	}
	return &Minio{client: client, bucket: bucket}, nil
}

// UploadFile sube un archivo local bajo la key dada.
func (m *Minio) UploadFile(ctx context.Context, localPath, key string) error {
	_, err := m.client.FPutObject(ctx, m.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("objectstore.UploadFile %s: %w", key, err)
	}
	return nil
}

// DownloadReport descarga el reporte de una fecha, o el más reciente si
// date es vacío.
func (m *Minio) DownloadReport(ctx context.Context, date string) (domain.Report, error) {
	if date == "" {
		dates, err := m.AvailableDates(ctx)
		if err != nil {
			return domain.Report{}, err
		}
		if len(dates) == 0 {
			return domain.Report{}, fmt.Errorf("objectstore.DownloadReport: no reports in bucket")
		}
		date = dates[0]
	}

	key := reportPrefix + date + ".json"
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return domain.Report{}, fmt.Errorf("objectstore.DownloadReport %s: %w", key, err)
	}
	defer obj.Close()

	payload, err := io.ReadAll(obj)
	if err != nil {
		return domain.Report{}, fmt.Errorf("objectstore.DownloadReport %s: %w", key, err)
	}
	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return domain.Report{}, fmt.Errorf("objectstore.DownloadReport %s: %w", key, err)
	}
	return report, nil
}

// AvailableDates lista las fechas con reporte en el bucket, descendente.
func (m *Minio) AvailableDates(ctx context.Context) ([]string, error) {
	var dates []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: reportPrefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("objectstore.AvailableDates: %w", obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, reportPrefix)
		name = strings.TrimSuffix(name, ".json")
		if name != "" {
			dates = append(dates, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}
