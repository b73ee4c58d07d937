package checks

import (
	"context"
	"fmt"

	"geosync/core/storage"

	"github.com/minio/minio-go/v7"
)

// StorageReport strictly types the result of a storage integrity check.
type StorageReport struct {
	Bucket  string                  `json:"bucket"`
	Exists  bool                    `json:"exists"`
	Objects map[string]ObjectReport `json:"objects"`
}

// ObjectReport describes one checked storage object.
type ObjectReport struct {
	Status string `json:"status"` // "ok", "missing", "error"
	Size   int64  `json:"size,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CheckStorage verifies that the bucket exists and that every given
// object is reachable. Source exports and the polygon layer both live
// in the bucket; a missing object here explains a failing run before
// the run is attempted.
func CheckStorage(ctx context.Context, client storage.Client, bucket string, objects []string) (*StorageReport, error) {
	report := &StorageReport{
		Bucket:  bucket,
		Objects: make(map[string]ObjectReport),
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if !exists {
		return report, nil
	}

	for _, object := range objects {
		info, err := client.StatObject(ctx, bucket, object, minio.StatObjectOptions{})
		switch {
		case err == nil:
			report.Objects[object] = ObjectReport{Status: "ok", Size: info.Size}
		case minio.ToErrorResponse(err).Code == "NoSuchKey":
			report.Objects[object] = ObjectReport{Status: "missing"}
		default:
			report.Objects[object] = ObjectReport{Status: "error", Error: err.Error()}
		}
	}

	return report, nil
}
