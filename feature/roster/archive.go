package roster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"roster-sync/core/storage"
	"roster-sync/feature/roster/models"
	"roster-sync/feature/roster/source"

	"github.com/minio/minio-go/v7"
)

// LatestSnapshot selects the newest snapshot of a company for replays.
const LatestSnapshot = "latest"

// ErrNoSnapshot is returned when a company has no archived payload.
var ErrNoSnapshot = errors.New("no archived snapshot")

const snapshotTimeLayout = "20060102T150405Z"

// Archive stores raw source payloads in object storage so a run can be
// audited or replayed without calling the API again.
type Archive struct {
	client storage.Client
	bucket string
}

// NewArchive creates an Archive writing to bucket.
func NewArchive(client storage.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// Save writes the payload body and returns its object key,
// {company}/{fetched at}-{run id}.json.
func (a *Archive) Save(ctx context.Context, p *source.Payload, runID string) (string, error) {
	key := fmt.Sprintf("%s/%s-%s.json", p.Company, p.FetchedAt.UTC().Format(snapshotTimeLayout), runID)

	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(p.Body), int64(len(p.Body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return key, nil
}

// Load reads a snapshot back. The company is taken from the key prefix.
func (a *Archive) Load(ctx context.Context, key string) (*source.Payload, error) {
	company, _, ok := strings.Cut(key, "/")
	if !ok {
		return nil, fmt.Errorf("invalid snapshot key %q", key)
	}

	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", key, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	employees, err := source.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", key, err)
	}

	return &source.Payload{
		Company:   models.Company(company),
		Body:      body,
		Employees: employees,
	}, nil
}

// Latest returns the key of the newest snapshot of company.
func (a *Archive) Latest(ctx context.Context, company models.Company) (string, error) {
	var latest string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    string(company) + "/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return "", fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		// Keys embed a sortable timestamp.
		if obj.Key > latest {
			latest = obj.Key
		}
	}

	if latest == "" {
		return "", fmt.Errorf("%w for %s", ErrNoSnapshot, company)
	}
	return latest, nil
}
