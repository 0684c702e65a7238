package task

import (
	"FileVault/internal/mq"
	"context"
	"encoding/json"
)

// CleanupMessage asks the worker to remove a blob that has no metadata row.
type CleanupMessage struct {
	Bucket  string `json:"bucket"`
	BlobKey string `json:"blob_key"`
	Attempt int    `json:"attempt"`
}

// EnqueueOrphanCleanup publishes a cleanup task for an unreferenced blob.
func EnqueueOrphanCleanup(ctx context.Context, bucket, blobKey string) error {
	msg := CleanupMessage{
		Bucket:  bucket,
		BlobKey: blobKey,
		Attempt: 0,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	publisher, err := mq.GetPublisher()
	if err != nil {
		return err
	}
	return publisher.PublishTask(ctx, body)
}
