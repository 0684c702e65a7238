package service

import (
	"FileVault/config"
	"FileVault/internal/dto"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/internal/task"
	"FileVault/model"
	"FileVault/utils"
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"sync"
	"time"

	"github.com/google/uuid"
)

// uploadOutcome is the per-part result slot. Exactly one of uploaded/failed
// is set once the part has been processed.
type uploadOutcome struct {
	uploaded *dto.UploadedFile
	failed   *dto.FailedUpload
}

// buildBlobKey derives a collision-free object key. The timestamp prefix
// groups a batch together lexically; the file uuid keeps keys apart even
// for same-named parts started in the same millisecond.
func buildBlobKey(userUUID, fileUUID, filename string) string {
	return fmt.Sprintf("%d___%s___%s___%s", time.Now().UnixMilli(), userUUID, fileUUID, utils.SanitizeFilename(filename))
}

// BatchUpload stores every part independently: one blob write, one file row
// and one audit row per part. A part's failure never aborts its siblings;
// failures are captured into the response instead.
func BatchUpload(ctx context.Context, user *model.User, parts []*multipart.FileHeader) *dto.MultiUploadResponse {
	outcomes := make([]uploadOutcome, len(parts))

	concurrency := config.AppConfig.UploadConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, part := range parts {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, fh *multipart.FileHeader) {
			defer wg.Done()
			defer func() { <-sem }()
			uploaded, err := storeOnePart(ctx, user, fh)
			if err != nil {
				outcomes[idx] = uploadOutcome{failed: &dto.FailedUpload{
					Filename: fh.Filename,
					Error:    err.Error(),
				}}
				return
			}
			outcomes[idx] = uploadOutcome{uploaded: uploaded}
		}(i, part)
	}
	wg.Wait()

	resp := &dto.MultiUploadResponse{
		SuccessfulUploads: make([]dto.UploadedFile, 0, len(parts)),
		FailedUploads:     make([]dto.FailedUpload, 0),
	}
	for _, outcome := range outcomes {
		if outcome.uploaded != nil {
			resp.SuccessfulUploads = append(resp.SuccessfulUploads, *outcome.uploaded)
		} else if outcome.failed != nil {
			resp.FailedUploads = append(resp.FailedUploads, *outcome.failed)
		}
	}
	resp.Uploaded = len(resp.SuccessfulUploads)
	if resp.Uploaded > 0 {
		resp.Message = "Files uploaded successfully"
		_ = utils.InvalidateFileListCache(ctx, user.ID)
	} else {
		resp.Message = "No files were uploaded"
	}
	return resp
}

// storeOnePart runs the upload sequence for a single part: blob write,
// file row, audit row. The stored size reported by the object store wins
// over the client-declared size.
func storeOnePart(ctx context.Context, user *model.User, fh *multipart.FileHeader) (*dto.UploadedFile, error) {
	fileUUID := uuid.NewString()
	blobKey := buildBlobKey(user.UUID, fileUUID, fh.Filename)

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open part: %w", err)
	}
	defer src.Close()

	putCtx, cancel := context.WithTimeout(ctx, config.AppConfig.StorageTimeout)
	defer cancel()
	info, err := storage.Default.PutObject(
		putCtx,
		config.AppConfig.BucketName,
		blobKey,
		src,
		fh.Size,
		storage.PutOptions{ContentType: fh.Header.Get("Content-Type")},
	)
	if err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	file := model.File{
		UUID:    fileUUID,
		Name:    fh.Filename,
		BlobKey: blobKey,
		Size:    info.Size,
		UserID:  user.ID,
	}
	if err := repo.Db.Create(&file).Error; err != nil {
		compensateOrphanBlob(ctx, blobKey)
		return nil, fmt.Errorf("record file: %w", err)
	}

	actionLog := model.ServiceActionLog{
		UserID: user.ID,
		FileID: &file.ID,
		Action: model.ActionUpload,
	}
	if err := repo.Db.Create(&actionLog).Error; err != nil {
		return nil, fmt.Errorf("record upload action: %w", err)
	}

	return &dto.UploadedFile{
		Filename: fh.Filename,
		BlobKey:  blobKey,
		Size:     info.Size,
	}, nil
}

// compensateOrphanBlob handles a blob whose metadata insert failed. The
// policy is deliberate configuration, not a hardcoded behavior: leaked
// blobs are harmless but cost storage.
func compensateOrphanBlob(ctx context.Context, blobKey string) {
	bucket := config.AppConfig.BucketName
	switch config.AppConfig.CleanupPolicy {
	case "sync":
		rmCtx, cancel := context.WithTimeout(ctx, config.AppConfig.StorageTimeout)
		defer cancel()
		if err := storage.Default.RemoveObject(rmCtx, bucket, blobKey); err != nil {
			log.Printf("orphan blob %s not removed: %v", blobKey, err)
		}
	case "async":
		if err := task.EnqueueOrphanCleanup(ctx, bucket, blobKey); err != nil {
			log.Printf("orphan blob %s not enqueued: %v", blobKey, err)
		}
	default:
		log.Printf("orphan blob left in place: %s", blobKey)
	}
}
