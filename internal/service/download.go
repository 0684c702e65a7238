package service

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/model"
	"FileVault/utils"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrFilesNotFound means at least one requested uuid does not exist or does
// not belong to the requester. The whole request fails; no partial archive.
var ErrFilesNotFound = errors.New("some files were not found or do not belong to currently logged user")

// BuildArchive fetches every requested file and packages them into a single
// in-memory zip. Membership is all-or-nothing, and a single fetch failure
// aborts the request. One DOWNLOAD audit row per file is batch-inserted
// only after the archive is fully assembled.
func BuildArchive(ctx context.Context, user *model.User, fileUuids []string) ([]byte, error) {
	if len(fileUuids) == 0 {
		return nil, ErrFilesNotFound
	}
	var files []model.File
	if err := repo.Db.
		Where("uuid IN ? AND user_id = ?", fileUuids, user.ID).
		Find(&files).Error; err != nil {
		return nil, err
	}
	if len(files) != len(fileUuids) {
		return nil, ErrFilesNotFound
	}

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)
	for _, file := range files {
		if err := addArchiveEntry(ctx, zipWriter, &file); err != nil {
			return nil, fmt.Errorf("failed to download file %s: %w", file.Name, err)
		}
	}
	if err := zipWriter.Close(); err != nil {
		return nil, err
	}

	logs := make([]model.ServiceActionLog, 0, len(files))
	for _, file := range files {
		fileID := file.ID
		logs = append(logs, model.ServiceActionLog{
			UserID: user.ID,
			FileID: &fileID,
			Action: model.ActionDownload,
		})
	}
	if err := repo.Db.Create(&logs).Error; err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// addArchiveEntry streams one blob into the archive under the file's
// logical name.
func addArchiveEntry(ctx context.Context, zipWriter *zip.Writer, file *model.File) error {
	getCtx, cancel := context.WithTimeout(ctx, config.AppConfig.StorageTimeout)
	defer cancel()

	object, _, err := storage.Default.GetObject(getCtx, config.AppConfig.BucketName, file.BlobKey)
	if err != nil {
		return err
	}
	defer object.Close()

	writer, err := zipWriter.Create(utils.SanitizeFilename(file.Name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(writer, object); err != nil {
		return err
	}
	return nil
}
