package service

import (
	"FileVault/internal/dto"
	"FileVault/internal/repo"
	"FileVault/model"
	"FileVault/utils"
	"time"

	"golang.org/x/net/context"
)

const fileListCacheTTL = 5 * time.Minute

// ListFiles returns one page of the user's file metadata along with the
// total count and page count. Pages are 1-based; a page beyond the range
// yields an empty list, not an error.
func ListFiles(ctx context.Context, userID uint64, page, pageSize int) (*dto.FileListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 30
	}

	if cached, ok := utils.GetFileListFromCache(ctx, userID, page, pageSize); ok {
		return cached, nil
	}

	var total int64
	if err := repo.Db.Model(&model.File{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var files []model.File
	if err := repo.Db.
		Where("user_id = ?", userID).
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&files).Error; err != nil {
		return nil, err
	}

	infos := make([]dto.FileInfo, 0, len(files))
	for _, file := range files {
		infos = append(infos, dto.FileInfo{
			UUID:      file.UUID,
			Name:      file.Name,
			Size:      file.Size,
			CreatedAt: file.CreatedAt,
		})
	}

	resp := &dto.FileListResponse{
		TotalFiles:  total,
		TotalPages:  int((total + int64(pageSize) - 1) / int64(pageSize)),
		CurrentPage: page,
		Files:       infos,
	}
	_ = utils.SetFileListToCache(ctx, userID, page, pageSize, resp, fileListCacheTTL)
	return resp, nil
}
