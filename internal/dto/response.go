package dto

import "time"

// FileInfo is the per-file slice of metadata exposed by the list endpoint.
type FileInfo struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileListResponse is one page of a user's files.
type FileListResponse struct {
	TotalFiles  int64      `json:"totalFiles"`
	TotalPages  int        `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
	Files       []FileInfo `json:"files"`
}

// UploadedFile records one successful part of a batch upload.
type UploadedFile struct {
	Filename string `json:"filename"`
	BlobKey  string `json:"blobKey"`
	Size     int64  `json:"size"`
}

// FailedUpload records one failed part of a batch upload.
type FailedUpload struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// MultiUploadResponse aggregates a batch upload's outcomes. A non-empty
// FailedUploads list still travels in a 200 response.
type MultiUploadResponse struct {
	Uploaded          int            `json:"uploaded"`
	Message           string         `json:"message"`
	SuccessfulUploads []UploadedFile `json:"successfulUploads"`
	FailedUploads     []FailedUpload `json:"failedUploads"`
}
