package files

import "time"

// FileResponse is the API representation of a media file record.
type FileResponse struct {
	FileID           int64     `json:"fileId"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"originalFilename"`
	FileType         string    `json:"fileType"`
	MimeType         string    `json:"mimeType"`
	FileSize         int64     `json:"fileSize"`
	FileKey          string    `json:"fileKey"`
	IsPublic         bool      `json:"isPublic"`
	PublicURL        string    `json:"publicUrl,omitempty"`
	AthleteID        *int64    `json:"athleteId,omitempty"`
	Width            *int      `json:"width,omitempty"`
	Height           *int      `json:"height,omitempty"`
	Duration         *float64  `json:"duration,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// PresignedUploadResponse pairs the created record with the upload URL.
type PresignedUploadResponse struct {
	File             FileResponse `json:"file"`
	UploadURL        string       `json:"uploadUrl"`
	ExpiresInSeconds int64        `json:"expiresInSeconds"`
}

// PresignedDownloadResponse carries a time-limited download URL.
type PresignedDownloadResponse struct {
	DownloadURL      string `json:"downloadUrl"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

func toResponse(f MediaFile) FileResponse {
	return FileResponse{
		FileID:           f.ID,
		Filename:         f.Filename,
		OriginalFilename: f.OriginalFilename,
		FileType:         f.FileType,
		MimeType:         f.MimeType,
		FileSize:         f.FileSize,
		FileKey:          f.FileKey,
		IsPublic:         f.IsPublic,
		PublicURL:        f.PublicURL,
		AthleteID:        f.AthleteID,
		Width:            f.Width,
		Height:           f.Height,
		Duration:         f.Duration,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}
