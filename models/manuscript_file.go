package models

import "time"

// Manuscript file kinds.
const (
	FileKindManuscript = "manuscript"
	FileKindRevision   = "revision"
	FileKindSupplement = "supplement"
	FileKindProof      = "proof"
)

// ManuscriptFile represents an uploaded file attached to a submission.
type ManuscriptFile struct {
	FileID       uint       `gorm:"primaryKey;column:file_id" json:"file_id"`
	SubmissionID uint       `gorm:"column:submission_id" json:"submission_id"`
	FileKind     string     `gorm:"column:file_kind" json:"file_kind"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy   uint       `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Uploader *User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

// TableName overrides the table name for ManuscriptFile.
func (ManuscriptFile) TableName() string {
	return "manuscript_files"
}

// IsValidDocumentType checks the mime type against accepted manuscript formats.
func (f *ManuscriptFile) IsValidDocumentType() bool {
	validTypes := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/x-latex",
		"text/x-tex",
	}
	for _, validType := range validTypes {
		if f.MimeType == validType {
			return true
		}
	}
	return false
}

// GetFileSizeInMB returns the file size in megabytes.
func (f *ManuscriptFile) GetFileSizeInMB() float64 {
	return float64(f.FileSize) / (1024 * 1024)
}
