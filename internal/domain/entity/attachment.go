package entity

import "time"

// Attachment represents a file attached to a transaction
type Attachment struct {
	ID          string    `json:"id"`
	DotsNumber  string    `json:"dots_number"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"-"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// AttachmentFile is attachment content together with its metadata
type AttachmentFile struct {
	Attachment *Attachment
	Content    []byte
}
