package entities

import "time"

// DateLayout is the format of DocumentRecord.DateUploaded.
const DateLayout = "2006-01-02 15:04:05"

type DocumentMetadata struct {
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

// DocumentRecord is the processed unit of storage produced by ingestion.
// Its JSON form is the element type of the snapshot file.
type DocumentRecord struct {
	FileName      string           `json:"file_name"`
	DateUploaded  string           `json:"date_uploaded"`
	ExtractedText string           `json:"extracted_text"`
	Summary       string           `json:"summary"`
	Metadata      DocumentMetadata `json:"metadata"`
	FolderID      *uint            `json:"folder_id,omitempty"`

	Embedding []float32 `json:"-"`
}

// Document is the relational row for a DocumentRecord.
type Document struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Filename     string    `gorm:"uniqueIndex;not null" json:"filename"`
	Text         string    `json:"text"`
	Summary      string    `json:"summary"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	Embeddings   []byte    `json:"-"`
	FolderID     *uint     `gorm:"index" json:"folder_id,omitempty"`
	DateUploaded time.Time `json:"date_uploaded"`
}
