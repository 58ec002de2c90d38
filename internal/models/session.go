package models

import (
	"gorm.io/gorm"
)

// ArtifactKind classifies a file inside a session directory
type ArtifactKind string

const (
	ArtifactKindOriginal     ArtifactKind = "original"
	ArtifactKindTrim         ArtifactKind = "trim"
	ArtifactKindSegment      ArtifactKind = "segment"
	ArtifactKindEqualized    ArtifactKind = "equalized"
	ArtifactKindVocals       ArtifactKind = "vocals"
	ArtifactKindInstrumental ArtifactKind = "instrumental"
)

// Session is the bookkeeping record of an upload session. The files
// themselves live in the session store.
type Session struct {
	gorm.Model
	UUID             string `json:"session_id" gorm:"uniqueIndex;not null"`
	OriginalFilename string `json:"filename"`
	StoredName       string `json:"stored_name" gorm:"not null"`
	ContentType      string `json:"content_type,omitempty"`
	Size             int64  `json:"size"`

	// Probe results; zero when ffprobe could not read the upload
	Duration   float64 `json:"duration,omitempty"`
	SampleRate int     `json:"sample_rate,omitempty"`
	Channels   int     `json:"channels,omitempty"`
	Format     string  `json:"format,omitempty"`
	Codec      string  `json:"codec,omitempty"`

	Artifacts []Artifact `json:"artifacts,omitempty" gorm:"foreignKey:SessionUUID;references:UUID"`
}

// Artifact records a file written into a session directory
type Artifact struct {
	gorm.Model
	SessionUUID string       `json:"session_id" gorm:"not null;uniqueIndex:idx_artifacts_session_file"`
	Filename    string       `json:"filename" gorm:"not null;uniqueIndex:idx_artifacts_session_file"`
	Kind        ArtifactKind `json:"kind" gorm:"not null"`
	Size        int64        `json:"size"`
	JobID       *uint        `json:"job_id,omitempty"`
}

// HasProbe reports whether ffprobe metadata was recorded
func (s *Session) HasProbe() bool {
	return s.Duration > 0
}

// TableName specifies the table name for GORM
func (Session) TableName() string {
	return "sessions"
}

// TableName specifies the table name for GORM
func (Artifact) TableName() string {
	return "artifacts"
}
