package types

import (
	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/sessionstore"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// MessageResponse is a bare message
type MessageResponse struct {
	Message string `json:"message" example:"WebAudio Studio API"`
}

// UploadResponse is returned by POST /upload
type UploadResponse struct {
	SessionID string `json:"session_id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	Filename  string `json:"filename" example:"clip.wav"`
	FilePath  string `json:"file_path"`
}

// TrimResponse is returned by POST /trim
type TrimResponse struct {
	Message    string  `json:"message" example:"Trim operation requested"`
	StartTime  float64 `json:"start_time" example:"1.5"`
	EndTime    float64 `json:"end_time" example:"4"`
	Crossfade  float64 `json:"crossfade" example:"0"`
	OutputFile string  `json:"output_file"`
	JobID      uint    `json:"job_id"`
}

// SplitResponse is returned by POST /split
type SplitResponse struct {
	Message     string    `json:"message" example:"Split operation requested"`
	SplitPoints []float64 `json:"split_points"`
	OutputFiles []string  `json:"output_files"`
	JobID       uint      `json:"job_id"`
}

// EqualizeResponse is returned by POST /equalize
type EqualizeResponse struct {
	Message    string `json:"message" example:"Equalizer applied"`
	EQValues   []int  `json:"eq_values"`
	OutputFile string `json:"output_file"`
	JobID      uint   `json:"job_id"`
}

// ExtractVocalsResponse is returned by POST /extract-vocals
type ExtractVocalsResponse struct {
	Message          string `json:"message" example:"Vocal extraction requested"`
	VocalsFile       string `json:"vocals_file"`
	InstrumentalFile string `json:"instrumental_file"`
	JobID            uint   `json:"job_id"`
}

// SessionResponse describes a session, its files and its recent jobs
type SessionResponse struct {
	Session *models.Session         `json:"session"`
	Files   []sessionstore.Artifact `json:"files"`
	Jobs    []*models.Job           `json:"jobs"`
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}
