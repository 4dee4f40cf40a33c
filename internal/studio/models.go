package studio

import (
	"strings"

	"reel/internal/lockcfg"
)

// ProfileMode distinguishes fictional characters from profiles depicting a
// real person.
type ProfileMode string

const (
	ModeFictional    ProfileMode = "fictional"
	ModeRealIdentity ProfileMode = "real_identity"
)

// Profile is a video character profile as represented by the service.
type Profile struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Mode           ProfileMode         `json:"mode"`
	ConsentChecked bool                `json:"consent_checked"`
	References     []string            `json:"reference_images"`
	Lock           *lockcfg.LockConfig `json:"generation_lock,omitempty"`
	CreatedAt      string              `json:"created_at,omitempty"`
	UpdatedAt      string              `json:"updated_at,omitempty"`
}

// RequiresConsent reports whether the profile depicts a real person and so
// needs explicit consent before generation.
func (p *Profile) RequiresConsent() bool {
	return p != nil && p.Mode == ModeRealIdentity
}

// ProfileCreate is the payload for creating a profile. References are
// attached through the separate references call, not at creation.
type ProfileCreate struct {
	Name           string              `json:"name" validate:"required,max=200"`
	Mode           ProfileMode         `json:"mode" validate:"required,oneof=fictional real_identity"`
	ConsentChecked bool                `json:"consent_checked"`
	Lock           *lockcfg.LockConfig `json:"generation_lock,omitempty"`
}

// ProfileUpdate is a partial update; nil fields are left unchanged.
type ProfileUpdate struct {
	Name           *string             `json:"name,omitempty"`
	Mode           *ProfileMode        `json:"mode,omitempty"`
	ConsentChecked *bool               `json:"consent_checked,omitempty"`
	Lock           *lockcfg.LockConfig `json:"generation_lock,omitempty"`
}

// JobStatus is the lifecycle state of a generation job.
type JobStatus string

const (
	StatusWaiting   JobStatus = "waiting"
	StatusRunning   JobStatus = "running"
	StatusEncoding  JobStatus = "encoding"
	StatusCompleted JobStatus = "completed"
	StatusError     JobStatus = "error"
	StatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether the job will never change state again.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusError, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanCancel reports whether a cancel request is meaningful for this state.
func (s JobStatus) CanCancel() bool {
	switch s {
	case StatusWaiting, StatusRunning, StatusEncoding:
		return true
	default:
		return false
	}
}

// Display returns the status formatted for human output.
func (s JobStatus) Display() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Job is a generation job as represented by the service. Progress runs 0 to
// 100. Request echoes the submitted parameters opaquely.
type Job struct {
	ID            string         `json:"id"`
	ProfileID     string         `json:"profile_id"`
	Status        JobStatus      `json:"status"`
	Progress      float64        `json:"progress"`
	Error         string         `json:"error,omitempty"`
	OutputVideoID string         `json:"output_video_id,omitempty"`
	Request       map[string]any `json:"request,omitempty"`
	CreatedAt     string         `json:"created_at,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
}

// Asset is a generated video asset.
type Asset struct {
	ID        string  `json:"id"`
	Filename  string  `json:"filename,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
	FPS       int     `json:"fps,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	Path      string  `json:"path,omitempty"`
	ProfileID string  `json:"profile_id,omitempty"`
}

// GenerateRequest is the payload for submitting a generation job. Prompt,
// duration, and fps may be omitted; the service applies its defaults. Bounds
// mirror what the service accepts so bad requests fail before the network.
type GenerateRequest struct {
	ProfileID      string `json:"profile_id" validate:"required"`
	Prompt         string `json:"prompt,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	DurationSec    int    `json:"duration_sec,omitempty" validate:"omitempty,min=1,max=30"`
	FPS            int    `json:"fps,omitempty" validate:"omitempty,min=4,max=60"`
	Width          int    `json:"width" validate:"min=256,max=1920"`
	Height         int    `json:"height" validate:"min=256,max=1920"`
}
