// Package models holds the request and response bodies for the HTTP API.
package models

import (
	"time"

	"github.com/smazurov/nvencd/internal/properties"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Encoder models
type EncoderInfo struct {
	Name        string `json:"name" example:"h264_nvenc" doc:"FFmpeg codec name"`
	DisplayName string `json:"display_name" example:"NVIDIA NVENC H.264" doc:"Human-readable encoder name"`
}

type EncoderListData struct {
	Encoders []EncoderInfo `json:"encoders" doc:"Supported NVENC encoder variants"`
	Count    int           `json:"count" example:"2" doc:"Number of encoders"`
}

type EncoderListResponse struct {
	Body EncoderListData
}

// Property form models
type PropertyFormData struct {
	Variant    string                 `json:"variant" example:"h264_nvenc" doc:"Encoder variant the form describes"`
	Locked     bool                   `json:"locked" example:"false" doc:"True while a session runs and only bitrate fields are editable"`
	Properties []*properties.Property `json:"properties" doc:"Form controls in display order"`
}

type PropertyFormResponse struct {
	Body PropertyFormData
}

// Settings models
type SettingsData struct {
	Values map[string]any `json:"values" doc:"Effective value of every known settings key"`
	User   map[string]any `json:"user,omitempty" doc:"Keys with an explicit user value"`
}

type SettingsResponse struct {
	Body SettingsData
}

type SettingsPatchRequest struct {
	Body struct {
		Values map[string]any `json:"values" minProperties:"1" doc:"Settings keys to write; numbers and booleans only"`
	}
}

type SettingsResetResponse struct {
	Body struct {
		Message string `json:"message" example:"Settings reset to defaults" doc:"Status message"`
	}
}

// Preview models
type PreviewData struct {
	Variant     string   `json:"variant" example:"h264_nvenc" doc:"Encoder variant previewed"`
	Args        []string `json:"args" doc:"FFmpeg codec arguments the current settings translate to"`
	Diagnostics []string `json:"diagnostics" doc:"Human-readable effective-configuration report"`
}

type PreviewResponse struct {
	Body PreviewData
}

// Session models
type SessionStartRequest struct {
	Body struct {
		Variant string `json:"variant" enum:"h264_nvenc,hevc_nvenc" example:"h264_nvenc" doc:"Encoder variant to run"`
	}
}

type SessionProgress struct {
	Frame     int64   `json:"frame" doc:"Frames encoded so far"`
	FPS       float64 `json:"fps" doc:"Current encode rate"`
	Bitrate   string  `json:"bitrate" example:"6000.2kbits/s" doc:"Current output bitrate"`
	TotalSize int64   `json:"total_size" doc:"Bytes written so far"`
	OutTimeUS int64   `json:"out_time_us" doc:"Encoded duration in microseconds"`
	Speed     string  `json:"speed" example:"1.01x" doc:"Encode speed relative to realtime"`
	Dropped   int64   `json:"dropped" doc:"Dropped frames"`
	Duplicate int64   `json:"duplicate" doc:"Duplicated frames"`
}

type SessionStatusData struct {
	State    string           `json:"state" example:"running" doc:"Session state"`
	Variant  string           `json:"variant,omitempty" example:"h264_nvenc" doc:"Encoder variant of the session"`
	PID      int              `json:"pid,omitempty" doc:"Encoder process ID while running"`
	Started  string           `json:"started,omitempty" example:"2026-08-25T10:30:00Z" doc:"Session start time"`
	Error    string           `json:"error,omitempty" doc:"Failure reason after a failed session"`
	Progress *SessionProgress `json:"progress,omitempty" doc:"Latest encode progress sample"`
}

type SessionStatusResponse struct {
	Body SessionStatusData
}

type DiagnosticsData struct {
	Lines []string `json:"lines" doc:"Effective-configuration report captured at session start"`
}

type DiagnosticsResponse struct {
	Body DiagnosticsData
}

// Log history models
type LogEntryData struct {
	Timestamp  string         `json:"timestamp" example:"2026-08-25T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"nvenc" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogHistoryData struct {
	Entries []LogEntryData `json:"entries" doc:"Buffered log entries, oldest first"`
	Count   int            `json:"count" doc:"Number of entries"`
}

type LogHistoryResponse struct {
	Body LogHistoryData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2026-08-25 14:30" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.23.0" doc:"Go compiler version"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Update models
type UpdateCheckData struct {
	CurrentVersion  string    `json:"current_version" example:"1.2.0" doc:"Running version"`
	LatestVersion   string    `json:"latest_version" example:"1.3.0" doc:"Latest released version"`
	ReleaseNotes    string    `json:"release_notes,omitempty" doc:"Release notes for the latest version"`
	ReleaseURL      string    `json:"release_url,omitempty" doc:"Release page URL"`
	PublishedAt     time.Time `json:"published_at,omitempty" doc:"Release publish time"`
	AssetSize       int       `json:"asset_size,omitempty" doc:"Download size in bytes"`
	UpdateAvailable bool      `json:"update_available" doc:"Whether a newer version exists"`
}

type UpdateCheckResponse struct {
	Body UpdateCheckData
}

type UpdateStatusData struct {
	State           string     `json:"state" example:"idle" doc:"Updater state"`
	CurrentVersion  string     `json:"current_version" doc:"Running version"`
	TargetVersion   string     `json:"target_version,omitempty" doc:"Version being applied"`
	Progress        int        `json:"progress,omitempty" doc:"Download progress percentage"`
	Error           string     `json:"error,omitempty" doc:"Last updater error"`
	LastChecked     *time.Time `json:"last_checked,omitempty" doc:"When updates were last checked"`
	BackupAvailable bool       `json:"backup_available" doc:"Whether a rollback backup exists"`
	BackupVersion   string     `json:"backup_version,omitempty" doc:"Version of the backup binary"`
}

type UpdateStatusResponse struct {
	Body UpdateStatusData
}

type UpdateApplyResponse struct {
	Body struct {
		Message string `json:"message" example:"Update applied, restarting..." doc:"Status message"`
	}
}

type UpdateRollbackResponse struct {
	Body struct {
		Message string `json:"message" example:"Rollback complete, restarting..." doc:"Status message"`
	}
}
