// Package types defines the request, response and result shapes exchanged
// between the HTTP layer and the services.
package types

import "github.com/ridgeline/mediavault/pkg/internal/model"

// APIResponse is the envelope returned by every endpoint.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// IngestMeta is the caller-supplied classification attached to uploads.
type IngestMeta struct {
	Type    string   `form:"type"    json:"type"    rule:"required"`
	Section string   `form:"section" json:"section"`
	Tags    []string `form:"tags"    json:"tags"`
	Alt     string   `form:"alt"     json:"alt"`
	Title   string   `form:"title"   json:"title"`
}

// IngestFile is one in-memory upload candidate.
type IngestFile struct {
	Name string
	Data []byte
}

// Ingest result codes, also used for picker commits.
const (
	IngestOK          = "ok"
	IngestValidation  = "validation"
	IngestRateLimited = "rate_limited"
	IngestStorage     = "storage"
)

// IngestResult is the per-file outcome of an upload batch. The result slice
// always has one entry per input file, in input order.
type IngestResult struct {
	Name   string             `json:"name"`
	OK     bool               `json:"ok"`
	Code   string             `json:"code,omitempty"`
	Error  string             `json:"error,omitempty"`
	Record *model.AssetRecord `json:"record,omitempty"`
}

// ListQuery selects and pages asset records.
type ListQuery struct {
	Page     int    `form:"page"     rule:"omitempty,min=1"`
	Limit    int    `form:"limit"    rule:"omitempty,min=1,max=100"`
	Type     string `form:"type"`
	Section  string `form:"section"`
	Search   string `form:"search"`
	IsActive string `form:"isActive" rule:"omitempty,oneof=true false"`
	Tags     string `form:"tags"`
	Sort     string `form:"sort"`
}

// ListResult is a page of asset records.
type ListResult struct {
	Items []model.AssetRecord `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// Scan statuses recorded per file.
const (
	ScanCreated  = "created"
	ScanExisting = "existing"
	ScanError    = "error"
)

// ScanDetail is the outcome for a single scanned file.
type ScanDetail struct {
	Path     string `json:"path"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	RecordID string `json:"recordId,omitempty"`
}

// ScanOutcome is the report produced by the filesystem reconciliation job.
// It is never persisted.
type ScanOutcome struct {
	TotalSeen     int          `json:"totalSeen"`
	CreatedCount  int          `json:"createdCount"`
	ExistingCount int          `json:"existingCount"`
	ErrorCount    int          `json:"errorCount"`
	Details       []ScanDetail `json:"details"`
}

// ScanRequest is the body of POST /images/import-local and
// POST /images/check-paths.
type ScanRequest struct {
	Directories []string `json:"directories"`
	Rehost      bool     `json:"rehost"`
}

// PickedAsset is one selection returned by the in-browser asset picker.
// The asset is already hosted; commit only registers metadata.
type PickedAsset struct {
	RemoteID  string `json:"publicId"  rule:"required"`
	URL       string `json:"url"       rule:"required"`
	SecureURL string `json:"secureUrl"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
}

// PickerRequest is the body of POST /images/cloudinary.
type PickerRequest struct {
	Assets []PickedAsset `json:"assets" rule:"required,min=1,dive"`
	Meta   IngestMeta    `json:"meta"`
}

// PickerResult is the per-asset outcome of a picker commit. One entry per
// input asset, in input order; failed entries carry the error.
type PickerResult struct {
	RemoteID string             `json:"remoteId"`
	OK       bool               `json:"ok"`
	Code     string             `json:"code,omitempty"`
	Error    string             `json:"error,omitempty"`
	Record   *model.AssetRecord `json:"record,omitempty"`
}
