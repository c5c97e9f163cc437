package configs

import (
	"time"

	"github.com/spf13/viper"
)

// Binary storage backends selectable via media.backend.
const (
	BackendRemote = "remote" // external asset host
	BackendLocal  = "local"  // local disk
	BackendS3     = "s3"     // S3-compatible object storage
)

const (
	DefaultMediaBackend       = BackendLocal
	DefaultMediaMaxUploadMB   = 5            // single-upload ceiling
	DefaultMediaMaxBatchMB    = 10           // per-entry ceiling on the batch endpoint
	DefaultMediaMaxWidth      = 1920         // resize bound
	DefaultMediaMaxHeight     = 1920         // resize bound
	DefaultMediaLocalRoot     = "data/media" // local backend root directory
	DefaultMediaPublicPrefix  = "/static"    // public URL prefix for local assets
	DefaultMediaScanMaxDepth  = 6            // recursion bound for the scanner
	DefaultMediaPickerDelayMS = 300          // inter-item delay in the picker bridge
	DefaultMediaThumbWidth    = 320          // local backend thumbnail bound
)

type (
	// MediaConfig holds the ingestion pipeline settings.
	MediaConfig struct {
		Backend       string   `mapstructure:"backend"         rule:"oneof=remote local s3"`
		MaxUploadMB   int      `mapstructure:"max_upload_mb"   rule:"min=1,max=64"`
		MaxBatchMB    int      `mapstructure:"max_batch_mb"    rule:"min=1,max=64"`
		MaxWidth      int      `mapstructure:"max_width"       rule:"min=16"`
		MaxHeight     int      `mapstructure:"max_height"      rule:"min=16"`
		LocalRoot     string   `mapstructure:"local_root"`
		PublicPrefix  string   `mapstructure:"public_prefix"`
		ScanDirs      []string `mapstructure:"scan_dirs"`
		ScanMaxDepth  int      `mapstructure:"scan_max_depth"  rule:"min=1,max=32"`
		ScanRehost    bool     `mapstructure:"scan_rehost"`
		PickerDelayMS int      `mapstructure:"picker_delay_ms" rule:"min=0"`
		ThumbWidth    int      `mapstructure:"thumb_width"     rule:"min=16"`
	}
)

// MaxUploadBytes returns the single-upload size ceiling in bytes.
func (m *MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) << 20
}

// MaxBatchBytes returns the per-entry size ceiling for batch uploads in bytes.
func (m *MediaConfig) MaxBatchBytes() int64 {
	return int64(m.MaxBatchMB) << 20
}

// GetPickerDelay returns the inter-item delay used by the asset-picker bridge.
func (m *MediaConfig) GetPickerDelay() time.Duration {
	return time.Duration(m.PickerDelayMS) * time.Millisecond
}

func (m *MediaConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("media.backend", DefaultMediaBackend)
	v.SetDefault("media.max_upload_mb", DefaultMediaMaxUploadMB)
	v.SetDefault("media.max_batch_mb", DefaultMediaMaxBatchMB)
	v.SetDefault("media.max_width", DefaultMediaMaxWidth)
	v.SetDefault("media.max_height", DefaultMediaMaxHeight)
	v.SetDefault("media.local_root", DefaultMediaLocalRoot)
	v.SetDefault("media.public_prefix", DefaultMediaPublicPrefix)
	v.SetDefault("media.scan_dirs", []string{"public/images"})
	v.SetDefault("media.scan_max_depth", DefaultMediaScanMaxDepth)
	v.SetDefault("media.scan_rehost", false)
	v.SetDefault("media.picker_delay_ms", DefaultMediaPickerDelayMS)
	v.SetDefault("media.thumb_width", DefaultMediaThumbWidth)
}
