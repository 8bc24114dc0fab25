// Package configs 管理应用程序配置，包括上传策略的配置信息.
// Upload配置决定分片上传的分片大小、预签名URL有效期等.
//
// Example:
//
//	config := configs.GetConfig()
//	uploadConfig := config.Upload
//	fmt.Println(uploadConfig.PartSizeBytes)
package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// MinPartSizeBytes 分片大小下限（S3 对非末尾分片的最小要求）.
	MinPartSizeBytes = 5 * 1024 * 1024
	// MaxPartsPerObject 单个对象允许的最大分片数（S3 上限）.
	MaxPartsPerObject = 10000
	// InitialPresignBatch 初始化时预签名的分片URL数量上限.
	InitialPresignBatch = 10

	DefaultPartSizeBytes       = 10 * 1024 * 1024  // 默认分片大小 (10MB)
	DefaultPresignExpiry       = 3600              // 默认预签名URL有效期（秒）
	DefaultSimpleUploadMax     = 100 * 1024 * 1024 // 单次直传大小上限 (100MB)
	DefaultStaleUploadTTLHours = 24                // pending 上传的过期时间（小时）
)

// UploadConfig 上传策略配置.
type UploadConfig struct {
	PartSizeBytes       int64 `mapstructure:"part_size_bytes"        rule:"min=1"`
	PresignExpirySecs   int   `mapstructure:"presign_expiry_secs"    rule:"min=60,max=604800"`
	SimpleUploadMax     int64 `mapstructure:"simple_upload_max"      rule:"min=1"`
	StaleUploadTTLHours int   `mapstructure:"stale_upload_ttl_hours" rule:"min=1"`
}

// GetPresignExpiry 返回预签名URL有效期作为time.Duration.
func (c *UploadConfig) GetPresignExpiry() time.Duration {
	return time.Duration(c.PresignExpirySecs) * time.Second
}

// GetStaleUploadTTL 返回 pending 上传的过期时间作为time.Duration.
func (c *UploadConfig) GetStaleUploadTTL() time.Duration {
	return time.Duration(c.StaleUploadTTLHours) * time.Hour
}

// setDefaults 设置上传配置的默认值.
func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.part_size_bytes", DefaultPartSizeBytes)
	v.SetDefault("upload.presign_expiry_secs", DefaultPresignExpiry)
	v.SetDefault("upload.simple_upload_max", DefaultSimpleUploadMax)
	v.SetDefault("upload.stale_upload_ttl_hours", DefaultStaleUploadTTLHours)
}
