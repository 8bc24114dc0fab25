package model

import (
	"time"
)

// ObjectStatus 对象生命周期状态.
type ObjectStatus string

const (
	// ObjectStatusPending 分片会话已开启，字节尚未全部落盘.
	ObjectStatusPending ObjectStatus = "pending"
	// ObjectStatusProcessing 字节已完整落盘，等待下游后处理.
	ObjectStatusProcessing ObjectStatus = "processing"
	// ObjectStatusReady 后处理完成，对象可正常消费.
	ObjectStatusReady ObjectStatus = "ready"
)

// StorageObject 存储对象元数据.
type StorageObject struct {
	// ULID，对外作为对象标识
	ID   string `gorm:"primaryKey;size:26"  json:"id"`
	Name string `gorm:"size:512;index"      json:"name"`
	// 声明大小；分片上传为 init 时声明值，流式直传时先记 0
	Size     int64  `gorm:"index"               json:"size"`
	MimeType string `gorm:"size:255"            json:"mime_type"`
	// 对象键（S3 key），全局唯一
	StorageKey string `gorm:"size:1024;uniqueIndex" json:"storage_key"`
	Backend    string `gorm:"size:128"              json:"backend"`
	Bucket     string `gorm:"size:255"              json:"bucket"`
	Status     ObjectStatus `gorm:"size:32;index"   json:"status"`
	// 后端分片会话 ID；完成或中止后清空
	UploadID string `gorm:"size:512" json:"upload_id,omitempty"`
	// init 时冻结的分片大小，状态查询据此计算总分片数
	PartSize     int64  `gorm:"column:part_size"       json:"part_size,omitempty"`
	UploadedByID string `gorm:"size:255;index"         json:"uploaded_by_id"`
	// 业务元数据以 JSON 字符串形式存储；未来可替换为 JSONB
	MetadataJSON string `gorm:"type:text" json:"metadata_json,omitempty"`
	// 审计；abort 为硬删除，不保留软删除标记
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadPart 分片上传记录，object_id + part_number 唯一.
type UploadPart struct {
	ID       uint   `gorm:"primaryKey"                                      json:"id"`
	ObjectID string `gorm:"size:26;index:idx_object_part,unique;index"      json:"object_id"`
	// 1-based，与 S3 partNumber 语义一致
	PartNumber int `gorm:"index:idx_object_part,unique" json:"part_number"`
	// 列名固定为 etag：GORM 默认会把 ETag 映射成 e_tag，与 upsert 的赋值列对不上
	ETag string `gorm:"column:etag;size:64" json:"etag"`
	Size       int64  `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
