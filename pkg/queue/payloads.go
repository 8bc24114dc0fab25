package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 对象生命周期领域 --------------------------

// ObjectRef 标识对象在对象存储中的位置与基础元数据.
type ObjectRef struct {
	ObjectID  string `json:"object_id"`
	Backend   string `json:"backend,omitempty"`
	Bucket    string `json:"bucket"`
	ObjectKey string `json:"object_key"`
	Size      int64  `json:"size,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
}

// ObjectUploadedPayload 对象字节已完整写入后端，下游可开始后处理.
type ObjectUploadedPayload struct {
	Object  ObjectRef `json:"object"`
	OwnerID string    `json:"owner_id"`
	// Source 区分来源：multipart（分片合并）或 simple（单次直传）.
	Source string `json:"source,omitempty"`
	// Parts 分片上传时合并的分片数，单次直传为 0.
	Parts int `json:"parts,omitempty"`
}

// ObjectAbortedPayload 上传被显式中止，后端会话与本地记录均已回收.
type ObjectAbortedPayload struct {
	Object  ObjectRef `json:"object"`
	OwnerID string    `json:"owner_id"`
}

// -------------------------- 上传会话领域 --------------------------

// UploadExpiredPayload pending 会话超过 TTL 被清理任务回收.
type UploadExpiredPayload struct {
	Object    ObjectRef `json:"object"`
	OwnerID   string    `json:"owner_id"`
	StartedAt time.Time `json:"started_at"`
}

// -------------------------- 后处理领域 --------------------------

// ProcessProgressPayload 后处理进度汇报（由下游 worker 发布）.
type ProcessProgressPayload struct {
	Object   ObjectRef `json:"object"`
	TaskID   string    `json:"task_id,omitempty"`
	Stage    string    `json:"stage,omitempty"`
	Progress int       `json:"progress,omitempty"` // 0-100
	Message  string    `json:"message,omitempty"`
}

// ProcessDonePayload 后处理完成，对象可标记为 ready.
type ProcessDonePayload struct {
	Object ObjectRef `json:"object"`
	TaskID string    `json:"task_id,omitempty"`
}

// ProcessFailedPayload 后处理失败.
type ProcessFailedPayload struct {
	Object ObjectRef `json:"object"`
	TaskID string    `json:"task_id,omitempty"`
	Error  string    `json:"error"`
}
