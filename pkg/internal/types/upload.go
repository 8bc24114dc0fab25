// Package types 定义 HTTP 层的请求与响应结构体.
package types

// InitUploadRequest 初始化分片上传请求.
type InitUploadRequest struct {
	Name string `binding:"required" json:"name"` // 原始文件名
	Size int64  `binding:"min=0"    json:"size"` // 声明总大小（字节）
	// 可选：内容类型，缺省按文件名推断，推断失败用 application/octet-stream
	MimeType string `json:"mime_type,omitempty"`
}

// InitUploadResponse 初始化分片上传响应.
type InitUploadResponse struct {
	ObjectID        string             `json:"object_id"`
	UploadSessionID string             `json:"upload_session_id"`
	PartSize        int64              `json:"part_size"`
	TotalParts      int                `json:"total_parts"`
	PresignedURLs   []PresignedPartURL `json:"presigned_urls"`
}

// PresignedPartURL 单个分片的预签名上传地址.
type PresignedPartURL struct {
	PartNumber int    `json:"part_number"` // 1-based
	URL        string `json:"url"`
	ExpiresIn  int    `json:"expires_in"` // 过期时间 (秒)
}

// UploadStatusResponse 上传进度查询响应.
type UploadStatusResponse struct {
	ObjectID      string `json:"object_id"`
	Status        string `json:"status"`
	UploadedParts []int  `json:"uploaded_parts"` // 升序
	TotalParts    int    `json:"total_parts"`
	UploadedBytes int64  `json:"uploaded_bytes"`
	TotalBytes    int64  `json:"total_bytes"`
}

// CompleteUploadRequest 完成分片上传请求.
type CompleteUploadRequest struct {
	Parts []CompletedPartItem `binding:"required,min=1,dive" json:"parts"`
}

// CompletedPartItem 调用方上报的单个已上传分片.
type CompletedPartItem struct {
	PartNumber int    `binding:"required,min=1" json:"part_number"`
	ETag       string `binding:"required"       json:"etag"`
	Size       int64  `binding:"min=0"          json:"size"`
}

// ObjectResponse 对象元数据视图.
type ObjectResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type"`
	StorageKey string `json:"storage_key"`
	Backend    string `json:"backend,omitempty"`
	Bucket     string `json:"bucket,omitempty"`
	Status     string `json:"status"`
	OwnerID    string `json:"owner_id"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ListObjectsResponse 所有者视角的对象列表响应.
type ListObjectsResponse struct {
	Objects []ObjectResponse `json:"objects"`
	Total   int64            `json:"total"`
}
