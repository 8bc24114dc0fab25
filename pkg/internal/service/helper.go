package service

import (
	"crypto/rand"
	"fmt"
	"mime"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

const (
	// DefaultMimeType 无法从扩展名推断时的兜底内容类型.
	DefaultMimeType = "application/octet-stream"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newObjectID 生成按时间可排序的对象 ID.
func newObjectID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Now(), entropy).String()
}

// buildStorageKey 构建对象存储路径.放在 service 层便于未来统一策略（如目录分桶）.
// 对象 ID 已全局唯一，文件名只保留扩展名，避免特殊字符进入对象键.
func buildStorageKey(owner, objectID, fileName string) string {
	datePath := time.Now().UTC().Format("2006/01/02")
	ext := filepath.Ext(fileName)

	return fmt.Sprintf("%s/%s/%s%s", owner, datePath, objectID, ext) // owner/2025/01/02/ulid.ext
}

// resolveMimeType 优先使用调用方声明的类型，否则按扩展名推断.
func resolveMimeType(declared, fileName string) string {
	if declared != "" {
		return declared
	}

	if mt := mime.TypeByExtension(filepath.Ext(fileName)); mt != "" {
		return mt
	}

	return DefaultMimeType
}

// totalPartsFor 按冻结的分片大小计算总分片数，size 为 0 时无需分片.
func totalPartsFor(size, partSize int64) int {
	if size <= 0 || partSize <= 0 {
		return 0
	}

	return int((size + partSize - 1) / partSize)
}
