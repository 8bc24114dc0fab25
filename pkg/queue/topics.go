// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：ov.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：object(对象生命周期)、upload(上传会话)、process(后处理)等
// 动作/状态：uploaded/aborted/expired、requested/ing/ed/failed

const (
	// 对象生命周期领域.
	TopicObjectUploaded = "ov.object.uploaded" // 对象字节已完整落盘，等待后处理（扫描、转码、索引）
	TopicObjectAborted  = "ov.object.aborted"  // 上传会话被调用方显式中止，后端与元数据均已清理

	// 上传会话领域.
	TopicUploadExpired = "ov.upload.expired" // pending 会话超过 TTL 被清理任务回收

	// 后处理领域（由下游 worker 发布，这里只定义常量便于订阅）.
	TopicProcessProgress = "ov.process.progress" // 后处理进度汇报
	TopicProcessDone     = "ov.process.done"     // 后处理完成，对象可标记为 ready
	TopicProcessFailed   = "ov.process.failed"   // 后处理失败

	// 通配订阅模式.
	PatternObjectAll  = "ov.object.*"
	PatternUploadAll  = "ov.upload.*"
	PatternProcessAll = "ov.process.*"
)
