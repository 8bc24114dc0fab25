package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishObjectUploaded 发布 ov.object.uploaded 事件。
// 在对象字节完整落盘（分片合并成功或单次直传成功）后调用，通知下游后处理流程。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishObjectUploaded(pub message.Publisher, payload ObjectUploadedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicObjectUploaded, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicObjectUploaded, msg)
}

// ParseObjectUploaded 将 Watermill 消息解析为强类型 Envelope（ObjectUploadedPayload）。
func ParseObjectUploaded(msg *message.Message) (Message[ObjectUploadedPayload], error) {
	return ParseWatermillMessage[ObjectUploadedPayload](msg)
}

// PublishObjectAborted 发布 ov.object.aborted 事件。
func PublishObjectAborted(pub message.Publisher, payload ObjectAbortedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicObjectAborted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicObjectAborted, msg)
}

// ParseObjectAborted 将 Watermill 消息解析为强类型 Envelope（ObjectAbortedPayload）。
func ParseObjectAborted(msg *message.Message) (Message[ObjectAbortedPayload], error) {
	return ParseWatermillMessage[ObjectAbortedPayload](msg)
}

// PublishUploadExpired 发布 ov.upload.expired 事件。
// 由清理任务在回收超时 pending 会话后调用。
func PublishUploadExpired(pub message.Publisher, payload UploadExpiredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicUploadExpired, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicUploadExpired, msg)
}

// ParseUploadExpired 将 Watermill 消息解析为强类型 Envelope（UploadExpiredPayload）。
func ParseUploadExpired(msg *message.Message) (Message[UploadExpiredPayload], error) {
	return ParseWatermillMessage[UploadExpiredPayload](msg)
}
