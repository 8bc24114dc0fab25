package service

import (
	"github.com/yeisme/objvault/pkg/configs"
	"github.com/yeisme/objvault/pkg/internal/model"
	nlog "github.com/yeisme/objvault/pkg/log"
	"github.com/yeisme/objvault/pkg/queue"
)

// eventProducer 事件头中登记的生产者标识.
const eventProducer = "objvault"

// objectRefOf 从对象记录构建事件中的对象引用.
func objectRefOf(obj *model.StorageObject, size int64) queue.ObjectRef {
	return queue.ObjectRef{
		ObjectID:  obj.ID,
		Backend:   obj.Backend,
		Bucket:    obj.Bucket,
		ObjectKey: obj.StorageKey,
		Size:      size,
		MimeType:  obj.MimeType,
	}
}

// publishObjectUploaded 发布对象落盘事件，发布失败只记录日志，不影响调用方结果.
func (os *ObjectService) publishObjectUploaded(obj *model.StorageObject, size int64, source string, parts int) {
	evCfg := configs.GetConfig().Events
	if os.publisher == nil || !evCfg.Enabled || !evCfg.Object.Uploaded {
		return
	}

	payload := queue.ObjectUploadedPayload{
		Object:  objectRefOf(obj, size),
		OwnerID: obj.UploadedByID,
		Source:  source,
		Parts:   parts,
	}

	if err := queue.PublishObjectUploaded(os.publisher, payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Error().Err(err).Str("object_id", obj.ID).Msg("publish object uploaded event failed")
	}
}

// publishObjectAborted 发布上传中止事件.
func (os *ObjectService) publishObjectAborted(obj *model.StorageObject) {
	evCfg := configs.GetConfig().Events
	if os.publisher == nil || !evCfg.Enabled || !evCfg.Object.Aborted {
		return
	}

	payload := queue.ObjectAbortedPayload{
		Object:  objectRefOf(obj, obj.Size),
		OwnerID: obj.UploadedByID,
	}

	if err := queue.PublishObjectAborted(os.publisher, payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Error().Err(err).Str("object_id", obj.ID).Msg("publish object aborted event failed")
	}
}

// publishUploadExpired 发布会话过期回收事件.
func (os *ObjectService) publishUploadExpired(obj *model.StorageObject) {
	evCfg := configs.GetConfig().Events
	if os.publisher == nil || !evCfg.Enabled || !evCfg.Upload.Expired {
		return
	}

	payload := queue.UploadExpiredPayload{
		Object:    objectRefOf(obj, obj.Size),
		OwnerID:   obj.UploadedByID,
		StartedAt: obj.CreatedAt.UTC(),
	}

	if err := queue.PublishUploadExpired(os.publisher, payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Error().Err(err).Str("object_id", obj.ID).Msg("publish upload expired event failed")
	}
}
