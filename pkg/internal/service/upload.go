package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/objvault/pkg/configs"
	"github.com/yeisme/objvault/pkg/internal/model"
	"github.com/yeisme/objvault/pkg/internal/types"
	nlog "github.com/yeisme/objvault/pkg/log"
)

const (
	// UploadSourceMultipart 分片合并完成的上传.
	UploadSourceMultipart = "multipart"
	// UploadSourceSimple 单次直传.
	UploadSourceSimple = "simple"
)

// InitUpload 初始化一次分片上传：开启后端会话、落库 pending 记录、预签名首批分片 URL.
// 配置的分片大小低于下限时直接失败，不触碰数据库与后端.
func (os *ObjectService) InitUpload(ctx context.Context, owner string, req *types.InitUploadRequest) (*types.InitUploadResponse, error) {
	uploadCfg := configs.GetConfig().Upload

	partSize := uploadCfg.PartSizeBytes
	if partSize < configs.MinPartSizeBytes {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("part size %d below minimum %d", partSize, int64(configs.MinPartSizeBytes)),
		}
	}

	if owner == "" {
		return nil, &ValidationError{Field: "owner", Reason: "required"}
	}

	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}

	if req.Size < 0 {
		return nil, &ValidationError{Field: "size", Reason: "must be non-negative"}
	}

	totalParts := totalPartsFor(req.Size, partSize)
	if totalParts > configs.MaxPartsPerObject {
		return nil, &ValidationError{
			Field:  "size",
			Reason: fmt.Sprintf("requires %d parts, exceeds limit %d", totalParts, configs.MaxPartsPerObject),
		}
	}

	objectID := newObjectID()
	mimeType := resolveMimeType(req.MimeType, req.Name)
	storageKey := buildStorageKey(owner, objectID, req.Name)
	bucket, backendID := bucketAndBackend()

	// 后端先行：会话开不起来就什么都不持久化
	uploadID, err := os.backend.NewMultipartUpload(ctx, bucket, storageKey, mimeType)
	if err != nil {
		return nil, &StorageBackendError{Op: "init multipart upload", Err: err}
	}

	obj := model.StorageObject{
		ID:           objectID,
		Name:         req.Name,
		Size:         req.Size,
		MimeType:     mimeType,
		StorageKey:   storageKey,
		Backend:      backendID,
		Bucket:       bucket,
		Status:       model.ObjectStatusPending,
		UploadID:     uploadID,
		PartSize:     partSize,
		UploadedByID: owner,
	}

	if err := os.db.WithContext(ctx).Create(&obj).Error; err != nil {
		// 落库失败时回收后端会话，避免留下孤儿
		os.abortBackendQuietly(ctx, bucket, storageKey, uploadID)

		return nil, fmt.Errorf("persist object record: %w", err)
	}

	urls, err := os.presignInitialParts(ctx, bucket, storageKey, uploadID, totalParts, uploadCfg.GetPresignExpiry())
	if err != nil {
		// 全有或全无：任何一个分片签名失败都撤销整次初始化
		os.abortBackendQuietly(ctx, bucket, storageKey, uploadID)
		os.deleteObjectQuietly(ctx, objectID)

		return nil, &StorageBackendError{Op: "presign upload part", Err: err}
	}

	return &types.InitUploadResponse{
		ObjectID:        objectID,
		UploadSessionID: uploadID,
		PartSize:        partSize,
		TotalParts:      totalParts,
		PresignedURLs:   urls,
	}, nil
}

// presignInitialParts 为前 min(InitialPresignBatch, totalParts) 个分片签名.
func (os *ObjectService) presignInitialParts(ctx context.Context, bucket, key, uploadID string,
	totalParts int, expiry time.Duration,
) ([]types.PresignedPartURL, error) {
	count := totalParts
	if count > configs.InitialPresignBatch {
		count = configs.InitialPresignBatch
	}

	urls := make([]types.PresignedPartURL, 0, count)

	for partNumber := 1; partNumber <= count; partNumber++ {
		u, err := os.backend.PresignUploadPart(ctx, bucket, key, uploadID, partNumber, expiry)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", partNumber, err)
		}

		urls = append(urls, types.PresignedPartURL{
			PartNumber: partNumber,
			URL:        u,
			ExpiresIn:  int(expiry.Seconds()),
		})
	}

	return urls, nil
}

// GetUploadStatus 查询上传进度.总分片数按 init 时冻结的分片大小计算，与后续配置变更无关.
func (os *ObjectService) GetUploadStatus(ctx context.Context, owner, objectID string) (*types.UploadStatusResponse, error) {
	obj, err := os.loadOwnedObject(ctx, objectID, owner)
	if err != nil {
		return nil, err
	}

	var parts []model.UploadPart
	if err := os.db.WithContext(ctx).
		Where("object_id = ?", objectID).
		Order("part_number ASC").
		Find(&parts).Error; err != nil {
		return nil, err
	}

	uploaded := make([]int, 0, len(parts))

	var uploadedBytes int64

	for i := range parts {
		uploaded = append(uploaded, parts[i].PartNumber)
		uploadedBytes += parts[i].Size
	}

	return &types.UploadStatusResponse{
		ObjectID:      obj.ID,
		Status:        string(obj.Status),
		UploadedParts: uploaded,
		TotalParts:    totalPartsFor(obj.Size, obj.PartSize),
		UploadedBytes: uploadedBytes,
		TotalBytes:    obj.Size,
	}, nil
}

// CompleteUpload 记录调用方上报的分片并请求后端合并.
// 分片记录按 (object_id, part_number) 幂等 upsert；后端合并是唯一的成败依据，
// 合并失败时对象保持 pending，已记录的分片不回滚.
func (os *ObjectService) CompleteUpload(ctx context.Context, owner, objectID string,
	req *types.CompleteUploadRequest,
) (*types.ObjectResponse, error) {
	obj, err := os.loadOwnedObject(ctx, objectID, owner)
	if err != nil {
		return nil, err
	}

	if obj.UploadID == "" {
		return nil, &InvalidStateError{Reason: "object has no active upload session"}
	}

	// 零字节对象没有分片可合并，走空对象直写
	if totalPartsFor(obj.Size, obj.PartSize) == 0 {
		return os.completeEmptyUpload(ctx, obj, req)
	}

	if len(req.Parts) == 0 {
		return nil, &ValidationError{Field: "parts", Reason: "at least one part required"}
	}

	seen := make(map[int]struct{}, len(req.Parts))

	for i := range req.Parts {
		p := &req.Parts[i]
		if p.PartNumber < 1 {
			return nil, &ValidationError{Field: "parts", Reason: "part numbers are 1-based"}
		}

		if p.ETag == "" {
			return nil, &ValidationError{Field: "parts", Reason: fmt.Sprintf("part %d missing etag", p.PartNumber)}
		}

		if _, dup := seen[p.PartNumber]; dup {
			return nil, &ValidationError{Field: "parts", Reason: fmt.Sprintf("duplicate part number %d", p.PartNumber)}
		}

		seen[p.PartNumber] = struct{}{}
	}

	// 幂等 upsert：重复提交同一分片只更新 etag 与 size
	records := make([]model.UploadPart, 0, len(req.Parts))
	for i := range req.Parts {
		records = append(records, model.UploadPart{
			ObjectID:   objectID,
			PartNumber: req.Parts[i].PartNumber,
			ETag:       req.Parts[i].ETag,
			Size:       req.Parts[i].Size,
		})
	}

	if err := os.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "object_id"}, {Name: "part_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"etag", "size", "updated_at"}),
		}).
		Create(&records).Error; err != nil {
		return nil, fmt.Errorf("record parts: %w", err)
	}

	completeParts := make([]minio.CompletePart, 0, len(req.Parts))
	for i := range req.Parts {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: req.Parts[i].PartNumber,
			ETag:       req.Parts[i].ETag,
		})
	}

	sort.Slice(completeParts, func(i, j int) bool {
		return completeParts[i].PartNumber < completeParts[j].PartNumber
	})

	// 后端合并是权威判定：失败则保持 pending，调用方可重试
	if err := os.backend.CompleteMultipartUpload(ctx, obj.Bucket, obj.StorageKey, obj.UploadID, completeParts); err != nil {
		return nil, &StorageBackendError{Op: "complete multipart upload", Err: err}
	}

	updates := map[string]any{
		"status":    model.ObjectStatusProcessing,
		"upload_id": "",
	}
	if err := os.db.WithContext(ctx).Model(&model.StorageObject{}).
		Where("id = ?", objectID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update object status: %w", err)
	}

	obj.Status = model.ObjectStatusProcessing
	obj.UploadID = ""

	os.publishObjectUploaded(obj, obj.Size, UploadSourceMultipart, len(req.Parts))

	resp := toObjectResponse(obj)

	return &resp, nil
}

// completeEmptyUpload 完成零字节对象：后端合并至少要求一个分片，
// 改为直接写入空对象，再回收无用的分片会话.
// 直写失败时对象保持 pending，调用方可重试.
func (os *ObjectService) completeEmptyUpload(ctx context.Context, obj *model.StorageObject,
	req *types.CompleteUploadRequest,
) (*types.ObjectResponse, error) {
	if len(req.Parts) > 0 {
		return nil, &ValidationError{Field: "parts", Reason: "zero-size object expects no parts"}
	}

	if _, err := os.backend.PutObject(ctx, obj.Bucket, obj.StorageKey, bytes.NewReader(nil), 0, obj.MimeType); err != nil {
		return nil, &StorageBackendError{Op: "put empty object", Err: err}
	}

	// 字节已落盘，会话回收失败只记日志
	os.abortBackendQuietly(ctx, obj.Bucket, obj.StorageKey, obj.UploadID)

	updates := map[string]any{
		"status":    model.ObjectStatusProcessing,
		"upload_id": "",
	}
	if err := os.db.WithContext(ctx).Model(&model.StorageObject{}).
		Where("id = ?", obj.ID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update object status: %w", err)
	}

	obj.Status = model.ObjectStatusProcessing
	obj.UploadID = ""

	os.publishObjectUploaded(obj, 0, UploadSourceMultipart, 0)

	resp := toObjectResponse(obj)

	return &resp, nil
}

// AbortUpload 中止上传：后端会话先回收，成功后才硬删除本地记录.
// 后端失败时保留记录，调用方可稍后重试.
func (os *ObjectService) AbortUpload(ctx context.Context, owner, objectID string) error {
	obj, err := os.loadOwnedObject(ctx, objectID, owner)
	if err != nil {
		return err
	}

	if obj.UploadID == "" {
		return &InvalidStateError{Reason: "object has no active upload session"}
	}

	if err := os.backend.AbortMultipartUpload(ctx, obj.Bucket, obj.StorageKey, obj.UploadID); err != nil {
		return &StorageBackendError{Op: "abort multipart upload", Err: err}
	}

	if err := os.deleteObjectWithParts(ctx, objectID); err != nil {
		return err
	}

	os.publishObjectAborted(obj)

	return nil
}

// SimpleUpload 单次直传小对象：流式写入后端，再落库 processing 记录.
// 流式上传时声明大小未知，记录的 size 先置 0，待后处理回填.
func (os *ObjectService) SimpleUpload(ctx context.Context, owner, fileName, mimeType string,
	reader io.Reader,
) (*types.ObjectResponse, error) {
	if owner == "" {
		return nil, &ValidationError{Field: "owner", Reason: "required"}
	}

	if fileName == "" {
		return nil, &ValidationError{Field: "file", Reason: "file name required"}
	}

	uploadCfg := configs.GetConfig().Upload
	objectID := newObjectID()
	resolvedMime := resolveMimeType(mimeType, fileName)
	storageKey := buildStorageKey(owner, objectID, fileName)
	bucket, backendID := bucketAndBackend()

	// 限制直传大小：多读一个字节即可判断是否超限
	limited := io.LimitReader(reader, uploadCfg.SimpleUploadMax+1)

	written, err := os.backend.PutObject(ctx, bucket, storageKey, limited, -1, resolvedMime)
	if err != nil {
		return nil, &StorageBackendError{Op: "put object", Err: err}
	}

	if written > uploadCfg.SimpleUploadMax {
		os.removeObjectQuietly(ctx, bucket, storageKey)

		return nil, &ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("exceeds simple upload limit of %d bytes", uploadCfg.SimpleUploadMax),
		}
	}

	obj := model.StorageObject{
		ID:           objectID,
		Name:         fileName,
		Size:         0, // 流式写入，声明大小未知
		MimeType:     resolvedMime,
		StorageKey:   storageKey,
		Backend:      backendID,
		Bucket:       bucket,
		Status:       model.ObjectStatusProcessing,
		UploadedByID: owner,
	}

	if err := os.db.WithContext(ctx).Create(&obj).Error; err != nil {
		// 字节已落盘但元数据失败：回滚后端对象
		os.removeObjectQuietly(ctx, bucket, storageKey)

		return nil, fmt.Errorf("persist object record: %w", err)
	}

	os.publishObjectUploaded(&obj, written, UploadSourceSimple, 0)

	resp := toObjectResponse(&obj)

	return &resp, nil
}

// CleanupStaleUploads 回收超过 TTL 仍处于 pending 的分片会话，返回回收数量.
// 单个会话回收失败不阻塞其余会话.
func (os *ObjectService) CleanupStaleUploads(ctx context.Context) (int, error) {
	ttl := configs.GetConfig().Upload.GetStaleUploadTTL()
	cutoff := time.Now().UTC().Add(-ttl)

	var stale []model.StorageObject
	if err := os.db.WithContext(ctx).
		Where("status = ? AND upload_id <> '' AND created_at < ?", model.ObjectStatusPending, cutoff).
		Find(&stale).Error; err != nil {
		return 0, fmt.Errorf("query stale uploads: %w", err)
	}

	cleaned := 0

	for i := range stale {
		obj := &stale[i]

		if err := os.backend.AbortMultipartUpload(ctx, obj.Bucket, obj.StorageKey, obj.UploadID); err != nil {
			nlog.Logger().Warn().Err(err).Str("object_id", obj.ID).Msg("abort stale upload failed, will retry next run")

			continue
		}

		if err := os.deleteObjectWithParts(ctx, obj.ID); err != nil {
			nlog.Logger().Error().Err(err).Str("object_id", obj.ID).Msg("delete stale upload record failed")

			continue
		}

		os.publishUploadExpired(obj)

		cleaned++
	}

	return cleaned, nil
}

// deleteObjectWithParts 在单个事务里硬删除对象与其分片记录.
func (os *ObjectService) deleteObjectWithParts(ctx context.Context, objectID string) error {
	return os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("object_id = ?", objectID).Delete(&model.UploadPart{}).Error; err != nil {
			return fmt.Errorf("delete parts: %w", err)
		}

		if err := tx.Where("id = ?", objectID).Delete(&model.StorageObject{}).Error; err != nil {
			return fmt.Errorf("delete object: %w", err)
		}

		return nil
	})
}

// abortBackendQuietly 尽力回收后端会话，失败只记日志.
func (os *ObjectService) abortBackendQuietly(ctx context.Context, bucket, key, uploadID string) {
	if err := os.backend.AbortMultipartUpload(ctx, bucket, key, uploadID); err != nil {
		nlog.Logger().Warn().Err(err).Str("key", key).Msg("rollback multipart session failed")
	}
}

// deleteObjectQuietly 尽力删除对象记录，失败只记日志.
func (os *ObjectService) deleteObjectQuietly(ctx context.Context, objectID string) {
	if err := os.db.WithContext(ctx).Where("id = ?", objectID).Delete(&model.StorageObject{}).Error; err != nil {
		nlog.Logger().Warn().Err(err).Str("object_id", objectID).Msg("rollback object record failed")
	}
}

// removeObjectQuietly 尽力删除后端对象，失败只记日志.
func (os *ObjectService) removeObjectQuietly(ctx context.Context, bucket, key string) {
	if err := os.backend.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		nlog.Logger().Warn().Err(err).Str("key", key).Msg("rollback backend object failed")
	}
}
