// Package service 实现对象上传生命周期的业务逻辑（初始化、进度、完成、中止、直传），不处理 HTTP 细节.
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"github.com/yeisme/objvault/pkg/configs"
	ctxPkg "github.com/yeisme/objvault/pkg/context"
	"github.com/yeisme/objvault/pkg/internal/model"
	"github.com/yeisme/objvault/pkg/internal/types"
	nlog "github.com/yeisme/objvault/pkg/log"
)

// ObjectStorage 抽象对象存储后端的上传原语，*s3.Client 为生产实现.
type ObjectStorage interface {
	// NewMultipartUpload 开启分片会话，返回后端会话 ID.
	NewMultipartUpload(ctx context.Context, bucket, key, contentType string) (string, error)
	// PresignUploadPart 为指定分片签发预签名 PUT URL.
	PresignUploadPart(ctx context.Context, bucket, key, uploadID string, partNumber int, expiry time.Duration) (string, error)
	// CompleteMultipartUpload 合并分片，parts 按 part number 升序.
	CompleteMultipartUpload(ctx context.Context, bucket, key, uploadID string, parts []minio.CompletePart) error
	// AbortMultipartUpload 中止会话并释放后端已接收的分片.
	AbortMultipartUpload(ctx context.Context, bucket, key, uploadID string) error
	// PutObject 单次直传，size 传 -1 表示流式未知大小，返回实际写入字节数.
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) (int64, error)
	// RemoveObject 删除对象，用于写入后元数据落库失败时的回滚.
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// ObjectService 负责存储对象生命周期的业务逻辑.
type ObjectService struct {
	db        *gorm.DB
	backend   ObjectStorage
	publisher message.Publisher
}

// NewObjectService 从 context 获取依赖实例.
func NewObjectService(c context.Context) *ObjectService {
	s3c := ctxPkg.GetS3Client(c)
	dbc := ctxPkg.GetDBClient(c)
	mqc := ctxPkg.GetMQClient(c)

	// 为了安全起见，应该直接 panic 而不是返回 nil，依赖此服务就不需要再检查
	if s3c == nil || s3c.Client == nil || dbc == nil || dbc.DB == nil || mqc == nil {
		nlog.Logger().Fatal().Msg("storage clients not initialized")
	}

	return &ObjectService{
		db:        dbc.DB,
		backend:   s3c,
		publisher: mqc.Publisher(),
	}
}

// newObjectService 直接注入依赖，供测试与清理任务复用.
func newObjectService(db *gorm.DB, backend ObjectStorage, publisher message.Publisher) *ObjectService {
	return &ObjectService{db: db, backend: backend, publisher: publisher}
}

// ListObjects 按所有者列出对象，按创建时间倒序.
func (os *ObjectService) ListObjects(ctx context.Context, owner string) (*types.ListObjectsResponse, error) {
	if owner == "" {
		return nil, &ValidationError{Field: "owner", Reason: "required"}
	}

	var objects []model.StorageObject
	if err := os.db.WithContext(ctx).
		Where("uploaded_by_id = ?", owner).
		Order("created_at DESC").
		Find(&objects).Error; err != nil {
		return nil, err
	}

	results := make([]types.ObjectResponse, 0, len(objects))
	for i := range objects {
		results = append(results, toObjectResponse(&objects[i]))
	}

	return &types.ListObjectsResponse{
		Objects: results,
		Total:   int64(len(results)),
	}, nil
}

// loadOwnedObject 读取对象并校验所有权，所有操作共用的前置检查.
func (os *ObjectService) loadOwnedObject(ctx context.Context, objectID, owner string) (*model.StorageObject, error) {
	var obj model.StorageObject

	err := os.db.WithContext(ctx).Where("id = ?", objectID).First(&obj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "object", ID: objectID}
		}

		return nil, err
	}

	if obj.UploadedByID != owner {
		return nil, &ForbiddenError{Resource: "object", ID: objectID}
	}

	return &obj, nil
}

// bucketAndBackend 读取当前配置的存储桶与后端标识.
func bucketAndBackend() (string, string) {
	cfg := configs.GetConfig().S3

	return cfg.BucketName, cfg.BackendID
}

// toObjectResponse 转换为对外的对象视图.
func toObjectResponse(obj *model.StorageObject) types.ObjectResponse {
	return types.ObjectResponse{
		ID:         obj.ID,
		Name:       obj.Name,
		Size:       obj.Size,
		MimeType:   obj.MimeType,
		StorageKey: obj.StorageKey,
		Backend:    obj.Backend,
		Bucket:     obj.Bucket,
		Status:     string(obj.Status),
		OwnerID:    obj.UploadedByID,
		CreatedAt:  obj.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  obj.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
