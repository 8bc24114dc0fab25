package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/glebarez/sqlite"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"github.com/yeisme/objvault/pkg/configs"
	"github.com/yeisme/objvault/pkg/internal/model"
	"github.com/yeisme/objvault/pkg/internal/types"
	"github.com/yeisme/objvault/pkg/queue"
)

// fakeBackend 内存中的对象存储后端，记录调用并支持注入失败.
type fakeBackend struct {
	mu sync.Mutex

	initCalls     int
	presignCalls  int
	completeCalls int
	abortCalls    int
	putCalls      int

	failInit     bool
	failPresign  bool
	failComplete bool
	failAbort    bool
	failPut      bool

	lastCompleted []minio.CompletePart
	removedKeys   []string
	putBytes      int64
}

func (f *fakeBackend) NewMultipartUpload(_ context.Context, _, key, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.initCalls++
	if f.failInit {
		return "", errors.New("backend unavailable")
	}

	return "session-" + key, nil
}

func (f *fakeBackend) PresignUploadPart(_ context.Context, bucket, key, uploadID string, partNumber int, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.presignCalls++
	if f.failPresign {
		return "", errors.New("presign unavailable")
	}

	return fmt.Sprintf("https://%s/%s?uploadId=%s&partNumber=%d", bucket, key, uploadID, partNumber), nil
}

func (f *fakeBackend) CompleteMultipartUpload(_ context.Context, _, _, _ string, parts []minio.CompletePart) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.completeCalls++
	if f.failComplete {
		return errors.New("merge failed")
	}

	f.lastCompleted = parts

	return nil
}

func (f *fakeBackend) AbortMultipartUpload(_ context.Context, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.abortCalls++
	if f.failAbort {
		return errors.New("abort failed")
	}

	return nil
}

func (f *fakeBackend) PutObject(_ context.Context, _, _ string, reader io.Reader, _ int64, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.putCalls++
	if f.failPut {
		return 0, errors.New("put failed")
	}

	var total int64

	buf := make([]byte, 4096)

	for {
		n, err := reader.Read(buf)
		total += int64(n)

		if err != nil {
			break
		}
	}

	f.putBytes = total

	return total, nil
}

func (f *fakeBackend) RemoveObject(_ context.Context, _, key string, _ minio.RemoveObjectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removedKeys = append(f.removedKeys, key)

	return nil
}

// newTestService 构建基于内存 SQLite 与 fake 后端的服务实例.
func newTestService(t *testing.T) (*ObjectService, *fakeBackend, *gochannel.GoChannel) {
	t.Helper()

	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("init config: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.StorageObject{}, &model.UploadPart{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	backend := &fakeBackend{}

	return newObjectService(db, backend, pubSub), backend, pubSub
}

func countRows(t *testing.T, db *gorm.DB, dst any) int64 {
	t.Helper()

	var n int64
	if err := db.Model(dst).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}

	return n
}

// TestInitUpload 测试分片初始化的分片计算与预签名批量.
func TestInitUpload(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()

	// 50 MiB / 10 MiB = 5 片
	resp, err := svc.InitUpload(ctx, "alice", &types.InitUploadRequest{
		Name: "video.mp4",
		Size: 52428800,
	})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}

	if resp.TotalParts != 5 {
		t.Errorf("Expected 5 total parts, got %d", resp.TotalParts)
	}

	if len(resp.PresignedURLs) != 5 {
		t.Errorf("Expected 5 presigned URLs, got %d", len(resp.PresignedURLs))
	}

	if resp.PartSize != configs.DefaultPartSizeBytes {
		t.Errorf("Expected part size %d, got %d", int64(configs.DefaultPartSizeBytes), resp.PartSize)
	}

	if resp.UploadSessionID == "" {
		t.Error("Expected non-empty upload session id")
	}

	for i, u := range resp.PresignedURLs {
		if u.PartNumber != i+1 {
			t.Errorf("Expected part number %d at index %d, got %d", i+1, i, u.PartNumber)
		}
	}

	if backend.initCalls != 1 {
		t.Errorf("Expected 1 backend init call, got %d", backend.initCalls)
	}

	var obj model.StorageObject
	if err := svc.db.First(&obj, "id = ?", resp.ObjectID).Error; err != nil {
		t.Fatalf("load object: %v", err)
	}

	if obj.Status != model.ObjectStatusPending {
		t.Errorf("Expected status pending, got %s", obj.Status)
	}

	if obj.PartSize != resp.PartSize {
		t.Errorf("Expected frozen part size %d, got %d", resp.PartSize, obj.PartSize)
	}

	if !strings.HasPrefix(obj.StorageKey, "alice/") {
		t.Errorf("Expected storage key scoped to owner, got %s", obj.StorageKey)
	}

	if !strings.HasSuffix(obj.StorageKey, ".mp4") {
		t.Errorf("Expected storage key to keep extension, got %s", obj.StorageKey)
	}
}

// TestInitUploadZeroSize 测试零字节对象：无分片也无预签名 URL.
func TestInitUploadZeroSize(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.InitUpload(context.Background(), "alice", &types.InitUploadRequest{
		Name: "empty.txt",
		Size: 0,
	})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}

	if resp.TotalParts != 0 {
		t.Errorf("Expected 0 total parts, got %d", resp.TotalParts)
	}

	if len(resp.PresignedURLs) != 0 {
		t.Errorf("Expected 0 presigned URLs, got %d", len(resp.PresignedURLs))
	}
}

// TestInitUploadTooManyParts 测试超过分片数上限.
func TestInitUploadTooManyParts(t *testing.T) {
	svc, backend, _ := newTestService(t)

	// 10001 片
	size := int64(configs.DefaultPartSizeBytes)*int64(configs.MaxPartsPerObject) + 1

	_, err := svc.InitUpload(context.Background(), "alice", &types.InitUploadRequest{
		Name: "huge.bin",
		Size: size,
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}

	if backend.initCalls != 0 {
		t.Errorf("Expected no backend calls, got %d", backend.initCalls)
	}
}

// TestInitUploadPartSizeBelowFloor 测试配置分片低于下限：不触碰数据库与后端.
func TestInitUploadPartSizeBelowFloor(t *testing.T) {
	svc, backend, _ := newTestService(t)

	orig := configs.GetConfig().Upload.PartSizeBytes
	configs.GetConfig().Upload.PartSizeBytes = 1024 * 1024 // 1 MiB，低于 5 MiB 下限

	t.Cleanup(func() { configs.GetConfig().Upload.PartSizeBytes = orig })

	_, err := svc.InitUpload(context.Background(), "alice", &types.InitUploadRequest{
		Name: "a.bin",
		Size: 1,
	})

	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected ConfigurationError, got %v", err)
	}

	if backend.initCalls != 0 {
		t.Errorf("Expected no backend calls, got %d", backend.initCalls)
	}

	if n := countRows(t, svc.db, &model.StorageObject{}); n != 0 {
		t.Errorf("Expected no object rows, got %d", n)
	}
}

// TestInitUploadBackendFailure 测试后端会话开启失败：不持久化任何记录.
func TestInitUploadBackendFailure(t *testing.T) {
	svc, backend, _ := newTestService(t)
	backend.failInit = true

	_, err := svc.InitUpload(context.Background(), "alice", &types.InitUploadRequest{
		Name: "a.bin",
		Size: 1,
	})

	var sbe *StorageBackendError
	if !errors.As(err, &sbe) {
		t.Fatalf("Expected StorageBackendError, got %v", err)
	}

	if n := countRows(t, svc.db, &model.StorageObject{}); n != 0 {
		t.Errorf("Expected no object rows after backend failure, got %d", n)
	}
}

// TestInitUploadPresignFailure 测试预签名全有或全无：失败时撤销整次初始化.
func TestInitUploadPresignFailure(t *testing.T) {
	svc, backend, _ := newTestService(t)
	backend.failPresign = true

	_, err := svc.InitUpload(context.Background(), "alice", &types.InitUploadRequest{
		Name: "a.bin",
		Size: 1,
	})

	var sbe *StorageBackendError
	if !errors.As(err, &sbe) {
		t.Fatalf("Expected StorageBackendError, got %v", err)
	}

	if backend.abortCalls != 1 {
		t.Errorf("Expected backend session rollback, got %d abort calls", backend.abortCalls)
	}

	if n := countRows(t, svc.db, &model.StorageObject{}); n != 0 {
		t.Errorf("Expected object record rollback, got %d rows", n)
	}
}

// TestGetUploadStatusAuthorization 测试进度查询的 404/403 判定顺序.
func TestGetUploadStatusAuthorization(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.InitUpload(ctx, "alice", &types.InitUploadRequest{Name: "a.bin", Size: 1})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}

	// 不存在的对象
	_, err = svc.GetUploadStatus(ctx, "alice", "01J8DOESNOTEXIST")

	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}

	// 非所有者
	_, err = svc.GetUploadStatus(ctx, "mallory", resp.ObjectID)

	var fe *ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected ForbiddenError, got %v", err)
	}
}

// TestGetUploadStatusFrozenPartSize 测试 init 后修改配置分片大小不影响已有会话的总分片数.
func TestGetUploadStatusFrozenPartSize(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// 50 MiB / 10 MiB = 5 片
	resp, err := svc.InitUpload(ctx, "alice", &types.InitUploadRequest{Name: "v.mp4", Size: 52428800})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}

	orig := configs.GetConfig().Upload.PartSizeBytes
	configs.GetConfig().Upload.PartSizeBytes = 5 * 1024 * 1024

	t.Cleanup(func() { configs.GetConfig().Upload.PartSizeBytes = orig })

	status, err := svc.GetUploadStatus(ctx, "alice", resp.ObjectID)
	if err != nil {
		t.Fatalf("GetUploadStatus failed: %v", err)
	}

	if status.TotalParts != resp.TotalParts {
		t.Errorf("Expected total parts frozen at %d, got %d", resp.TotalParts, status.TotalParts)
	}
}

// TestCompleteUploadLifecycle 测试分片记录幂等、后端失败保持 pending、成功后进入 processing.
func TestCompleteUploadLifecycle(t *testing.T) {
	svc, backend, pubSub := newTestService(t)
	ctx := context.Background()

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	events, err := pubSub.Subscribe(subCtx, queue.TopicObjectUploaded)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	resp, err := svc.InitUpload(ctx, "alice", &types.InitUploadRequest{Name: "v.mp4", Size: 52428800})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}

	parts := []types.CompletedPartItem{
		{PartNumber: 2, ETag: "etag-2", Size: 10485760},
		{PartNumber: 1, ETag: "etag-1", Size: 10485760},
		{PartNumber: 3, ETag: "etag-3", Size: 10485760},
		{PartNumber: 4, ETag: "etag-4", Size: 10485760},
		{PartNumber: 5, ETag: "etag-5", Size: 10485760},
	}

	// 第一次尝试：后端合并失败，对象保持 pending，分片已记录
	backend.failComplete = true

	_, err = svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{Parts: parts})

	var sbe *StorageBackendError
	if !errors.As(err, &sbe) {
		t.Fatalf("Expected StorageBackendError, got %v", err)
	}

	status, err := svc.GetUploadStatus(ctx, "alice", resp.ObjectID)
	if err != nil {
		t.Fatalf("GetUploadStatus failed: %v", err)
	}

	if status.Status != string(model.ObjectStatusPending) {
		t.Errorf("Expected status pending after backend failure, got %s", status.Status)
	}

	for i, pn := range status.UploadedParts {
		if pn != i+1 {
			t.Errorf("Expected uploaded parts ascending, got %v", status.UploadedParts)
			break
		}
	}

	if status.UploadedBytes != 52428800 {
		t.Errorf("Expected 52428800 uploaded bytes, got %d", status.UploadedBytes)
	}

	// 重试同一批分片：upsert 不产生重复行
	backend.failComplete = false

	view, err := svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{Parts: parts})
	if err != nil {
		t.Fatalf("CompleteUpload retry failed: %v", err)
	}

	if n := countRows(t, svc.db, &model.UploadPart{}); n != 5 {
		t.Errorf("Expected 5 part rows after retry, got %d", n)
	}

	if view.Status != string(model.ObjectStatusProcessing) {
		t.Errorf("Expected status processing, got %s", view.Status)
	}

	// 合并请求必须按 part number 升序
	for i, cp := range backend.lastCompleted {
		if cp.PartNumber != i+1 {
			t.Errorf("Expected completed parts sorted ascending, got %v", backend.lastCompleted)
			break
		}
	}

	// 会话已关闭，再次完成应报无会话
	_, err = svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{Parts: parts})

	var ise *InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("Expected InvalidStateError after session closed, got %v", err)
	}

	// 校验上传完成事件
	select {
	case msg := <-events:
		msg.Ack()

		env, err := queue.ParseObjectUploaded(msg)
		if err != nil {
			t.Fatalf("ParseObjectUploaded failed: %v", err)
		}

		if env.Payload.Object.ObjectID != resp.ObjectID {
			t.Errorf("Expected event for %s, got %s", resp.ObjectID, env.Payload.Object.ObjectID)
		}

		if env.Payload.Source != UploadSourceMultipart {
			t.Errorf("Expected multipart source, got %s", env.Payload.Source)
		}
	case <-subCtx.Done():
		t.Fatal("Timed out waiting for object uploaded event")
	}
}

// TestCompleteUploadPartEtagUpsert 测试重复提交同一分片只更新 etag，不产生重复行.
func TestCompleteUploadPartEtagUpsert(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.InitUpload(ctx, "alice", &types.InitUploadRequest{Name: "a.bin", Size: 1})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}

	// 后端持续失败，保持会话开放以便重复提交
	backend.failComplete = true

	_, err = svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{
		Parts: []types.CompletedPartItem{{PartNumber: 1, ETag: "stale", Size: 1}},
	})

	var sbe *StorageBackendError
	if !errors.As(err, &sbe) {
		t.Fatalf("Expected StorageBackendError, got %v", err)
	}

	_, err = svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{
		Parts: []types.CompletedPartItem{{PartNumber: 1, ETag: "fresh", Size: 1}},
	})
	if !errors.As(err, &sbe) {
		t.Fatalf("Expected StorageBackendError, got %v", err)
	}

	if n := countRows(t, svc.db, &model.UploadPart{}); n != 1 {
		t.Errorf("Expected single part row after re-submit, got %d", n)
	}

	var part model.UploadPart
	if err := svc.db.Where("object_id = ? AND part_number = ?", resp.ObjectID, 1).First(&part).Error; err != nil {
		t.Fatalf("load part row: %v", err)
	}

	if part.ETag != "fresh" {
		t.Errorf("Expected etag updated to fresh, got %s", part.ETag)
	}
}

// TestCompleteUploadZeroSize 测试零字节对象：空分片清单即可完成，后端以空对象直写落盘.
func TestCompleteUploadZeroSize(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.InitUpload(ctx, "alice", &types.InitUploadRequest{Name: "empty.txt", Size: 0})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}

	// 零字节对象不接受分片
	_, err = svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{
		Parts: []types.CompletedPartItem{{PartNumber: 1, ETag: "x"}},
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError for unexpected parts, got %v", err)
	}

	// 直写失败时保持 pending，可重试
	backend.failPut = true

	_, err = svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{})

	var sbe *StorageBackendError
	if !errors.As(err, &sbe) {
		t.Fatalf("Expected StorageBackendError, got %v", err)
	}

	status, err := svc.GetUploadStatus(ctx, "alice", resp.ObjectID)
	if err != nil {
		t.Fatalf("GetUploadStatus failed: %v", err)
	}

	if status.Status != string(model.ObjectStatusPending) {
		t.Errorf("Expected status pending after put failure, got %s", status.Status)
	}

	// 重试成功：空对象落盘，会话回收
	backend.failPut = false

	view, err := svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{})
	if err != nil {
		t.Fatalf("CompleteUpload retry failed: %v", err)
	}

	if view.Status != string(model.ObjectStatusProcessing) {
		t.Errorf("Expected status processing, got %s", view.Status)
	}

	if backend.putCalls != 2 || backend.putBytes != 0 {
		t.Errorf("Expected empty put, got %d calls with %d bytes", backend.putCalls, backend.putBytes)
	}

	if backend.abortCalls != 1 {
		t.Errorf("Expected multipart session reclaimed once, got %d abort calls", backend.abortCalls)
	}

	// 会话已关闭，再次完成应报无会话
	_, err = svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{})

	var ise *InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("Expected InvalidStateError after session closed, got %v", err)
	}
}

// TestCompleteUploadValidation 测试分片号与 etag 校验.
func TestCompleteUploadValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.InitUpload(ctx, "alice", &types.InitUploadRequest{Name: "a.bin", Size: 1})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}

	cases := []struct {
		name  string
		parts []types.CompletedPartItem
	}{
		{"zero part number", []types.CompletedPartItem{{PartNumber: 0, ETag: "x"}}},
		{"missing etag", []types.CompletedPartItem{{PartNumber: 1}}},
		{"duplicate part number", []types.CompletedPartItem{{PartNumber: 1, ETag: "a"}, {PartNumber: 1, ETag: "b"}}},
		{"empty parts", nil},
	}

	for _, tc := range cases {
		_, err := svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{Parts: tc.parts})

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

// TestAbortUpload 测试中止：后端先行，成功后硬删除记录.
func TestAbortUpload(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.InitUpload(ctx, "alice", &types.InitUploadRequest{Name: "a.bin", Size: 52428800})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}

	// 记录一个分片再中止，确认分片随对象一起删除
	backend.failComplete = true
	_, _ = svc.CompleteUpload(ctx, "alice", resp.ObjectID, &types.CompleteUploadRequest{
		Parts: []types.CompletedPartItem{{PartNumber: 1, ETag: "e1", Size: 10485760}},
	})
	backend.failComplete = false

	// 后端中止失败：记录保留
	backend.failAbort = true

	err = svc.AbortUpload(ctx, "alice", resp.ObjectID)

	var sbe *StorageBackendError
	if !errors.As(err, &sbe) {
		t.Fatalf("Expected StorageBackendError, got %v", err)
	}

	if n := countRows(t, svc.db, &model.StorageObject{}); n != 1 {
		t.Errorf("Expected object preserved after backend abort failure, got %d rows", n)
	}

	// 后端恢复后中止成功：对象与分片均被删除
	backend.failAbort = false

	if err := svc.AbortUpload(ctx, "alice", resp.ObjectID); err != nil {
		t.Fatalf("AbortUpload failed: %v", err)
	}

	if n := countRows(t, svc.db, &model.StorageObject{}); n != 0 {
		t.Errorf("Expected object deleted, got %d rows", n)
	}

	if n := countRows(t, svc.db, &model.UploadPart{}); n != 0 {
		t.Errorf("Expected parts deleted, got %d rows", n)
	}

	// 已删除对象再次中止 → 404
	err = svc.AbortUpload(ctx, "alice", resp.ObjectID)

	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

// TestSimpleUpload 测试单次直传：立即 processing，声明大小记 0.
func TestSimpleUpload(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.SimpleUpload(ctx, "bob", "note.txt", "text/plain", strings.NewReader("hello objvault"))
	if err != nil {
		t.Fatalf("SimpleUpload failed: %v", err)
	}

	if view.Status != string(model.ObjectStatusProcessing) {
		t.Errorf("Expected status processing, got %s", view.Status)
	}

	if view.Size != 0 {
		t.Errorf("Expected recorded size 0 for streamed upload, got %d", view.Size)
	}

	if backend.putCalls != 1 {
		t.Errorf("Expected 1 put call, got %d", backend.putCalls)
	}

	// 直传对象没有会话，完成操作应报无会话
	_, err = svc.CompleteUpload(ctx, "bob", view.ID, &types.CompleteUploadRequest{
		Parts: []types.CompletedPartItem{{PartNumber: 1, ETag: "e1"}},
	})

	var ise *InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("Expected InvalidStateError for simple upload completion, got %v", err)
	}
}

// TestListObjects 测试所有者范围内的对象列表.
func TestListObjects(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SimpleUpload(ctx, "alice", "a.txt", "", strings.NewReader("a")); err != nil {
		t.Fatalf("SimpleUpload failed: %v", err)
	}

	if _, err := svc.SimpleUpload(ctx, "bob", "b.txt", "", strings.NewReader("b")); err != nil {
		t.Fatalf("SimpleUpload failed: %v", err)
	}

	resp, err := svc.ListObjects(ctx, "alice")
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}

	if resp.Total != 1 {
		t.Errorf("Expected 1 object for alice, got %d", resp.Total)
	}

	if len(resp.Objects) != 1 || resp.Objects[0].OwnerID != "alice" {
		t.Errorf("Expected alice's object only, got %+v", resp.Objects)
	}
}

// TestCleanupStaleUploads 测试超时 pending 会话的回收.
func TestCleanupStaleUploads(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.InitUpload(ctx, "alice", &types.InitUploadRequest{Name: "stale.bin", Size: 1})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}

	// 回拨创建时间使其超过 TTL
	old := time.Now().UTC().Add(-48 * time.Hour)
	if err := svc.db.Model(&model.StorageObject{}).
		Where("id = ?", resp.ObjectID).
		Update("created_at", old).Error; err != nil {
		t.Fatalf("backdate object: %v", err)
	}

	abortsBefore := backend.abortCalls

	cleaned, err := svc.CleanupStaleUploads(ctx)
	if err != nil {
		t.Fatalf("CleanupStaleUploads failed: %v", err)
	}

	if cleaned != 1 {
		t.Errorf("Expected 1 cleaned upload, got %d", cleaned)
	}

	if backend.abortCalls != abortsBefore+1 {
		t.Errorf("Expected backend abort during cleanup, got %d calls", backend.abortCalls)
	}

	if n := countRows(t, svc.db, &model.StorageObject{}); n != 0 {
		t.Errorf("Expected stale object deleted, got %d rows", n)
	}
}
