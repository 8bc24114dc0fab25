// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"

	ctxPkg "github.com/yeisme/objvault/pkg/context"
	"github.com/yeisme/objvault/pkg/internal/service"
	"github.com/yeisme/objvault/pkg/internal/storage"
	"github.com/yeisme/objvault/pkg/log"
	"github.com/yeisme/objvault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每小时第 15 分钟回收超时未完成的分片上传会话
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	// 每小时回收过期上传会话
	if err := sched.AddCron(JobStaleUploadCleanup, CronStaleUploadCleanup, func(ctx context.Context) {
		runStaleUploadCleanup(ctx)
	}, baseCtx); err != nil {
		return err
	}

	return nil
}

// runStaleUploadCleanup 中止并清理超过 TTL 仍未完成的上传会话.
func runStaleUploadCleanup(ctx context.Context) {
	l := log.Logger().With().Str("job", JobStaleUploadCleanup).Logger()

	svc := service.NewObjectService(ctx)

	cleaned, err := svc.CleanupStaleUploads(ctx)
	if err != nil {
		l.Error().Err(err).Msg("stale upload cleanup failed")
		return
	}

	if cleaned > 0 {
		l.Info().Int("cleaned", cleaned).Msg("reclaimed stale upload sessions")
	}
}
