// Package storage 聚合存储资源：对象存储(S3)、数据库(DB)与消息队列(MQ).
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	s3Client := mgr.GetS3Client()
//	dbClient := mgr.GetDBClient()
//	mqClient := mgr.GetMQClient()
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/yeisme/objvault/pkg/internal/model"
	dbc "github.com/yeisme/objvault/pkg/internal/storage/db"
	mqc "github.com/yeisme/objvault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/objvault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/objvault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	S3 *s3c.Client
	DB *dbc.Client
	MQ *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		m := &Manager{}

		// DB
		dbi, e := dbc.New(ctx)
		if e != nil {
			err = fmt.Errorf("init db: %w", e)
			return
		}

		m.DB = dbi

		if e := dbi.AutoMigrate(&model.StorageObject{}, &model.UploadPart{}); e != nil {
			err = fmt.Errorf("migrate schema: %w", e)
			return
		}

		// S3
		s3i, e := s3c.New(ctx)
		if e != nil {
			err = fmt.Errorf("init s3: %w", e)
			return
		}

		m.S3 = s3i

		// MQ
		mqi, e := mqc.New(ctx)
		if e != nil {
			err = fmt.Errorf("init mq: %w", e)
			return
		}

		m.MQ = mqi

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetS3Client 获取 S3 客户端.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 依次释放 MQ、S3、DB 连接，返回最后一个出现的错误.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}

	var err error

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.S3 != nil {
		if e := m.S3.Close(); e != nil {
			err = e
		}
	}

	if m.DB != nil {
		if e := m.DB.Close(); e != nil {
			err = e
		}
	}

	return err
}
