// Package s3 处理S3存储操作，包括分片上传会话的底层原语.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/objvault/pkg/configs"
	nlog "github.com/yeisme/objvault/pkg/log"
)

// Client 包装 MinIO 客户端，core 暴露分片上传的低层 API.
type Client struct {
	*minio.Client

	core *minio.Core
}

// New 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().S3
	endpoint := cfg.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("objvault", configs.AppVersion)

	// ensure bucket
	if bkt := cfg.BucketName; bkt != "" {
		exists, err := cli.BucketExists(ctx, bkt)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", bkt, err)
		}

		if !exists {
			if err := cli.MakeBucket(ctx, bkt, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", bkt, err)
			}

			nlog.Logger().Info().Str("bucket", bkt).Msg("bucket created")
		}
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("s3 connected")

	return &Client{Client: cli, core: &minio.Core{Client: cli}}, nil
}

// NewMultipartUpload 在后端开启一个分片上传会话，返回会话 ID.
func (c *Client) NewMultipartUpload(ctx context.Context, bucket, key, contentType string) (string, error) {
	uploadID, err := c.core.NewMultipartUpload(ctx, bucket, key, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("new multipart upload %s/%s: %w", bucket, key, err)
	}

	return uploadID, nil
}

// CompleteMultipartUpload 合并已上传的分片，parts 必须按 part number 升序.
func (c *Client) CompleteMultipartUpload(ctx context.Context, bucket, key, uploadID string, parts []minio.CompletePart) error {
	_, err := c.core.CompleteMultipartUpload(ctx, bucket, key, uploadID, parts, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("complete multipart upload %s/%s: %w", bucket, key, err)
	}

	return nil
}

// AbortMultipartUpload 中止后端的分片上传会话，释放已上传分片占用的空间.
func (c *Client) AbortMultipartUpload(ctx context.Context, bucket, key, uploadID string) error {
	if err := c.core.AbortMultipartUpload(ctx, bucket, key, uploadID); err != nil {
		return fmt.Errorf("abort multipart upload %s/%s: %w", bucket, key, err)
	}

	return nil
}

// PresignUploadPart 为指定分片生成预签名 PUT URL，调用方直接向对象存储上传分片字节.
func (c *Client) PresignUploadPart(ctx context.Context, bucket, key, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	values := url.Values{}
	values.Set("uploadId", uploadID)
	values.Set("partNumber", strconv.Itoa(partNumber))

	u, err := c.Presign(ctx, http.MethodPut, bucket, key, expiry, values)
	if err != nil {
		return "", fmt.Errorf("presign part %d of %s/%s: %w", partNumber, bucket, key, err)
	}

	return u.String(), nil
}

// PutObject 单次直传整个对象，size 未知时传 -1 走流式上传.
func (c *Client) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) (int64, error) {
	info, err := c.Client.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}

	return info.Size, nil
}

// HealthCheck 简单的健康检查，通过列出桶来验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}

func (c *Client) GetConfig() configs.S3Config {
	return configs.GetConfig().S3
}
