// Package router 管理路由配置，用于设置HTTP服务的路由.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/objvault/pkg/internal/handle"
)

// RegisterObjectRoutes 注册对象上传生命周期相关路由.
func RegisterObjectRoutes(g *gin.RouterGroup) {
	objectRoutes := g.Group("/storage/objects")
	{
		// 单次直传小对象
		objectRoutes.POST("", handle.SimpleUpload)
		// 列出调用方的对象
		objectRoutes.GET("", handle.ListObjects)

		// 初始化分片上传会话
		objectRoutes.POST("/upload/init", handle.InitUpload)

		// 单个对象的上传生命周期操作
		singleGroup := objectRoutes.Group("/:id/upload")
		{
			// 查询上传进度
			singleGroup.GET("/status", handle.GetUploadStatus)
			// 提交分片清单并完成上传
			singleGroup.POST("/complete", handle.CompleteUpload)
			// 中止上传
			singleGroup.DELETE("/abort", handle.AbortUpload)
		}
	}
}
