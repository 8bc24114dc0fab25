// Package api 汇总HTTP接口的注册入口.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/objvault/pkg/internal/router"
)

// RegisterGroup 注册对象存储相关的路由组到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	v1 := e.Group("/api/v1")

	router.RegisterObjectRoutes(v1)
	router.RegisterHealthCheckRoute(v1)
	router.RegisterSchedulerRoutes(v1)

	router.RegisterSwaggerRoute(e)

	return e
}
