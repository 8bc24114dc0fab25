// Package handle 提供HTTP请求处理器的实现，将请求绑定、身份提取与错误映射收敛到一处.
package handle

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/objvault/pkg/internal/service"
	"github.com/yeisme/objvault/pkg/rule"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

func checkUser(c *gin.Context) (string, error) {
	// 提取用户名：Header 优先 -> query 参数 -> 默认 test-user（便于测试）
	user := c.GetHeader("X-User")
	if user == "" {
		user = c.Query("user")
	}
	// 测试默认值，不为 Release 模式时
	if user == "" && gin.Mode() != gin.ReleaseMode {
		user = "test-user@example.com"
	}

	user = strings.TrimSpace(user)

	// 使用 validator 验证用户名格式为 email
	if err := rule.ValidateVar(user, "required,email"); err != nil {
		return "", err
	}

	return user, nil
}

// writeServiceError 将 service 层的类型化错误映射为HTTP状态码.
func writeServiceError(c *gin.Context, err error) {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		forbiddenErr  *service.ForbiddenError
		stateErr      *service.InvalidStateError
		configErr     *service.ConfigurationError
		backendErr    *service.StorageBackendError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": stateErr.Error()})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, gin.H{"error": forbiddenErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &configErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": configErr.Error()})
	case errors.As(err, &backendErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": backendErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
