package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/objvault/pkg/internal/service"
	"github.com/yeisme/objvault/pkg/internal/types"
	"github.com/yeisme/objvault/pkg/log"
	"github.com/yeisme/objvault/pkg/metrics"
)

// recordUpload 记录上传生命周期操作指标.
func recordUpload(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	metrics.UploadCounter.WithLabelValues(operation, result).Inc()
}

// InitUpload 初始化分片上传.
//
//	@Summary		初始化分片上传
//	@Description	为对象开启分片上传会话，返回会话ID、分片大小与首批预签名分片URL
//	@Tags			对象上传
//	@Accept			json
//	@Produce		json
//	@Param			X-User	header		string						true	"调用方身份"
//	@Param			object	body		types.InitUploadRequest		true	"初始化上传请求"
//	@Success		201		{object}	types.InitUploadResponse	"上传会话信息"
//	@Failure		400		{object}	map[string]string			"请求参数错误"
//	@Failure		502		{object}	map[string]string			"存储后端错误"
//	@Router			/api/v1/storage/objects/upload/init [post]
func InitUpload(c *gin.Context) {
	l := log.Logger()

	var req types.InitUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid init upload request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	user, err := checkUser(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewObjectService(c.Request.Context())

	resp, err := svc.InitUpload(c.Request.Context(), user, &req)

	recordUpload("init", err)

	if err != nil {
		l.Error().Err(err).Str("user", user).Str("name", req.Name).Msg("init upload failed")
		writeServiceError(c, err)

		return
	}

	l.Info().
		Str("user", user).
		Str("object_id", resp.ObjectID).
		Int("total_parts", resp.TotalParts).
		Msg("upload session initialized")

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// GetUploadStatus 查询上传进度.
//
//	@Summary		查询上传进度
//	@Description	返回对象已记录的分片、已上传字节数与总分片数
//	@Tags			对象上传
//	@Produce		json
//	@Param			X-User	header		string						true	"调用方身份"
//	@Param			id		path		string						true	"对象ID"
//	@Success		200		{object}	types.UploadStatusResponse	"上传进度"
//	@Failure		403		{object}	map[string]string			"非对象所有者"
//	@Failure		404		{object}	map[string]string			"对象不存在"
//	@Router			/api/v1/storage/objects/{id}/upload/status [get]
func GetUploadStatus(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewObjectService(c.Request.Context())

	resp, err := svc.GetUploadStatus(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// CompleteUpload 完成分片上传.
//
//	@Summary		完成分片上传
//	@Description	提交分片清单并请求后端合并，成功后对象进入 processing 状态
//	@Tags			对象上传
//	@Accept			json
//	@Produce		json
//	@Param			X-User	header		string						true	"调用方身份"
//	@Param			id		path		string						true	"对象ID"
//	@Param			parts	body		types.CompleteUploadRequest	true	"分片清单"
//	@Success		200		{object}	types.ObjectResponse		"对象视图"
//	@Failure		400		{object}	map[string]string			"请求参数错误或无活跃会话"
//	@Failure		502		{object}	map[string]string			"后端合并失败，可重试"
//	@Router			/api/v1/storage/objects/{id}/upload/complete [post]
func CompleteUpload(c *gin.Context) {
	l := log.Logger()

	var req types.CompleteUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid complete upload request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	objectID := c.Param("id")
	svc := service.NewObjectService(c.Request.Context())

	resp, err := svc.CompleteUpload(c.Request.Context(), user, objectID, &req)

	recordUpload("complete", err)

	if err != nil {
		l.Error().Err(err).Str("user", user).Str("object_id", objectID).Msg("complete upload failed")
		writeServiceError(c, err)

		return
	}

	metrics.UploadBytes.Observe(float64(resp.Size))

	l.Info().
		Str("user", user).
		Str("object_id", objectID).
		Int("parts", len(req.Parts)).
		Msg("upload completed")

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// AbortUpload 中止分片上传.
//
//	@Summary		中止分片上传
//	@Description	回收后端会话并删除对象记录，中止后对象ID不再可见
//	@Tags			对象上传
//	@Produce		json
//	@Param			X-User	header	string	true	"调用方身份"
//	@Param			id		path	string	true	"对象ID"
//	@Success		204		"已中止"
//	@Failure		400		{object}	map[string]string	"无活跃会话"
//	@Failure		502		{object}	map[string]string	"后端中止失败，记录保留可重试"
//	@Router			/api/v1/storage/objects/{id}/upload/abort [delete]
func AbortUpload(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	objectID := c.Param("id")
	svc := service.NewObjectService(c.Request.Context())

	err = svc.AbortUpload(c.Request.Context(), user, objectID)

	recordUpload("abort", err)

	if err != nil {
		l.Error().Err(err).Str("user", user).Str("object_id", objectID).Msg("abort upload failed")
		writeServiceError(c, err)

		return
	}

	l.Info().Str("user", user).Str("object_id", objectID).Msg("upload aborted")

	c.Status(http.StatusNoContent)
}

// SimpleUpload 单次直传小对象.
//
//	@Summary		单次直传小对象
//	@Description	以 multipart/form-data 直传单个小对象，超过配置上限会被拒绝并回滚
//	@Tags			对象上传
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			X-User			header		string					true	"调用方身份"
//	@Param			file			formData	file					true	"上传的文件"
//	@Param			content_type	formData	string					false	"内容类型"
//	@Success		201				{object}	types.ObjectResponse	"对象视图"
//	@Failure		400				{object}	map[string]string		"请求参数错误或超过大小上限"
//	@Failure		502				{object}	map[string]string		"存储后端错误"
//	@Router			/api/v1/storage/objects [post]
func SimpleUpload(c *gin.Context) {
	l := log.Logger()

	file, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("failed to get uploaded file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})

		return
	}

	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	src, err := file.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file"})

		return
	}
	defer src.Close()

	svc := service.NewObjectService(c.Request.Context())

	resp, err := svc.SimpleUpload(c.Request.Context(), user, file.Filename, c.PostForm("content_type"), src)

	recordUpload("simple", err)

	if err != nil {
		l.Error().Err(err).Str("user", user).Str("filename", file.Filename).Msg("simple upload failed")
		writeServiceError(c, err)

		return
	}

	l.Info().Str("user", user).Str("object_id", resp.ID).Msg("simple upload done")

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// ListObjects 列出调用方的对象.
//
//	@Summary		列出对象
//	@Description	按创建时间倒序返回调用方拥有的全部对象
//	@Tags			对象管理
//	@Produce		json
//	@Param			X-User	header		string						true	"调用方身份"
//	@Success		200		{object}	types.ListObjectsResponse	"对象列表"
//	@Failure		400		{object}	map[string]string			"请求参数错误"
//	@Router			/api/v1/storage/objects [get]
func ListObjects(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewObjectService(c.Request.Context())

	resp, err := svc.ListObjects(c.Request.Context(), user)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
