package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"rag-interview-api/internal/application/document"
	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/internal/interfaces/http/dto"
)

// DocumentHandler 文档处理器
type DocumentHandler struct {
	svc            *document.Service
	maxUploadBytes int64
}

// NewDocumentHandler 创建文档处理器
func NewDocumentHandler(svc *document.Service, maxUploadBytes int64) *DocumentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &DocumentHandler{
		svc:            svc,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload 上传并摄取文档
// @Summary 上传文档
// @Description 上传文本文档，切分、向量化并自动抽取面试预约请求
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "文档文件"
// @Param chunking_strategy formData string false "切分策略 (fixed_size/semantic)"
// @Success 200 {object} dto.Response[dto.UploadResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Router /v1/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		dto.BadRequest(c, "file is required")
		return
	}

	if fileHeader.Size > h.maxUploadBytes {
		dto.PayloadTooLarge(c, "file too large")
		return
	}

	strategy := entity.ChunkStrategy(c.DefaultPostForm("chunking_strategy", string(entity.ChunkStrategyFixedSize)))

	file, err := fileHeader.Open()
	if err != nil {
		dto.InternalError(c, "failed to read upload")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		dto.InternalError(c, "failed to read upload")
		return
	}
	if int64(len(content)) > h.maxUploadBytes {
		dto.PayloadTooLarge(c, "file too large")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")

	result, err := h.svc.Ingest(c.Request.Context(), fileHeader.Filename, contentType, string(content), strategy)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, dto.UploadResponse{
		DocumentID:          result.DocumentID,
		ChunksCreated:       result.ChunksCreated,
		ExtractedInterviews: result.ExtractedBookings,
	})
}

// Get 查询文档详情
// @Summary 查询文档
// @Tags Documents
// @Produce json
// @Param id path string true "文档 ID"
// @Success 200 {object} dto.Response[dto.DocumentResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.NewDocumentResponse(doc))
}

// List 分页列出文档
// @Summary 列出文档
// @Tags Documents
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.DocumentResponse]
// @Router /v1/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	page := parsePagination(c)

	result, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.SuccessWithPage(c, dto.NewDocumentListResponse(result.Items),
		dto.NewPageMeta(page.Page, page.Limit(), int(result.Total)))
}

// parsePagination 解析分页查询参数
func parsePagination(c *gin.Context) repository.Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return repository.Pagination{Page: page, PageSize: pageSize}
}
