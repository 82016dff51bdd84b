package handler

import (
	"GoVault/config"
	"GoVault/internal/dto"
	"GoVault/internal/view"
	"GoVault/utils"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListFiles returns the owner's files, as a page or as JSON.
func (h *Handler) ListFiles(c *gin.Context) {
	userID := c.MustGet("user_id").(uint64)
	records, err := h.Files.ListFor(c.Request.Context(), userID)
	if err != nil {
		h.failListFiles(c, err)
		return
	}
	if isAPI(c) {
		files := make([]dto.FileResponse, 0, len(records))
		for _, record := range records {
			files = append(files, dto.FileResponse{
				ID:          record.ID,
				Name:        record.Name,
				Size:        record.Size,
				ContentType: record.ContentType,
				CreatedAt:   record.CreatedAt,
			})
		}
		utils.Success(c, gin.H{"files": files, "total": len(files)})
		return
	}
	handle := c.MustGet("handle").(string)
	c.HTML(http.StatusOK, "files.html", view.NewFilesPage(handle, records))
}

func (h *Handler) failListFiles(c *gin.Context, err error) {
	status, msg := errStatus(err)
	if isAPI(c) {
		utils.Fail(c, status, msg)
		return
	}
	handle := c.MustGet("handle").(string)
	page := view.NewFilesPage(handle, nil)
	page.Error = msg
	c.HTML(status, "files.html", page)
}

// UploadFile streams a multipart upload into the object store and
// records it in the catalog.
func (h *Handler) UploadFile(c *gin.Context) {
	maxBytes := config.AppConfig.MaxUploadBytes
	if maxBytes > 0 {
		// Bounds the whole multipart body, not just the part.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	fileHeader, err := c.FormFile("upload")
	if err != nil {
		h.failUpload(c, http.StatusBadRequest, "a file is required")
		return
	}
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		h.failUpload(c, http.StatusBadRequest, "file exceeds the upload limit")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.failUpload(c, http.StatusBadRequest, "unreadable upload")
		return
	}
	defer src.Close()

	userID := c.MustGet("user_id").(uint64)
	handle := c.MustGet("handle").(string)
	record, err := h.Files.Upload(
		c.Request.Context(),
		userID,
		handle,
		fileHeader.Filename,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
		src,
	)
	if err != nil {
		status, msg := errStatus(err)
		h.failUpload(c, status, msg)
		return
	}

	if isAPI(c) {
		utils.Success(c, gin.H{"file_id": record.ID, "name": record.Name, "size": record.Size})
		return
	}
	c.Redirect(http.StatusSeeOther, "/files")
}

func (h *Handler) failUpload(c *gin.Context, status int, msg string) {
	if isAPI(c) {
		utils.Fail(c, status, msg)
		return
	}
	handle := c.MustGet("handle").(string)
	userID := c.MustGet("user_id").(uint64)
	records, err := h.Files.ListFor(c.Request.Context(), userID)
	if err != nil {
		records = nil
	}
	page := view.NewFilesPage(handle, records)
	page.Error = msg
	c.HTML(status, "files.html", page)
}

// DownloadFile streams a file back to its owner with the original name.
func (h *Handler) DownloadFile(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.failFileOp(c, http.StatusBadRequest, "invalid file id")
		return
	}
	userID := c.MustGet("user_id").(uint64)

	object, record, info, err := h.Files.Download(c.Request.Context(), fileID, userID)
	if err != nil {
		status, msg := errStatus(err)
		h.failFileOp(c, status, msg)
		return
	}
	defer object.Close()

	contentType := record.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fileName := utils.SanitizeHeaderFilename(record.Name)
	c.Header(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s\"", fileName),
	)
	c.Header("Content-Type", contentType)
	c.Header("Content-Length", fmt.Sprintf("%d", info.Size))

	if _, err := io.Copy(c.Writer, object); err != nil {
		// Usually the client went away; the context cancels the stream.
		log.Println("download error:", err)
	}
}

// DeleteFile removes a file's catalog row and its backing object.
func (h *Handler) DeleteFile(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.failFileOp(c, http.StatusBadRequest, "invalid file id")
		return
	}
	userID := c.MustGet("user_id").(uint64)

	if err := h.Files.Delete(c.Request.Context(), fileID, userID); err != nil {
		status, msg := errStatus(err)
		h.failFileOp(c, status, msg)
		return
	}

	if isAPI(c) || c.Request.Method == http.MethodDelete {
		utils.Success(c, nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/files")
}

func (h *Handler) failFileOp(c *gin.Context, status int, msg string) {
	if isAPI(c) || c.Request.Method == http.MethodDelete {
		utils.Fail(c, status, msg)
		return
	}
	handle := c.MustGet("handle").(string)
	userID := c.MustGet("user_id").(uint64)
	records, listErr := h.Files.ListFor(c.Request.Context(), userID)
	if listErr != nil {
		records = nil
	}
	page := view.NewFilesPage(handle, records)
	page.Error = msg
	c.HTML(status, "files.html", page)
}
