package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) uploadAsset(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "upload service is not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to read upload"})
		return
	}
	defer file.Close()

	result, err := h.uploader.Upload(
		c.Request.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		h.logger.Error("Failed to forward upload", zap.String("filename", fileHeader.Filename), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"message": "failed to upload file"})
		return
	}

	c.JSON(http.StatusOK, result)
}
