package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jobspher/jobspher/internal/models"
	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
	"github.com/jobspher/jobspher/internal/storage"
	"github.com/jobspher/jobspher/internal/utils"
)

const maxUploadBytes = 10 << 20

// allowedContent maps upload category to the sniffed content types it
// accepts. Validation happens here; the storage gateway only moves bytes.
var allowedContent = map[string][]string{
	"resume":        {"application/pdf"},
	"payment-proof": {"application/pdf", "image/jpeg", "image/png"},
	"logo":          {"image/jpeg", "image/png"},
}

type FileHandler struct {
	gateway storage.Gateway
	users   pgrepo.UserRepository
}

func NewFileHandler(gateway storage.Gateway, users pgrepo.UserRepository) *FileHandler {
	return &FileHandler{gateway: gateway, users: users}
}

func (h *FileHandler) Upload(c *gin.Context) {
	const op = "FileHandler.Upload"

	user, ok := requireUser(c)
	if !ok {
		return
	}

	category := c.Param("category")
	allowed, ok := allowedContent[category]
	if !ok {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "unknown upload category", nil))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}
	if fh.Size <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file is empty", nil))
		return
	}
	if fh.Size > maxUploadBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	ct := http.DetectContentType(head)

	match := false
	for _, a := range allowed {
		if strings.HasPrefix(ct, a) {
			match = true
			break
		}
	}
	if !match {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "content type not allowed for "+category, nil))
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	objectName := category + "/" + user.ID + "/" + uuid.NewString() + ext

	// re-compose stream: head + remaining file
	r := io.MultiReader(bytes.NewReader(head), file)

	storedPath, err := h.gateway.Upload(c.Request.Context(), objectName, ct, r)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to store file", err))
		return
	}

	// A resume upload by a job seeker becomes the profile resume used as
	// the fallback when applying.
	if category == "resume" && user.Role == models.RoleJobSeeker {
		user.ResumePath = storedPath
		user.UpdatedAt = time.Now().UTC()
		if err := h.users.Update(c.Request.Context(), user); err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to update profile resume", err))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"path":         storedPath,
		"file_name":    fh.Filename,
		"size":         fh.Size,
		"content_type": ct,
	})
}

func (h *FileHandler) Download(c *gin.Context) {
	const op = "FileHandler.Download"

	if _, ok := requireUser(c); !ok {
		return
	}

	objectName := strings.TrimPrefix(c.Param("path"), "/")
	if objectName == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing file path", nil))
		return
	}

	rc, err := h.gateway.Download(c.Request.Context(), objectName)
	if err != nil {
		writeError(c, utils.E(utils.CodeNotFound, op, "file not found", err))
		return
	}
	defer rc.Close()

	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
