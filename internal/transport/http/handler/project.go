package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/share-project-api/internal/application/project"
	"github.com/share-project-api/internal/domain"
)

// ProjectHandler handles upload, verification, and project management
// endpoints.
type ProjectHandler struct {
	svc         project.Service
	maxFileSize int64
}

func NewProjectHandler(svc project.Service, maxFileSize int64) *ProjectHandler {
	return &ProjectHandler{svc: svc, maxFileSize: maxFileSize}
}

// Upload accepts a multipart form with a zip file and mails a
// verification token to the address claimed in the archive. All
// outcomes are HTTP 200 with the success flag.
func (h *ProjectHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Backstop over the per-part size check below.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		writeJSON(w, http.StatusOK, UploadEnvelope{Message: "上传失败：无效的表单数据"})
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusOK, UploadEnvelope{Message: "缺少上传文件"})
		return
	}
	defer f.Close()

	if header.Size > h.maxFileSize {
		writeJSON(w, http.StatusOK, UploadEnvelope{
			Message: fmt.Sprintf("文件大小超过限制，最大允许%dMB", h.maxFileSize/1024/1024),
		})
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		writeJSON(w, http.StatusOK, UploadEnvelope{Message: "只接受ZIP文件"})
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(header.Filename, ".zip")
	}

	msg, err := h.svc.Upload(r.Context(), project.UploadInput{
		Reader:   f,
		Filename: header.Filename,
		Size:     header.Size,
		Name:     name,
	})
	if err != nil {
		writeJSON(w, http.StatusOK, UploadEnvelope{Message: failureMessage(err, "上传失败")})
		return
	}
	writeJSON(w, http.StatusOK, UploadEnvelope{Success: true, Message: msg})
}

// Verify consumes a token and deploys its project.
func (h *ProjectHandler) Verify(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.Verify(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeJSON(w, http.StatusOK, VerifyEnvelope{Message: failureMessage(err, "验证失败")})
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{
		Success:     true,
		Message:     "项目验证成功",
		RedirectURL: &url,
	})
}

// List returns the projects registered under an email.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter required")
		return
	}
	projects, err := h.svc.List(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, failureMessage(err, "查询项目失败"))
		return
	}
	writeJSON(w, http.StatusOK, ProjectListEnvelope{Success: true, Projects: projects})
}

// Delete removes a registry entry and the deployed project directory.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	name := r.URL.Query().Get("name")
	if email == "" || name == "" {
		writeError(w, http.StatusBadRequest, "email and name query parameters required")
		return
	}
	if err := h.svc.Delete(r.Context(), email, name); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "项目不存在")
			return
		}
		writeError(w, http.StatusInternalServerError, failureMessage(err, "删除项目失败"))
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "项目已删除"})
}
