package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/server/services"
)

const uploadField = "file"

// upload streams the multipart part named "file" straight into the
// object service; nothing is buffered on local disk.
func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: multipart body required", common.ErrInvalidInput))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			h.writeError(w, r, fmt.Errorf("%w: no %q field in upload", common.ErrInvalidInput, uploadField))
			return
		}
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
			return
		}
		if part.FormName() != uploadField {
			_ = part.Close()
			continue
		}

		obj, err := h.objects.CreateObject(r.Context(), Subject(r.Context()), part.FileName(), part)
		_ = part.Close()
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, uploadResponse{Message: "file uploaded", File: toFileResponse(obj)})
		return
	}
}

func (h *handler) listFiles(w http.ResponseWriter, r *http.Request) {
	objs, err := h.objects.ListObjects(r.Context(), Subject(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]fileResponse, 0, len(objs))
	for _, o := range objs {
		out = append(out, toFileResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getFile(w http.ResponseWriter, r *http.Request) {
	obj, err := h.objects.GetMetadata(r.Context(), chi.URLParam(r, "id"), Subject(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(obj))
}

func (h *handler) fileContent(w http.ResponseWriter, r *http.Request) {
	d, err := h.objects.OpenOwned(r.Context(), chi.URLParam(r, "id"), Subject(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.sendBytes(w, r, d)
}

func (h *handler) setPermission(w http.ResponseWriter, r *http.Request) {
	var req permissionRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	link, err := h.objects.SetPermission(r.Context(), chi.URLParam(r, "id"), Subject(r.Context()), req.access(), req.password())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, permissionResponse{Message: "permission updated", Link: link})
}

func (h *handler) deleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.objects.DeleteObject(r.Context(), chi.URLParam(r, "id"), Subject(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "file deleted")
}

// download is the anonymous byte path. The password query parameter is
// passed through as given; an absent parameter is distinct from an empty
// one.
func (h *handler) download(w http.ResponseWriter, r *http.Request) {
	var credential *string
	if values, ok := r.URL.Query()["password"]; ok && len(values) > 0 {
		credential = &values[0]
	}

	d, err := h.objects.ResolveAndFetch(r.Context(), chi.URLParam(r, "linkId"), credential)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.sendBytes(w, r, d)
}

func (h *handler) sendBytes(w http.ResponseWriter, r *http.Request, d *services.Download) {
	defer d.Body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(d.Object.SizeBytes, 10))
	if cd := mime.FormatMediaType("attachment", map[string]string{"filename": d.Object.DisplayName}); cd != "" {
		w.Header().Set("Content-Disposition", cd)
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, d.Body); err != nil {
		h.logger.Warn(r.Context(), "download interrupted", "id", d.Object.ID, "error", err)
	}
}
