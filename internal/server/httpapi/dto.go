package httpapi

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/sharebox/internal/server/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// permissionRequest keeps both fields raw so a value of the wrong JSON
// type is judged by the permission rules instead of failing the decode.
type permissionRequest struct {
	Access   json.RawMessage `json:"access"`
	Password json.RawMessage `json:"password"`
}

// access returns the requested visibility, or "" (never valid) when it is
// not a JSON string.
func (p permissionRequest) access() string {
	var s string
	if err := json.Unmarshal(p.Access, &s); err != nil {
		return ""
	}
	return s
}

// password returns nil unless the field is a JSON string.
func (p permissionRequest) password() *string {
	var s string
	if err := json.Unmarshal(p.Password, &s); err != nil {
		return nil
	}
	return &s
}

type permissionResponse struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

// fileResponse is the public view of an object record. It never carries
// the credential or the storage key.
type fileResponse struct {
	ID           string    `json:"id"`
	Owner        string    `json:"owner"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Access       string    `json:"access"`
	LinkID       string    `json:"linkId"`
}

type uploadResponse struct {
	Message string       `json:"message"`
	File    fileResponse `json:"file"`
}

func toFileResponse(o *models.Object) fileResponse {
	return fileResponse{
		ID:           o.ID,
		Owner:        o.OwnerID,
		OriginalName: o.DisplayName,
		Size:         o.SizeBytes,
		UploadedAt:   o.CreatedAt,
		Access:       o.Permission.String(),
		LinkID:       o.LinkID,
	}
}
