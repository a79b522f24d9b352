package rpc

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterUserResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ObjectInfo is the metadata of a stored object as seen by its owner.
type ObjectInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Access    string    `json:"access"`
	LinkID    string    `json:"link_id"`
}

type UploadObjectRequest struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

type UploadObjectResponse struct {
	Object ObjectInfo `json:"object"`
}

type ListObjectsRequest struct{}

type ListObjectsResponse struct {
	Objects []ObjectInfo `json:"objects"`
}

type GetMetadataRequest struct {
	ID string `json:"id"`
}

type GetMetadataResponse struct {
	Object ObjectInfo `json:"object"`
}

// SetPermissionRequest changes an object's visibility. Password is only
// read for the "password" access.
type SetPermissionRequest struct {
	ID       string  `json:"id"`
	Access   string  `json:"access"`
	Password *string `json:"password,omitempty"`
}

type SetPermissionResponse struct {
	Link string `json:"link"`
}

type DownloadObjectRequest struct {
	ID string `json:"id"`
}

type FetchSharedRequest struct {
	LinkID   string  `json:"link_id"`
	Password *string `json:"password,omitempty"`
}

// ContentResponse carries a whole object. It answers both DownloadObject
// and FetchShared.
type ContentResponse struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

type DeleteObjectRequest struct {
	ID string `json:"id"`
}

type DeleteObjectResponse struct{}
