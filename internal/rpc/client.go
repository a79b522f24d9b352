package rpc

import (
	"context"

	"google.golang.org/grpc"
)

type ShareBoxClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	UploadObject(ctx context.Context, in *UploadObjectRequest, opts ...grpc.CallOption) (*UploadObjectResponse, error)
	ListObjects(ctx context.Context, in *ListObjectsRequest, opts ...grpc.CallOption) (*ListObjectsResponse, error)
	GetMetadata(ctx context.Context, in *GetMetadataRequest, opts ...grpc.CallOption) (*GetMetadataResponse, error)
	SetPermission(ctx context.Context, in *SetPermissionRequest, opts ...grpc.CallOption) (*SetPermissionResponse, error)
	DownloadObject(ctx context.Context, in *DownloadObjectRequest, opts ...grpc.CallOption) (*ContentResponse, error)
	FetchShared(ctx context.Context, in *FetchSharedRequest, opts ...grpc.CallOption) (*ContentResponse, error)
	DeleteObject(ctx context.Context, in *DeleteObjectRequest, opts ...grpc.CallOption) (*DeleteObjectResponse, error)
}

type shareBoxClient struct {
	cc grpc.ClientConnInterface
}

// NewShareBoxClient returns a client that sends every call with the JSON
// content-subtype.
func NewShareBoxClient(cc grpc.ClientConnInterface) ShareBoxClient {
	return &shareBoxClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *shareBoxClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *shareBoxClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error) {
	return invoke[RegisterUserResponse](ctx, c.cc, MethodRegisterUser, in, opts)
}

func (c *shareBoxClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *shareBoxClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *shareBoxClient) UploadObject(ctx context.Context, in *UploadObjectRequest, opts ...grpc.CallOption) (*UploadObjectResponse, error) {
	return invoke[UploadObjectResponse](ctx, c.cc, MethodUploadObject, in, opts)
}

func (c *shareBoxClient) ListObjects(ctx context.Context, in *ListObjectsRequest, opts ...grpc.CallOption) (*ListObjectsResponse, error) {
	return invoke[ListObjectsResponse](ctx, c.cc, MethodListObjects, in, opts)
}

func (c *shareBoxClient) GetMetadata(ctx context.Context, in *GetMetadataRequest, opts ...grpc.CallOption) (*GetMetadataResponse, error) {
	return invoke[GetMetadataResponse](ctx, c.cc, MethodGetMetadata, in, opts)
}

func (c *shareBoxClient) SetPermission(ctx context.Context, in *SetPermissionRequest, opts ...grpc.CallOption) (*SetPermissionResponse, error) {
	return invoke[SetPermissionResponse](ctx, c.cc, MethodSetPermission, in, opts)
}

func (c *shareBoxClient) DownloadObject(ctx context.Context, in *DownloadObjectRequest, opts ...grpc.CallOption) (*ContentResponse, error) {
	return invoke[ContentResponse](ctx, c.cc, MethodDownloadObject, in, opts)
}

func (c *shareBoxClient) FetchShared(ctx context.Context, in *FetchSharedRequest, opts ...grpc.CallOption) (*ContentResponse, error) {
	return invoke[ContentResponse](ctx, c.cc, MethodFetchShared, in, opts)
}

func (c *shareBoxClient) DeleteObject(ctx context.Context, in *DeleteObjectRequest, opts ...grpc.CallOption) (*DeleteObjectResponse, error) {
	return invoke[DeleteObjectResponse](ctx, c.cc, MethodDeleteObject, in, opts)
}
