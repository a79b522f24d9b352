package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "sharebox.ShareBoxService"

// Full method names.
const (
	MethodPing           = "/" + ServiceName + "/Ping"
	MethodRegisterUser   = "/" + ServiceName + "/RegisterUser"
	MethodLogin          = "/" + ServiceName + "/Login"
	MethodRefreshToken   = "/" + ServiceName + "/RefreshToken"
	MethodUploadObject   = "/" + ServiceName + "/UploadObject"
	MethodListObjects    = "/" + ServiceName + "/ListObjects"
	MethodGetMetadata    = "/" + ServiceName + "/GetMetadata"
	MethodSetPermission  = "/" + ServiceName + "/SetPermission"
	MethodDownloadObject = "/" + ServiceName + "/DownloadObject"
	MethodFetchShared    = "/" + ServiceName + "/FetchShared"
	MethodDeleteObject   = "/" + ServiceName + "/DeleteObject"
)

// OwnerScoped reports whether method acts on behalf of an authenticated
// user and so needs an access token.
func OwnerScoped(method string) bool {
	switch method {
	case MethodUploadObject, MethodListObjects, MethodGetMetadata,
		MethodSetPermission, MethodDownloadObject, MethodDeleteObject:
		return true
	}
	return false
}

type ShareBoxServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	UploadObject(context.Context, *UploadObjectRequest) (*UploadObjectResponse, error)
	ListObjects(context.Context, *ListObjectsRequest) (*ListObjectsResponse, error)
	GetMetadata(context.Context, *GetMetadataRequest) (*GetMetadataResponse, error)
	SetPermission(context.Context, *SetPermissionRequest) (*SetPermissionResponse, error)
	DownloadObject(context.Context, *DownloadObjectRequest) (*ContentResponse, error)
	FetchShared(context.Context, *FetchSharedRequest) (*ContentResponse, error)
	DeleteObject(context.Context, *DeleteObjectRequest) (*DeleteObjectResponse, error)
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](name, fullMethod string, call func(ShareBoxServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ShareBoxServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ShareBoxServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShareBoxServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", MethodPing, ShareBoxServer.Ping),
		unary("RegisterUser", MethodRegisterUser, ShareBoxServer.RegisterUser),
		unary("Login", MethodLogin, ShareBoxServer.Login),
		unary("RefreshToken", MethodRefreshToken, ShareBoxServer.RefreshToken),
		unary("UploadObject", MethodUploadObject, ShareBoxServer.UploadObject),
		unary("ListObjects", MethodListObjects, ShareBoxServer.ListObjects),
		unary("GetMetadata", MethodGetMetadata, ShareBoxServer.GetMetadata),
		unary("SetPermission", MethodSetPermission, ShareBoxServer.SetPermission),
		unary("DownloadObject", MethodDownloadObject, ShareBoxServer.DownloadObject),
		unary("FetchShared", MethodFetchShared, ShareBoxServer.FetchShared),
		unary("DeleteObject", MethodDeleteObject, ShareBoxServer.DeleteObject),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sharebox.proto",
}

func RegisterShareBoxServer(s grpc.ServiceRegistrar, srv ShareBoxServer) {
	s.RegisterService(&ServiceDesc, srv)
}
