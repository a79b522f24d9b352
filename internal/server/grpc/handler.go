package grpc

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/rpc"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
	"github.com/dmitrijs2005/sharebox/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrAuthenticationRequired, codes.Unauthenticated},
	{common.ErrorUnauthorized, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrRefreshTokenExpired, codes.Unauthenticated},
	{common.ErrForbidden, codes.PermissionDenied},
	{common.ErrCredentialMismatch, codes.PermissionDenied},
	{common.ErrInvalidVisibility, codes.InvalidArgument},
	{common.ErrInvalidCredential, codes.InvalidArgument},
	{common.ErrInvalidInput, codes.InvalidArgument},
	{common.ErrAlreadyExists, codes.AlreadyExists},
	{common.ErrStorageUnavailable, codes.Unavailable},
}

// toStatus converts a service error into a gRPC status. Internal errors
// are logged and hidden from the caller.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			msg := e.err.Error()
			if e.err == common.ErrInvalidInput {
				msg = err.Error()
			}
			return status.Error(e.code, msg)
		}
	}
	s.logger.Error(ctx, err.Error())
	return status.Error(codes.Internal, "internal error")
}

func toObjectInfo(o *models.Object) rpc.ObjectInfo {
	return rpc.ObjectInfo{
		ID:        o.ID,
		Name:      o.DisplayName,
		Size:      o.SizeBytes,
		CreatedAt: o.CreatedAt,
		Access:    o.Permission.String(),
		LinkID:    o.LinkID,
	}
}

func readDownload(d *services.Download) (*rpc.ContentResponse, error) {
	defer d.Body.Close()
	b, err := io.ReadAll(d.Body)
	if err != nil {
		return nil, err
	}
	return &rpc.ContentResponse{Name: d.Object.DisplayName, Content: b}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {

	return &rpc.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *rpc.RegisterUserRequest) (*rpc.RegisterUserResponse, error) {

	s.logger.Info(ctx, "Registration request")

	result, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return &rpc.RegisterUserResponse{UserID: result.ID}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {

	tokens, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.RefreshTokenResponse, error) {

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

func (s *GRPCServer) UploadObject(ctx context.Context, req *rpc.UploadObjectRequest) (*rpc.UploadObjectResponse, error) {

	obj, err := s.objects.CreateObject(ctx, userID(ctx), req.Name, bytes.NewReader(req.Content))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.UploadObjectResponse{Object: toObjectInfo(obj)}, nil

}

func (s *GRPCServer) ListObjects(ctx context.Context, req *rpc.ListObjectsRequest) (*rpc.ListObjectsResponse, error) {

	objs, err := s.objects.ListObjects(ctx, userID(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]rpc.ObjectInfo, 0, len(objs))
	for _, o := range objs {
		out = append(out, toObjectInfo(o))
	}
	return &rpc.ListObjectsResponse{Objects: out}, nil

}

func (s *GRPCServer) GetMetadata(ctx context.Context, req *rpc.GetMetadataRequest) (*rpc.GetMetadataResponse, error) {

	obj, err := s.objects.GetMetadata(ctx, req.ID, userID(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.GetMetadataResponse{Object: toObjectInfo(obj)}, nil

}

func (s *GRPCServer) SetPermission(ctx context.Context, req *rpc.SetPermissionRequest) (*rpc.SetPermissionResponse, error) {

	link, err := s.objects.SetPermission(ctx, req.ID, userID(ctx), req.Access, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.SetPermissionResponse{Link: link}, nil

}

func (s *GRPCServer) DownloadObject(ctx context.Context, req *rpc.DownloadObjectRequest) (*rpc.ContentResponse, error) {

	d, err := s.objects.OpenOwned(ctx, req.ID, userID(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp, err := readDownload(d)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return resp, nil

}

func (s *GRPCServer) FetchShared(ctx context.Context, req *rpc.FetchSharedRequest) (*rpc.ContentResponse, error) {

	d, err := s.objects.ResolveAndFetch(ctx, req.LinkID, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp, err := readDownload(d)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return resp, nil

}

func (s *GRPCServer) DeleteObject(ctx context.Context, req *rpc.DeleteObjectRequest) (*rpc.DeleteObjectResponse, error) {

	if err := s.objects.DeleteObject(ctx, req.ID, userID(ctx)); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Object deleted", "id", req.ID)
	return &rpc.DeleteObjectResponse{}, nil

}
