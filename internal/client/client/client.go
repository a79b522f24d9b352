package client

import (
	"context"

	"github.com/dmitrijs2005/sharebox/internal/rpc"
)

type Client interface {
	Close() error
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout()
	Ping(ctx context.Context) error
	Upload(ctx context.Context, name string, content []byte) (*rpc.ObjectInfo, error)
	List(ctx context.Context) ([]rpc.ObjectInfo, error)
	Info(ctx context.Context, id string) (*rpc.ObjectInfo, error)
	SetPermission(ctx context.Context, id, access string, password *string) (string, error)
	Download(ctx context.Context, id string) (*rpc.ContentResponse, error)
	FetchShared(ctx context.Context, linkID string, password *string) (*rpc.ContentResponse, error)
	Delete(ctx context.Context, id string) error
}
