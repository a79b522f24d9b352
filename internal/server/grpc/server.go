// Package grpc serves the ShareBox RPC service used by the CLI client.
package grpc

import (
	"context"
	"io"
	"net"

	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/rpc"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
	"github.com/dmitrijs2005/sharebox/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type objectSvc interface {
	CreateObject(ctx context.Context, owner, displayName string, r io.Reader) (*models.Object, error)
	ListObjects(ctx context.Context, owner string) ([]*models.Object, error)
	GetMetadata(ctx context.Context, id, requester string) (*models.Object, error)
	SetPermission(ctx context.Context, id, requester, visibility string, credential *string) (string, error)
	ResolveAndFetch(ctx context.Context, linkID string, credential *string) (*services.Download, error)
	OpenOwned(ctx context.Context, id, requester string) (*services.Download, error)
	DeleteObject(ctx context.Context, id, requester string) error
}

// headroom for JSON framing and base64 expansion of file content
const messageOverhead = 1 << 20

type GRPCServer struct {
	address   string
	users     userSvc
	objects   objectSvc
	logger    logging.Logger
	jwtSecret []byte
	maxMsg    int
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, os objectSvc, secretKey string, maxUploadBytes int64) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		objects:   os,
		jwtSecret: []byte(secretKey),
		maxMsg:    int(maxUploadBytes/3*4) + messageOverhead,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(s.maxMsg),
		grpc.MaxSendMsgSize(s.maxMsg),
	)
	rpc.RegisterShareBoxServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
