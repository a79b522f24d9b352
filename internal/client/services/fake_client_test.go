package services

import (
	"context"

	"github.com/dmitrijs2005/sharebox/internal/rpc"
)

type fakeClient struct {
	calls []string

	regUser, regPass     string
	loginUser, loginPass string
	err                  error
	pingErr              error

	uploadName    string
	uploadContent []byte
	object        rpc.ObjectInfo
	objects       []rpc.ObjectInfo
	content       *rpc.ContentResponse
	link          string
	fetchedLinkID string
	fetchedPass   *string
	deletedID     string
}

func (f *fakeClient) Close() error { f.calls = append(f.calls, "close"); return nil }
func (f *fakeClient) Register(ctx context.Context, u, p string) error {
	f.regUser, f.regPass = u, p
	return f.err
}
func (f *fakeClient) Login(ctx context.Context, u, p string) error {
	f.loginUser, f.loginPass = u, p
	return f.err
}
func (f *fakeClient) Logout()                        { f.calls = append(f.calls, "logout") }
func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeClient) Upload(ctx context.Context, name string, content []byte) (*rpc.ObjectInfo, error) {
	f.uploadName, f.uploadContent = name, content
	if f.err != nil {
		return nil, f.err
	}
	return &f.object, nil
}
func (f *fakeClient) List(ctx context.Context) ([]rpc.ObjectInfo, error) { return f.objects, f.err }
func (f *fakeClient) Info(ctx context.Context, id string) (*rpc.ObjectInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.object, nil
}
func (f *fakeClient) SetPermission(ctx context.Context, id, access string, password *string) (string, error) {
	return f.link, f.err
}
func (f *fakeClient) Download(ctx context.Context, id string) (*rpc.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}
func (f *fakeClient) FetchShared(ctx context.Context, linkID string, password *string) (*rpc.ContentResponse, error) {
	f.fetchedLinkID, f.fetchedPass = linkID, password
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}
func (f *fakeClient) Delete(ctx context.Context, id string) error {
	f.deletedID = id
	return f.err
}
