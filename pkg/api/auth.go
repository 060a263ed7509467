package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "tripledger.v1.AuthService"

const (
	AuthServiceRegisterProcedure       = "/tripledger.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/tripledger.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/tripledger.v1.AuthService/GetCurrentUser"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error)
	GetCurrentUser(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec[connect.HandlerOption](connect.WithCodec(Codec{}), opts)

	routes := map[string]http.Handler{
		AuthServiceRegisterProcedure:       connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	}
	return "/" + AuthServiceName + "/", routeHandler(routes)
}

// AuthServiceClient is a client for AuthService.
type AuthServiceClient struct {
	register       *connect.Client[RegisterRequest, AuthResponse]
	login          *connect.Client[LoginRequest, AuthResponse]
	getCurrentUser *connect.Client[emptypb.Empty, GetCurrentUserResponse]
}

// NewAuthServiceClient constructs a client for AuthService.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	opts = withCodec[connect.ClientOption](connect.WithCodec(Codec{}), opts)
	return &AuthServiceClient{
		register:       connect.NewClient[RegisterRequest, AuthResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[LoginRequest, AuthResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[emptypb.Empty, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
