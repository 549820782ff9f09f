// Package server wires connect services into one HTTP handler.
package server

import (
	"net/http"

	"connectrpc.com/connect"
	"go.uber.org/zap"
)

// ConnectService is implemented by each service to register its connect handler.
type ConnectService interface {
	RegisterHandler(interceptors ...connect.Interceptor) (string, http.Handler)
}

// Interceptors returns the interceptor chain applied to every service.
func Interceptors(log *zap.Logger) []connect.Interceptor {
	return []connect.Interceptor{
		LoggingInterceptor(log),
		ValidationInterceptor(),
	}
}

// Mount registers every service on mux.
func Mount(mux *http.ServeMux, interceptors []connect.Interceptor, services ...ConnectService) {
	for _, svc := range services {
		path, h := svc.RegisterHandler(interceptors...)
		mux.Handle(path, h)
	}
}
