package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/indrajit912/vaultsafe/pkg/config"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

type Server struct {
	Service  *vault.Service
	Config   *config.VaultSafeConfig
	Sessions *Sessions
	Router   *mux.Router
	srv      *http.Server
}

func NewServer(service *vault.Service, cfg *config.VaultSafeConfig) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.Addr(),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Service:  service,
		Config:   cfg,
		Sessions: NewSessions(cfg.SessionTTL()),
		Router:   router,
		srv:      srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on l instead of the configured address. Tests use
// it to bind port 0 and avoid clashing with a running vaultsafe server.
func (s Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}

// Shutdown drains in-flight requests and wipes every live session key.
func (s Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.Sessions.RevokeAll()
	return err
}
