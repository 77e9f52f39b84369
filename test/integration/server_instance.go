package integration

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/indrajit912/vaultsafe/pkg/config"
	"github.com/indrajit912/vaultsafe/pkg/server"
	"github.com/indrajit912/vaultsafe/pkg/server/endpoints"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// ServerInstance is a vaultsafe web server running in-process for the suite.
type ServerInstance struct {
	Server    *server.Server
	ServerURL string
	Port      int

	listener net.Listener
}

// StartServer serves the web vault on a kernel-assigned port and waits for
// its health check to pass.
func StartServer(svc *vault.Service) (*ServerInstance, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	s := server.NewServer(svc, config.Get())
	endpoints.RegisterAll(s)

	instance := &ServerInstance{
		Server:    s,
		ServerURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:      port,
		listener:  listener,
	}

	go func() {
		_ = s.StartWithListener(listener)
	}()

	if err := waitForServer(instance.ServerURL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts the server down, which also wipes every live session key.
func (si *ServerInstance) Stop() {
	if si.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = si.Server.Shutdown(ctx)
	}
	if si.listener != nil {
		_ = si.listener.Close()
	}
}

// waitForServer polls the health endpoint until it answers or the timeout
// expires.
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}
