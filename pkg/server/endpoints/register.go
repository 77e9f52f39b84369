package endpoints

import (
	"github.com/indrajit912/vaultsafe/pkg/server"
)

// RegisterAll registers every page and API endpoint on the server.
func RegisterAll(srv *server.Server) {
	RegisterPageEndpoints(srv)
	RegisterAPIEndpoints(srv)

	// Static files
	RegisterStaticFiles(srv)
}
