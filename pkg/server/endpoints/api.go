package endpoints

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/server"
	"github.com/indrajit912/vaultsafe/pkg/store"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// HealthResponse is the body of a passing GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthErrorResponse is the body of a failing GET /health.
type HealthErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// CredentialSummaryResponse is one entry of GET /api/credentials. It names
// the credential and its fields without decrypting anything.
type CredentialSummaryResponse struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Mnemonics []string  `json:"mnemonics"`
	Fields    []string  `json:"fields"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialResponse is the body of GET /api/credentials/{mnemonic}, with
// every field decrypted.
type CredentialResponse struct {
	UUID      string            `json:"uuid"`
	Name      string            `json:"name"`
	Mnemonics []string          `json:"mnemonics"`
	Fields    map[string]string `json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// RegisterAPIEndpoints registers the health check and the JSON API.
func RegisterAPIEndpoints(srv *server.Server) {
	svc := srv.Service
	sessions := srv.Sessions

	srv.Router.HandleFunc("/health", handleHealth(svc)).Methods("GET")
	srv.Router.HandleFunc("/api/credentials", handleListCredentials(svc, sessions)).Methods("GET")
	srv.Router.HandleFunc("/api/credentials/{mnemonic}", handleGetCredential(svc, sessions)).Methods("GET")
}

func handleHealth(svc *vault.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ping(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthErrorResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// apiSessionKey authenticates a JSON request. Unlike the pages, a missing
// or expired session answers 401 instead of redirecting.
func apiSessionKey(sessions *server.Sessions, w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	key, ok := sessionKey(sessions, r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return key, true
}

func handleListCredentials(svc *vault.Service, sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := apiSessionKey(sessions, w, r)
		if !ok {
			return
		}
		strongbox.Wipe(key)

		summaries, err := svc.List(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list credentials")
			return
		}

		response := make([]CredentialSummaryResponse, 0, len(summaries))
		for _, s := range summaries {
			response = append(response, CredentialSummaryResponse{
				UUID:      s.UUID,
				Name:      s.Name,
				Mnemonics: s.Mnemonics,
				Fields:    fieldNames(s.Fields),
				CreatedAt: s.CreatedAt,
				UpdatedAt: s.UpdatedAt,
			})
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}

func handleGetCredential(svc *vault.Service, sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := apiSessionKey(sessions, w, r)
		if !ok {
			return
		}
		defer strongbox.Wipe(key)

		mnemonic, err := url.PathUnescape(mux.Vars(r)["mnemonic"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed mnemonic")
			return
		}

		cred, err := svc.Get(r.Context(), key, mnemonic, nil)
		if errors.Is(err, store.ErrMnemonicNotFound) {
			respondWithError(w, http.StatusNotFound, "mnemonic not found")
			return
		}
		if errors.Is(err, strongbox.ErrIntegrity) || errors.Is(err, strongbox.ErrAuthentication) {
			respondWithError(w, http.StatusInternalServerError, "credential failed its integrity check")
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to load credential")
			return
		}

		audit.Log(audit.CredentialEvent{
			Actor:     webActor,
			ClientIP:  clientIP(r),
			Mnemonic:  mnemonic,
			Name:      cred.Name,
			Operation: "fetch",
			Success:   true,
		})

		fields := make(map[string]string, len(cred.Fields))
		for f, v := range cred.Fields {
			fields[f.String()] = v
		}
		respondWithJSON(w, http.StatusOK, CredentialResponse{
			UUID:      cred.UUID,
			Name:      cred.Name,
			Mnemonics: cred.Mnemonics,
			Fields:    fields,
			CreatedAt: cred.CreatedAt,
			UpdatedAt: cred.UpdatedAt,
		})
	}
}
