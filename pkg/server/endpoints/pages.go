package endpoints

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/server"
	"github.com/indrajit912/vaultsafe/pkg/store"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// webActor identifies web-interface requests in the audit trail, which has
// no OS user to name.
const webActor = "web"

const timestampLayout = "2006-01-02 15:04"

// RegisterPageEndpoints registers the HTML pages of the web interface.
func RegisterPageEndpoints(srv *server.Server) {
	svc := srv.Service
	sessions := srv.Sessions
	ttl := srv.Config.SessionTTL()

	srv.Router.HandleFunc("/", handleIndex(svc)).Methods("GET")
	srv.Router.HandleFunc("/login", handleLoginForm(sessions)).Methods("GET")
	srv.Router.HandleFunc("/login", handleLogin(svc, sessions, ttl)).Methods("POST")
	srv.Router.HandleFunc("/logout", handleLogout(sessions)).Methods("GET")
	srv.Router.HandleFunc("/dashboard", handleDashboard(svc, sessions)).Methods("GET")
	srv.Router.HandleFunc("/credentials/{uuid}", handleCredential(svc, sessions)).Methods("GET")
	srv.Router.HandleFunc("/add", handleAddForm(sessions)).Methods("GET")
	srv.Router.HandleFunc("/add", handleAdd(svc, sessions)).Methods("POST")
	srv.Router.HandleFunc("/update/{uuid}", handleUpdateForm(svc, sessions)).Methods("GET")
	srv.Router.HandleFunc("/update/{uuid}", handleUpdate(svc, sessions)).Methods("POST")
	srv.Router.HandleFunc("/delete/{uuid}", handleDelete(svc, sessions)).Methods("POST")
	srv.Router.HandleFunc("/search", handleSearch(svc, sessions)).Methods("GET")
}

// sessionKey returns the vault key for an authenticated request. The caller
// must strongbox.Wipe the key when done.
func sessionKey(sessions *server.Sessions, r *http.Request) ([]byte, bool) {
	cookie, err := r.Cookie(server.SessionCookie)
	if err != nil {
		return nil, false
	}
	return sessions.Lookup(cookie.Value)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type indexData struct {
	Initialized bool
	VaultName   string
}

func handleIndex(svc *vault.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initialized, err := svc.Initialized(r.Context())
		if err != nil {
			http.Error(w, "failed to reach the vault database", http.StatusInternalServerError)
			return
		}

		data := indexData{Initialized: initialized}
		if initialized {
			vlt, err := svc.Vault(r.Context())
			if err != nil {
				http.Error(w, "failed to load the vault", http.StatusInternalServerError)
				return
			}
			data.VaultName = vlt.Name
		}
		renderPage(w, http.StatusOK, "index", data)
	}
}

type loginData struct {
	Error string
}

func handleLoginForm(sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if key, ok := sessionKey(sessions, r); ok {
			strongbox.Wipe(key)
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderPage(w, http.StatusOK, "login", loginData{})
	}
}

func handleLogin(svc *vault.Service, sessions *server.Sessions, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		master := r.PostFormValue("master_passwd")
		if master == "" {
			renderPage(w, http.StatusBadRequest, "login", loginData{
				Error: "Master password is required.",
			})
			return
		}

		key, vlt, err := svc.Unlock(r.Context(), master)
		if errors.Is(err, strongbox.ErrAuthentication) {
			audit.Log(audit.UnlockEvent{
				Actor:        webActor,
				ClientIP:     clientIP(r),
				ErrorMessage: "incorrect master password",
			})
			renderPage(w, http.StatusUnauthorized, "login", loginData{
				Error: "Incorrect master password.",
			})
			return
		}
		if errors.Is(err, store.ErrVaultNotFound) {
			renderPage(w, http.StatusBadRequest, "login", loginData{
				Error: "No vault is initialized on this machine.",
			})
			return
		}
		if err != nil {
			http.Error(w, "failed to unlock the vault", http.StatusInternalServerError)
			return
		}
		defer strongbox.Wipe(key)

		token, err := sessions.Issue(key)
		if err != nil {
			http.Error(w, "failed to start a session", http.StatusInternalServerError)
			return
		}

		audit.Log(audit.UnlockEvent{
			Actor:     webActor,
			ClientIP:  clientIP(r),
			VaultUUID: vlt.UUID,
			Success:   true,
		})

		http.SetCookie(w, &http.Cookie{
			Name:     server.SessionCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

func handleLogout(sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(server.SessionCookie); err == nil {
			sessions.Revoke(cookie.Value)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     server.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

type dashboardData struct {
	VaultName   string
	Credentials int64
	Mnemonics   int64
	Rows        []summaryRow
}

type summaryRow struct {
	UUID      string
	Name      string
	Mnemonics string
	Fields    string
	UpdatedAt string
}

func handleDashboard(svc *vault.Service, sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := sessionKey(sessions, r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		strongbox.Wipe(key)

		info, err := svc.Info(r.Context())
		if err != nil {
			http.Error(w, "failed to load the vault", http.StatusInternalServerError)
			return
		}
		summaries, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "failed to list credentials", http.StatusInternalServerError)
			return
		}

		data := dashboardData{
			VaultName:   info.Vault.Name,
			Credentials: info.Credentials,
			Mnemonics:   info.Mnemonics,
		}
		for _, s := range summaries {
			data.Rows = append(data.Rows, summaryRow{
				UUID:      s.UUID,
				Name:      s.Name,
				Mnemonics: strings.Join(s.Mnemonics, ", "),
				Fields:    strings.Join(fieldNames(s.Fields), ", "),
				UpdatedAt: s.UpdatedAt.Format(timestampLayout),
			})
		}
		renderPage(w, http.StatusOK, "dashboard", data)
	}
}

type credentialData struct {
	UUID      string
	Name      string
	Mnemonics string
	Fields    []fieldRow
	NotesHTML template.HTML
	UpdatedAt string
}

type fieldRow struct {
	Label string
	Value string
}

func handleCredential(svc *vault.Service, sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := sessionKey(sessions, r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		defer strongbox.Wipe(key)

		uuid := mux.Vars(r)["uuid"]
		cred, err := svc.GetByUUID(r.Context(), key, uuid, nil)
		if errors.Is(err, store.ErrCredentialNotFound) {
			http.NotFound(w, r)
			return
		}
		if errors.Is(err, strongbox.ErrIntegrity) || errors.Is(err, strongbox.ErrAuthentication) {
			http.Error(w, "credential failed its integrity check", http.StatusInternalServerError)
			return
		}
		if err != nil {
			http.Error(w, "failed to load the credential", http.StatusInternalServerError)
			return
		}

		audit.Log(audit.CredentialEvent{
			Actor:     webActor,
			ClientIP:  clientIP(r),
			Mnemonic:  cred.Mnemonics[0],
			Name:      cred.Name,
			Operation: "fetch",
			Success:   true,
		})

		data := credentialData{
			UUID:      cred.UUID,
			Name:      cred.Name,
			Mnemonics: strings.Join(cred.Mnemonics, ", "),
			UpdatedAt: cred.UpdatedAt.Format(timestampLayout),
		}
		for _, f := range model.FieldValues() {
			if f == model.FieldNotes {
				continue
			}
			value, ok := cred.Fields[f]
			if !ok {
				continue
			}
			data.Fields = append(data.Fields, fieldRow{Label: fieldLabel(f), Value: value})
		}
		if notes, ok := cred.Fields[model.FieldNotes]; ok {
			rendered, err := renderMarkdown(notes)
			if err != nil {
				http.Error(w, "failed to render notes", http.StatusInternalServerError)
				return
			}
			data.NotesHTML = rendered
		}
		renderPage(w, http.StatusOK, "credential", data)
	}
}

// credentialFormData backs both the add and the update form.
type credentialFormData struct {
	UUID      string
	Error     string
	Name      string
	Mnemonics string
	Fields    []formField
}

type formField struct {
	Name      string
	Label     string
	Value     string
	Multiline bool
}

// fieldLabel turns a field name into a form label, e.g. "primary_email"
// becomes "Primary email".
func fieldLabel(f model.Field) string {
	label := strings.ReplaceAll(f.String(), "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

// blankForm lists every field with an empty value.
func blankForm() credentialFormData {
	var data credentialFormData
	for _, f := range model.FieldValues() {
		data.Fields = append(data.Fields, formField{
			Name:      f.String(),
			Label:     fieldLabel(f),
			Multiline: f == model.FieldNotes,
		})
	}
	return data
}

// formFromRequest rebuilds the form from submitted values so a failed save
// doesn't lose what the user typed.
func formFromRequest(r *http.Request) credentialFormData {
	data := credentialFormData{
		Name:      r.PostFormValue("name"),
		Mnemonics: r.PostFormValue("mnemonics"),
	}
	for _, f := range model.FieldValues() {
		data.Fields = append(data.Fields, formField{
			Name:      f.String(),
			Label:     fieldLabel(f),
			Value:     r.PostFormValue(f.String()),
			Multiline: f == model.FieldNotes,
		})
	}
	return data
}

// splitMnemonics turns the comma separated form input into aliases.
func splitMnemonics(input string) []string {
	var aliases []string
	for _, alias := range strings.Split(input, ",") {
		alias = strings.TrimSpace(alias)
		if alias != "" {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// fieldsFromForm collects the non-empty field inputs.
func fieldsFromForm(r *http.Request) map[model.Field]string {
	fields := make(map[model.Field]string)
	for _, f := range model.FieldValues() {
		if value := r.PostFormValue(f.String()); value != "" {
			fields[f] = value
		}
	}
	return fields
}

func handleAddForm(sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := sessionKey(sessions, r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		strongbox.Wipe(key)

		renderPage(w, http.StatusOK, "add", blankForm())
	}
}

func handleAdd(svc *vault.Service, sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := sessionKey(sessions, r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		defer strongbox.Wipe(key)

		req := vault.CreateRequest{
			Name:      r.PostFormValue("name"),
			Mnemonics: splitMnemonics(r.PostFormValue("mnemonics")),
			Fields:    fieldsFromForm(r),
		}

		cred, err := svc.Create(r.Context(), key, req)
		if err != nil {
			var verr *vault.ValidationError
			var derr *vault.DuplicateMnemonicError
			data := formFromRequest(r)
			switch {
			case errors.As(err, &verr):
				data.Error = verr.Error()
				renderPage(w, http.StatusBadRequest, "add", data)
			case errors.As(err, &derr):
				data.Error = derr.Error()
				renderPage(w, http.StatusConflict, "add", data)
			default:
				http.Error(w, "failed to add the credential", http.StatusInternalServerError)
			}
			return
		}

		audit.Log(audit.CredentialEvent{
			Actor:     webActor,
			ClientIP:  clientIP(r),
			Mnemonic:  cred.Mnemonics[0],
			Name:      cred.Name,
			Operation: "create",
			Success:   true,
		})
		http.Redirect(w, r, "/credentials/"+cred.UUID, http.StatusSeeOther)
	}
}

func handleUpdateForm(svc *vault.Service, sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := sessionKey(sessions, r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		defer strongbox.Wipe(key)

		uuid := mux.Vars(r)["uuid"]
		cred, err := svc.GetByUUID(r.Context(), key, uuid, nil)
		if errors.Is(err, store.ErrCredentialNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "failed to load the credential", http.StatusInternalServerError)
			return
		}

		data := credentialFormData{
			UUID:      cred.UUID,
			Name:      cred.Name,
			Mnemonics: strings.Join(cred.Mnemonics, ", "),
		}
		for _, f := range model.FieldValues() {
			data.Fields = append(data.Fields, formField{
				Name:      f.String(),
				Label:     fieldLabel(f),
				Value:     cred.Fields[f],
				Multiline: f == model.FieldNotes,
			})
		}
		renderPage(w, http.StatusOK, "update", data)
	}
}

func handleUpdate(svc *vault.Service, sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := sessionKey(sessions, r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		defer strongbox.Wipe(key)

		uuid := mux.Vars(r)["uuid"]
		cred, err := svc.GetByUUID(r.Context(), key, uuid, nil)
		if errors.Is(err, store.ErrCredentialNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "failed to load the credential", http.StatusInternalServerError)
			return
		}

		req := vault.UpdateRequest{Fields: make(map[model.Field]string)}
		if name := r.PostFormValue("name"); name != "" && name != cred.Name {
			req.Name = &name
		}
		if aliases := splitMnemonics(r.PostFormValue("mnemonics")); len(aliases) > 0 {
			req.Mnemonics = aliases
		}
		for _, f := range model.FieldValues() {
			submitted := r.PostFormValue(f.String())
			current, present := cred.Fields[f]
			switch {
			case submitted == "" && present:
				req.RemoveFields = append(req.RemoveFields, f)
			case submitted != "" && submitted != current:
				req.Fields[f] = submitted
			}
		}

		updated, err := svc.Update(r.Context(), key, cred.Mnemonics[0], req)
		if err != nil {
			var verr *vault.ValidationError
			var derr *vault.DuplicateMnemonicError
			data := formFromRequest(r)
			data.UUID = uuid
			switch {
			case errors.As(err, &verr):
				data.Error = verr.Error()
				renderPage(w, http.StatusBadRequest, "update", data)
			case errors.As(err, &derr):
				data.Error = derr.Error()
				renderPage(w, http.StatusConflict, "update", data)
			default:
				http.Error(w, "failed to update the credential", http.StatusInternalServerError)
			}
			return
		}

		audit.Log(audit.CredentialEvent{
			Actor:     webActor,
			ClientIP:  clientIP(r),
			Mnemonic:  updated.Mnemonics[0],
			Name:      updated.Name,
			Operation: "update",
			Success:   true,
		})
		http.Redirect(w, r, "/credentials/"+uuid, http.StatusSeeOther)
	}
}

func handleDelete(svc *vault.Service, sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := sessionKey(sessions, r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		defer strongbox.Wipe(key)

		uuid := mux.Vars(r)["uuid"]
		cred, err := svc.GetByUUID(r.Context(), key, uuid, []model.Field{})
		if errors.Is(err, store.ErrCredentialNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "failed to load the credential", http.StatusInternalServerError)
			return
		}

		summary, err := svc.Delete(r.Context(), cred.Mnemonics[0])
		if err != nil {
			http.Error(w, "failed to delete the credential", http.StatusInternalServerError)
			return
		}

		audit.Log(audit.CredentialEvent{
			Actor:     webActor,
			ClientIP:  clientIP(r),
			Mnemonic:  summary.Mnemonics[0],
			Name:      summary.Name,
			Operation: "delete",
			Success:   true,
		})
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

type searchData struct {
	Error    string
	Mnemonic string
}

func handleSearch(svc *vault.Service, sessions *server.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := sessionKey(sessions, r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		defer strongbox.Wipe(key)

		mnemonic := strings.TrimSpace(r.URL.Query().Get("mnemonic"))
		if mnemonic == "" {
			renderPage(w, http.StatusOK, "search", searchData{})
			return
		}

		cred, err := svc.Get(r.Context(), key, mnemonic, []model.Field{})
		if errors.Is(err, store.ErrMnemonicNotFound) {
			renderPage(w, http.StatusNotFound, "search", searchData{
				Error:    "No credential has that mnemonic.",
				Mnemonic: mnemonic,
			})
			return
		}
		if err != nil {
			http.Error(w, "failed to resolve the mnemonic", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/credentials/"+cred.UUID, http.StatusSeeOther)
	}
}
