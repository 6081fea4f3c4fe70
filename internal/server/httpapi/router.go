package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1/users").Subrouter()
	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	// refresh is unguarded: the refresh token itself is the credential
	api.HandleFunc("/token", s.handleRefresh).Methods(http.MethodPost)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(s.requireAuth)
	protected.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	protected.HandleFunc("/change-password", s.handleChangePassword).Methods(http.MethodPost)
	protected.HandleFunc("/me", s.handleCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/me", s.handleUpdateProfile).Methods(http.MethodPatch)
	protected.HandleFunc("/{image:avatar|cover}/upload-url", s.handleImageUploadURL).Methods(http.MethodPost)
	protected.HandleFunc("/{image:avatar|cover}/download-url", s.handleImageDownloadURL).Methods(http.MethodGet)
	protected.HandleFunc("/{image:avatar|cover}", s.handleConfirmImage).Methods(http.MethodPatch)

	return r
}
