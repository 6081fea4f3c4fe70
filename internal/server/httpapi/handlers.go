package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rmaksimov/videotube/internal/common"
	"github.com/rmaksimov/videotube/internal/server/services"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
	}
}

func setAuthCookies(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, authCookie(accessTokenCookie, pair.AccessToken, 0))
	http.SetCookie(w, authCookie(refreshTokenCookie, pair.RefreshToken, 0))
}

func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, authCookie(accessTokenCookie, "", -1))
	http.SetCookie(w, authCookie(refreshTokenCookie, "", -1))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(r.Context(), w, http.StatusBadRequest, nil, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), services.RegisterParams{
		FullName: req.FullName,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "username", user.Username)
	s.writeJSON(r.Context(), w, http.StatusCreated, user, "user registered successfully")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	user, pair, err := s.sessions.Login(r.Context(), identifier, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	setAuthCookies(w, pair)
	s.logger.Info(r.Context(), "user logged in", "username", user.Username)
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	if err := s.sessions.Logout(r.Context(), user.ID); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	clearAuthCookies(w)
	s.writeJSON(r.Context(), w, http.StatusOK, nil, "user logged out")
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	incoming := ""
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		incoming = c.Value
	}
	if incoming == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		// body is optional when the cookie is present
		_ = json.NewDecoder(r.Body).Decode(&req)
		incoming = req.RefreshToken
	}

	pair, err := s.sessions.Refresh(r.Context(), incoming)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	setAuthCookies(w, pair)
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	user := CurrentUser(r.Context())
	if err := s.sessions.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, nil, "password changed successfully")
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, CurrentUser(r.Context()), "current user fetched successfully")
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	user := CurrentUser(r.Context())
	updated, err := s.users.UpdateProfile(r.Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, updated, "account details updated successfully")
}

func (s *Server) handleImageUploadURL(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["image"]
	user := CurrentUser(r.Context())

	key, url, err := s.media.PresignUpload(r.Context(), user.ID, kind)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"key":       key,
		"uploadUrl": url,
	}, "upload url issued")
}

func (s *Server) handleImageDownloadURL(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["image"]
	user := CurrentUser(r.Context())

	key := user.Avatar
	if kind == "cover" {
		key = user.CoverImage
	}
	if key == "" {
		s.writeError(r.Context(), w, common.ErrorNotFound)
		return
	}

	url, err := s.media.PresignDownload(r.Context(), key)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"downloadUrl": url}, "download url issued")
}

func (s *Server) handleConfirmImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	kind := mux.Vars(r)["image"]
	user := CurrentUser(r.Context())

	var err error
	if kind == "cover" {
		err = s.users.SetCoverImage(r.Context(), user.ID, req.Key)
	} else {
		err = s.users.SetAvatar(r.Context(), user.ID, req.Key)
	}
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"key": req.Key}, "image updated successfully")
}
