package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gnotes/internal/auth"
	"gnotes/internal/store"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	notes, err := s.store.Notes(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderListing(w, notes)
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	// The original exposed tags with unquote_plus semantics, so a "+"
	// in the path still means a space.
	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/tag/"), "/")
	name = strings.ReplaceAll(name, "+", " ")
	if name == "" {
		http.NotFound(w, r)
		return
	}
	notes, err := s.store.NotesByTag(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderListing(w, notes)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/archive/"), "/"), "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		http.NotFound(w, r)
		return
	}
	notes, err := s.store.NotesByMonth(r.Context(), year, month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderListing(w, notes)
}

// handleNote serves /note/{id}, the admin views /note/{id}/{edit|delete}
// and the mutation path /note/{id}/{action}/confirm/{token}.
func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/note/"), "/"), "/")
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(parts) == 1:
		s.viewNote(w, r, id)
	case len(parts) == 2:
		s.manageNote(w, r, id, parts[1])
	case len(parts) == 4 && parts[2] == "confirm":
		s.confirmNoteAction(w, r, id, parts[1], parts[3])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) viewNote(w http.ResponseWriter, r *http.Request, id int64) {
	note, err := s.store.NoteByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderListing(w, []store.Note{note})
}

// manageNote renders the delete confirmation or edit form, carrying a
// fresh CSRF token.
func (s *Server) manageNote(w http.ResponseWriter, r *http.Request, id int64, action string) {
	session := s.session(r)
	if session == nil || !session.IsAdmin() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if action != "edit" && action != "delete" {
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	token := session.GenerateCSRFToken()

	if action == "delete" {
		s.views.RenderPage(w, http.StatusOK, ViewData{
			Title:           "Delete note",
			ContentTemplate: "manage-note",
			NoteID:          id,
			Action:          action,
			CSRFToken:       token,
		})
		return
	}

	note, err := s.store.NoteByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.views.RenderPage(w, http.StatusOK, ViewData{
		Title:           "Edit note",
		ContentTemplate: "admin",
		Note: &NoteForm{
			ID:   note.ID,
			Text: note.Text,
			Tags: strings.Join(note.Tags, ", "),
		},
		CSRFToken: token,
	})
}

func (s *Server) confirmNoteAction(w http.ResponseWriter, r *http.Request, id int64, action, token string) {
	session := s.session(r)
	if session == nil || !session.IsAdmin() || !session.CheckCSRFToken(token) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if action != "delete" {
		// Edits are confirmed through POST /admin/edit.
		http.NotFound(w, r)
		return
	}
	err := s.store.DeleteNote(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("note deleted", "noteid", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	status := strings.Trim(strings.TrimPrefix(r.URL.Path, "/login"), "/")
	session := s.session(r)
	if session != nil && session.IsAdmin() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	switch status {
	case "submit":
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		username := r.Form.Get("username")
		password := r.Form.Get("passwd")
		ok, err := s.checkCredentials(r, username, password)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !ok {
			slog.Warn("login failed", "username", username)
			http.Redirect(w, r, "/login/failed", http.StatusSeeOther)
			return
		}
		// Privilege elevation abandons whatever session id the browser
		// arrived with, so a pre-login cookie can never become admin.
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			s.sessions.Forget(cookie.Value)
		}
		session = s.sessions.New()
		s.setSessionCookie(w, session.ID)
		session.Login(username)
		slog.Info("login", "username", username)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	case "failed":
		s.views.RenderPage(w, http.StatusUnauthorized, ViewData{
			Title:           "Login",
			ContentTemplate: "login",
			LoginStatus:     "failed",
		})
	case "":
		s.views.RenderPage(w, http.StatusOK, ViewData{
			Title:           "Login",
			ContentTemplate: "login",
		})
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) checkCredentials(r *http.Request, username, password string) (bool, error) {
	adminUser, err := s.store.Setting(r.Context(), "admin_username")
	if err != nil {
		return false, err
	}
	adminPass, err := s.store.Setting(r.Context(), "admin_password")
	if err != nil {
		return false, err
	}
	if adminUser == "" || username != adminUser {
		return false, nil
	}
	return auth.VerifyPassword(adminPass, password), nil
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Forget(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)
	if session == nil || !session.IsAdmin() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	s.views.RenderPage(w, http.StatusOK, ViewData{
		Title:           "Admin",
		ContentTemplate: "admin",
		CSRFToken:       session.GenerateCSRFToken(),
	})
}

// handleAdminAction processes POST /admin/{post|edit}. The CSRF check runs
// before anything touches storage.
func (s *Server) handleAdminAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/"), "/")
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session := s.session(r)
	if session == nil || !session.IsAdmin() || !session.CheckCSRFToken(r.Form.Get("csrf_token")) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if !r.Form.Has("text") || !r.Form.Has("tags") {
		http.Error(w, "text and tags fields are required", http.StatusBadRequest)
		return
	}
	text := r.Form.Get("text")
	tags := store.NormalizeTags(r.Form.Get("tags"))

	switch action {
	case "post":
		date := time.Now().Format("2006-01-02")
		id, err := s.store.CreateNote(r.Context(), date, text, tags)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		slog.Info("note created", "noteid", id, "tags", len(tags))
	case "edit":
		id, err := strconv.ParseInt(r.Form.Get("noteid"), 10, 64)
		if err != nil {
			http.Error(w, "noteid field is required", http.StatusBadRequest)
			return
		}
		err = s.store.UpdateNote(r.Context(), id, text, tags)
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		slog.Info("note updated", "noteid", id, "tags", len(tags))
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleImprint(w http.ResponseWriter, r *http.Request) {
	s.views.RenderPage(w, http.StatusOK, ViewData{Title: "Imprint", ContentTemplate: "imprint"})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.views.RenderPage(w, http.StatusOK, ViewData{Title: "About", ContentTemplate: "about"})
}

func (s *Server) renderListing(w http.ResponseWriter, notes []store.Note) {
	s.views.RenderPage(w, http.StatusOK, ViewData{
		Title:           "Notes",
		ContentTemplate: "index",
		Days:            buildDayBuckets(notes),
	})
}
