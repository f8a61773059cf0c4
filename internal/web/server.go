package web

import (
	"net/http"

	"gnotes/internal/auth"
	"gnotes/internal/store"
)

type Server struct {
	store    *store.Store
	sessions *auth.Sessions
	mux      *http.ServeMux
	views    *Templates
}

func NewServer(st *store.Store) *Server {
	s := &Server{
		store:    st,
		sessions: auth.NewSessions(),
		mux:      http.NewServeMux(),
		views:    MustParseTemplates(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/tag/", s.handleTag)
	s.mux.HandleFunc("/note/", s.handleNote)
	s.mux.HandleFunc("/archive/", s.handleArchive)
	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.HandleFunc("/login/", s.handleLogin)
	s.mux.HandleFunc("/logout", s.handleLogout)
	s.mux.HandleFunc("/admin", s.handleAdmin)
	s.mux.HandleFunc("/admin/", s.handleAdminAction)
	s.mux.HandleFunc("/imprint", s.handleImprint)
	s.mux.HandleFunc("/about", s.handleAbout)
}

const sessionCookie = "session"

// session returns the caller's session, or nil when the request carries no
// known session cookie.
func (s *Server) session(r *http.Request) *auth.Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	return s.sessions.Get(cookie.Value)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
