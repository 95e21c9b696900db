package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"

	handlers "travelers/internal/handler"
	"travelers/internal/middleware"
)

// New builds the HTTP route table with the global middleware stack applied.
func New(h *handlers.Handlers) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)

	authed := func(f http.HandlerFunc) http.Handler {
		return middleware.Authenticate(h.SessionService, h.Log)(f)
	}
	optional := func(f http.HandlerFunc) http.Handler {
		return middleware.OptionalAuthenticate(h.SessionService)(f)
	}

	// auth
	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.Handle("/auth/logout", authed(h.Logout)).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", h.Refresh).Methods(http.MethodPost)

	// stories; fixed paths go before {storyId}
	r.Handle("/stories", optional(h.ListStories)).Methods(http.MethodGet)
	r.Handle("/stories", authed(h.CreateStory)).Methods(http.MethodPost)
	r.Handle("/stories/saved", authed(h.GetSavedStories)).Methods(http.MethodGet)
	r.Handle("/stories/my", authed(h.GetMyStories)).Methods(http.MethodGet)
	r.Handle("/stories/{storyId}", optional(h.GetStory)).Methods(http.MethodGet)
	r.Handle("/stories/{storyId}", authed(h.UpdateStory)).Methods(http.MethodPatch)
	r.Handle("/stories/{storyId}", authed(h.DeleteStory)).Methods(http.MethodDelete)
	r.Handle("/stories/{storyId}/save", authed(h.SaveStory)).Methods(http.MethodPost)
	r.Handle("/stories/{storyId}/save", authed(h.UnsaveStory)).Methods(http.MethodDelete)

	// users; /users/me goes before {userId}
	r.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	r.Handle("/users/me", authed(h.GetCurrentUser)).Methods(http.MethodGet)
	r.Handle("/users/me/update", authed(h.UpdateCurrentUser)).Methods(http.MethodPatch)
	r.Handle("/users/me/avatar", authed(h.UpdateAvatar)).Methods(http.MethodPatch)
	r.HandleFunc("/users/{userId}", h.GetUserByID).Methods(http.MethodGet)

	r.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	return middleware.Chain(
		r,
		middleware.Recover(h.Log),
		gzip,
		middleware.CORS(h.Cfg.CORSOrigin),
		middleware.Logging(h.Log),
	)
}

func gzip(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
