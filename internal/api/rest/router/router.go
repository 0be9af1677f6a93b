package router

import (
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/lyristudy/lyristudy-server/internal/api/rest/handler"
	"github.com/lyristudy/lyristudy-server/internal/api/rest/middleware"
	"github.com/lyristudy/lyristudy-server/internal/logger"
	"github.com/lyristudy/lyristudy-server/internal/model"
	"github.com/lyristudy/lyristudy-server/internal/service"
)

// Router wires handlers and middleware into the HTTP routing tree. Auth
// endpoints and the health check are open; everything else requires a valid
// bearer token.
type Router struct {
	authService     *service.Auth
	analysisService *service.Analysis
	songService     *service.Song
	vocabService    *service.Vocab
	tokenManager    model.TokenManager
	contextManager  model.ContextManager
	allowedOrigins  []string
	logger          *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	analysisService *service.Analysis,
	songService *service.Song,
	vocabService *service.Vocab,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	allowedOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:     authService,
		analysisService: analysisService,
		songService:     songService,
		vocabService:    vocabService,
		tokenManager:    tokenManager,
		contextManager:  contextManager,
		allowedOrigins:  allowedOrigins,
		logger:          logger,
	}
}

// Register builds the routing tree with logging, CORS and authentication
// middleware and returns the root handler.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.authService, r.logger)
	songHandler := handler.NewSong(r.analysisService, r.songService, r.contextManager, r.logger)
	vocabHandler := handler.NewVocab(r.vocabService, r.contextManager, r.logger)

	root := mux.NewRouter()

	api := root.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(authenticate.Handle)
	protected.HandleFunc("/analyze", songHandler.Analyze).Methods(http.MethodPost)
	protected.HandleFunc("/history", songHandler.History).Methods(http.MethodGet)
	protected.HandleFunc("/song/{id}", songHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/song/{id}", songHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/vocab/toggle_save/{id}", vocabHandler.ToggleSave).Methods(http.MethodPost)
	protected.HandleFunc("/vocab/saved", vocabHandler.ListSaved).Methods(http.MethodGet)

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(r.allowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		gorillaHandlers.AllowCredentials(),
	)

	return logging.Handle(cors(root))
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
