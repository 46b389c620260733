package api

import (
	"net/http"
	"strings"

	"rover_go/pkg/logger"
)

// Router gerencia as rotas da API
type Router struct {
	handler     *Handler
	mux         *http.ServeMux
	basePath    string
	middlewares []Middleware
}

// NewRouter cria um novo router para a API
func NewRouter(handler *Handler, basePath string) *Router {
	// Normalizar base path
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if basePath != "" && strings.HasSuffix(basePath, "/") {
		basePath = basePath[:len(basePath)-1]
	}

	middlewares := []Middleware{
		LoggingMiddleware,
		RecoveryMiddleware,
		CorsMiddleware,
	}

	return &Router{
		handler:     handler,
		mux:         http.NewServeMux(),
		basePath:    basePath,
		middlewares: middlewares,
	}
}

// Setup configura todas as rotas
func (r *Router) Setup() {
	// Comandos de movimento
	r.handle("/command/", r.handler.PostCommand)

	// Estado consolidado e parâmetros do rover
	r.handle("/status", r.handler.GetStatus)
	r.handle("/speed", r.handler.PostSpeed)
	r.handle("/delay", r.handler.PostDelay)
	r.handle("/delay/mode", r.handler.PostDelayMode)
	r.handle("/stats/reset", r.handler.PostStatsReset)

	// Condições do solo
	r.handle("/ground/status", r.handler.GetGroundStatus)
	r.handle("/ground/environment/", r.handler.GetGroundEnvironment)
	r.handle("/ground/terrain/", r.handler.GetGroundTerrain)
	r.handle("/ground/unstuck", r.handler.PostGroundUnstuck)
	r.handle("/ground/clean_dust", r.handler.PostGroundCleanDust)
	r.handle("/ground/reset_stats", r.handler.PostGroundResetStats)

	// Posição GNSS
	r.handle("/gnss/position", r.handler.GetPosition)
	r.handle("/gnss/history", r.handler.GetPositionHistory)
	r.handle("/gnss/reset", r.handler.PostPositionReset)

	// Modo autônomo
	r.handle("/autonomous/start", r.handler.PostAutonomousStart)
	r.handle("/autonomous/stop", r.handler.PostAutonomousStop)
	r.handle("/autonomous/status", r.handler.GetAutonomousStatus)
	r.handle("/autonomous/config", r.handler.PostAutonomousConfig)

	// Log de transmissão
	r.handle("/logs/recent", r.handler.GetLogsRecent)
	r.handle("/logs/list", r.handler.GetLogsList)
	r.handle("/logs/stats", r.handler.GetLogsStats)
	r.handle("/logs/export", r.handler.PostLogsExport)

	logger.Infof("API configurada com base path: %s", r.basePath)
}

// handle registra uma rota com os middlewares aplicados
func (r *Router) handle(route string, handlerFunc http.HandlerFunc) {
	r.mux.Handle(r.path(route), r.applyMiddleware(handlerFunc))
}

// Handler retorna o handler HTTP final com todos os middlewares aplicados
func (r *Router) Handler() http.Handler {
	return r.applyMiddleware(r.mux)
}

// AddMiddleware adiciona um novo middleware
func (r *Router) AddMiddleware(middleware Middleware) {
	r.middlewares = append(r.middlewares, middleware)
}

// path retorna o caminho completo para uma rota
func (r *Router) path(route string) string {
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return r.basePath + route
}

// applyMiddleware aplica todos os middlewares ao handler
func (r *Router) applyMiddleware(handler http.Handler) http.Handler {
	if len(r.middlewares) == 0 {
		return handler
	}

	return Chain(r.middlewares...)(handler)
}

// ServeHTTP implementa a interface http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Handler().ServeHTTP(w, req)
}
