package api

import (
	"net/http"

	"github.com/darmiel/sitegate/internal/api/middleware"
	"github.com/darmiel/sitegate/internal/audit"
	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/engine"
	"github.com/darmiel/sitegate/internal/passes"
	"github.com/darmiel/sitegate/internal/service"
	"github.com/darmiel/sitegate/internal/tasks"
)

type Server struct {
	engineManager *engine.Manager
	taskManager   *tasks.Manager
	auditor       core.Auditor
	passStore     core.PassStore
	checkService  *service.CheckService
}

func NewServer(
	engineManager *engine.Manager,
	taskManager *tasks.Manager,
	auditor core.Auditor,
	passIssuer *passes.Issuer,
	passStore core.PassStore,
) *Server {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}

	svc := service.NewCheckService(engineManager, auditor, passIssuer, passStore)

	return &Server{
		engineManager: engineManager,
		taskManager:   taskManager,
		auditor:       auditor,
		passStore:     passStore,
		checkService:  svc,
	}
}

func (s *Server) Routes(adminSigningKey []byte) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// check routes
	mux.HandleFunc("POST "+CheckRoute, s.handleCheck)
	mux.HandleFunc("POST "+ExplainRoute, s.handleExplain)

	// admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET "+ListAuditsRoute, s.handleAdminAudit)
	adminMux.HandleFunc("GET "+ListPassesRoute, s.handleAdminPasses)
	adminMux.HandleFunc("GET "+ListTasksRoute, s.handleListTasks)
	adminMux.HandleFunc("POST "+TriggerTaskRoute, s.handleTriggerTask)
	adminMux.HandleFunc("GET "+LogsForTaskRoute, s.handleTaskLogs)
	adminHandler := middleware.AdminAuth(adminSigningKey)(adminMux)
	mux.Handle(AuditParent, adminHandler)
	mux.Handle(TaskParent, adminHandler)

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
