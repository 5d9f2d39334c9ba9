package app

import (
	"go-erp/internal/absence"
	"go-erp/internal/employee"
	"go-erp/internal/ledger"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/notification"
	"go-erp/internal/rbac"
	"go-erp/internal/rbac/infra"
	"go-erp/internal/workflow"
)

func registerModules(a *App) error {
	cfg := a.Config
	logger := a.Logger

	// --- Repositories ---
	employeeRepo := employee.NewRepository(a.GormDB)
	ledgerRepo := ledger.NewRepository(a.GormDB)
	notificationRepo := notification.NewRepository(a.GormDB)
	outboxRepo := kafka.NewOutboxRepository(a.DB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBAC.ModelPath)
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, rbac.DefaultPolicies(), logger)
	if err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(a.DB, employeeRepo, a.Redis, logger)
	ledgerService := ledger.NewService(a.DB, ledgerRepo, a.Redis, cfg.Ledger.BalanceCacheTTL, logger)
	notificationService := notification.NewService(notificationRepo, logger)
	notifier := absence.NewOutboxNotifier(outboxRepo)

	absenceHandlers := make([]*absence.Handler, 0, len(workflow.Kinds()))
	for _, kind := range workflow.Kinds() {
		svc := absence.NewService(absence.Dependencies{
			Kind:      kind,
			DB:        a.DB,
			Repo:      absence.NewRepository(a.GormDB, kind),
			Ledger:    ledgerService,
			Notifier:  notifier,
			Directory: employeeService,
			Metrics:   a.Metrics,
		}, logger)
		absenceHandlers = append(absenceHandlers, absence.NewHandler(svc, kind, a.Redis, logger))
	}

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	ledgerHandler := ledger.NewHandler(ledgerService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	api := a.Router.Group(cfg.APIPrefix)
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		ledger.RegisterRoutes(api, ledgerHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
		for _, h := range absenceHandlers {
			absence.RegisterRoutes(api, h, rbacService, logger, a.Redis)
		}
	}

	return nil
}
