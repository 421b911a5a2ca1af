package server

import (
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"datarw/internal/ai"
	"datarw/internal/config"
	"datarw/internal/events"
	"datarw/internal/handler"
	"datarw/internal/payment"
	"datarw/internal/repository"
	"datarw/internal/service"
)

// Repositories bundles the data access layer
type Repositories struct {
	Org            repository.IOrgRepository
	User           repository.IUserRepository
	APIKey         repository.IAPIKeyRepository
	Project        repository.IProjectRepository
	Activity       repository.IActivityRepository
	KPI            repository.IKPIRepository
	Beneficiary    repository.IBeneficiaryRepository
	Budget         repository.IBudgetRepository
	Expense        repository.IExpenseRepository
	Survey         repository.ISurveyRepository
	SurveyResponse repository.ISurveyResponseRepository
	Payment        repository.IPaymentRepository
}

// Services bundles the business logic layer
type Services struct {
	Org         *service.OrgService
	User        *service.UserService
	APIKey      *service.APIKeyService
	Project     *service.ProjectService
	Activity    *service.ActivityService
	KPI         *service.KPIService
	Beneficiary *service.BeneficiaryService
	Finance     *service.FinanceService
	Survey      *service.SurveyService
	Payment     *service.PaymentService
	Hub         *events.Hub
}

// Handlers bundles the HTTP layer
type Handlers struct {
	Auth        *handler.AuthHandler
	Org         *handler.OrgHandler
	APIKey      *handler.APIKeyHandler
	User        *handler.UserHandler
	Project     *handler.ProjectHandler
	Activity    *handler.ActivityHandler
	KPI         *handler.KPIHandler
	Beneficiary *handler.BeneficiaryHandler
	Finance     *handler.FinanceHandler
	Survey      *handler.SurveyHandler
	Payment     *handler.PaymentHandler
	Events      *handler.EventsHandler
	Health      *handler.HealthHandler
}

// InitRepositories constructs every repository over the given database
func InitRepositories(cfg *config.Config, db *mongo.Database) *Repositories {
	return &Repositories{
		Org:            repository.NewOrgRepository(cfg, db),
		User:           repository.NewUserRepository(cfg, db),
		APIKey:         repository.NewAPIKeyRepository(cfg, db),
		Project:        repository.NewProjectRepository(cfg, db),
		Activity:       repository.NewActivityRepository(cfg, db),
		KPI:            repository.NewKPIRepository(cfg, db),
		Beneficiary:    repository.NewBeneficiaryRepository(cfg, db),
		Budget:         repository.NewBudgetRepository(cfg, db),
		Expense:        repository.NewExpenseRepository(cfg, db),
		Survey:         repository.NewSurveyRepository(cfg, db),
		SurveyResponse: repository.NewSurveyResponseRepository(cfg, db),
		Payment:        repository.NewPaymentRepository(cfg, db),
	}
}

// InitServices wires the services over the repositories, the AI provider,
// the mock gateway and the event hub.
func InitServices(cfg *config.Config, repos *Repositories, log zerolog.Logger) *Services {
	hub := events.NewHub(log)
	provider := ai.NewHTTPClient(cfg)
	gateway := payment.NewMockGateway(cfg, log)

	orgs := service.NewOrgService(cfg, repos.Org, repos.User, repos.Project, repos.Survey)

	return &Services{
		Org:         orgs,
		User:        service.NewUserService(cfg, repos.User, repos.Org),
		APIKey:      service.NewAPIKeyService(cfg, repos.APIKey),
		Project:     service.NewProjectService(cfg, repos.Project, repos.Org, repos.Activity, repos.KPI, repos.Budget, repos.Expense, repos.Beneficiary),
		Activity:    service.NewActivityService(cfg, repos.Activity, repos.Project, repos.Budget, repos.Expense),
		KPI:         service.NewKPIService(cfg, repos.KPI, repos.Project),
		Beneficiary: service.NewBeneficiaryService(cfg, repos.Beneficiary, repos.Project),
		Finance:     service.NewFinanceService(cfg, repos.Budget, repos.Expense, repos.Project),
		Survey:      service.NewSurveyService(cfg, repos.Survey, repos.SurveyResponse, repos.Org, provider, hub, log),
		Payment:     service.NewPaymentService(cfg, repos.Payment, orgs, gateway, hub, log),
		Hub:         hub,
	}
}

// InitHandlers wires the HTTP handlers over the services
func InitHandlers(cfg *config.Config, s *Services, mongoClient *mongo.Client, log zerolog.Logger) *Handlers {
	return &Handlers{
		Auth:        handler.NewAuthHandler(cfg, s.User, s.Org, s.APIKey),
		Org:         handler.NewOrgHandler(s.Org),
		APIKey:      handler.NewAPIKeyHandler(s.APIKey),
		User:        handler.NewUserHandler(s.User),
		Project:     handler.NewProjectHandler(s.Project),
		Activity:    handler.NewActivityHandler(s.Activity),
		KPI:         handler.NewKPIHandler(s.KPI),
		Beneficiary: handler.NewBeneficiaryHandler(s.Beneficiary),
		Finance:     handler.NewFinanceHandler(s.Finance),
		Survey:      handler.NewSurveyHandler(s.Survey),
		Payment:     handler.NewPaymentHandler(s.Payment),
		Events:      handler.NewEventsHandler(s.Hub, log),
		Health:      handler.NewHealthHandler(mongoClient, s.Hub),
	}
}
