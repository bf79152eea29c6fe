package services

import (
	"jobboard_backend/internal/billing"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/repositories"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	ApplicationService  ApplicationService
	CreditService       CreditService
	SubscriptionService SubscriptionService
	BillingService      BillingService
	JobService          JobService
	TeamService         TeamService
	TalentService       TalentService
	ExportService       ExportService
}

// Repositories groups the stateless repositories shared by services.
type Repositories struct {
	User         repositories.UserRepository
	Company      repositories.CompanyRepository
	Job          repositories.JobRepository
	Application  repositories.ApplicationRepository
	Interview    repositories.InterviewRepository
	Credit       repositories.CreditRepository
	Subscription repositories.SubscriptionRepository
	BillingEvent repositories.BillingEventRepository
}

func NewRepositories() Repositories {
	return Repositories{
		User:         repositories.NewUserRepository(),
		Company:      repositories.NewCompanyRepository(),
		Job:          repositories.NewJobRepository(),
		Application:  repositories.NewApplicationRepository(),
		Interview:    repositories.NewInterviewRepository(),
		Credit:       repositories.NewCreditRepository(),
		Subscription: repositories.NewSubscriptionRepository(),
		BillingEvent: repositories.NewBillingEventRepository(),
	}
}

type Deps struct {
	Repos        Repositories
	Mailer       email.Mailer
	Gateway      billing.Gateway
	Catalog      billing.Catalog
	MonthlyGrant int
}

func NewServiceContainer(d Deps) *ServiceContainer {
	r := d.Repos

	credits := NewCreditService(r.Credit, r.Company)
	subscriptions := NewSubscriptionService(r.Subscription, r.Company, credits, d.Gateway, d.Catalog, d.MonthlyGrant)

	return &ServiceContainer{
		ApplicationService:  NewApplicationService(r.Application, r.Interview, r.Job, r.Company, d.Mailer),
		CreditService:       credits,
		SubscriptionService: subscriptions,
		BillingService:      NewBillingService(r.BillingEvent, r.Company, subscriptions, d.Gateway),
		JobService:          NewJobService(r.Job, r.Company, credits),
		TeamService:         NewTeamService(r.Company, r.User),
		TalentService:       NewTalentService(r.User, r.Company, credits, subscriptions),
		ExportService:       NewExportService(r.Job, r.Application, r.Company, subscriptions),
	}
}
