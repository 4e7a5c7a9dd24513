package database

import (
	"gorm.io/gorm"

	"github.com/bookwell/onboarding-service/internal/adapter/repository"
	domainRepo "github.com/bookwell/onboarding-service/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Business        domainRepo.BusinessRepository
	Application     domainRepo.ApplicationRepository
	Document        domainRepo.DocumentRepository
	SetupProgress   domainRepo.SetupProgressRepository
	IdentitySession domainRepo.IdentitySessionRepository
	BankConnection  domainRepo.BankConnectionRepository
	PaymentAccount  domainRepo.PaymentAccountRepository
	Staff           domainRepo.StaffRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Business:        repository.NewBusinessRepository(db),
		Application:     repository.NewApplicationRepository(db),
		Document:        repository.NewDocumentRepository(db),
		SetupProgress:   repository.NewSetupProgressRepository(db),
		IdentitySession: repository.NewIdentitySessionRepository(db),
		BankConnection:  repository.NewBankConnectionRepository(db),
		PaymentAccount:  repository.NewPaymentAccountRepository(db),
		Staff:           repository.NewStaffRepository(db),
	}
}
