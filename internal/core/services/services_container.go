package services

import (
	portsrepo "github.com/pardisoft/docflow_app/internal/core/ports/repositories"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/pkg/config"
)

// NewServiceContainer wires all application services with their repositories.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Customer = NewCustomerService(repos.CustomerRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Document = NewDocumentService(repos.DocumentRepo, repos.CustomerRepo)
	container.Approval = NewApprovalService(repos.ApprovalRepo, repos.DocumentRepo)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Compile-time interface checks
var (
	_ portssvc.DocumentSvcFacade = (*documentService)(nil)
	_ portssvc.ApprovalSvcFacade = (*approvalService)(nil)
	_ portssvc.CustomerSvcFacade = (*customerService)(nil)
	_ portssvc.UserSvcFacade     = (*userService)(nil)
)
