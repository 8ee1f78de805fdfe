package services

import (
	portsrepo "github.com/weqtian/user_center/internal/core/ports/repositories"
	portssvc "github.com/weqtian/user_center/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, tokens portssvc.TokenCodec, authOpts ...AuthServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Auth: NewAuthService(repos.UserRepo, tokens, authOpts...),
		User: NewUserService(repos.UserRepo),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AuthSvcFacade = (*authService)(nil)
	_ portssvc.UserSvcFacade = (*userService)(nil)
)
