package application

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/auth"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

// TokenIssuer signs tokens for authenticated operators
type TokenIssuer interface {
	GenerateToken(p auth.Principal) (string, time.Time, error)
}

// AuthApplicationService handles operator login
type AuthApplicationService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	logger *logging.Logger
}

// NewAuthApplicationService creates a new AuthApplicationService
func NewAuthApplicationService(users domain.UserRepository, tokens TokenIssuer, logger *logging.Logger) *AuthApplicationService {
	return &AuthApplicationService{
		users:  users,
		tokens: tokens,
		logger: logger.WithComponent("auth"),
	}
}

// Login checks the credentials and issues a bearer token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthApplicationService) Login(ctx context.Context, cmd LoginCommand) (*LoginResultDTO, error) {
	username := strings.TrimSpace(cmd.Username)
	if username == "" || cmd.Password == "" {
		return nil, errors.ErrValidation("username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Login rejected", "username", username, "reason", "unknown user")
			return nil, toAppError("user", domain.ErrInvalidCredentials)
		}
		return nil, toAppError("user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, cmd.Password) {
		s.logger.Warn("Login rejected", "username", username, "reason", "wrong password")
		return nil, toAppError("user", domain.ErrInvalidCredentials)
	}

	token, expiresAt, err := s.tokens.GenerateToken(auth.Principal{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	})
	if err != nil {
		return nil, errors.ErrInternal("failed to issue token").Wrap(err)
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "auth.login",
		EntityType: "user",
		EntityID:   user.Username,
		Action:     "login",
		UserID:     user.Username,
		Data:       map[string]any{"role": string(user.Role)},
	})

	return &LoginResultDTO{Token: token, ExpiresAt: expiresAt, User: ToUserDTO(user)}, nil
}

// Me returns the profile of an authenticated operator
func (s *AuthApplicationService) Me(ctx context.Context, username string) (*UserDTO, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, toAppError("user", err)
	}
	dto := ToUserDTO(user)
	return &dto, nil
}
