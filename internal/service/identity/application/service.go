package application

import (
	"context"
	"errors"
	"strings"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/validation"
	"bookhub/internal/service/identity/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const minPasswordLength = 6

// IdentityService 提供注册、登录与用户管理用例。
type IdentityService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	tokens domain.TokenIssuer
	tracer trace.Tracer
}

func NewIdentityService(users domain.UserRepository, hasher domain.PasswordHasher, tokens domain.TokenIssuer, tracer trace.Tracer) *IdentityService {
	return &IdentityService{users: users, hasher: hasher, tokens: tokens, tracer: tracer}
}

// Register 创建账号。系统中的第一个账号自动成为 Admin，判断与插入在同一事务中完成。
func (s *IdentityService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	ctx, span := s.tracer.Start(ctx, "app.Register")
	defer span.End()

	req.Email = strings.TrimSpace(req.Email)
	req.UserName = strings.TrimSpace(req.UserName)
	if err := validateRegistration(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hash failed")
		return nil, err
	}

	var created *domain.User
	err = s.users.Atomic(ctx, func(repo domain.UserRepository) error {
		if taken, err := repo.ExistsByUserName(ctx, req.UserName); err != nil {
			return err
		} else if taken {
			return domain.ErrUserNameTaken
		}
		if taken, err := repo.ExistsByEmail(ctx, req.Email); err != nil {
			return err
		} else if taken {
			return domain.ErrEmailTaken
		}

		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		role := domain.RoleUser
		if n == 0 {
			role = domain.RoleAdmin
		}
		created = domain.NewUser(req.UserName, req.Email, hash, role)
		return repo.Create(ctx, created)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", created.ID), attribute.String("user.role", created.Role.String()))
	logger.Ctx(ctx).Info().Str("user_id", created.ID).Str("role", created.Role.String()).Msg("user registered")
	return &RegisterResponse{Email: created.Email, Role: created.Role.String()}, nil
}

func validateRegistration(req *RegisterRequest) error {
	if err := validation.Required("email", req.Email, "username", req.UserName, "password", req.Password); err != nil {
		return err
	}
	if !strings.Contains(req.Email, "@") {
		return validation.New("Invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return validation.Errorf("Password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// Login 校验口令并签发令牌。邮箱不存在与口令错误返回同一个错误。
func (s *IdentityService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	ctx, span := s.tracer.Start(ctx, "app.Login")
	defer span.End()

	if err := validation.Required("email", req.Email, "password", req.Password); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			err = domain.ErrInvalidCredentials
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := s.hasher.Compare(u.PasswordHash, req.Password); err != nil {
		span.SetStatus(codes.Error, err.Error())
		logger.Ctx(ctx).Warn().Str("user_id", u.ID).Msg("login rejected")
		return nil, err
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "issue token failed")
		return nil, err
	}
	span.AddEvent("token issued")
	return &LoginResponse{Token: token, ExpiresAt: exp.Unix(), User: toUserDTO(u)}, nil
}

// Authenticate 校验令牌；角色以令牌签发时为准。
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*domain.Claims, error) {
	return s.tokens.Parse(token)
}

// Profile 返回调用者自己的信息。
func (s *IdentityService) Profile(ctx context.Context, userID string) (*UserDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.Profile")
	defer span.End()

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// ListCustomers 返回所有 User 与 Staff 账号，供管理员查看。
func (s *IdentityService) ListCustomers(ctx context.Context) ([]UserDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListCustomers")
	defer span.End()

	users, err := s.users.ListByRoles(ctx, domain.RoleUser, domain.RoleStaff)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	return out, nil
}

// UpdateRole 按邮箱调整角色，只允许 Staff 或 User。
func (s *IdentityService) UpdateRole(ctx context.Context, email, role string) (*UserDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateRole")
	defer span.End()
	span.SetAttributes(attribute.String("user.email", email), attribute.String("user.role", role))

	newRole, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := u.AssignRole(newRole); err != nil {
		return nil, err
	}
	if err := s.users.UpdateRole(ctx, u.ID, u.Role); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update role failed")
		return nil, err
	}

	logger.Ctx(ctx).Info().Str("user_id", u.ID).Str("role", u.Role.String()).Msg("role updated")
	dto := toUserDTO(u)
	return &dto, nil
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		UserID:             u.ID,
		UserName:           u.UserName,
		Email:              u.Email,
		Role:               u.Role.String(),
		CompleteOrderCount: u.CompleteOrderCount,
	}
}
