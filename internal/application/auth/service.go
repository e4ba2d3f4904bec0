package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kgpnow-api/internal/domain"
	"github.com/kgpnow-api/internal/pkg/id"
	"github.com/kgpnow-api/internal/pkg/otp"
	"github.com/kgpnow-api/internal/pkg/validate"
)

// LoginResult is the public account plus the session token.
type LoginResult struct {
	Account *domain.Account
	Token   string
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error)
	VerifyOTP(ctx context.Context, req domain.OTPRequest) error
	ResendOTP(ctx context.Context, req domain.EmailRequest) error
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	ForgotPassword(ctx context.Context, req domain.EmailRequest) error
	VerifyResetOTP(ctx context.Context, req domain.OTPRequest) error
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

type accountStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
	Save(ctx context.Context, a *domain.Account) error
}

type hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type otpGenerator interface {
	Generate() (string, time.Time, error)
}

type tokenIssuer interface {
	Issue(userID string) (string, error)
}

type mailDispatcher interface {
	Dispatch(msg domain.Email)
}

type service struct {
	repo   accountStore
	hasher hasher
	otps   otpGenerator
	tokens tokenIssuer
	mail   mailDispatcher
	mailer composer
	logger *slog.Logger
	now    func() time.Time
}

type ServiceDeps struct {
	AccountRepo accountStore
	Hasher      hasher
	OTP         otpGenerator
	Tokens      tokenIssuer
	Mail        mailDispatcher
	Brand       string
	OTPTTL      time.Duration
	Logger      *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:   deps.AccountRepo,
		hasher: deps.Hasher,
		otps:   deps.OTP,
		tokens: deps.Tokens,
		mail:   deps.Mail,
		mailer: composer{brand: deps.Brand, ttl: deps.OTPTTL},
		logger: deps.Logger,
		now:    deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.mailer.brand == "" {
		s.mailer.brand = "KGPnow"
	}
	if s.mailer.ttl <= 0 {
		s.mailer.ttl = otp.DefaultTTL
	}
	return s
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return nil, invalid(err)
	}
	email := req.Email

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateAccount
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	code, expiry, err := s.otps.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	now := s.now().UTC()
	a := &domain.Account{
		ID:           id.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	a.SetOTP(code, expiry)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.send(mailVerify, a, code)
	return a, nil
}

func (s *service) VerifyOTP(ctx context.Context, req domain.OTPRequest) error {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return invalid(err)
	}
	a, err := s.account(ctx, req.Email)
	if err != nil {
		return err
	}
	if a.IsVerified {
		return domain.ErrAlreadyVerified
	}
	if err := s.checkOTP(a, req.OTP); err != nil {
		return err
	}

	a.IsVerified = true
	a.ClearOTP()
	return s.save(ctx, a)
}

func (s *service) ResendOTP(ctx context.Context, req domain.EmailRequest) error {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return invalid(err)
	}
	a, err := s.account(ctx, req.Email)
	if err != nil {
		return err
	}
	if a.IsVerified {
		return domain.ErrAlreadyVerified
	}
	return s.reissueOTP(ctx, a, mailResend)
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid(err)
	}
	a, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if !s.hasher.Verify(req.Password, a.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !a.IsVerified {
		return nil, domain.ErrNotVerified
	}

	token, err := s.tokens.Issue(a.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Account: a, Token: token}, nil
}

// ForgotPassword issues a reset challenge. Unverified accounts are accepted;
// ResetPassword is where verification is enforced.
func (s *service) ForgotPassword(ctx context.Context, req domain.EmailRequest) error {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return invalid(err)
	}
	a, err := s.account(ctx, req.Email)
	if err != nil {
		return err
	}
	return s.reissueOTP(ctx, a, mailReset)
}

func (s *service) VerifyResetOTP(ctx context.Context, req domain.OTPRequest) error {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return invalid(err)
	}
	a, err := s.account(ctx, req.Email)
	if err != nil {
		return err
	}
	return s.checkOTP(a, req.OTP)
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return invalid(err)
	}
	a, err := s.account(ctx, req.Email)
	if err != nil {
		return err
	}
	if !a.IsVerified {
		return domain.ErrNotVerified
	}
	if a.OTP != nil && a.OTPExpired(s.now()) {
		a.ClearOTP()
		if err := s.save(ctx, a); err != nil {
			return err
		}
		return domain.ErrOTPExpired
	}
	if err := s.checkOTP(a, req.OTP); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	a.PasswordHash = hash
	a.ClearOTP()
	if err := s.save(ctx, a); err != nil {
		return err
	}

	s.send(mailPasswordChanged, a, "")
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// account loads by an already normalized email.
func (s *service) account(ctx context.Context, email string) (*domain.Account, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return a, nil
}

func (s *service) checkOTP(a *domain.Account, code string) error {
	if a.OTPExpired(s.now()) {
		return domain.ErrOTPExpired
	}
	if !a.OTPMatches(code) {
		return domain.ErrInvalidOTP
	}
	return nil
}

func (s *service) reissueOTP(ctx context.Context, a *domain.Account, kind mailKind) error {
	code, expiry, err := s.otps.Generate()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	a.SetOTP(code, expiry)
	if err := s.save(ctx, a); err != nil {
		return err
	}
	s.send(kind, a, code)
	return nil
}

func (s *service) save(ctx context.Context, a *domain.Account) error {
	a.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, a); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// send renders and enqueues; failures are logged only.
func (s *service) send(kind mailKind, a *domain.Account, code string) {
	msg, err := s.mailer.compose(kind, a, code, s.now())
	if err != nil {
		s.logger.Error("compose email", "to", a.Email, "err", err)
		return
	}
	s.mail.Dispatch(msg)
}
