package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"neurosurg/learning-app/internal/domain"
	"neurosurg/learning-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already registered")
	ErrPasswordTooShort     = errors.New("password must be at least 6 characters")
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

const minPasswordLength = 6

// RegisterInput carries everything the register operation accepts.
// DisplayName, Role and Specialization are optional; the user
// repository fills their defaults.
type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	DisplayName    string
	Role           string
	Specialization string
}

// AuthService issues and validates user credentials and tokens.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	CurrentUser(ctx context.Context, userID int) (*domain.User, error)
	GetJWTSecret() string
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 7 * 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new user registration. Uniqueness of username and
// email lives here, not in the repository: the repo would happily
// create a duplicate if asked.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, "", errors.New("username, email, and password are required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	if _, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", ErrHashingFailed
	}

	user := &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		PasswordHash:   string(hashedPassword),
		DisplayName:    input.DisplayName,
		Role:           input.Role,
		Specialization: input.Specialization,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", ErrTokenGeneration
	}
	return user, token, nil
}

// Login authenticates a user and returns a signed token on success.
// Unknown usernames and wrong passwords both map to the same error.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, errors.New("username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, user, nil
}

// CurrentUser resolves the token's user ID to a full account record.
func (s *authService) CurrentUser(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// --- JWT Helper ---

// TokenClaims defines the structure of the JWT payload. The api
// middleware parses the same shape back out.
type TokenClaims struct {
	UserID      int    `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "neurosurg-learning-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication.
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
