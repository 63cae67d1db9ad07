package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
	"github.com/Dhallagan/indieout-marketplace-sub001/repository"
	"github.com/Dhallagan/indieout-marketplace-sub001/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(repo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

// Register creates a user; a duplicate email is an error. A guest-checkout
// user registering with the same email claims the existing account instead.
func (s *AuthService) Register(email, password, firstName, lastName, phone string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("hash password failed")
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err == nil {
		if existing.EmailVerified {
			return nil, errors.New("email already registered")
		}
		// unverified guest-checkout account: take it over
		if err := s.userRepo.Update(existing.ID, map[string]any{
			"password":       string(hashed),
			"first_name":     strings.TrimSpace(firstName),
			"last_name":      strings.TrimSpace(lastName),
			"phone_number":   strings.TrimSpace(phone),
			"email_verified": true,
		}); err != nil {
			return nil, err
		}
		return s.userRepo.FindByID(existing.ID)
	}

	user := &entity.User{
		Email:         email,
		Password:      string(hashed),
		FirstName:     strings.TrimSpace(firstName),
		LastName:      strings.TrimSpace(lastName),
		PhoneNumber:   strings.TrimSpace(phone),
		Role:          "customer",
		EmailVerified: true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a JWT.
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, errors.New("cannot generate token")
	}

	return token, user, nil
}

func (s *AuthService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.FindByID(userID)
}

// UpdateProfile applies a partial profile edit; email and role are not
// editable here.
func (s *AuthService) UpdateProfile(userID uint, firstName, lastName, phone *string) (*entity.User, error) {
	updates := map[string]any{}
	if firstName != nil {
		updates["first_name"] = strings.TrimSpace(*firstName)
	}
	if lastName != nil {
		updates["last_name"] = strings.TrimSpace(*lastName)
	}
	if phone != nil {
		updates["phone_number"] = strings.TrimSpace(*phone)
	}
	if len(updates) > 0 {
		if err := s.userRepo.Update(userID, updates); err != nil {
			return nil, err
		}
	}
	return s.userRepo.FindByID(userID)
}
