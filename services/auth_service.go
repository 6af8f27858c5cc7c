package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/repository"
	"github.com/maxmaindev/citizen-appeals/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	Users     *repository.UserRepository
	JWTSecret string
	JWTTTL    time.Duration
}

func NewAuthService(users *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, JWTSecret: secret, JWTTTL: ttl}
}

type RegisterReq struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthRes struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Register creates a citizen account. Staff roles are granted by an admin
// afterwards, never self-assigned.
func (s *AuthService) Register(req *RegisterReq) (*AuthRes, error) {
	taken, err := s.Users.EmailTaken(req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := entity.User{
		Email:     req.Email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      entity.RoleCitizen,
		IsActive:  true,
	}
	if err := s.Users.Create(&u); err != nil {
		return nil, err
	}
	return s.issue(&u)
}

func (s *AuthService) Login(req *LoginReq) (*AuthRes, error) {
	u, err := s.Users.FindByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

type UpdateProfileReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (s *AuthService) UpdateProfile(userID uint, req *UpdateProfileReq) (*entity.User, error) {
	u, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if err := s.Users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordReq) error {
	u, err := s.Users.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.OldPassword)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return s.Users.Update(u)
}

func (s *AuthService) issue(u *entity.User) (*AuthRes, error) {
	token, err := utils.GenerateToken(u.ID, u.Role, s.JWTSecret, s.JWTTTL)
	if err != nil {
		return nil, err
	}
	return &AuthRes{Token: token, User: u}, nil
}
