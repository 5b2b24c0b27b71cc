package services

import (
	"errors"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/pkg/auth"
	"gorm.io/gorm"
)

// UserService manages operator accounts. All of it is admin-gated at the
// HTTP surface.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// UserInput creates or replaces an account. Password is optional on update.
type UserInput struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"nullable,min=8,max=72"`
	Role     string `json:"role" validate:"required,in=admin,manager"`
}

func (s *UserService) Create(in UserInput) (models.User, error) {
	if in.Password == "" {
		return models.User{}, validationErr("password", "The password field is required.")
	}

	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return models.User{}, validationErr("email", "The email is already taken.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, storageErr("find user", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, storageErr("create user", err)
	}
	return user, nil
}

func (s *UserService) Update(id uint, in UserInput) (models.User, error) {
	user, err := s.users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, storageErr("find user", err)
	}

	if in.Email != user.Email {
		if _, err := s.users.FindByEmail(in.Email); err == nil {
			return models.User{}, validationErr("email", "The email is already taken.")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, storageErr("find user", err)
		}
	}

	user.Name = in.Name
	user.Email = in.Email
	user.Role = in.Role
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return models.User{}, err
		}
		user.Password = hash
	}

	if err := s.users.Update(&user); err != nil {
		return models.User{}, storageErr("update user", err)
	}
	return user, nil
}

func (s *UserService) Get(id uint) (models.User, error) {
	user, err := s.users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, storageErr("find user", err)
	}
	return user, nil
}

func (s *UserService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.users.Delete(id); err != nil {
		return storageErr("delete user", err)
	}
	return nil
}

func (s *UserService) List(page, limit int) ([]models.User, repositories.Pagination, error) {
	users, p, err := s.users.List(page, limit)
	if err != nil {
		return nil, repositories.Pagination{}, storageErr("list users", err)
	}
	return users, p, nil
}
