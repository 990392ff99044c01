package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/leadmap/leadmap/database"
	"github.com/leadmap/leadmap/database/model"
	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/util/common"
	"github.com/leadmap/leadmap/util/crypto"
	"github.com/leadmap/leadmap/web/entity"

	"github.com/pkg/errors"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

var errBadCredentials = common.NewAuthError("Invalid username or password")

// AuthService registers accounts and checks credentials.
type AuthService struct{}

// Register creates an account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, form entity.CredentialsForm) (*entity.UserInfo, error) {
	username := strings.TrimSpace(form.Username)
	password := form.Password

	if username == "" || password == "" {
		return nil, common.NewValidationError("Username and password required")
	}
	if utf8.RuneCountInString(username) < minUsernameLength {
		return nil, common.NewValidationError("Username must be at least 3 characters")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, common.NewValidationError("Password must be at least 6 characters")
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &model.User{Username: username, PasswordHash: hash}
	err = database.GetDB().WithContext(ctx).Create(user).Error
	if database.IsDuplicateKey(err) {
		return nil, common.NewConflictError("Username already exists")
	} else if err != nil {
		return nil, errors.Wrap(err, "create user")
	}

	logger.Infof("registered user %q (id %d)", user.Username, user.Id)
	return &entity.UserInfo{Id: user.Id, Username: user.Username}, nil
}

// Login returns the account matching the credentials. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, form entity.CredentialsForm) (*entity.UserInfo, error) {
	username := strings.TrimSpace(form.Username)
	if username == "" || form.Password == "" {
		return nil, common.NewValidationError("Username and password required")
	}

	user := &model.User{}
	err := database.GetDB().WithContext(ctx).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		crypto.DummyCompare(form.Password)
		return nil, errBadCredentials
	} else if err != nil {
		return nil, errors.Wrap(err, "look up user")
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, form.Password) {
		return nil, errBadCredentials
	}
	return &entity.UserInfo{Id: user.Id, Username: user.Username}, nil
}
