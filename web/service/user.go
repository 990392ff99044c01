package service

import (
	"context"

	"github.com/leadmap/leadmap/database"
	"github.com/leadmap/leadmap/database/model"
	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/util/common"
	"github.com/leadmap/leadmap/web/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserService lists and removes accounts.
type UserService struct{}

// GetUser returns the user with the given id, or nil if there is none.
func (s *UserService) GetUser(ctx context.Context, id int) (*entity.UserInfo, error) {
	user := &model.User{}
	err := database.GetDB().WithContext(ctx).First(user, id).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	return &entity.UserInfo{Id: user.Id, Username: user.Username}, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.UserView, error) {
	var users []model.User
	if err := database.GetDB().WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	out := make([]entity.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, entity.UserView{Id: u.Id, Username: u.Username, CreatedAt: u.CreatedAt})
	}
	return out, nil
}

// DeleteUser removes the target account together with its locations, the
// lead data under those locations and its reservations. Callers cannot
// delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorId int, targetId int) error {
	if actorId == targetId {
		return common.NewForbiddenError("You cannot delete your own account")
	}

	err := database.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&model.Location{}).Select("id").Where("user_id = ?", targetId)
		if err := tx.Where("location_id IN (?)", owned).Delete(&model.LeadData{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetId).Delete(&model.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetId).Delete(&model.Location{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, targetId).Error
	})
	if err != nil {
		return errors.Wrap(err, "delete user")
	}

	logger.Infof("user %d deleted user %d", actorId, targetId)
	return nil
}
