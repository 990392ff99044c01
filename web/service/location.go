package service

import (
	"context"

	"github.com/leadmap/leadmap/database"
	"github.com/leadmap/leadmap/database/model"
	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/util/common"
	"github.com/leadmap/leadmap/util/json_util"
	"github.com/leadmap/leadmap/web/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// LocationService manages map locations.
type LocationService struct{}

type locationRow struct {
	model.Location
	Username *string
}

func (s *LocationService) ListLocations(ctx context.Context) ([]entity.LocationView, error) {
	var rows []locationRow
	err := database.GetDB().WithContext(ctx).
		Table("locations AS l").
		Select("l.*, u.username").
		Joins("LEFT JOIN users AS u ON l.user_id = u.id").
		Order("l.id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "list locations")
	}

	out := make([]entity.LocationView, 0, len(rows))
	for _, r := range rows {
		geometry, err := json_util.Deserialize(r.Geojson)
		if err != nil {
			logger.Warningf("location %d has undecodable geojson: %v", r.Id, err)
			geometry = nil
		}
		out = append(out, entity.LocationView{
			Id:       r.Id,
			Name:     r.Name,
			Lat:      r.Lat,
			Lng:      r.Lng,
			Type:     r.Type,
			Geojson:  geometry,
			UserId:   r.UserId,
			Username: r.Username,
		})
	}
	return out, nil
}

// AddLocation stores a location owned by userId and returns its id.
// Coordinates are not range-checked.
func (s *LocationService) AddLocation(ctx context.Context, userId int, form entity.LocationForm) (int, error) {
	geometry, err := json_util.Serialize(form.Geojson)
	if err != nil {
		return 0, common.NewValidationError("geojson must be valid JSON")
	}

	locationType := form.Type
	if locationType == "" {
		locationType = model.DefaultLocationType
	}

	location := &model.Location{
		Name:    *form.Name,
		Lat:     *form.Lat,
		Lng:     *form.Lng,
		Type:    locationType,
		Geojson: geometry,
		UserId:  &userId,
	}
	if err := database.GetDB().WithContext(ctx).Create(location).Error; err != nil {
		return 0, errors.Wrap(err, "create location")
	}
	return location.Id, nil
}

// DeleteLocation removes a location and its lead data. Missing ids are not an error.
func (s *LocationService) DeleteLocation(ctx context.Context, id int) error {
	err := database.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("location_id = ?", id).Delete(&model.LeadData{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Location{}, id).Error
	})
	return errors.Wrap(err, "delete location")
}
