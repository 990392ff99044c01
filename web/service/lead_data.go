package service

import (
	"context"

	"github.com/leadmap/leadmap/database"
	"github.com/leadmap/leadmap/database/model"
	"github.com/leadmap/leadmap/util/common"
	"github.com/leadmap/leadmap/web/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// LeadDataService records daily lead counters per location.
type LeadDataService struct{}

// ListLeadData returns entries newest date first, restricted to one location
// when locationId is non-nil.
func (s *LeadDataService) ListLeadData(ctx context.Context, locationId *int) ([]entity.LeadDataView, error) {
	q := database.GetDB().WithContext(ctx).
		Table("lead_data AS ld").
		Select("ld.*, u.username").
		Joins("LEFT JOIN users AS u ON ld.user_id = u.id")
	if locationId != nil {
		q = q.Where("ld.location_id = ?", *locationId)
	}

	var rows []entity.LeadDataView
	if err := q.Order("ld.date DESC").Order("ld.id DESC").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list lead data")
	}
	if rows == nil {
		rows = []entity.LeadDataView{}
	}
	return rows, nil
}

// SaveLeadData inserts the entry for (location, date) or overwrites the
// counters and owner of the existing one.
func (s *LeadDataService) SaveLeadData(ctx context.Context, userId int, form entity.LeadDataForm) error {
	if !entity.ValidDate(form.Date) {
		return common.NewValidationError("date must be formatted as YYYY-MM-DD")
	}

	noProspects := 0
	if form.NoProspects != nil {
		noProspects = *form.NoProspects
	}

	entry := &model.LeadData{
		LocationId:      *form.LocationId,
		Date:            form.Date,
		LeadsCount:      *form.LeadsCount,
		RejectionsCount: *form.RejectionsCount,
		NoProspects:     noProspects,
		UserId:          &userId,
	}
	err := database.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "location_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"leads_count", "rejections_count", "no_prospects", "user_id"}),
		}).
		Create(entry).
		Error
	return errors.Wrap(err, "save lead data")
}

func (s *LeadDataService) DeleteLeadData(ctx context.Context, id int) error {
	err := database.GetDB().WithContext(ctx).Delete(&model.LeadData{}, id).Error
	return errors.Wrap(err, "delete lead data")
}
