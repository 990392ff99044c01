package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leadmap/leadmap/database"
	"github.com/leadmap/leadmap/database/model"
	"github.com/leadmap/leadmap/util/common"
	"github.com/leadmap/leadmap/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) context.Context {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "leadmap.db")))
	t.Cleanup(func() { _ = database.CloseDB() })
	return context.Background()
}

func ptr[T any](v T) *T { return &v }

func register(t *testing.T, ctx context.Context, username string) *entity.UserInfo {
	t.Helper()
	auth := AuthService{}
	user, err := auth.Register(ctx, entity.CredentialsForm{Username: username, Password: "secret1"})
	require.NoError(t, err)
	return user
}

func count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.GetDB().Model(m).Count(&n).Error)
	return n
}

func TestRegister(t *testing.T) {
	ctx := setupDB(t)
	auth := AuthService{}

	user, err := auth.Register(ctx, entity.CredentialsForm{Username: " alice ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.Id)

	_, err = auth.Register(ctx, entity.CredentialsForm{Username: "alice", Password: "another"})
	assert.Equal(t, common.KindConflict, common.KindOf(err))
	assert.EqualError(t, err, "Username already exists")
	assert.Equal(t, int64(1), count(t, &model.User{}))

	stored := &model.User{}
	require.NoError(t, database.GetDB().First(stored, user.Id).Error)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	ctx := setupDB(t)
	auth := AuthService{}

	cases := map[string]struct {
		form entity.CredentialsForm
		msg  string
	}{
		"missing":        {entity.CredentialsForm{Username: "", Password: ""}, "Username and password required"},
		"blank username": {entity.CredentialsForm{Username: "   ", Password: "secret1"}, "Username and password required"},
		"short username": {entity.CredentialsForm{Username: "al", Password: "secret1"}, "Username must be at least 3 characters"},
		"short password": {entity.CredentialsForm{Username: "alice", Password: "12345"}, "Password must be at least 6 characters"},
		"short non-ascii username": {entity.CredentialsForm{Username: "ąę", Password: "secret1"}, "Username must be at least 3 characters"},
		"short non-ascii password": {entity.CredentialsForm{Username: "bob", Password: "żółć"}, "Password must be at least 6 characters"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Register(ctx, tc.form)
			assert.Equal(t, common.KindValidation, common.KindOf(err))
			assert.EqualError(t, err, tc.msg)
		})
	}
	assert.Zero(t, count(t, &model.User{}))

	user, err := auth.Register(ctx, entity.CredentialsForm{Username: "Łódź", Password: "żółwiki"})
	require.NoError(t, err)
	assert.Equal(t, "Łódź", user.Username)
}

func TestLogin(t *testing.T) {
	ctx := setupDB(t)
	created := register(t, ctx, "alice")
	auth := AuthService{}

	user, err := auth.Login(ctx, entity.CredentialsForm{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, created, user)

	_, err = auth.Login(ctx, entity.CredentialsForm{Username: "alice", Password: "wrong"})
	assert.Equal(t, common.KindAuth, common.KindOf(err))

	_, err = auth.Login(ctx, entity.CredentialsForm{Username: "bob", Password: "secret1"})
	assert.Equal(t, common.KindAuth, common.KindOf(err))
	assert.EqualError(t, err, "Invalid username or password")

	_, err = auth.Login(ctx, entity.CredentialsForm{Username: "alice"})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestLocations(t *testing.T) {
	ctx := setupDB(t)
	alice := register(t, ctx, "alice")
	locations := LocationService{}

	id, err := locations.AddLocation(ctx, alice.Id, entity.LocationForm{
		Name: ptr("Warsaw"), Lat: ptr(52.23), Lng: ptr(21.01),
	})
	require.NoError(t, err)

	_, err = locations.AddLocation(ctx, alice.Id, entity.LocationForm{
		Name:    ptr("Mokotow"),
		Lat:     ptr(52.19),
		Lng:     ptr(21.02),
		Type:    "district",
		Geojson: []byte(`{"type": "Point", "coordinates": [21.02, 52.19]}`),
	})
	require.NoError(t, err)

	list, err := locations.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, id, list[0].Id)
	assert.Equal(t, "city", list[0].Type)
	assert.Nil(t, list[0].Geojson)
	require.NotNil(t, list[0].Username)
	assert.Equal(t, "alice", *list[0].Username)

	assert.Equal(t, "district", list[1].Type)
	geometry, ok := list[1].Geojson.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Point", geometry["type"])
}

func TestAddLocationRejectsBadGeojson(t *testing.T) {
	ctx := setupDB(t)
	locations := LocationService{}

	_, err := locations.AddLocation(ctx, 1, entity.LocationForm{
		Name: ptr("Warsaw"), Lat: ptr(52.23), Lng: ptr(21.01), Geojson: []byte(`{"type":`),
	})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Zero(t, count(t, &model.Location{}))
}

func TestSaveLeadDataUpserts(t *testing.T) {
	ctx := setupDB(t)
	alice := register(t, ctx, "alice")
	bob := register(t, ctx, "bob")
	leads := LeadDataService{}

	form := entity.LeadDataForm{
		LocationId: ptr(1), Date: "2024-01-01", LeadsCount: ptr(5), RejectionsCount: ptr(1),
	}
	require.NoError(t, leads.SaveLeadData(ctx, alice.Id, form))

	form.LeadsCount = ptr(8)
	form.NoProspects = ptr(2)
	require.NoError(t, leads.SaveLeadData(ctx, bob.Id, form))

	rows, err := leads.ListLeadData(ctx, ptr(1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 8, rows[0].LeadsCount)
	assert.Equal(t, 1, rows[0].RejectionsCount)
	assert.Equal(t, 2, rows[0].NoProspects)
	require.NotNil(t, rows[0].Username)
	assert.Equal(t, "bob", *rows[0].Username)
}

func TestListLeadDataOrderAndFilter(t *testing.T) {
	ctx := setupDB(t)
	leads := LeadDataService{}

	for _, e := range []struct {
		location int
		date     string
	}{{1, "2024-01-01"}, {1, "2024-01-03"}, {2, "2024-01-02"}} {
		require.NoError(t, leads.SaveLeadData(ctx, 1, entity.LeadDataForm{
			LocationId: ptr(e.location), Date: e.date, LeadsCount: ptr(1), RejectionsCount: ptr(0),
		}))
	}

	all, err := leads.ListLeadData(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"2024-01-03", "2024-01-02", "2024-01-01"},
		[]string{all[0].Date, all[1].Date, all[2].Date})
	assert.Nil(t, all[0].Username)

	none, err := leads.ListLeadData(ctx, ptr(42))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSaveLeadDataRejectsBadDate(t *testing.T) {
	ctx := setupDB(t)
	leads := LeadDataService{}

	err := leads.SaveLeadData(ctx, 1, entity.LeadDataForm{
		LocationId: ptr(1), Date: "01/02/2024", LeadsCount: ptr(1), RejectionsCount: ptr(0),
	})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestDeleteLocationCascades(t *testing.T) {
	ctx := setupDB(t)
	locations := LocationService{}
	leads := LeadDataService{}

	keep, err := locations.AddLocation(ctx, 1, entity.LocationForm{Name: ptr("Krakow"), Lat: ptr(50.06), Lng: ptr(19.94)})
	require.NoError(t, err)
	drop, err := locations.AddLocation(ctx, 1, entity.LocationForm{Name: ptr("Warsaw"), Lat: ptr(52.23), Lng: ptr(21.01)})
	require.NoError(t, err)
	for _, id := range []int{keep, drop} {
		require.NoError(t, leads.SaveLeadData(ctx, 1, entity.LeadDataForm{
			LocationId: ptr(id), Date: "2024-01-01", LeadsCount: ptr(3), RejectionsCount: ptr(0),
		}))
	}

	require.NoError(t, locations.DeleteLocation(ctx, drop))
	require.NoError(t, locations.DeleteLocation(ctx, 999))

	list, err := locations.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep, list[0].Id)

	rows, err := leads.ListLeadData(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, keep, rows[0].LocationId)
}

func TestReservations(t *testing.T) {
	ctx := setupDB(t)
	alice := register(t, ctx, "alice")
	reservations := ReservationService{}

	form := entity.ReservationForm{AreaName: "Mokotow", AreaLat: ptr(52.19), AreaLng: ptr(21.02), ReservationDate: "2024-01-01"}
	id, err := reservations.AddReservation(ctx, alice.Id, form)
	require.NoError(t, err)

	_, err = reservations.AddReservation(ctx, alice.Id, form)
	assert.Equal(t, common.KindConflict, common.KindOf(err))
	assert.EqualError(t, err, "Area already reserved for this date")

	form.ReservationDate = "2024-01-02"
	_, err = reservations.AddReservation(ctx, alice.Id, form)
	require.NoError(t, err)

	form.ReservationDate = "tomorrow"
	_, err = reservations.AddReservation(ctx, alice.Id, form)
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	all, err := reservations.ListReservations(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2024-01-02", all[0].ReservationDate)
	require.NotNil(t, all[0].Username)
	assert.Equal(t, "alice", *all[0].Username)

	day, err := reservations.ListReservations(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, id, day[0].Id)

	require.NoError(t, reservations.DeleteReservation(ctx, id))
	day, err = reservations.ListReservations(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, day)
}

func TestDeleteUser(t *testing.T) {
	ctx := setupDB(t)
	alice := register(t, ctx, "alice")
	bob := register(t, ctx, "bob")
	users := UserService{}
	locations := LocationService{}
	leads := LeadDataService{}
	reservations := ReservationService{}

	bobLoc, err := locations.AddLocation(ctx, bob.Id, entity.LocationForm{Name: ptr("Gdansk"), Lat: ptr(54.35), Lng: ptr(18.65)})
	require.NoError(t, err)
	aliceLoc, err := locations.AddLocation(ctx, alice.Id, entity.LocationForm{Name: ptr("Warsaw"), Lat: ptr(52.23), Lng: ptr(21.01)})
	require.NoError(t, err)

	// alice records data on bob's location; it goes with the location
	require.NoError(t, leads.SaveLeadData(ctx, alice.Id, entity.LeadDataForm{
		LocationId: ptr(bobLoc), Date: "2024-01-01", LeadsCount: ptr(1), RejectionsCount: ptr(0),
	}))
	require.NoError(t, leads.SaveLeadData(ctx, bob.Id, entity.LeadDataForm{
		LocationId: ptr(aliceLoc), Date: "2024-01-01", LeadsCount: ptr(2), RejectionsCount: ptr(0),
	}))
	_, err = reservations.AddReservation(ctx, bob.Id, entity.ReservationForm{
		AreaName: "Oliwa", AreaLat: ptr(54.41), AreaLng: ptr(18.56), ReservationDate: "2024-01-01",
	})
	require.NoError(t, err)

	err = users.DeleteUser(ctx, bob.Id, bob.Id)
	assert.Equal(t, common.KindForbidden, common.KindOf(err))
	assert.Equal(t, int64(2), count(t, &model.User{}))
	assert.Equal(t, int64(2), count(t, &model.Location{}))
	assert.Equal(t, int64(2), count(t, &model.LeadData{}))
	assert.Equal(t, int64(1), count(t, &model.Reservation{}))

	require.NoError(t, users.DeleteUser(ctx, alice.Id, bob.Id))

	gone, err := users.GetUser(ctx, bob.Id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Username)
	assert.False(t, list[0].CreatedAt.IsZero())

	locs, err := locations.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, aliceLoc, locs[0].Id)

	// lead data bob wrote on alice's location stays, the owner is gone
	rows, err := leads.ListLeadData(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, aliceLoc, rows[0].LocationId)
	assert.Nil(t, rows[0].Username)

	assert.Zero(t, count(t, &model.Reservation{}))
}
