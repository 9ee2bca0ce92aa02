package plants

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZamarianPatrick/lazypig-care/domain"
	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/model"
	"github.com/ZamarianPatrick/lazypig-care/quota"
	"github.com/ZamarianPatrick/lazypig-care/store"
	"github.com/ZamarianPatrick/lazypig-care/store/storetest"
)

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type invalidations struct{ users []string }

func (i *invalidations) Invalidate(_ context.Context, userID string) {
	i.users = append(i.users, userID)
}

func setup(t *testing.T) (*Service, *store.DB, *invalidations) {
	t.Helper()

	s := storetest.Open(t)
	inv := &invalidations{}
	tracker := quota.NewTracker(s, logger.Discard(), quota.Options{})
	svc := NewService(s, tracker, logger.Discard(), Options{
		Invalidator: inv,
		Now:         func() time.Time { return now },
	})
	return svc, s, inv
}

func fakeInput() model.PlantInput {
	return model.PlantInput{
		Name:                  gofakeit.Name(),
		ScientificName:        gofakeit.Word(),
		WateringFrequencyDays: gofakeit.Number(1, 365),
		PhotoURL:              gofakeit.URL(),
		CareNotes:             gofakeit.Sentence(8),
	}
}

func TestService_CreatePlant(t *testing.T) {
	svc, _, inv := setup(t)
	ctx := context.Background()
	in := fakeInput()

	p, err := svc.CreatePlant(ctx, "alice", in)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "alice", p.UserID)
	assert.Equal(t, in.Name, p.Name)
	assert.False(t, p.CreatedByAI)
	assert.Equal(t, []string{"alice"}, inv.users)

	got, err := svc.GetPlant(ctx, "alice", p.ID)
	require.NoError(t, err)
	assert.Equal(t, in.WateringFrequencyDays, got.WateringFrequencyDays)
	assert.Nil(t, got.Schedule.DaysUntilWatering)
}

func TestService_CreatePlant_Validation(t *testing.T) {
	svc, s, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		edit  func(*model.PlantInput)
		field string
	}{
		{"missing name", func(in *model.PlantInput) { in.Name = "" }, "name"},
		{"name too long", func(in *model.PlantInput) { in.Name = strings.Repeat("x", 101) }, "name"},
		{"frequency zero", func(in *model.PlantInput) { in.WateringFrequencyDays = 0 }, "wateringFrequencyDays"},
		{"frequency above a year", func(in *model.PlantInput) { in.WateringFrequencyDays = 366 }, "wateringFrequencyDays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fakeInput()
			tt.edit(&in)

			_, err := svc.CreatePlant(ctx, "alice", in)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))

			de, ok := domain.AsDomainError(err)
			require.True(t, ok)
			assert.Contains(t, de.Fields, tt.field)
		})
	}

	n, err := s.CountPlantsByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_CreatePlant_ForeignRoom(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "bob", model.RoomInput{Name: "Bob's office"})
	require.NoError(t, err)

	in := fakeInput()
	in.RoomID = &room.ID
	_, err = svc.CreatePlant(ctx, "alice", in)
	assert.True(t, domain.IsValidation(err))

	mine, err := svc.CreateRoom(ctx, "alice", model.RoomInput{Name: "Living room"})
	require.NoError(t, err)
	in.RoomID = &mine.ID
	p, err := svc.CreatePlant(ctx, "alice", in)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, *p.RoomID)
}

func TestService_CreatePlant_PlantLimit(t *testing.T) {
	svc, s, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Transaction(ctx, func(tx *store.DB) error {
		for i := 0; i < model.MaxPlantsPerUser; i++ {
			p := &model.Plant{UserID: "alice", Name: "Seedling", WateringFrequencyDays: 3}
			if err := tx.CreatePlant(ctx, p); err != nil {
				return err
			}
		}
		return nil
	}))

	_, err := svc.CreatePlant(ctx, "alice", fakeInput())
	require.Error(t, err)
	assert.True(t, domain.IsQuotaExceeded(err))

	de, _ := domain.AsDomainError(err)
	assert.Equal(t, model.MaxPlantsPerUser, de.Used)
}

func TestService_UpdatePlant(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	p, err := svc.CreatePlant(ctx, "alice", fakeInput())
	require.NoError(t, err)

	in := fakeInput()
	in.Name = "Renamed"
	in.WateringFrequencyDays = 10

	_, err = svc.UpdatePlant(ctx, "bob", p.ID, in)
	assert.True(t, domain.IsNotFoundOrUnauthorized(err))

	updated, err := svc.UpdatePlant(ctx, "alice", p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	got, err := svc.GetPlant(ctx, "alice", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.WateringFrequencyDays)
}

func TestService_DeletePlant(t *testing.T) {
	svc, s, inv := setup(t)
	ctx := context.Background()

	p, err := svc.CreatePlant(ctx, "alice", fakeInput())
	require.NoError(t, err)
	_, err = s.AppendWateringEvent(ctx, p.ID, now)
	require.NoError(t, err)

	assert.True(t, domain.IsNotFoundOrUnauthorized(svc.DeletePlant(ctx, "bob", p.ID)))
	require.NoError(t, svc.DeletePlant(ctx, "alice", p.ID))
	assert.Len(t, inv.users, 2)

	_, err = svc.GetPlant(ctx, "alice", p.ID)
	assert.True(t, domain.IsNotFoundOrUnauthorized(err))

	events, err := s.ListWateringEvents(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestService_ListPlants_WithStatus(t *testing.T) {
	svc, s, _ := setup(t)
	ctx := context.Background()

	fern := storetest.Plant(t, s, "alice", "Fern", 3)
	storetest.Plant(t, s, "alice", "Aloe", 14)
	storetest.Plant(t, s, "bob", "Cactus", 30)
	_, err := s.AppendWateringEvent(ctx, fern.ID, now.Add(-4*24*time.Hour))
	require.NoError(t, err)

	list, err := svc.ListPlants(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Aloe", list[0].Name)
	assert.Nil(t, list[0].Schedule.DaysUntilWatering)
	assert.Equal(t, "Fern", list[1].Name)
	require.NotNil(t, list[1].Schedule.DaysUntilWatering)
	assert.Equal(t, -1, *list[1].Schedule.DaysUntilWatering)
	assert.True(t, list[1].Schedule.IsOverdue)
}

func TestService_Rooms(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, "alice", model.RoomInput{Name: strings.Repeat("r", 51)})
	assert.True(t, domain.IsValidation(err))

	room, err := svc.CreateRoom(ctx, "alice", model.RoomInput{Name: "Kitchen"})
	require.NoError(t, err)

	in := fakeInput()
	in.RoomID = &room.ID
	p, err := svc.CreatePlant(ctx, "alice", in)
	require.NoError(t, err)

	_, err = svc.RenameRoom(ctx, "bob", room.ID, model.RoomInput{Name: "Mine now"})
	assert.True(t, domain.IsNotFoundOrUnauthorized(err))

	renamed, err := svc.RenameRoom(ctx, "alice", room.ID, model.RoomInput{Name: "Bathroom"})
	require.NoError(t, err)
	assert.Equal(t, "Bathroom", renamed.Name)

	rooms, err := svc.ListRooms(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	require.NoError(t, svc.DeleteRoom(ctx, "alice", room.ID))

	got, err := svc.GetPlant(ctx, "alice", p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RoomID)

	rooms, err = svc.ListRooms(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}
