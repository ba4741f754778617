package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"legalbooking/internal/db"
	"legalbooking/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func seedLawyer(t *testing.T, repos Repositories, email, speciality string) *model.Lawyer {
	t.Helper()
	l := &model.Lawyer{FirstName: "Ana", SecondName: "Ruiz", Email: email, Speciality: speciality, Active: true, ConsultationFee: decimal.NewFromInt(50)}
	require.NoError(t, repos.Lawyers.Create(context.Background(), l))
	return l
}

func seedSlot(t *testing.T, repos Repositories, lawyerID uint, start time.Time, available bool) *model.Slot {
	t.Helper()
	s := &model.Slot{LawyerID: lawyerID, DateStart: start, DateEnd: start.Add(time.Hour), Available: available}
	require.NoError(t, repos.Slots.Create(context.Background(), s))
	return s
}

func TestSlotRepository_SearchConjunction(t *testing.T) {
	repos := New(newTestDB(t))
	ctx := context.Background()

	civil := seedLawyer(t, repos, "civil@example.com", "civil")
	penal := seedLawyer(t, repos, "penal@example.com", "penal")

	s1 := seedSlot(t, repos, civil.ID, base, true)
	seedSlot(t, repos, civil.ID, base.Add(2*time.Hour), false)
	seedSlot(t, repos, penal.ID, base, true)
	s4 := seedSlot(t, repos, civil.ID, base.Add(48*time.Hour), true)

	speciality := "civil"
	available := true
	got, err := repos.Slots.Search(ctx, model.SlotFilter{LawyerSpeciality: &speciality, Available: &available})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, s1.ID, got[0].ID)
	assert.Equal(t, s4.ID, got[1].ID)
	require.NotNil(t, got[0].Lawyer)
	assert.Equal(t, "civil", got[0].Lawyer.Speciality)

	end := base.Add(24 * time.Hour)
	got, err = repos.Slots.Search(ctx, model.SlotFilter{LawyerID: &civil.ID, StartDate: &base, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := repos.Slots.Search(ctx, model.SlotFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSlotRepository_MarkUnavailableIsConditional(t *testing.T) {
	repos := New(newTestDB(t))
	ctx := context.Background()

	l := seedLawyer(t, repos, "a@example.com", "civil")
	s := seedSlot(t, repos, l.ID, base, true)

	ok, err := repos.Slots.MarkUnavailable(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.Slots.MarkUnavailable(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repos.Slots.MarkUnavailable(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repos.Slots.MarkAvailable(ctx, s.ID))
	got, err := repos.Slots.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.Available)
}

func TestSlotRepository_DuplicateIntervalRejectedByIndex(t *testing.T) {
	repos := New(newTestDB(t))
	ctx := context.Background()

	l := seedLawyer(t, repos, "a@example.com", "civil")
	seedSlot(t, repos, l.ID, base, true)

	err := repos.Slots.Create(ctx, &model.Slot{LawyerID: l.ID, DateStart: base, DateEnd: base.Add(time.Hour), Available: true})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := repos.Slots.FindByInterval(ctx, l.ID, base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, l.ID, found.LawyerID)
}

func TestSlotRepository_Inconsistencies(t *testing.T) {
	repos := New(newTestDB(t))
	ctx := context.Background()

	l := seedLawyer(t, repos, "a@example.com", "civil")
	u := &model.User{FirstName: "Luis", Email: "luis@example.com", PasswordHash: "x", Role: model.RoleClient, Active: true}
	require.NoError(t, repos.Users.Create(ctx, u))

	orphan := seedSlot(t, repos, l.ID, base, false)
	unblocked := seedSlot(t, repos, l.ID, base.Add(time.Hour), true)
	held := seedSlot(t, repos, l.ID, base.Add(2*time.Hour), false)
	cancelled := seedSlot(t, repos, l.ID, base.Add(3*time.Hour), true)

	for i, r := range []model.Reservation{
		{UserID: u.ID, SlotID: unblocked.ID, LawyerID: l.ID, TrackingCode: "aaaaaaaaa1", Status: model.ReservationPending},
		{UserID: u.ID, SlotID: held.ID, LawyerID: l.ID, TrackingCode: "aaaaaaaaa2", Status: model.ReservationConfirmed},
		{UserID: u.ID, SlotID: cancelled.ID, LawyerID: l.ID, TrackingCode: "aaaaaaaaa3", Status: model.ReservationCancelled},
	} {
		r := r
		require.NoError(t, repos.Reservations.Create(ctx, &r), "reservation %d", i)
	}

	ids, err := repos.Slots.FindOrphaned(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{orphan.ID}, ids)

	ids, err = repos.Slots.FindUnblocked(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{unblocked.ID}, ids)

	n, err := repos.Slots.SetAvailability(ctx, []uint{orphan.ID}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestReservationRepository_TrackingCodeLookup(t *testing.T) {
	repos := New(newTestDB(t))
	ctx := context.Background()

	l := seedLawyer(t, repos, "a@example.com", "civil")
	s := seedSlot(t, repos, l.ID, base, false)
	u := &model.User{FirstName: "Luis", Email: "luis@example.com", PasswordHash: "x", Role: model.RoleClient, Active: true}
	require.NoError(t, repos.Users.Create(ctx, u))

	r := &model.Reservation{UserID: u.ID, SlotID: s.ID, LawyerID: l.ID, TrackingCode: "0123456789", Status: model.ReservationPending, Fee: decimal.NewFromInt(50)}
	require.NoError(t, repos.Reservations.Create(ctx, r))

	got, err := repos.Reservations.FindByTrackingCode(ctx, "0123456789")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	require.NotNil(t, got.Slot)
	require.NotNil(t, got.Slot.Lawyer)
	require.NotNil(t, got.User)
	assert.True(t, got.Fee.Equal(decimal.NewFromInt(50)))

	exists, err := repos.Reservations.ExistsTrackingCode(ctx, "0123456789")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repos.Reservations.FindByTrackingCode(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repos.Reservations.Delete(ctx, r.ID))
	assert.ErrorIs(t, repos.Reservations.Delete(ctx, r.ID), gorm.ErrRecordNotFound)
}

func TestTransactor_RollsBack(t *testing.T) {
	gdb := newTestDB(t)
	repos := New(gdb)
	ctx := context.Background()
	l := seedLawyer(t, repos, "a@example.com", "civil")

	err := NewTransactor(gdb).WithTransaction(ctx, func(ctx context.Context, tx Repositories) error {
		if err := tx.Slots.Create(ctx, &model.Slot{LawyerID: l.ID, DateStart: base, DateEnd: base.Add(time.Hour), Available: true}); err != nil {
			return err
		}
		return tx.Slots.Create(ctx, &model.Slot{LawyerID: l.ID, DateStart: base, DateEnd: base.Add(time.Hour), Available: true})
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	n, err := repos.Slots.CountByLawyer(ctx, l.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPaginate(t *testing.T) {
	repos := New(newTestDB(t))
	ctx := context.Background()
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		seedLawyer(t, repos, e, "civil")
	}

	items, total, err := repos.Lawyers.List(ctx, model.ListOptions{
		Page: model.PageRequest{Number: 2, Size: 2},
		Sort: model.Sort{Column: "email", Desc: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Equal(t, "a@x.io", items[0].Email)
}

func TestList_ScopedToOwner(t *testing.T) {
	repos := New(newTestDB(t))
	ctx := context.Background()

	var owners []uint
	for _, email := range []string{"a@example.com", "b@example.com"} {
		u := &model.User{FirstName: "U", Email: email, PasswordHash: "x", Role: model.RoleClient, Active: true}
		require.NoError(t, repos.Users.Create(ctx, u))
		owners = append(owners, u.ID)

		c := &model.Conversation{UserID: u.ID, StartDate: base, Status: model.ConversationActive, ConversationTitle: "t"}
		require.NoError(t, repos.Conversations.Create(ctx, c))
		for i := 0; i < 2; i++ {
			require.NoError(t, repos.Interactions.Create(ctx, &model.Interaction{ConversationID: c.ID, HumanMessage: "hi", Date: base}))
		}
	}

	page := model.PageRequest{Number: 1, Size: 10}

	conversations, total, err := repos.Conversations.List(ctx, model.ListOptions{Page: page, UserID: owners[0]})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, owners[0], conversations[0].UserID)

	_, total, err = repos.Interactions.List(ctx, model.ListOptions{Page: page, UserID: owners[1]})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repos.Interactions.List(ctx, model.ListOptions{Page: page})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	users, total, err := repos.Users.List(ctx, model.ListOptions{Page: page, UserID: owners[1]})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, owners[1], users[0].ID)

	n, err := repos.Conversations.CountByUser(ctx, owners[0])
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
