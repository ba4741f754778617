package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"legalbooking/internal/db"
	"legalbooking/internal/model"
	"legalbooking/internal/repository"
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

func TestReconciler_Reconcile(t *testing.T) {
	gdb := newTestDB(t)
	repos := repository.New(gdb)
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	lawyer := &model.Lawyer{FirstName: "Ana", SecondName: "Ruiz", Email: "ana@example.com", Speciality: "civil", Active: true}
	require.NoError(t, repos.Lawyers.Create(ctx, lawyer))
	user := &model.User{FirstName: "Juan", Email: "juan@example.com", PasswordHash: "x", Role: model.RoleClient, Active: true}
	require.NoError(t, repos.Users.Create(ctx, user))

	slot := func(offset time.Duration, available bool) *model.Slot {
		s := &model.Slot{LawyerID: lawyer.ID, DateStart: start.Add(offset), DateEnd: start.Add(offset + time.Hour), Available: available}
		require.NoError(t, repos.Slots.Create(ctx, s))
		return s
	}
	reserve := func(s *model.Slot, code string, status model.ReservationStatus) {
		require.NoError(t, repos.Reservations.Create(ctx, &model.Reservation{
			UserID: user.ID, SlotID: s.ID, LawyerID: lawyer.ID, TrackingCode: code, Status: status,
		}))
	}

	orphan := slot(0, false)
	reserve(orphan, "aaaaaaaaaa", model.ReservationCancelled)
	drifted := slot(time.Hour, true)
	reserve(drifted, "bbbbbbbbbb", model.ReservationConfirmed)
	healthy := slot(2*time.Hour, false)
	reserve(healthy, "cccccccccc", model.ReservationPending)
	slot(3*time.Hour, true)

	r := NewReconciler(repository.NewTransactor(gdb), slog.New(slog.NewTextHandler(io.Discard, nil)))
	res, err := r.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Released: 1, Blocked: 1}, res)

	for id, want := range map[uint]bool{orphan.ID: true, drifted.ID: false, healthy.ID: false} {
		got, err := repos.Slots.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Available, "slot %d", id)
	}

	res, err = r.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestReconciler_StartRejectsBadSchedule(t *testing.T) {
	r := NewReconciler(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, r.Start("every now and then"))
	r.Stop()

	require.NoError(t, r.Start("@every 1h"))
	r.Stop()
}
