package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalbooking/internal/model"
)

func TestExtractSlotQuery(t *testing.T) {
	now := time.Date(2025, 3, 8, 15, 20, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	t.Run("spanish with lawyer, speciality, date and time", func(t *testing.T) {
		q := ExtractSlotQuery("Busco abogado con id 7 especialidad en penal el 2025-03-10 a las 10:30", now, week)

		require.NotNil(t, q.Filter.LawyerID)
		assert.Equal(t, uint(7), *q.Filter.LawyerID)
		require.NotNil(t, q.Filter.LawyerSpeciality)
		assert.Equal(t, "penal", *q.Filter.LawyerSpeciality)
		require.NotNil(t, q.Filter.Available)
		assert.True(t, *q.Filter.Available)

		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, day, *q.Filter.StartDate)
		assert.Equal(t, day.Add(24*time.Hour), *q.Filter.EndDate)
		require.NotNil(t, q.Target)
		assert.Equal(t, day.Add(10*time.Hour+30*time.Minute), *q.Target)
	})

	t.Run("english speciality without a date", func(t *testing.T) {
		q := ExtractSlotQuery("Any slot with a lawyer specialty in family law?", now, week)

		assert.Nil(t, q.Filter.LawyerID)
		require.NotNil(t, q.Filter.LawyerSpeciality)
		assert.Equal(t, "family", *q.Filter.LawyerSpeciality)
		assert.Equal(t, now, *q.Filter.StartDate)
		assert.Equal(t, now.Add(week), *q.Filter.EndDate)
		assert.Nil(t, q.Target)
	})

	t.Run("speciality with a colon", func(t *testing.T) {
		q := ExtractSlotQuery("speciality: civil", now, week)
		require.NotNil(t, q.Filter.LawyerSpeciality)
		assert.Equal(t, "civil", *q.Filter.LawyerSpeciality)
	})

	t.Run("time without a date targets today", func(t *testing.T) {
		q := ExtractSlotQuery("is lawyer id: 2 free at 17:00?", now, week)

		require.NotNil(t, q.Filter.LawyerID)
		assert.Equal(t, uint(2), *q.Filter.LawyerID)
		require.NotNil(t, q.Target)
		assert.Equal(t, time.Date(2025, 3, 8, 17, 0, 0, 0, time.UTC), *q.Target)
	})

	t.Run("passed time without a date targets tomorrow", func(t *testing.T) {
		q := ExtractSlotQuery("anything at 09:00?", now, week)

		require.NotNil(t, q.Target)
		assert.Equal(t, time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC), *q.Target)
		assert.False(t, q.Target.Before(*q.Filter.StartDate))
	})

	t.Run("iso timestamp", func(t *testing.T) {
		q := ExtractSlotQuery("book 2025-01-10T09:00 please", now, week)

		day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, day, *q.Filter.StartDate)
		assert.Equal(t, day.Add(24*time.Hour), *q.Filter.EndDate)
		require.NotNil(t, q.Target)
		assert.Equal(t, day.Add(9*time.Hour), *q.Target)
	})

	t.Run("nothing recognised", func(t *testing.T) {
		q := ExtractSlotQuery("hello", now, week)
		assert.Nil(t, q.Filter.LawyerID)
		assert.Nil(t, q.Filter.LawyerSpeciality)
		assert.Nil(t, q.Target)
		assert.NotNil(t, q.Filter.StartDate)
	})
}

func TestMatchSlot(t *testing.T) {
	slots := []model.Slot{
		{ID: 1, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)},
		{ID: 2, DateStart: nineAM.Add(3 * time.Hour), DateEnd: nineAM.Add(4 * time.Hour)},
		{ID: 3, DateStart: nineAM.Add(2 * time.Hour), DateEnd: nineAM.Add(3 * time.Hour)},
	}

	match := MatchSlot(slots, nineAM.Add(30*time.Minute))
	require.NotNil(t, match.Exact)
	assert.Equal(t, uint(1), match.Exact.ID)

	match = MatchSlot(slots, nineAM.Add(time.Hour))
	assert.Nil(t, match.Exact)
	require.NotNil(t, match.Closest)
	assert.Equal(t, uint(3), match.Closest.ID)

	match = MatchSlot(slots, nineAM.Add(5*time.Hour))
	assert.Nil(t, match.Exact)
	assert.Nil(t, match.Closest)
}

func TestRenderSlots(t *testing.T) {
	lawyer := &model.Lawyer{ID: 4, FirstName: "Ana", SecondName: "Ruiz", Speciality: "civil"}
	slot := model.Slot{ID: 9, LawyerID: 4, Lawyer: lawyer, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)}

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No available slots match the request.\n", RenderSlots(SlotQuery{}, nil))
	})

	t.Run("list", func(t *testing.T) {
		out := RenderSlots(SlotQuery{}, []model.Slot{slot})
		assert.Contains(t, out, "**Available slots**")
		assert.Contains(t, out, "- Ana Ruiz (civil, ID 4): 2025-03-10 09:00 to 10:00 (slot 9)")
	})

	t.Run("long lists are truncated", func(t *testing.T) {
		slots := make([]model.Slot, maxListedSlots+2)
		for i := range slots {
			slots[i] = model.Slot{ID: uint(i + 1), LawyerID: 4, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)}
		}
		out := RenderSlots(SlotQuery{}, slots)
		assert.Equal(t, maxListedSlots, strings.Count(out, "(slot "))
		assert.Contains(t, out, "...and 2 more")
	})

	t.Run("exact and closest", func(t *testing.T) {
		target := nineAM.Add(15 * time.Minute)
		assert.Contains(t, RenderSlots(SlotQuery{Target: &target}, []model.Slot{slot}), "requested time")

		early := nineAM.Add(-time.Hour)
		out := RenderSlots(SlotQuery{Target: &early}, []model.Slot{slot})
		assert.Contains(t, out, "No slot at 2025-03-10 08:00")
		assert.Contains(t, out, "(slot 9)")
	})
}
