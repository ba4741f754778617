package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/model"
)

var nineAM = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newSlotServiceForTest(m *mockRepos) SlotService {
	repos := m.repositories()
	return NewSlotService(repos, mockTransactor{repos: repos})
}

func TestSlotService_Create(t *testing.T) {
	lawyer := &model.Lawyer{ID: 3, FirstName: "Ana"}

	tests := []struct {
		name      string
		input     SlotInput
		setupMock func(*mockRepos)
		wantKind  apperrors.Kind
	}{
		{
			name:  "creates an available slot",
			input: SlotInput{LawyerID: 3, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)},
			setupMock: func(m *mockRepos) {
				m.lawyers.On("FindByID", mock.Anything, uint(3)).Return(lawyer, nil)
				m.slots.On("FindByInterval", mock.Anything, uint(3), nineAM, nineAM.Add(time.Hour)).Return(nil, gorm.ErrRecordNotFound)
				m.slots.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Slot) bool { return s.Available })).Return(nil)
			},
		},
		{
			name:      "end before start",
			input:     SlotInput{LawyerID: 3, DateStart: nineAM, DateEnd: nineAM},
			setupMock: func(*mockRepos) {},
			wantKind:  apperrors.KindValidation,
		},
		{
			name:  "unknown lawyer",
			input: SlotInput{LawyerID: 3, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)},
			setupMock: func(m *mockRepos) {
				m.lawyers.On("FindByID", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantKind: apperrors.KindNotFound,
		},
		{
			name:  "duplicate interval",
			input: SlotInput{LawyerID: 3, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)},
			setupMock: func(m *mockRepos) {
				m.lawyers.On("FindByID", mock.Anything, uint(3)).Return(lawyer, nil)
				m.slots.On("FindByInterval", mock.Anything, uint(3), nineAM, nineAM.Add(time.Hour)).Return(&model.Slot{ID: 1}, nil)
			},
			wantKind: apperrors.KindConflict,
		},
		{
			name:  "duplicate caught by the index",
			input: SlotInput{LawyerID: 3, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)},
			setupMock: func(m *mockRepos) {
				m.lawyers.On("FindByID", mock.Anything, uint(3)).Return(lawyer, nil)
				m.slots.On("FindByInterval", mock.Anything, uint(3), nineAM, nineAM.Add(time.Hour)).Return(nil, gorm.ErrRecordNotFound)
				m.slots.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
			},
			wantKind: apperrors.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockRepos()
			tt.setupMock(m)

			got, err := newSlotServiceForTest(m).Create(context.Background(), tt.input)

			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.True(t, got.Available)
				assert.Equal(t, lawyer, got.Lawyer)
			}
			m.assertExpectations(t)
		})
	}
}

func TestSlotService_CreateMultiple_RejectsDuplicateInBatch(t *testing.T) {
	m := newMockRepos()
	m.lawyers.On("FindByID", mock.Anything, uint(3)).Return(&model.Lawyer{ID: 3}, nil)
	m.slots.On("FindByInterval", mock.Anything, uint(3), nineAM, nineAM.Add(time.Hour)).Return(nil, gorm.ErrRecordNotFound)

	_, err := newSlotServiceForTest(m).CreateMultiple(context.Background(), []SlotInput{
		{LawyerID: 3, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)},
		{LawyerID: 3, DateStart: nineAM.In(time.FixedZone("COT", -5*3600)), DateEnd: nineAM.Add(time.Hour)},
	})

	assert.True(t, apperrors.IsConflict(err))
	m.slots.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestSlotService_CreateMultiple(t *testing.T) {
	m := newMockRepos()
	m.lawyers.On("FindByID", mock.Anything, uint(3)).Return(&model.Lawyer{ID: 3}, nil).Once()
	m.slots.On("FindByInterval", mock.Anything, uint(3), mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	m.slots.On("CreateBatch", mock.Anything, mock.MatchedBy(func(s []model.Slot) bool { return len(s) == 2 })).Return(nil)

	got, err := newSlotServiceForTest(m).CreateMultiple(context.Background(), []SlotInput{
		{LawyerID: 3, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)},
		{LawyerID: 3, DateStart: nineAM.Add(time.Hour), DateEnd: nineAM.Add(2 * time.Hour)},
	})

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NotNil(t, got[1].Lawyer)
	m.assertExpectations(t)

	_, err = newSlotServiceForTest(newMockRepos()).CreateMultiple(context.Background(), nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSlotService_Update(t *testing.T) {
	t.Run("moving a reserved slot to another lawyer is refused", func(t *testing.T) {
		m := newMockRepos()
		newLawyer := uint(4)
		m.slots.On("FindByID", mock.Anything, uint(2)).Return(&model.Slot{ID: 2, LawyerID: 3, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)}, nil)
		m.lawyers.On("FindByID", mock.Anything, uint(4)).Return(&model.Lawyer{ID: 4}, nil)
		m.reservations.On("CountBySlot", mock.Anything, uint(2)).Return(int64(1), nil)

		_, err := newSlotServiceForTest(m).Update(context.Background(), 2, UpdateSlotInput{LawyerID: &newLawyer})
		assert.True(t, apperrors.IsConflict(err))
		m.assertExpectations(t)
	})

	t.Run("reschedule onto an existing interval is refused", func(t *testing.T) {
		m := newMockRepos()
		start, end := nineAM.Add(time.Hour), nineAM.Add(2*time.Hour)
		m.slots.On("FindByID", mock.Anything, uint(2)).Return(&model.Slot{ID: 2, LawyerID: 3, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour)}, nil)
		m.slots.On("FindByInterval", mock.Anything, uint(3), start, end).Return(&model.Slot{ID: 7}, nil)

		_, err := newSlotServiceForTest(m).Update(context.Background(), 2, UpdateSlotInput{DateStart: &start, DateEnd: &end})
		assert.True(t, apperrors.IsConflict(err))
		m.slots.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("reschedule", func(t *testing.T) {
		m := newMockRepos()
		end := nineAM.Add(90 * time.Minute)
		m.slots.On("FindByID", mock.Anything, uint(2)).Return(&model.Slot{ID: 2, LawyerID: 3, DateStart: nineAM, DateEnd: nineAM.Add(time.Hour), Available: true}, nil)
		m.slots.On("FindByInterval", mock.Anything, uint(3), nineAM, end).Return(&model.Slot{ID: 2}, nil)
		m.slots.On("Update", mock.Anything, mock.MatchedBy(func(s *model.Slot) bool { return s.DateEnd.Equal(end) })).Return(nil)

		_, err := newSlotServiceForTest(m).Update(context.Background(), 2, UpdateSlotInput{DateEnd: &end})
		require.NoError(t, err)
		m.assertExpectations(t)
	})
}

func TestSlotService_Remove(t *testing.T) {
	t.Run("refused with reservations", func(t *testing.T) {
		m := newMockRepos()
		m.slots.On("FindByID", mock.Anything, uint(2)).Return(&model.Slot{ID: 2}, nil)
		m.reservations.On("CountBySlot", mock.Anything, uint(2)).Return(int64(2), nil)

		err := newSlotServiceForTest(m).Remove(context.Background(), 2)
		assert.True(t, apperrors.IsConflict(err))
		m.slots.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes a free slot", func(t *testing.T) {
		m := newMockRepos()
		m.slots.On("FindByID", mock.Anything, uint(2)).Return(&model.Slot{ID: 2}, nil)
		m.reservations.On("CountBySlot", mock.Anything, uint(2)).Return(int64(0), nil)
		m.slots.On("Delete", mock.Anything, uint(2)).Return(nil)

		require.NoError(t, newSlotServiceForTest(m).Remove(context.Background(), 2))
		m.assertExpectations(t)
	})
}

func TestSlotService_ListSort(t *testing.T) {
	m := newMockRepos()
	m.slots.On("List", mock.Anything, model.ListOptions{
		Page: model.PageRequest{Number: 1, Size: model.DefaultPageSize},
		Sort: model.Sort{Column: "date_start"},
	}).Return([]model.Slot{}, int64(0), nil)

	svc := newSlotServiceForTest(m)
	page, err := svc.List(context.Background(), ListQuery{SortedBy: "dateStart", SortOrder: "ASC"})
	require.NoError(t, err)
	assert.NotNil(t, page.List)

	_, err = svc.List(context.Background(), ListQuery{SortedBy: "dateStart", SortOrder: "sideways"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestGroupSlots(t *testing.T) {
	ana := &model.Lawyer{ID: 1, FirstName: "Ana", SecondName: "Ruiz", Speciality: "civil"}
	luis := &model.Lawyer{ID: 2, FirstName: "Luis", SecondName: "Paz", Speciality: "penal"}
	ten := nineAM.Add(time.Hour)

	groups := groupSlots([]model.Slot{
		{ID: 1, LawyerID: 1, Lawyer: ana, DateStart: nineAM, DateEnd: ten},
		{ID: 2, LawyerID: 2, Lawyer: luis, DateStart: nineAM, DateEnd: ten},
		{ID: 3, LawyerID: 2, Lawyer: luis, DateStart: nineAM, DateEnd: nineAM.Add(2 * time.Hour)},
		{ID: 4, LawyerID: 1, Lawyer: ana, DateStart: ten, DateEnd: ten.Add(time.Hour)},
	})

	require.Len(t, groups, 3)
	assert.Equal(t, nineAM, groups[0].DateStart)
	assert.Equal(t, []model.LawyerSummary{ana.Summary(), luis.Summary()}, groups[0].Lawyers)
	assert.Equal(t, []model.LawyerSummary{luis.Summary()}, groups[1].Lawyers)
	assert.Equal(t, ten, groups[2].DateStart)

	assert.Empty(t, groupSlots(nil))
}
