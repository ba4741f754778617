package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"legalbooking/internal/events"
	"legalbooking/internal/model"
	"legalbooking/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByDocumentNumber(ctx context.Context, documentNumber string) (*model.User, error) {
	args := m.Called(ctx, documentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, opts model.ListOptions) ([]model.User, int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLawyerRepository is a mock implementation of LawyerRepository.
type MockLawyerRepository struct {
	mock.Mock
}

func (m *MockLawyerRepository) Create(ctx context.Context, lawyer *model.Lawyer) error {
	args := m.Called(ctx, lawyer)
	return args.Error(0)
}

func (m *MockLawyerRepository) Update(ctx context.Context, lawyer *model.Lawyer) error {
	args := m.Called(ctx, lawyer)
	return args.Error(0)
}

func (m *MockLawyerRepository) FindByID(ctx context.Context, id uint) (*model.Lawyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lawyer), args.Error(1)
}

func (m *MockLawyerRepository) FindByEmail(ctx context.Context, email string) (*model.Lawyer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lawyer), args.Error(1)
}

func (m *MockLawyerRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Lawyer, int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]model.Lawyer), args.Get(1).(int64), args.Error(2)
}

func (m *MockLawyerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSlotRepository is a mock implementation of SlotRepository.
type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockSlotRepository) CreateBatch(ctx context.Context, slots []model.Slot) error {
	args := m.Called(ctx, slots)
	return args.Error(0)
}

func (m *MockSlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockSlotRepository) FindByID(ctx context.Context, id uint) (*model.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Slot), args.Error(1)
}

func (m *MockSlotRepository) FindByInterval(ctx context.Context, lawyerID uint, start, end time.Time) (*model.Slot, error) {
	args := m.Called(ctx, lawyerID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Slot), args.Error(1)
}

func (m *MockSlotRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Slot, int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]model.Slot), args.Get(1).(int64), args.Error(2)
}

func (m *MockSlotRepository) Search(ctx context.Context, f model.SlotFilter) ([]model.Slot, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Slot), args.Error(1)
}

func (m *MockSlotRepository) ListOrderedByStart(ctx context.Context) ([]model.Slot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Slot), args.Error(1)
}

func (m *MockSlotRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSlotRepository) MarkUnavailable(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotRepository) MarkAvailable(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSlotRepository) CountByLawyer(ctx context.Context, lawyerID uint) (int64, error) {
	args := m.Called(ctx, lawyerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSlotRepository) FindOrphaned(ctx context.Context) ([]uint, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockSlotRepository) FindUnblocked(ctx context.Context) ([]uint, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockSlotRepository) SetAvailability(ctx context.Context, ids []uint, available bool) (int64, error) {
	args := m.Called(ctx, ids, available)
	return args.Get(0).(int64), args.Error(1)
}

// MockReservationRepository is a mock implementation of ReservationRepository.
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, id uint, status model.ReservationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id uint) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindByTrackingCode(ctx context.Context, code string) (*model.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ExistsTrackingCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Reservation, int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]model.Reservation), args.Get(1).(int64), args.Error(2)
}

func (m *MockReservationRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationRepository) CountBySlot(ctx context.Context, slotID uint) (int64, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockConversationRepository is a mock implementation of ConversationRepository.
type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) Create(ctx context.Context, conversation *model.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

func (m *MockConversationRepository) Update(ctx context.Context, conversation *model.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

func (m *MockConversationRepository) FindByID(ctx context.Context, id uint) (*model.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conversation), args.Error(1)
}

func (m *MockConversationRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Conversation, int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]model.Conversation), args.Get(1).(int64), args.Error(2)
}

func (m *MockConversationRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockConversationRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockInteractionRepository is a mock implementation of InteractionRepository.
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Create(ctx context.Context, interaction *model.Interaction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func (m *MockInteractionRepository) Update(ctx context.Context, interaction *model.Interaction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func (m *MockInteractionRepository) FindByID(ctx context.Context, id uint) (*model.Interaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Interaction), args.Error(1)
}

func (m *MockInteractionRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Interaction, int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]model.Interaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockInteractionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, evt events.ReservationEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// mockRepos bundles one mock per repository.
type mockRepos struct {
	users         *MockUserRepository
	lawyers       *MockLawyerRepository
	slots         *MockSlotRepository
	reservations  *MockReservationRepository
	conversations *MockConversationRepository
	interactions  *MockInteractionRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		users:         new(MockUserRepository),
		lawyers:       new(MockLawyerRepository),
		slots:         new(MockSlotRepository),
		reservations:  new(MockReservationRepository),
		conversations: new(MockConversationRepository),
		interactions:  new(MockInteractionRepository),
	}
}

func (m *mockRepos) repositories() repository.Repositories {
	return repository.Repositories{
		Users:         m.users,
		Lawyers:       m.lawyers,
		Slots:         m.slots,
		Reservations:  m.reservations,
		Conversations: m.conversations,
		Interactions:  m.interactions,
	}
}

func (m *mockRepos) assertExpectations(t mock.TestingT) {
	m.users.AssertExpectations(t)
	m.lawyers.AssertExpectations(t)
	m.slots.AssertExpectations(t)
	m.reservations.AssertExpectations(t)
	m.conversations.AssertExpectations(t)
	m.interactions.AssertExpectations(t)
}

// mockTransactor runs fn directly against the mock repositories.
type mockTransactor struct {
	repos repository.Repositories
}

func (t mockTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return fn(ctx, t.repos)
}
