package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"legalbooking/internal/model"
)

// Repositories bundles every repository bound to the same connection or transaction.
type Repositories struct {
	Users         UserRepository
	Lawyers       LawyerRepository
	Slots         SlotRepository
	Reservations  ReservationRepository
	Conversations ConversationRepository
	Interactions  InteractionRepository
}

// Transactor runs fn with repositories bound to a single database transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a GORM-backed transactor.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

// New builds the repository set over db.
func New(db *gorm.DB) Repositories {
	return Repositories{
		Users:         NewUserRepository(db),
		Lawyers:       NewLawyerRepository(db),
		Slots:         NewSlotRepository(db),
		Reservations:  NewReservationRepository(db),
		Conversations: NewConversationRepository(db),
		Interactions:  NewInteractionRepository(db),
	}
}

func (t *gormTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, New(tx))
	})
}

// ownedBy filters q on column when opts names an owner.
func ownedBy(q *gorm.DB, column string, opts model.ListOptions) *gorm.DB {
	if opts.UserID == 0 {
		return q
	}
	return q.Where(column+" = ?", opts.UserID)
}

// paginate counts the rows matched by q and loads one page of them with the
// given associations preloaded.
func paginate[T any](q *gorm.DB, opts model.ListOptions, defaultOrder string, preloads ...string) ([]T, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	for _, p := range preloads {
		q = q.Preload(p)
	}

	page := opts.Page.Normalize()
	if opts.Sort.Column != "" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: opts.Sort.Column}, Desc: opts.Sort.Desc})
	} else {
		q = q.Order(defaultOrder)
	}

	var items []T
	if err := q.Offset(page.Offset()).Limit(page.Size).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
