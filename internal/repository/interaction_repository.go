package repository

import (
	"context"

	"gorm.io/gorm"

	"legalbooking/internal/model"
)

// InteractionRepository defines interaction persistence operations.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *model.Interaction) error
	Update(ctx context.Context, interaction *model.Interaction) error
	FindByID(ctx context.Context, id uint) (*model.Interaction, error)
	List(ctx context.Context, opts model.ListOptions) ([]model.Interaction, int64, error)
	Delete(ctx context.Context, id uint) error
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository.
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) Create(ctx context.Context, interaction *model.Interaction) error {
	return r.db.WithContext(ctx).Omit("Conversation").Create(interaction).Error
}

func (r *interactionRepository) Update(ctx context.Context, interaction *model.Interaction) error {
	return r.db.WithContext(ctx).Model(interaction).
		Select("HumanMessage", "BotMessage").
		Updates(interaction).Error
}

func (r *interactionRepository) FindByID(ctx context.Context, id uint) (*model.Interaction, error) {
	var interaction model.Interaction
	if err := r.db.WithContext(ctx).First(&interaction, id).Error; err != nil {
		return nil, err
	}
	return &interaction, nil
}

func (r *interactionRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Interaction, int64, error) {
	q := r.db.WithContext(ctx)
	if opts.UserID != 0 {
		owned := r.db.Model(&model.Conversation{}).Select("id").Where("user_id = ?", opts.UserID)
		q = q.Where("conversation_id IN (?)", owned)
	}
	return paginate[model.Interaction](q, opts, "date")
}

func (r *interactionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Interaction{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
