package repository

import (
	"context"

	"gorm.io/gorm"

	"legalbooking/internal/model"
)

// ConversationRepository defines conversation persistence operations.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *model.Conversation) error
	Update(ctx context.Context, conversation *model.Conversation) error
	FindByID(ctx context.Context, id uint) (*model.Conversation, error)
	List(ctx context.Context, opts model.ListOptions) ([]model.Conversation, int64, error)
	Delete(ctx context.Context, id uint) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository.
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *model.Conversation) error {
	return r.db.WithContext(ctx).Omit("User", "Interactions").Create(conversation).Error
}

func (r *conversationRepository) Update(ctx context.Context, conversation *model.Conversation) error {
	return r.db.WithContext(ctx).Model(conversation).
		Select("ConversationTitle", "Status", "EndDate").
		Updates(conversation).Error
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Interactions", func(db *gorm.DB) *gorm.DB { return db.Order("date") }).
		First(&conversation, id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Conversation, int64, error) {
	return paginate[model.Conversation](ownedBy(r.db.WithContext(ctx), "user_id", opts), opts, "start_date DESC")
}

// Delete removes the conversation together with its interactions.
func (r *conversationRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("conversation_id = ?", id).Delete(&model.Interaction{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Conversation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *conversationRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Conversation{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
