package model

import "time"

// ConversationStatus is the state of an assistant conversation.
type ConversationStatus string

const (
	ConversationActive   ConversationStatus = "active"
	ConversationFinished ConversationStatus = "finished"
)

// Valid reports whether s is a known status.
func (s ConversationStatus) Valid() bool {
	return s == ConversationActive || s == ConversationFinished
}

// Conversation groups the interactions of a user with the assistant.
type Conversation struct {
	ID                uint               `json:"id" gorm:"primaryKey"`
	UserID            uint               `json:"userId" gorm:"not null;index"`
	User              *User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	StartDate         time.Time          `json:"startDate" gorm:"not null"`
	EndDate           *time.Time         `json:"endDate,omitempty"`
	Status            ConversationStatus `json:"status" gorm:"size:20;not null"`
	ConversationTitle string             `json:"conversationTitle" gorm:"size:255"`
	Interactions      []Interaction      `json:"interactions,omitempty" gorm:"foreignKey:ConversationID"`
}

// Interaction is one human message and the bot answer to it.
type Interaction struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	ConversationID uint          `json:"conversationId" gorm:"not null;index"`
	Conversation   *Conversation `json:"conversation,omitempty" gorm:"foreignKey:ConversationID"`
	HumanMessage   string        `json:"humanMessage" gorm:"type:text;not null"`
	BotMessage     *string       `json:"botMessage,omitempty" gorm:"type:text"`
	Date           time.Time     `json:"date" gorm:"not null"`
}
