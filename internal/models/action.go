package models

import (
	"time"

	"github.com/google/uuid"
)

// ActionName is what a player did.
type ActionName string

const (
	// ActionFire fires at the target
	ActionFire ActionName = "fire"
	// ActionMove moves the actor
	ActionMove ActionName = "move"
	// ActionStop halts the actor
	ActionStop ActionName = "stop"
)

// Action is one move made by a player, optionally against another player.
type Action struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	Name       ActionName    `gorm:"size:4;not null" seed:"choices:fire,move,stop" json:"name"`
	ExecutedAt time.Time     `json:"executed_at"`
	Duration   time.Duration `json:"duration"`
	UUID       uuid.UUID     `gorm:"type:uuid" json:"uuid"`
	ActorID    uint          `gorm:"not null;index" json:"actor_id"`
	Actor      Player        `gorm:"foreignKey:ActorID" json:"actor"`
	TargetID   *uint         `gorm:"index" json:"target_id,omitempty"`
	Target     *Player       `gorm:"foreignKey:TargetID" json:"target,omitempty"`
}
