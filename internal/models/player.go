package models

import "time"

// Player is an account playing one game.
type Player struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nickname     string    `gorm:"size:100;not null" json:"nickname"`
	Tagline      string    `gorm:"size:128;not null" json:"tagline"`
	Avatar       string    `gorm:"size:255" seed:"kind:filepath" json:"avatar"`
	Score        int64     `json:"score"`
	LastLoginAt  time.Time `json:"last_login_at"`
	GameID       uint      `gorm:"not null;index" json:"game_id"`
	Game         Game      `gorm:"foreignKey:GameID" json:"game"`
	IP           string    `gorm:"size:45" seed:"kind:ip" json:"ip"`
	Achievements string    `gorm:"size:1000" seed:"kind:csi" json:"achievements"`
	Friends      uint32    `json:"friends"`
	Balance      float64   `json:"balance"`
}
