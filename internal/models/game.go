// Package models contains the sample models seeded by the games app.
package models

import "time"

// AppName is the app the sample models are registered under.
const AppName = "games"

// Game is a title players can join.
type Game struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Slug         string    `gorm:"size:200;not null" seed:"kind:slug" json:"slug"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UpdatedDate  time.Time `gorm:"type:date" json:"updated_date"`
	UpdatedTime  string    `gorm:"size:8" seed:"kind:time" json:"updated_time"`
	Active       bool      `json:"active"`
	MaxScore     int64     `json:"max_score"`
	Levels       int16     `json:"levels"`
	Likes        int32     `json:"likes"`
	RandomBinary []byte    `json:"-"`
}

// App returns the models of the games app in dependency order.
func App() []any {
	return []any{
		&Game{},
		&Player{},
		&Action{},
	}
}
