package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MissionStarted   = "started"
	MissionCompleted = "completed"
	MissionFailed    = "failed"
)

// Mission is static game content; per-player state lives in MissionProgress.
type Mission struct {
	ID       uint   `gorm:"primaryKey"`
	PublicID string `gorm:"type:varchar(36);uniqueIndex;not null"`
	Title    string `gorm:"size:100;not null"`
	LevelReq int    `gorm:"default:1"`
}

func (m *Mission) BeforeCreate(_ *gorm.DB) error {
	if m.PublicID == "" {
		m.PublicID = uuid.NewString()
	}
	return nil
}

// MissionProgress has no unique index on (user_id, mission_id): concurrent
// first submissions for the same pair can leave duplicate rows. Kept
// duplicate-tolerant to match the upsert's read-then-write contract.
type MissionProgress struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	MissionID uint   `gorm:"index;not null"`
	Status    string `gorm:"size:20;default:started"`
	Score     int    `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Quiz struct {
	ID           uint   `gorm:"primaryKey"`
	PublicID     string `gorm:"type:varchar(36);uniqueIndex;not null"`
	TeacherID    uint   `gorm:"index;not null"`
	Title        string `gorm:"size:100;not null"`
	TimerSeconds int    `gorm:"default:300"`
	StartDate    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Quiz) BeforeCreate(_ *gorm.DB) error {
	if q.PublicID == "" {
		q.PublicID = uuid.NewString()
	}
	return nil
}

type QuizResult struct {
	ID        uint `gorm:"primaryKey"`
	QuizID    uint `gorm:"index;not null"`
	StudentID uint `gorm:"index;not null"`
	Score     int  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GameServer rows are created or refreshed by heartbeat and never deleted;
// staleness is filtered at read time.
type GameServer struct {
	ID            uint   `gorm:"primaryKey"`
	PublicID      string `gorm:"type:varchar(36);uniqueIndex;not null"`
	Name          string `gorm:"size:100"`
	IP            string `gorm:"size:50;not null;uniqueIndex:idx_game_servers_addr"`
	Port          int    `gorm:"not null;uniqueIndex:idx_game_servers_addr"`
	LastHeartbeat time.Time
	PlayerCount   int `gorm:"default:0"`
}

func (s *GameServer) BeforeCreate(_ *gorm.DB) error {
	if s.PublicID == "" {
		s.PublicID = uuid.NewString()
	}
	return nil
}

// PlaytimeLog is intended as one row per user per day; not enforced.
type PlaytimeLog struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"index;not null"`
	Date            time.Time `gorm:"type:date"`
	DurationMinutes int       `gorm:"default:0"`
}
