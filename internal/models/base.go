// Package models contains the GORM models and error taxonomy of the DeepDive API.
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills a nil UUID primary key before insert.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// BeforeCreate assigns the primary key.
func (u *User) BeforeCreate(*gorm.DB) error { assignID(&u.ID); return nil }

// BeforeCreate assigns the primary key.
func (p *Post) BeforeCreate(*gorm.DB) error { assignID(&p.ID); return nil }

// BeforeCreate assigns the primary key.
func (r *Reply) BeforeCreate(*gorm.DB) error { assignID(&r.ID); return nil }

// BeforeCreate assigns the primary key.
func (r *Reaction) BeforeCreate(*gorm.DB) error { assignID(&r.ID); return nil }

// BeforeCreate assigns the primary key.
func (s *SkillMatrix) BeforeCreate(*gorm.DB) error { assignID(&s.ID); return nil }

// BeforeCreate assigns the primary key.
func (s *Scenario) BeforeCreate(*gorm.DB) error { assignID(&s.ID); return nil }

// BeforeCreate assigns the primary key.
func (a *UserAttempt) BeforeCreate(*gorm.DB) error { assignID(&a.ID); return nil }

// BeforeCreate assigns the primary key.
func (f *AIFeedback) BeforeCreate(*gorm.DB) error { assignID(&f.ID); return nil }
