package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a blog post owned by its author.
type Post struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Title      string     `json:"title" gorm:"size:200;not null"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	AuthorID   uuid.UUID  `json:"author_id" gorm:"type:char(36);not null;index:idx_posts_author_created,priority:1"`
	CategoryID *uuid.UUID `json:"category_id,omitempty" gorm:"type:char(36);index"`
	Slug       string     `json:"slug" gorm:"uniqueIndex;size:100"`
	Tags       StringList `json:"tags" gorm:"type:text"`
	Published  bool       `json:"published" gorm:"default:false"`
	CreatedAt  time.Time  `json:"created_at" gorm:"index:idx_posts_author_created,priority:2"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Relations
	Author   *PublicUser `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Category *Category   `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// BeforeCreate sets the UUID and derives the slug once from the title.
// The slug is never regenerated on later title edits.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	return nil
}

// StringList is an ordered list of tags stored as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported tags column type %T", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}
