package domain

import "time"

// TitleMaxLength matches the VARCHAR(255) title column
const TitleMaxLength = 255

// Note is a personal text note. It is only ever addressed by (ID, UserID).
type Note struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"column:user_id;not null;index:idx_user_archived,priority:1" json:"userId"`
	Title      string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content    string    `gorm:"column:content;type:text" json:"content"`
	Tags       Tags      `gorm:"column:tags" json:"tags"`
	IsArchived bool      `gorm:"column:is_archived;not null;default:false;index:idx_user_archived,priority:2" json:"isArchived"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Note) TableName() string { return "notes" }

// NoteCreateInput already carries defaults: empty content, empty tags, not archived
type NoteCreateInput struct {
	Title      string
	Content    string
	Tags       []string
	IsArchived bool
}

// NoteUpdateInput partial update; nil means "not supplied"
type NoteUpdateInput struct {
	Title      *string
	Content    *string
	Tags       *[]string
	IsArchived *bool
}

// IsEmpty reports whether no field was supplied
func (in NoteUpdateInput) IsEmpty() bool {
	return in.Title == nil && in.Content == nil && in.Tags == nil && in.IsArchived == nil
}

// Columns returns the column → value assignments for the supplied fields only
func (in NoteUpdateInput) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 4)
	if in.Title != nil {
		cols["title"] = *in.Title
	}
	if in.Content != nil {
		cols["content"] = *in.Content
	}
	if in.Tags != nil {
		cols["tags"] = NewTags(*in.Tags)
	}
	if in.IsArchived != nil {
		cols["is_archived"] = *in.IsArchived
	}
	return cols
}

// NoteCreateRequest documents the create body; decoding is done field by field
type NoteCreateRequest struct {
	Title      string   `json:"title" example:"Shopping"`
	Content    string   `json:"content" example:"milk, eggs"`
	Tags       []string `json:"tags" example:"home,errands"`
	IsArchived bool     `json:"isArchived"`
}

// NoteUpdateRequest documents the update body; every key is optional
type NoteUpdateRequest struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	IsArchived *bool     `json:"isArchived,omitempty"`
}
