package models

// User mirrors an identity issued by the external auth provider.
type User struct {
	BaseModel
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	FullName string `gorm:"not null;default:''" json:"full_name"`
	Headline string `json:"headline,omitempty"`
}
