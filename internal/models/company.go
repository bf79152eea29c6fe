package models

type Company struct {
	BaseModel
	Name    string `gorm:"not null" json:"name"`
	Website string `json:"website,omitempty"`
	OwnerID string `gorm:"type:uuid;not null;index" json:"owner_id"`

	Owner   *User        `gorm:"foreignKey:OwnerID" json:"-"`
	Members []TeamMember `gorm:"foreignKey:CompanyID" json:"members,omitempty"`
}

type TeamMember struct {
	BaseModel
	CompanyID string   `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_company_user" json:"company_id"`
	UserID    string   `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_company_user" json:"user_id"`
	Role      TeamRole `gorm:"type:varchar(20);not null" json:"role"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
