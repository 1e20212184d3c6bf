package entity

// Role represents a staff role in the clinic
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDAdmin        = 1
	RoleIDDentist      = 2
	RoleIDReceptionist = 3
)

// RoleNames constants
const (
	RoleAdmin        = "admin"
	RoleDentist      = "dentist"
	RoleReceptionist = "receptionist"
)

// RoleIDByName maps a role name to its seeded ID.
func RoleIDByName(name string) (int, bool) {
	switch name {
	case RoleAdmin:
		return RoleIDAdmin, true
	case RoleDentist:
		return RoleIDDentist, true
	case RoleReceptionist:
		return RoleIDReceptionist, true
	}
	return 0, false
}

// RoleNameByID is the inverse of RoleIDByName.
func RoleNameByID(id int) string {
	switch id {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDDentist:
		return RoleDentist
	case RoleIDReceptionist:
		return RoleReceptionist
	}
	return ""
}
