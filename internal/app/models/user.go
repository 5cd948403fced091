package models

import (
	"strings"
	"time"

	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID                     primitive.ObjectID       `json:"id" bson:"_id,omitempty"`
	Email                  string                   `json:"email" bson:"email"`
	PasswordHash           string                   `json:"-" bson:"passwordHash"`
	FirstName              string                   `json:"firstName" bson:"firstName"`
	LastName               string                   `json:"lastName" bson:"lastName"`
	PhoneNumber            string                   `json:"phoneNumber" bson:"phoneNumber"`
	NationalID             string                   `json:"nationalId,omitempty" bson:"nationalId,omitempty"`
	Role                   string                   `json:"role" bson:"role"`
	Specialization         string                   `json:"specialization,omitempty" bson:"specialization,omitempty"`
	DepartmentAffiliations []string                 `json:"departmentAffiliations" bson:"departmentAffiliations"`
	FacilityAffiliations   []string                 `json:"facilityAffiliations" bson:"facilityAffiliations"`
	Verification           ProfessionalVerification `json:"verification" bson:"verification"`
	IsActive               bool                     `json:"isActive" bson:"isActive"`
	LastLoginAt            *time.Time               `json:"lastLoginAt,omitempty" bson:"lastLoginAt,omitempty"`
	Version                int64                    `json:"version" bson:"version"`
	SoftDelete             `bson:",inline"`
	TimeModel              `bson:",inline"`
}

func (u *User) IDHex() string {
	return u.ID.Hex()
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CanAuthenticate is false for deactivated and soft-deleted accounts.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsDeleted
}

func IsKnownRole(role string) bool {
	switch role {
	case constvars.RoleAdmin, constvars.RoleDoctor, constvars.RoleNurse, constvars.RoleFrontDesk:
		return true
	}
	return false
}

// IsProfessionalRole reports roles gated by professional verification.
func IsProfessionalRole(role string) bool {
	return role == constvars.RoleDoctor || role == constvars.RoleNurse
}

func (u *User) Descriptor(resourceType string) *ResourceDescriptor {
	return &ResourceDescriptor{
		ResourceType: resourceType,
		ID:           u.IDHex(),
		OwnerID:      u.IDHex(),
	}
}

// View renders the stored account plus fullName. The password hash never
// reaches the view.
func (u *User) View() (map[string]interface{}, error) {
	record, err := utils.ToRecord(u)
	if err != nil {
		return nil, err
	}
	record["fullName"] = u.FullName()
	return record, nil
}
