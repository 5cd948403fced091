package models

import (
	"math"
	"strings"
	"time"

	"medblock-service/internal/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BMICategoryUnderweight = "underweight"
	BMICategoryNormal      = "normal"
	BMICategoryOverweight  = "overweight"
	BMICategoryObese       = "obese"
)

var (
	PatientGenders    = []string{"male", "female", "other"}
	PatientBloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
)

type Address struct {
	County string `json:"county,omitempty" bson:"county,omitempty"`
	City   string `json:"city,omitempty" bson:"city,omitempty"`
	Ward   string `json:"ward,omitempty" bson:"ward,omitempty"`
	Street string `json:"street,omitempty" bson:"street,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name" bson:"name"`
	Relationship string `json:"relationship" bson:"relationship"`
	PhoneNumber  string `json:"phoneNumber" bson:"phoneNumber"`
}

type Patient struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName        string             `json:"firstName" bson:"firstName"`
	LastName         string             `json:"lastName" bson:"lastName"`
	DateOfBirth      time.Time          `json:"dateOfBirth" bson:"dateOfBirth"`
	Gender           string             `json:"gender" bson:"gender"`
	PhoneNumber      string             `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Email            string             `json:"email,omitempty" bson:"email,omitempty"`
	NationalID       string             `json:"nationalId,omitempty" bson:"nationalId,omitempty"`
	BloodType        string             `json:"bloodType,omitempty" bson:"bloodType,omitempty"`
	HeightCm         float64            `json:"heightCm,omitempty" bson:"heightCm,omitempty"`
	WeightKg         float64            `json:"weightKg,omitempty" bson:"weightKg,omitempty"`
	Allergies        []string           `json:"allergies" bson:"allergies"`
	Address          *Address           `json:"address,omitempty" bson:"address,omitempty"`
	EmergencyContact *EmergencyContact  `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	DepartmentID     string             `json:"departmentId" bson:"departmentId"`
	FacilityID       string             `json:"facilityId,omitempty" bson:"facilityId,omitempty"`
	CreatedBy        string             `json:"createdBy" bson:"createdBy"`
	Version          int64              `json:"version" bson:"version"`
	SoftDelete       `bson:",inline"`
	TimeModel        `bson:",inline"`
}

func (p *Patient) IDHex() string {
	return p.ID.Hex()
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Age is the number of completed years on the given civil date.
func (p *Patient) Age(today time.Time) int {
	return CalculateAge(p.DateOfBirth, today)
}

// BMI is weight / height(m)^2 rounded to one decimal; nil without both measures.
func (p *Patient) BMI() *float64 {
	if p.HeightCm <= 0 || p.WeightKg <= 0 {
		return nil
	}
	meters := p.HeightCm / 100
	bmi := math.Round(p.WeightKg/(meters*meters)*10) / 10
	return &bmi
}

func (p *Patient) BMICategory() string {
	bmi := p.BMI()
	if bmi == nil {
		return ""
	}
	switch {
	case *bmi < 18.5:
		return BMICategoryUnderweight
	case *bmi < 25:
		return BMICategoryNormal
	case *bmi < 30:
		return BMICategoryOverweight
	default:
		return BMICategoryObese
	}
}

// View renders the stored document plus its read-time fields.
func (p *Patient) View(today time.Time) (map[string]interface{}, error) {
	record, err := utils.ToRecord(p)
	if err != nil {
		return nil, err
	}
	record["fullName"] = p.FullName()
	record["age"] = p.Age(today)
	if bmi := p.BMI(); bmi != nil {
		record["bmi"] = *bmi
		record["bmiCategory"] = p.BMICategory()
	}
	return record, nil
}

// Descriptor is the projection the access controller decides on.
func (p *Patient) Descriptor(resourceType string) *ResourceDescriptor {
	return &ResourceDescriptor{
		ResourceType: resourceType,
		ID:           p.IDHex(),
		CreatorID:    p.CreatedBy,
		DepartmentID: p.DepartmentID,
		FacilityID:   p.FacilityID,
	}
}

func CalculateAge(dateOfBirth, today time.Time) int {
	if dateOfBirth.IsZero() {
		return 0
	}
	age := today.Year() - dateOfBirth.Year()
	if today.Month() < dateOfBirth.Month() || (today.Month() == dateOfBirth.Month() && today.Day() < dateOfBirth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
