package queryshaper

import (
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"sort"
)

type fieldType int

const (
	typeString fieldType = iota
	typeNumber
	typeBoolean
	typeDate
	typeEnum
)

func (t fieldType) String() string {
	switch t {
	case typeNumber:
		return "number"
	case typeBoolean:
		return "boolean"
	case typeDate:
		return "date"
	case typeEnum:
		return "enum"
	default:
		return "string"
	}
}

type virtualKind int

const (
	virtualNone virtualKind = iota
	virtualFullName
	virtualAge
	virtualMinAge
	virtualMaxAge
)

// Field is one entry of a resource whitelist, keyed by its external name.
type Field struct {
	Name          string
	StorageField  string
	Type          fieldType
	Sortable      bool
	Filterable    bool
	AllowedValues []string
	// Exact compares strings for equality instead of substring, for ids.
	Exact bool
	// Sensitive values are hidden from the debug trace.
	Sensitive bool
	// DateOnly dates are stored as UTC midnight of the civil day.
	DateOnly bool
	Virtual  virtualKind
}

type Whitelist struct {
	ResourceType string
	Fields       map[string]Field
	DefaultSort  []contracts.SortField
}

func (w *Whitelist) filterableKeys() []string {
	return w.keys(func(f Field) bool { return f.Filterable })
}

func (w *Whitelist) sortableKeys() []string {
	return w.keys(func(f Field) bool { return f.Sortable })
}

func (w *Whitelist) keys(keep func(Field) bool) []string {
	out := make([]string, 0, len(w.Fields))
	for name, f := range w.Fields {
		if keep(f) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func newWhitelist(resourceType string, defaultSort []contracts.SortField, fields ...Field) *Whitelist {
	w := &Whitelist{ResourceType: resourceType, Fields: make(map[string]Field, len(fields)), DefaultSort: defaultSort}
	for _, f := range fields {
		if f.StorageField == "" {
			f.StorageField = f.Name
		}
		w.Fields[f.Name] = f
	}
	return w
}

var newestFirst = []contracts.SortField{{Field: "createdAt", Direction: contracts.SortDesc}}

func UsersWhitelist() *Whitelist {
	return newWhitelist(constvars.ResourceUsers, newestFirst,
		Field{Name: "email", Type: typeString, Sortable: true, Filterable: true, Sensitive: true},
		Field{Name: "firstName", Type: typeString, Sortable: true, Filterable: true},
		Field{Name: "lastName", Type: typeString, Sortable: true, Filterable: true},
		Field{Name: "fullName", Type: typeString, Sortable: true, Filterable: true, Virtual: virtualFullName},
		Field{Name: "role", Type: typeEnum, Sortable: true, Filterable: true,
			AllowedValues: []string{constvars.RoleAdmin, constvars.RoleDoctor, constvars.RoleNurse, constvars.RoleFrontDesk}},
		Field{Name: "isActive", Type: typeBoolean, Filterable: true},
		Field{Name: "verificationStatus", StorageField: "verification.status", Type: typeEnum, Sortable: true, Filterable: true,
			AllowedValues: models.VerificationStatuses},
		Field{Name: "specialization", Type: typeString, Sortable: true, Filterable: true},
		Field{Name: "departmentId", StorageField: "departmentAffiliations", Type: typeString, Filterable: true, Exact: true},
		Field{Name: "facilityId", StorageField: "facilityAffiliations", Type: typeString, Filterable: true, Exact: true},
		Field{Name: "phoneNumber", Type: typeString, Filterable: true, Sensitive: true},
		Field{Name: "createdAt", Type: typeDate, Sortable: true, Filterable: true},
		Field{Name: "lastLoginAt", Type: typeDate, Sortable: true, Filterable: true},
	)
}

func PatientsWhitelist() *Whitelist {
	return newWhitelist(constvars.ResourcePatients, newestFirst,
		Field{Name: "firstName", Type: typeString, Sortable: true, Filterable: true},
		Field{Name: "lastName", Type: typeString, Sortable: true, Filterable: true},
		Field{Name: "fullName", Type: typeString, Sortable: true, Filterable: true, Virtual: virtualFullName},
		Field{Name: "gender", Type: typeEnum, Sortable: true, Filterable: true, AllowedValues: models.PatientGenders},
		Field{Name: "bloodType", Type: typeEnum, Filterable: true, AllowedValues: models.PatientBloodTypes},
		Field{Name: "dateOfBirth", Type: typeDate, Sortable: true, Filterable: true, DateOnly: true},
		Field{Name: "age", StorageField: "dateOfBirth", Type: typeNumber, Sortable: true, Filterable: true, Virtual: virtualAge},
		Field{Name: "minAge", StorageField: "dateOfBirth", Type: typeNumber, Filterable: true, Virtual: virtualMinAge},
		Field{Name: "maxAge", StorageField: "dateOfBirth", Type: typeNumber, Filterable: true, Virtual: virtualMaxAge},
		Field{Name: "phoneNumber", Type: typeString, Filterable: true, Exact: true, Sensitive: true},
		Field{Name: "email", Type: typeString, Filterable: true, Exact: true, Sensitive: true},
		Field{Name: "nationalId", Type: typeString, Filterable: true, Exact: true, Sensitive: true},
		Field{Name: "county", StorageField: "address.county", Type: typeString, Sortable: true, Filterable: true},
		Field{Name: "city", StorageField: "address.city", Type: typeString, Sortable: true, Filterable: true},
		Field{Name: "departmentId", Type: typeString, Filterable: true, Exact: true},
		Field{Name: "facilityId", Type: typeString, Filterable: true, Exact: true},
		Field{Name: "createdBy", Type: typeString, Filterable: true, Exact: true},
		Field{Name: "createdAt", Type: typeDate, Sortable: true, Filterable: true},
		Field{Name: "updatedAt", Type: typeDate, Sortable: true, Filterable: true},
		Field{Name: "heightCm", Type: typeNumber, Sortable: true, Filterable: true},
		Field{Name: "weightKg", Type: typeNumber, Sortable: true, Filterable: true},
	)
}
