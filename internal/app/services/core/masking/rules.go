package masking

import "medblock-service/internal/pkg/constvars"

type Rule struct {
	VisibleTo map[string]struct{}
	Mask      MaskFunc
}

// Policy is the visibility table of one resource type. A path that is
// neither public nor ruled is redacted for everyone.
type Policy struct {
	Public map[string]struct{}
	Rules  map[string]Rule
	// containers are the parents of dotted paths, walked into rather than
	// redacted as a whole.
	containers map[string]struct{}
}

func newPolicy(public []string, rules map[string]Rule) *Policy {
	p := &Policy{
		Public:     make(map[string]struct{}, len(public)),
		Rules:      rules,
		containers: make(map[string]struct{}),
	}
	for _, path := range public {
		p.Public[path] = struct{}{}
		p.addContainers(path)
	}
	for path := range rules {
		p.addContainers(path)
	}
	return p
}

func (p *Policy) addContainers(path string) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			p.containers[path[:i]] = struct{}{}
		}
	}
}

func visibleTo(roles ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

var (
	adminOnly     = visibleTo(constvars.RoleAdmin)
	admitting     = visibleTo(constvars.RoleAdmin, constvars.RoleDoctor)
	clinicalStaff = visibleTo(constvars.RoleAdmin, constvars.RoleDoctor, constvars.RoleNurse)
)

func UsersPolicy() *Policy {
	return newPolicy(
		[]string{
			"id", "firstName", "lastName", "fullName", "role", "isActive",
			"createdAt", "updatedAt", "lastLoginAt", "specialization",
			"departmentAffiliations", "facilityAffiliations", "version",
			"verification.status", "verification.submittedAt", "verification.verifiedAt",
			"verification.reviewedAt", "verification.issuingBody",
			// non-admins only ever view their own account
			"verification.rejectionReason",
		},
		map[string]Rule{
			"email":       {VisibleTo: adminOnly, Mask: MaskEmail},
			"phoneNumber": {VisibleTo: adminOnly, Mask: MaskPhone},
			"nationalId":  {VisibleTo: adminOnly, Mask: MaskNationalID},

			"verification.licenseNumber":   {VisibleTo: adminOnly, Mask: Redact},
			"verification.documentKey":     {VisibleTo: adminOnly, Mask: Redact},
			"verification.verifiedBy":      {VisibleTo: adminOnly, Mask: Redact},
			"verification.reviewedBy":      {VisibleTo: adminOnly, Mask: Redact},

			"isDeleted": {VisibleTo: adminOnly, Mask: Redact},
			"deletedAt": {VisibleTo: adminOnly, Mask: Redact},
			"deletedBy": {VisibleTo: adminOnly, Mask: Redact},
		},
	)
}

func PatientsPolicy() *Policy {
	return newPolicy(
		[]string{
			"id", "firstName", "lastName", "fullName", "gender", "dateOfBirth", "age",
			"bloodType", "heightCm", "weightKg", "bmi", "bmiCategory", "allergies",
			"departmentId", "facilityId", "createdBy", "createdAt", "updatedAt", "version",
			"address.county", "address.city",
			"emergencyContact.name", "emergencyContact.relationship",
		},
		map[string]Rule{
			"phoneNumber": {VisibleTo: admitting, Mask: MaskPhone},
			"email":       {VisibleTo: admitting, Mask: MaskEmail},
			"nationalId":  {VisibleTo: adminOnly, Mask: MaskNationalID},

			"address.street": {VisibleTo: admitting, Mask: Redact},
			"address.ward":   {VisibleTo: admitting, Mask: Redact},

			"emergencyContact.phoneNumber": {VisibleTo: clinicalStaff, Mask: MaskPhone},

			"isDeleted": {VisibleTo: adminOnly, Mask: Redact},
			"deletedAt": {VisibleTo: adminOnly, Mask: Redact},
			"deletedBy": {VisibleTo: adminOnly, Mask: Redact},
		},
	)
}
