package models

import (
	"strings"
	"time"

	"medblock-service/internal/pkg/exceptions"
)

type VerificationStatus string

const (
	VerificationUnsubmitted VerificationStatus = "unsubmitted"
	VerificationPending     VerificationStatus = "pending"
	VerificationVerified    VerificationStatus = "verified"
	VerificationRejected    VerificationStatus = "rejected"
)

var VerificationStatuses = []string{
	string(VerificationUnsubmitted),
	string(VerificationPending),
	string(VerificationVerified),
	string(VerificationRejected),
}

// TransitionActor is who is allowed to drive a verification transition.
type TransitionActor int

const (
	ActorSubject TransitionActor = iota + 1
	ActorAdmin
)

var verificationTransitions = map[VerificationStatus]map[VerificationStatus]TransitionActor{
	VerificationUnsubmitted: {VerificationPending: ActorSubject},
	VerificationRejected:    {VerificationPending: ActorSubject},
	VerificationPending: {
		VerificationVerified: ActorAdmin,
		VerificationRejected: ActorAdmin,
	},
}

func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationUnsubmitted, VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

func (s VerificationStatus) CanTransition(to VerificationStatus, actor TransitionActor) bool {
	allowed, ok := verificationTransitions[s][to]
	return ok && allowed == actor
}

type ProfessionalVerification struct {
	Status          VerificationStatus `json:"status" bson:"status"`
	LicenseNumber   string             `json:"licenseNumber,omitempty" bson:"licenseNumber,omitempty"`
	IssuingBody     string             `json:"issuingBody,omitempty" bson:"issuingBody,omitempty"`
	DocumentKey     string             `json:"documentKey,omitempty" bson:"documentKey,omitempty"`
	SubmittedAt     *time.Time         `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
	VerifiedBy      string             `json:"verifiedBy,omitempty" bson:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time         `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
	RejectionReason string             `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	ReviewedBy      string             `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
}

// Submit moves the subject's own verification to pending.
func (v *ProfessionalVerification) Submit(licenseNumber, issuingBody, documentKey string, now time.Time) error {
	if !v.Status.CanTransition(VerificationPending, ActorSubject) {
		return exceptions.ErrInvalidTransition(nil, string(v.Status), string(VerificationPending))
	}
	v.Status = VerificationPending
	v.LicenseNumber = licenseNumber
	v.IssuingBody = issuingBody
	if documentKey != "" {
		v.DocumentKey = documentKey
	}
	v.SubmittedAt = &now
	v.RejectionReason = ""
	v.clearStamps()
	return nil
}

// Review applies an admin decision. Rejection needs a non-empty reason and
// only the verified state carries verifier stamps.
func (v *ProfessionalVerification) Review(to VerificationStatus, reviewerID, reason string, now time.Time) error {
	if !v.Status.CanTransition(to, ActorAdmin) {
		return exceptions.ErrInvalidTransition(nil, string(v.Status), string(to))
	}

	reason = strings.TrimSpace(reason)
	if to == VerificationRejected && reason == "" {
		return exceptions.ErrRejectionReasonRequired(nil)
	}

	v.Status = to
	v.ReviewedBy = reviewerID
	v.ReviewedAt = &now
	if to == VerificationVerified {
		v.VerifiedBy = reviewerID
		v.VerifiedAt = &now
		v.RejectionReason = ""
		return nil
	}

	v.RejectionReason = reason
	v.clearStamps()
	return nil
}

func (v *ProfessionalVerification) clearStamps() {
	v.VerifiedBy = ""
	v.VerifiedAt = nil
}
