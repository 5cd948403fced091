package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type seedAdminInput struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,password"`
	FirstName   string `validate:"required,max=60"`
	LastName    string `validate:"required,max=60"`
	PhoneNumber string `validate:"omitempty,phone_number"`
}

var errAdminExists = errors.New("an account with this email already exists")

func seedAdmin(ctx context.Context, repository contracts.UserRepository, input seedAdminInput, now time.Time) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.PhoneNumber = utils.NormalizePhoneNumber(input.PhoneNumber)
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("invalid admin input: %w", err)
	}

	existing, err := repository.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errAdminExists
	}

	passwordHash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:                     primitive.NewObjectID(),
		Email:                  input.Email,
		PasswordHash:           passwordHash,
		FirstName:              strings.TrimSpace(input.FirstName),
		LastName:               strings.TrimSpace(input.LastName),
		PhoneNumber:            input.PhoneNumber,
		Role:                   constvars.RoleAdmin,
		DepartmentAffiliations: []string{},
		FacilityAffiliations:   []string{},
		Verification:           models.ProfessionalVerification{Status: models.VerificationUnsubmitted},
		IsActive:               true,
		Version:                1,
		TimeModel:              models.TimeModel{CreatedAt: now, UpdatedAt: now},
	}
	if err := repository.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
