// Package seed creates the default records a fresh deployment needs
package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/emskillz/instructpoint/internal/app/models"
	appRepos "github.com/emskillz/instructpoint/internal/app/repositories"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/auth"
)

// CreateDefaultData creates the default admin account and a starter
// coordinator hierarchy if they don't exist.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	instructorRepo := appRepos.NewInstructorRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	// --- Default Admin User --- //
	const adminEmail = "admin@instructpoint.app"
	exists, err := userRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		lgr.Info().Msg("Creating default admin user...")

		hashedPassword, err := auth.HashPassword("Admin123!")
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				ID:         uuid.New().String(),
				Email:      adminEmail,
				Password:   hashedPassword,
				FirstName:  "System",
				LastName:   "Administrator",
				RoleType:   appModels.RoleAdmin,
				IsApproved: true,
				IsActive:   true,
			}
			if err := userRepo.Create(ctx, admin); err != nil {
				lgr.Error().Err(err).Msg("Error creating admin user")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Str("adminID", admin.ID).Msg("Default admin user created successfully")
			}
		}
	} else {
		lgr.Info().Msg("Admin user already exists, skipping creation")
	}

	// --- Starter Coordinator Hierarchy --- //
	// A training center coordinator with one training site coordinator
	// reporting to them, so there is a valid supervisor to place new
	// instructors under.
	centerID, err := ensureInstructor(ctx, instructorRepo, &appModels.Instructor{
		Name:              "Center Coordinator",
		InstructorID:      "TCC-0001",
		Role:              appModels.RoleTrainingCenterCoordinator,
		EmailAddress:      "center@instructpoint.app",
		IsTrainingFaculty: true,
	}, lgr)
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if centerID != "" {
		_, err = ensureInstructor(ctx, instructorRepo, &appModels.Instructor{
			Name:                  "Site Coordinator",
			InstructorID:          "TSC-0001",
			Role:                  appModels.RoleTrainingSiteCoordinator,
			EmailAddress:          "site@instructpoint.app",
			ManagedByInstructorID: &centerID,
		}, lgr)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

// ensureInstructor creates the instructor if its code is not taken and
// returns the record's id either way.
func ensureInstructor(ctx context.Context, repo *appRepos.InstructorRepository, instructor *appModels.Instructor, lgr zerolog.Logger) (string, error) {
	instructor.ID = uuid.New().String()
	instructor.Status = appModels.StatusActive

	err := repo.Create(ctx, instructor)
	if err == nil {
		lgr.Info().Str("code", instructor.InstructorID).Msg("Seed instructor created")
		return instructor.ID, nil
	}
	if errors.Is(err, apperrors.ErrInstructorCodeExists) {
		existing, errGet := repo.GetByCode(ctx, instructor.InstructorID)
		if errGet != nil {
			lgr.Error().Err(errGet).Str("code", instructor.InstructorID).Msg("Error looking up existing seed instructor")
			return "", errGet
		}
		return existing.ID, nil
	}

	lgr.Error().Err(err).Str("code", instructor.InstructorID).Msg("Error creating seed instructor")
	return "", err
}
