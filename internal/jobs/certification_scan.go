// Package jobs runs scheduled background work
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/app/repositories"
	"github.com/emskillz/instructpoint/internal/pkg/email"
)

// CertificationScanner sends reminder emails for certifications that are
// expired or about to expire.
type CertificationScanner struct {
	instructorRepo *repositories.InstructorRepository
	emailSender    email.Sender
	window         time.Duration
	logger         zerolog.Logger
}

// NewCertificationScanner creates a new CertificationScanner
func NewCertificationScanner(instructorRepo *repositories.InstructorRepository, emailSender email.Sender, window time.Duration, logger zerolog.Logger) *CertificationScanner {
	return &CertificationScanner{
		instructorRepo: instructorRepo,
		emailSender:    emailSender,
		window:         window,
		logger:         logger,
	}
}

// Run scans active instructors' certifications once and sends a reminder
// for each one expiring within the window. A failed email does not stop
// the scan.
func (s *CertificationScanner) Run(ctx context.Context) {
	certs, err := s.instructorRepo.GetExpiringCertifications(ctx, s.window)
	if err != nil {
		s.logger.Error().Err(err).Msg("Certification expiry scan failed")
		return
	}
	if len(certs) == 0 {
		s.logger.Debug().Msg("Certification expiry scan found nothing to remind")
		return
	}

	sent := 0
	for _, cert := range certs {
		instructor, err := s.instructorRepo.GetByID(ctx, cert.InstructorID)
		if err != nil {
			s.logger.Warn().Err(err).Str("instructorID", cert.InstructorID).Msg("Skipping reminder, instructor lookup failed")
			continue
		}
		if instructor.EmailAddress == "" || cert.ExpiryDate == nil {
			continue
		}

		err = s.emailSender.SendCertificationExpiryReminder(
			instructor.Name, instructor.EmailAddress, cert.Name,
			cert.ExpiryDate.Format("2006-01-02"))
		if err != nil {
			s.logger.Warn().Err(err).
				Str("instructorID", instructor.ID).
				Str("certification", cert.Name).
				Msg("Failed to send certification expiry reminder")
			continue
		}
		sent++
	}

	s.logger.Info().
		Int("expiring", len(certs)).
		Int("remindersSent", sent).
		Msg("Certification expiry scan completed")

	s.deactivateFullyExpired(ctx)
}

// deactivateFullyExpired flips active instructors to inactive when every
// certification they hold has expired. Instructors without certifications
// are left alone.
func (s *CertificationScanner) deactivateFullyExpired(ctx context.Context) {
	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Deactivation pass failed to load roster")
		return
	}

	now := time.Now()
	for _, instructor := range roster {
		if instructor.Status != models.StatusActive {
			continue
		}
		certs, err := s.instructorRepo.GetCertifications(ctx, instructor.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("instructorID", instructor.ID).Msg("Skipping deactivation check, certification lookup failed")
			continue
		}
		if len(certs) == 0 {
			continue
		}

		allExpired := true
		for _, cert := range certs {
			if !cert.IsExpired(now) {
				allExpired = false
				break
			}
		}
		if !allExpired {
			continue
		}

		if err := s.instructorRepo.UpdateStatus(ctx, instructor.ID, models.StatusInactive); err != nil {
			s.logger.Warn().Err(err).Str("instructorID", instructor.ID).Msg("Failed to deactivate instructor with expired certifications")
			continue
		}
		s.logger.Info().
			Str("instructorID", instructor.ID).
			Str("name", instructor.Name).
			Msg("Instructor deactivated, all certifications expired")
	}
}

// Scheduler wraps the cron runner for all background jobs
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewScheduler creates a scheduler and registers the daily certification
// scan under the given cron expression.
func NewScheduler(scanner *CertificationScanner, schedule string, logger zerolog.Logger) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		scanner.Run(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins running scheduled jobs in their own goroutines
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Job scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Job scheduler stopped")
}
