package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/helpers"
)

// Prometheus metrics for the ingestion pipeline.
var (
	rowsParsedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_rows_parsed_total",
		Help: "Total number of pasted roster rows successfully parsed.",
	})
	rowsMalformedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_rows_malformed_total",
		Help: "Total number of pasted roster rows skipped as malformed.",
	})
	descriptionFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_description_fallbacks_total",
		Help: "Total number of rows that received the fallback description.",
	})
	rowsPersistedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_rows_persisted_total",
		Help: "Total number of course records persisted by the pipeline.",
	})
	rowsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_rows_failed_total",
		Help: "Total number of course records that failed to persist.",
	})
)

// requiredFieldCount is the number of tab-separated columns a pasted line
// must carry: eCard code, course date, first name, last name, email, phone.
const requiredFieldCount = 6

// Batch carries the selections applied to every row of one pasted roster.
type Batch struct {
	InstructorID            string
	TrainingLocationAddress string
	CourseType              models.CourseType
}

// ParsedRow is one pasted roster line after tokenizing, field fallbacks and
// batch stamping, ready for enrichment and persistence.
type ParsedRow struct {
	Index                   int // zero-based position in the pasted input
	ECardCode               string
	CourseDate              string
	StudentFirstName        string
	StudentLastName         string
	StudentEmail            string
	StudentPhone            string
	InstructorID            string
	TrainingLocationAddress string
	CourseType              models.CourseType
	Description             string
}

// ParseResult reports the outcome of parsing one pasted roster.
type ParseResult struct {
	Rows           []ParsedRow
	MalformedCount int
}

// Report aggregates the outcome of enriching and persisting one batch. Every
// failure inside the pipeline is absorbed into these counts; the caller
// always receives a report, never an error.
type Report struct {
	TotalRows                int `json:"totalRows"`
	DescriptionFallbackCount int `json:"descriptionFallbackCount"`
	PersistedCount           int `json:"persistedCount"`
	FailedToPersistCount     int `json:"failedToPersistCount"`
}

// Outcome classifies a report for the user-facing summary notification.
type Outcome string

const (
	OutcomeFullSuccess    Outcome = "FULL_SUCCESS"
	OutcomePartialSuccess Outcome = "PARTIAL_SUCCESS"
	OutcomeTotalFailure   Outcome = "TOTAL_FAILURE"
)

// Outcome returns the aggregate outcome: all rows persisted, some persisted,
// or none persisted.
func (r Report) Outcome() Outcome {
	switch {
	case r.PersistedCount == r.TotalRows:
		return OutcomeFullSuccess
	case r.PersistedCount == 0:
		return OutcomeTotalFailure
	default:
		return OutcomePartialSuccess
	}
}

// Describer generates a course description for a course type. The call may
// fail; the pipeline always has a deterministic local fallback and never
// retries.
type Describer interface {
	Describe(ctx context.Context, courseType models.CourseType) (string, error)
}

// CourseStore persists course records.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
}

// InstructorLookup resolves whether a batch instructor id exists.
type InstructorLookup interface {
	Exists(ctx context.Context, instructorID string) (bool, error)
}

// Pipeline turns a block of pasted tab-separated roster text plus batch
// metadata into persisted course records, each carrying an AI-generated
// description, tolerating partial row failures.
type Pipeline struct {
	store           CourseStore
	instructors     InstructorLookup
	describer       Describer
	describeTimeout time.Duration
	now             func() time.Time
	logger          zerolog.Logger
}

// NewPipeline creates a new ingestion pipeline. describeTimeout bounds each
// description call; zero disables the bound.
func NewPipeline(store CourseStore, instructors InstructorLookup, describer Describer, describeTimeout time.Duration, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:           store,
		instructors:     instructors,
		describer:       describer,
		describeTimeout: describeTimeout,
		now:             time.Now,
		logger:          logger,
	}
}

// ParseRows splits the pasted text into lines, tokenizes each line on tabs
// and returns the well-formed rows with the batch selections stamped on.
//
// Input with no content after trimming fails with apperrors.ErrEmptyInput,
// and an unresolvable batch instructor fails with
// apperrors.ErrUnknownInstructor; both abort before any row is processed.
// Lines with fewer than six fields are skipped, logged and counted. Blank
// fields receive deterministic fallbacks: a pending eCard marker, today's
// date for a missing or non-YYYY-MM-DD date, and "N/A" for student fields.
func (p *Pipeline) ParseRows(ctx context.Context, rawText string, batch Batch) (*ParseResult, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, apperrors.ErrEmptyInput
	}

	exists, err := p.instructors.Exists(ctx, batch.InstructorID)
	if err != nil {
		return nil, fmt.Errorf("error resolving batch instructor: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrUnknownInstructor
	}

	// Split the raw text, not a trimmed copy. Trimming the whole paste would
	// eat leading or trailing tabs that belong to the first or last row.
	result := &ParseResult{}
	for index, line := range strings.Split(rawText, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < requiredFieldCount {
			p.logger.Warn().
				Int("line", index+1).
				Int("fields", len(fields)).
				Msg("Skipping malformed roster line, expected 6 tab-separated fields")
			result.MalformedCount++
			rowsMalformedTotal.Inc()
			continue
		}

		row := ParsedRow{
			Index:                   index,
			ECardCode:               strings.TrimSpace(fields[0]),
			CourseDate:              strings.TrimSpace(fields[1]),
			StudentFirstName:        fallback(fields[2], "N/A"),
			StudentLastName:         fallback(fields[3], "N/A"),
			StudentEmail:            fallback(fields[4], "N/A"),
			StudentPhone:            fallback(fields[5], "N/A"),
			InstructorID:            batch.InstructorID,
			TrainingLocationAddress: batch.TrainingLocationAddress,
			CourseType:              batch.CourseType,
		}
		if row.ECardCode == "" {
			row.ECardCode = fmt.Sprintf("PENDING_ECARD_%d", len(result.Rows))
		}
		if !helpers.IsValidCourseDate(row.CourseDate) {
			row.CourseDate = p.now().Format(helpers.CourseDateLayout)
		}

		result.Rows = append(result.Rows, row)
		rowsParsedTotal.Inc()
	}

	return result, nil
}

func fallback(value, def string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	return value
}

// FallbackDescription is the deterministic description attached to a row
// when the description collaborator fails.
func FallbackDescription(courseType models.CourseType) string {
	return fmt.Sprintf("Standard %s course.", courseType)
}

// EnrichAndPersist generates a description for every row concurrently, then
// persists the rows one by one. A failed description call attaches the
// deterministic fallback and is counted; it never blocks persistence. A
// failed persistence call is counted and the remaining rows continue. No
// failure escapes this method.
//
// Batch sizes are human-pasted spreadsheet rows, tens not thousands, so the
// describe fan-out runs unthrottled.
func (p *Pipeline) EnrichAndPersist(ctx context.Context, rows []ParsedRow) Report {
	report := Report{TotalRows: len(rows)}
	if len(rows) == 0 {
		return report
	}

	type enrichment struct {
		description string
		fellBack    bool
	}
	enrichments := make([]enrichment, len(rows))

	var wg sync.WaitGroup
	for i := range rows {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			description, err := p.describe(ctx, rows[i].CourseType)
			if err != nil {
				p.logger.Warn().
					Err(err).
					Str("courseType", string(rows[i].CourseType)).
					Int("row", rows[i].Index).
					Msg("Description generation failed, using fallback")
				enrichments[i] = enrichment{description: FallbackDescription(rows[i].CourseType), fellBack: true}
				return
			}
			enrichments[i] = enrichment{description: description}
		}(i)
	}
	wg.Wait()

	for i := range rows {
		rows[i].Description = enrichments[i].description
		if enrichments[i].fellBack {
			report.DescriptionFallbackCount++
			descriptionFallbacksTotal.Inc()
		}

		course := rowToCourse(&rows[i])
		if err := p.store.Create(ctx, course); err != nil {
			p.logger.Error().
				Err(err).
				Str("eCardCode", rows[i].ECardCode).
				Int("row", rows[i].Index).
				Msg("Failed to persist course record")
			report.FailedToPersistCount++
			rowsFailedTotal.Inc()
			continue
		}
		report.PersistedCount++
		rowsPersistedTotal.Inc()
	}

	return report
}

func (p *Pipeline) describe(ctx context.Context, courseType models.CourseType) (string, error) {
	if p.describeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.describeTimeout)
		defer cancel()
	}
	return p.describer.Describe(ctx, courseType)
}

func rowToCourse(row *ParsedRow) *models.Course {
	description := row.Description
	return &models.Course{
		ID:                      uuid.New().String(),
		ECardCode:               row.ECardCode,
		CourseDate:              row.CourseDate,
		StudentFirstName:        row.StudentFirstName,
		StudentLastName:         row.StudentLastName,
		StudentEmail:            row.StudentEmail,
		StudentPhone:            row.StudentPhone,
		InstructorID:            row.InstructorID,
		TrainingLocationAddress: row.TrainingLocationAddress,
		CourseType:              row.CourseType,
		Description:             &description,
		CreatedAt:               time.Now(),
	}
}
