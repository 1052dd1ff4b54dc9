package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
)

// --- Mock collaborators ---

type mockCourseStore struct {
	mu      sync.Mutex
	created []*models.Course
	failFn  func(course *models.Course) error
}

func (m *mockCourseStore) Create(_ context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFn != nil {
		if err := m.failFn(course); err != nil {
			return err
		}
	}
	m.created = append(m.created, course)
	return nil
}

type mockInstructorLookup struct {
	existsFn func(id string) (bool, error)
}

func (m *mockInstructorLookup) Exists(_ context.Context, id string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(id)
	}
	return true, nil
}

type mockDescriber struct {
	describeFn func(courseType models.CourseType) (string, error)
}

func (m *mockDescriber) Describe(_ context.Context, courseType models.CourseType) (string, error) {
	if m.describeFn != nil {
		return m.describeFn(courseType)
	}
	return "A hands-on " + string(courseType) + " certification course.", nil
}

func newTestPipeline(store *mockCourseStore, lookup *mockInstructorLookup, describer *mockDescriber) *Pipeline {
	return NewPipeline(store, lookup, describer, 5*time.Second, zerolog.Nop())
}

func testBatch() Batch {
	return Batch{
		InstructorID:            "instr-1",
		TrainingLocationAddress: "123 Main St, Anytown, USA",
		CourseType:              models.CourseBLSProvider,
	}
}

// --- ParseRows ---

func TestParseRows_TwoWellFormedLines(t *testing.T) {
	p := newTestPipeline(&mockCourseStore{}, &mockInstructorLookup{}, &mockDescriber{})

	raw := "A\t2024-08-01\tJane\tDoe\tj@x.com\t555-1234\n" +
		"B\t2024-08-02\tJohn\tSmith\tj2@x.com\t555-5678"

	result, err := p.ParseRows(context.Background(), raw, testBatch())
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Zero(t, result.MalformedCount)

	assert.Equal(t, "A", result.Rows[0].ECardCode)
	assert.Equal(t, "B", result.Rows[1].ECardCode)
	assert.Equal(t, "2024-08-01", result.Rows[0].CourseDate)
	assert.Equal(t, "Jane", result.Rows[0].StudentFirstName)
	assert.Equal(t, "Doe", result.Rows[0].StudentLastName)
	assert.Equal(t, "j@x.com", result.Rows[0].StudentEmail)
	assert.Equal(t, "555-1234", result.Rows[0].StudentPhone)

	// Batch selections stamped onto every row
	for _, row := range result.Rows {
		assert.Equal(t, "instr-1", row.InstructorID)
		assert.Equal(t, "123 Main St, Anytown, USA", row.TrainingLocationAddress)
		assert.Equal(t, models.CourseBLSProvider, row.CourseType)
	}
}

func TestParseRows_EmptyInput(t *testing.T) {
	p := newTestPipeline(&mockCourseStore{}, &mockInstructorLookup{}, &mockDescriber{})

	for _, raw := range []string{"", "   ", "\n\n\t\n"} {
		_, err := p.ParseRows(context.Background(), raw, testBatch())
		assert.ErrorIs(t, err, apperrors.ErrEmptyInput, "input %q", raw)
	}
}

func TestParseRows_UnknownInstructorAbortsBatch(t *testing.T) {
	lookup := &mockInstructorLookup{existsFn: func(string) (bool, error) { return false, nil }}
	p := newTestPipeline(&mockCourseStore{}, lookup, &mockDescriber{})

	_, err := p.ParseRows(context.Background(), "A\t2024-08-01\tJane\tDoe\tj@x.com\t555-1234", testBatch())
	assert.ErrorIs(t, err, apperrors.ErrUnknownInstructor)
}

func TestParseRows_MalformedLinesSkippedAndCounted(t *testing.T) {
	p := newTestPipeline(&mockCourseStore{}, &mockInstructorLookup{}, &mockDescriber{})

	var lines string
	for i := 0; i < 5; i++ {
		lines += fmt.Sprintf("E%d\t2024-08-01\tJane\tDoe\tj@x.com\t555-1234\n", i)
	}
	lines += "only\tthree\tfields\n"

	result, err := p.ParseRows(context.Background(), lines, testBatch())
	require.NoError(t, err)
	assert.Len(t, result.Rows, 5)
	assert.Equal(t, 1, result.MalformedCount)
}

func TestParseRows_FieldFallbacks(t *testing.T) {
	p := newTestPipeline(&mockCourseStore{}, &mockInstructorLookup{}, &mockDescriber{})
	fixed := time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	// Blank eCard, bad date, blank student fields
	raw := "\tnot-a-date\t\t\t\t"
	result, err := p.ParseRows(context.Background(), raw+"x", Batch{
		InstructorID:            "instr-1",
		TrainingLocationAddress: "HQ",
		CourseType:              models.CourseOther,
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, "PENDING_ECARD_0", row.ECardCode)
	assert.Equal(t, "2024-08-15", row.CourseDate)
	assert.Equal(t, "N/A", row.StudentFirstName)
	assert.Equal(t, "N/A", row.StudentLastName)
	assert.Equal(t, "N/A", row.StudentEmail)
	assert.Equal(t, "x", row.StudentPhone)
}

func TestParseRows_BoundaryTabsSurviveParsing(t *testing.T) {
	p := newTestPipeline(&mockCourseStore{}, &mockInstructorLookup{}, &mockDescriber{})

	// A blank eCard on the first row starts the paste with a tab and a
	// blank phone on the last row ends it with one. Both rows still carry
	// six fields and must parse with fallbacks, not count as malformed.
	raw := "\t2024-08-01\tJane\tDoe\tj@x.com\t555-1234\n" +
		"E01\t2024-08-02\tJohn\tSmith\tj2@x.com\t"

	result, err := p.ParseRows(context.Background(), raw, testBatch())
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Zero(t, result.MalformedCount)

	assert.Equal(t, "PENDING_ECARD_0", result.Rows[0].ECardCode)
	assert.Equal(t, "E01", result.Rows[1].ECardCode)
	assert.Equal(t, "N/A", result.Rows[1].StudentPhone)
}

func TestParseRows_PendingECardNumbersAreConsecutive(t *testing.T) {
	p := newTestPipeline(&mockCourseStore{}, &mockInstructorLookup{}, &mockDescriber{})

	// Blank and malformed lines between two blank-eCard rows must not
	// leave gaps in the generated codes.
	raw := "\t2024-08-01\tJane\tDoe\tj@x.com\t555-1234\n" +
		"\n" +
		"only\tthree\tfields\n" +
		"\t2024-08-02\tJohn\tSmith\tj2@x.com\t555-5678\n"

	result, err := p.ParseRows(context.Background(), raw, testBatch())
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 1, result.MalformedCount)

	assert.Equal(t, "PENDING_ECARD_0", result.Rows[0].ECardCode)
	assert.Equal(t, "PENDING_ECARD_1", result.Rows[1].ECardCode)
}

func TestParseRows_PreservesInputOrder(t *testing.T) {
	p := newTestPipeline(&mockCourseStore{}, &mockInstructorLookup{}, &mockDescriber{})

	var raw string
	for i := 0; i < 10; i++ {
		raw += fmt.Sprintf("E%02d\t2024-08-01\tJane\tDoe\tj@x.com\t555-1234\n", i)
	}

	result, err := p.ParseRows(context.Background(), raw, testBatch())
	require.NoError(t, err)
	require.Len(t, result.Rows, 10)
	for i, row := range result.Rows {
		assert.Equal(t, fmt.Sprintf("E%02d", i), row.ECardCode)
	}
}

// --- EnrichAndPersist ---

func parsedRows(n int) []ParsedRow {
	rows := make([]ParsedRow, n)
	for i := range rows {
		rows[i] = ParsedRow{
			Index:                   i,
			ECardCode:               fmt.Sprintf("E%02d", i),
			CourseDate:              "2024-08-01",
			StudentFirstName:        "Jane",
			StudentLastName:         "Doe",
			StudentEmail:            "j@x.com",
			StudentPhone:            "555-1234",
			InstructorID:            "instr-1",
			TrainingLocationAddress: "HQ",
			CourseType:              models.CourseBLSProvider,
		}
	}
	return rows
}

func TestEnrichAndPersist_FullSuccess(t *testing.T) {
	store := &mockCourseStore{}
	p := newTestPipeline(store, &mockInstructorLookup{}, &mockDescriber{})

	report := p.EnrichAndPersist(context.Background(), parsedRows(3))

	assert.Equal(t, Report{TotalRows: 3, PersistedCount: 3}, report)
	assert.Equal(t, OutcomeFullSuccess, report.Outcome())
	require.Len(t, store.created, 3)
	for _, course := range store.created {
		require.NotNil(t, course.Description)
		assert.Contains(t, *course.Description, "BLS Provider")
		assert.NotEmpty(t, course.ID)
	}
}

func TestEnrichAndPersist_DescriberAlwaysFailsStillPersistsAll(t *testing.T) {
	store := &mockCourseStore{}
	describer := &mockDescriber{describeFn: func(models.CourseType) (string, error) {
		return "", errors.New("model unavailable")
	}}
	p := newTestPipeline(store, &mockInstructorLookup{}, describer)

	report := p.EnrichAndPersist(context.Background(), parsedRows(4))

	assert.Equal(t, 4, report.TotalRows)
	assert.Equal(t, 4, report.DescriptionFallbackCount)
	assert.Equal(t, 4, report.PersistedCount)
	assert.Zero(t, report.FailedToPersistCount)
	assert.Equal(t, OutcomeFullSuccess, report.Outcome())

	for _, course := range store.created {
		require.NotNil(t, course.Description)
		assert.Equal(t, "Standard BLS Provider course.", *course.Description)
	}
}

func TestEnrichAndPersist_SinglePersistFailureIsolated(t *testing.T) {
	store := &mockCourseStore{failFn: func(course *models.Course) error {
		if course.ECardCode == "E02" {
			return errors.New("write rejected")
		}
		return nil
	}}
	p := newTestPipeline(store, &mockInstructorLookup{}, &mockDescriber{})

	rows := parsedRows(5)
	report := p.EnrichAndPersist(context.Background(), rows)

	assert.Equal(t, 5, report.TotalRows)
	assert.Equal(t, 4, report.PersistedCount)
	assert.Equal(t, 1, report.FailedToPersistCount)
	assert.Equal(t, OutcomePartialSuccess, report.Outcome())

	// Remaining rows keep their order and content
	require.Len(t, store.created, 4)
	assert.Equal(t, "E00", store.created[0].ECardCode)
	assert.Equal(t, "E01", store.created[1].ECardCode)
	assert.Equal(t, "E03", store.created[2].ECardCode)
	assert.Equal(t, "E04", store.created[3].ECardCode)
}

func TestEnrichAndPersist_AllPersistsFail(t *testing.T) {
	store := &mockCourseStore{failFn: func(*models.Course) error {
		return errors.New("store down")
	}}
	p := newTestPipeline(store, &mockInstructorLookup{}, &mockDescriber{})

	report := p.EnrichAndPersist(context.Background(), parsedRows(3))

	assert.Equal(t, 3, report.FailedToPersistCount)
	assert.Zero(t, report.PersistedCount)
	assert.Equal(t, OutcomeTotalFailure, report.Outcome())
}

func TestEnrichAndPersist_EmptyRows(t *testing.T) {
	store := &mockCourseStore{}
	p := newTestPipeline(store, &mockInstructorLookup{}, &mockDescriber{})

	report := p.EnrichAndPersist(context.Background(), nil)
	assert.Equal(t, Report{}, report)
	assert.Empty(t, store.created)
}

func TestEnrichAndPersist_DescribeTimeoutFallsBack(t *testing.T) {
	store := &mockCourseStore{}
	describer := &mockDescriber{describeFn: func(models.CourseType) (string, error) {
		return "", context.DeadlineExceeded
	}}
	p := NewPipeline(store, &mockInstructorLookup{}, describer, 10*time.Millisecond, zerolog.Nop())

	report := p.EnrichAndPersist(context.Background(), parsedRows(1))
	assert.Equal(t, 1, report.DescriptionFallbackCount)
	assert.Equal(t, 1, report.PersistedCount)
}

func TestReportOutcome_ZeroRowsIsFullSuccess(t *testing.T) {
	// An empty batch has nothing to fail; treated as full success.
	assert.Equal(t, OutcomeFullSuccess, Report{}.Outcome())
}
