package dto

import (
	"time"

	"github.com/emskillz/instructpoint/internal/app/models"
)

// CreateCourseRequest represents data for creating a single course record
type CreateCourseRequest struct {
	ECardCode               string `json:"eCardCode"`
	CourseDate              string `json:"courseDate"`
	StudentFirstName        string `json:"studentFirstName"`
	StudentLastName         string `json:"studentLastName"`
	StudentEmail            string `json:"studentEmail"`
	StudentPhone            string `json:"studentPhone"`
	InstructorID            string `json:"instructorId" binding:"required"`
	TrainingLocationAddress string `json:"trainingLocationAddress" binding:"required"`
	CourseType              string `json:"courseType" binding:"required"`
}

// BulkCreateCoursesRequest represents a pasted tab-separated batch of course rows
type BulkCreateCoursesRequest struct {
	RawText                 string `json:"rawText" binding:"required"`
	InstructorID            string `json:"instructorId" binding:"required"`
	TrainingLocationAddress string `json:"trainingLocationAddress" binding:"required"`
	CourseType              string `json:"courseType" binding:"required"`
}

// BulkCreateCoursesResponse reports the outcome of a bulk ingestion batch
type BulkCreateCoursesResponse struct {
	Message                  string `json:"message"`
	Outcome                  string `json:"outcome" example:"PARTIAL_SUCCESS"`
	TotalRows                int    `json:"totalRows"`
	MalformedRows            int    `json:"malformedRows"`
	PersistedCount           int    `json:"persistedCount"`
	FailedToPersistCount     int    `json:"failedToPersistCount"`
	DescriptionFallbackCount int    `json:"descriptionFallbackCount"`
}

// CourseResponse represents a course record
type CourseResponse struct {
	ID                      string    `json:"id"`
	ECardCode               string    `json:"eCardCode"`
	CourseDate              string    `json:"courseDate"`
	StudentFirstName        string    `json:"studentFirstName"`
	StudentLastName         string    `json:"studentLastName"`
	StudentEmail            string    `json:"studentEmail"`
	StudentPhone            string    `json:"studentPhone"`
	InstructorID            string    `json:"instructorId"`
	InstructorName          string    `json:"instructorName"`
	TrainingLocationAddress string    `json:"trainingLocationAddress"`
	CourseType              string    `json:"courseType"`
	Description             *string   `json:"description,omitempty"`
	CreatedAt               time.Time `json:"createdAt"`
}

// CourseListResponse wraps a visibility-filtered course list
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
	Total   int              `json:"total"`
}

// CourseStatsResponse aggregates course counts for dashboard widgets
type CourseStatsResponse struct {
	TotalCourses   int            `json:"totalCourses"`
	CoursesByType  map[string]int `json:"coursesByType"`
	CoursesByMonth map[string]int `json:"coursesByMonth"`
}

// ToCourseResponse converts a course model to its response representation
func ToCourseResponse(course *models.Course) CourseResponse {
	name := course.InstructorName
	if name == "" {
		name = "Unknown Instructor"
	}
	return CourseResponse{
		ID:                      course.ID,
		ECardCode:               course.ECardCode,
		CourseDate:              course.CourseDate,
		StudentFirstName:        course.StudentFirstName,
		StudentLastName:         course.StudentLastName,
		StudentEmail:            course.StudentEmail,
		StudentPhone:            course.StudentPhone,
		InstructorID:            course.InstructorID,
		InstructorName:          name,
		TrainingLocationAddress: course.TrainingLocationAddress,
		CourseType:              string(course.CourseType),
		Description:             course.Description,
		CreatedAt:               course.CreatedAt,
	}
}
