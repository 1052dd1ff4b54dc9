// Package services holds the business logic layer.
//
// Services defined in this package:
// - AuthService: authentication, registration and profile management
// - InstructorService: roster visibility, management and approval
// - CourseService: course records, bulk ingestion and statistics
// - CurriculumService: curriculum tree browsing and search
// - DocumentService: instructor personal document uploads
// - ChatService: the organization-wide chat room
package services

import "github.com/google/uuid"

func newID() string {
	return uuid.New().String()
}
