package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	InstructorRepository *InstructorRepository
	CourseRepository     *CourseRepository
	CurriculumRepository *CurriculumRepository
	DocumentRepository   *DocumentRepository
	ChatRepository       *ChatRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		TokenRepository:      NewTokenRepository(db),
		InstructorRepository: NewInstructorRepository(db),
		CourseRepository:     NewCourseRepository(db),
		CurriculumRepository: NewCurriculumRepository(db),
		DocumentRepository:   NewDocumentRepository(db),
		ChatRepository:       NewChatRepository(db),
	}
}
