package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/literasia/reading-service/internal/repositories"
)

// repository is the GORM-backed aggregate fact store.
type repository struct {
	db *gorm.DB

	text         *TextPostgreSQL
	question     *QuestionPostgreSQL
	answer       *AnswerPostgreSQL
	hotsQuestion *HOTSQuestionPostgreSQL
	hotsAnswer   *HOTSAnswerPostgreSQL
	progress     *ProgressPostgreSQL
	user         *UserPostgreSQL
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:           db,
		text:         &TextPostgreSQL{db: db},
		question:     &QuestionPostgreSQL{db: db},
		answer:       &AnswerPostgreSQL{db: db},
		hotsQuestion: &HOTSQuestionPostgreSQL{db: db},
		hotsAnswer:   &HOTSAnswerPostgreSQL{db: db},
		progress:     &ProgressPostgreSQL{db: db},
		user:         &UserPostgreSQL{db: db},
	}
}

func (r *repository) Text() repositories.TextRepository                 { return r.text }
func (r *repository) Question() repositories.QuestionRepository         { return r.question }
func (r *repository) Answer() repositories.AnswerRepository             { return r.answer }
func (r *repository) HOTSQuestion() repositories.HOTSQuestionRepository { return r.hotsQuestion }
func (r *repository) HOTSAnswer() repositories.HOTSAnswerRepository     { return r.hotsAnswer }
func (r *repository) Progress() repositories.ProgressRepository         { return r.progress }
func (r *repository) User() repositories.UserRepository                 { return r.user }

func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
