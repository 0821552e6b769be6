// Package memory provides an in-memory Repository implementation with the
// same contract as the postgres package. It backs unit tests and local
// development without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
)

type store struct {
	mu sync.RWMutex

	texts         map[uint]*models.Text
	questions     map[uint]*models.Question
	answers       map[uint]*models.Answer
	hotsQuestions map[uint]*models.HOTSQuestion
	hotsAnswers   map[uint]*models.HOTSAnswer
	progress      map[uint]*models.Progress
	users         map[string]*models.User

	nextID uint
}

type repository struct {
	s *store
}

func NewRepository() repositories.Repository {
	return &repository{s: &store{
		texts:         make(map[uint]*models.Text),
		questions:     make(map[uint]*models.Question),
		answers:       make(map[uint]*models.Answer),
		hotsQuestions: make(map[uint]*models.HOTSQuestion),
		hotsAnswers:   make(map[uint]*models.HOTSAnswer),
		progress:      make(map[uint]*models.Progress),
		users:         make(map[string]*models.User),
	}}
}

func (r *repository) Text() repositories.TextRepository                 { return &textRepo{r.s} }
func (r *repository) Question() repositories.QuestionRepository         { return &questionRepo{r.s} }
func (r *repository) Answer() repositories.AnswerRepository             { return &answerRepo{r.s} }
func (r *repository) HOTSQuestion() repositories.HOTSQuestionRepository { return &hotsQuestionRepo{r.s} }
func (r *repository) HOTSAnswer() repositories.HOTSAnswerRepository    { return &hotsAnswerRepo{r.s} }
func (r *repository) Progress() repositories.ProgressRepository        { return &progressRepo{r.s} }
func (r *repository) User() repositories.UserRepository                { return &userRepo{r.s} }

// WithTransaction runs fn against the same store. The in-memory store is
// not transactional; tests relying on rollback should use postgres.
func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *repository) Ping(ctx context.Context) error { return nil }
func (r *repository) Close() error                   { return nil }

func (s *store) allocID() uint {
	s.nextID++
	return s.nextID
}

// ===== TEXTS =====

type textRepo struct{ s *store }

func (t *textRepo) Create(ctx context.Context, text *models.Text) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if text.ID == 0 {
		text.ID = t.s.allocID()
	}
	now := time.Now()
	text.CreatedAt = now
	text.UpdatedAt = now
	cp := *text
	t.s.texts[text.ID] = &cp
	return nil
}

func (t *textRepo) GetByID(ctx context.Context, id uint) (*models.Text, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	text, ok := t.s.texts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *text
	return &cp, nil
}

func (t *textRepo) Update(ctx context.Context, text *models.Text) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.texts[text.ID]; !ok {
		return repositories.ErrNotFound
	}
	text.UpdatedAt = time.Now()
	cp := *text
	t.s.texts[text.ID] = &cp
	return nil
}

func (t *textRepo) List(ctx context.Context, filters repositories.TextFilters) ([]*models.Text, int64, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	var texts []*models.Text
	for _, text := range t.s.texts {
		if !filters.IncludeArchived && text.IsArchived {
			continue
		}
		if filters.Genre != nil && text.Genre != *filters.Genre {
			continue
		}
		if filters.CreatedBy != nil && text.CreatedBy != *filters.CreatedBy {
			continue
		}
		cp := *text
		texts = append(texts, &cp)
	}
	total := int64(len(texts))

	asc := filters.SortOrder == "asc"
	sort.Slice(texts, func(i, j int) bool {
		var less bool
		switch filters.SortBy {
		case "title":
			less = strings.ToLower(texts[i].Title) < strings.ToLower(texts[j].Title)
		case "genre":
			less = texts[i].Genre < texts[j].Genre
		default:
			less = texts[i].CreatedAt.Before(texts[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})

	texts = paginate(texts, filters.Limit, filters.Offset)
	return texts, total, nil
}

func (t *textRepo) ListAvailable(ctx context.Context) ([]*models.Text, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	var texts []*models.Text
	for _, text := range t.s.texts {
		if text.IsArchived {
			continue
		}
		cp := *text
		texts = append(texts, &cp)
	}
	sort.Slice(texts, func(i, j int) bool { return texts[i].ID < texts[j].ID })
	return texts, nil
}

func (t *textRepo) SetArchived(ctx context.Context, id uint, archived bool) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	text, ok := t.s.texts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	text.IsArchived = archived
	text.UpdatedAt = time.Now()
	return nil
}

func (t *textRepo) ExistsByID(ctx context.Context, id uint) (bool, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	_, ok := t.s.texts[id]
	return ok, nil
}

func (t *textRepo) CountAvailable(ctx context.Context) (int64, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	var count int64
	for _, text := range t.s.texts {
		if !text.IsArchived {
			count++
		}
	}
	return count, nil
}

// ===== QUESTIONS =====

type questionRepo struct{ s *store }

func (q *questionRepo) Create(ctx context.Context, question *models.Question) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if question.ID == 0 {
		question.ID = q.s.allocID()
	}
	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now
	cp := *question
	q.s.questions[question.ID] = &cp
	return nil
}

func (q *questionRepo) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	question, ok := q.s.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *question
	return &cp, nil
}

func (q *questionRepo) GetByText(ctx context.Context, textID uint) ([]*models.Question, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	var questions []*models.Question
	for _, question := range q.s.questions {
		if question.TextID == textID {
			cp := *question
			questions = append(questions, &cp)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}

func (q *questionRepo) Update(ctx context.Context, question *models.Question) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if _, ok := q.s.questions[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	question.UpdatedAt = time.Now()
	cp := *question
	q.s.questions[question.ID] = &cp
	return nil
}

func (q *questionRepo) Delete(ctx context.Context, id uint) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if _, ok := q.s.questions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(q.s.questions, id)
	return nil
}

func (q *questionRepo) CountAll(ctx context.Context) (int64, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	return int64(len(q.s.questions)), nil
}

// ===== HOTS QUESTIONS =====

type hotsQuestionRepo struct{ s *store }

func (q *hotsQuestionRepo) Create(ctx context.Context, question *models.HOTSQuestion) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if question.ID == 0 {
		question.ID = q.s.allocID()
	}
	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now
	cp := *question
	q.s.hotsQuestions[question.ID] = &cp
	return nil
}

func (q *hotsQuestionRepo) GetByID(ctx context.Context, id uint) (*models.HOTSQuestion, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	question, ok := q.s.hotsQuestions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *question
	return &cp, nil
}

func (q *hotsQuestionRepo) GetByText(ctx context.Context, textID uint) ([]*models.HOTSQuestion, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	var questions []*models.HOTSQuestion
	for _, question := range q.s.hotsQuestions {
		if question.TextID == textID {
			cp := *question
			questions = append(questions, &cp)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}

func (q *hotsQuestionRepo) ListAll(ctx context.Context) ([]*models.HOTSQuestion, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	var questions []*models.HOTSQuestion
	for _, question := range q.s.hotsQuestions {
		cp := *question
		questions = append(questions, &cp)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}

func (q *hotsQuestionRepo) Update(ctx context.Context, question *models.HOTSQuestion) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if _, ok := q.s.hotsQuestions[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	question.UpdatedAt = time.Now()
	cp := *question
	q.s.hotsQuestions[question.ID] = &cp
	return nil
}

func (q *hotsQuestionRepo) Delete(ctx context.Context, id uint) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if _, ok := q.s.hotsQuestions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(q.s.hotsQuestions, id)
	return nil
}

func (q *hotsQuestionRepo) CountAll(ctx context.Context) (int64, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	return int64(len(q.s.hotsQuestions)), nil
}

// ===== ANSWERS =====

type answerRepo struct{ s *store }

func (a *answerRepo) Upsert(ctx context.Context, answer *models.Answer) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, existing := range a.s.answers {
		if existing.UserID == answer.UserID && existing.QuestionID == answer.QuestionID {
			answer.ID = existing.ID
			cp := *answer
			a.s.answers[existing.ID] = &cp
			return nil
		}
	}
	if answer.ID == 0 {
		answer.ID = a.s.allocID()
	}
	cp := *answer
	a.s.answers[answer.ID] = &cp
	return nil
}

func (a *answerRepo) GetByUserAndQuestion(ctx context.Context, userID string, questionID uint) (*models.Answer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	for _, answer := range a.s.answers {
		if answer.UserID == userID && answer.QuestionID == questionID {
			cp := *answer
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (a *answerRepo) GetByUser(ctx context.Context, userID string, filters repositories.AnswerFilters) ([]*models.Answer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var answers []*models.Answer
	for _, answer := range a.s.answers {
		if answer.UserID != userID {
			continue
		}
		if !matchAnswerFilters(answer, filters) {
			continue
		}
		cp := *answer
		answers = append(answers, &cp)
	}
	sortAnswersNewestFirst(answers)
	return paginate(answers, filters.Limit, filters.Offset), nil
}

func (a *answerRepo) GetByUserAndQuestions(ctx context.Context, userID string, questionIDs []uint) ([]*models.Answer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	wanted := make(map[uint]bool, len(questionIDs))
	for _, id := range questionIDs {
		wanted[id] = true
	}
	var answers []*models.Answer
	for _, answer := range a.s.answers {
		if answer.UserID == userID && wanted[answer.QuestionID] {
			cp := *answer
			answers = append(answers, &cp)
		}
	}
	return answers, nil
}

func (a *answerRepo) ListAll(ctx context.Context, filters repositories.AnswerFilters) ([]*models.Answer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var answers []*models.Answer
	for _, answer := range a.s.answers {
		if !matchAnswerFilters(answer, filters) {
			continue
		}
		cp := *answer
		answers = append(answers, &cp)
	}
	sortAnswersNewestFirst(answers)
	return paginate(answers, filters.Limit, filters.Offset), nil
}

func (a *answerRepo) CountDistinctUsers(ctx context.Context) (int64, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	seen := make(map[string]bool)
	for _, answer := range a.s.answers {
		seen[answer.UserID] = true
	}
	return int64(len(seen)), nil
}

func matchAnswerFilters(answer *models.Answer, filters repositories.AnswerFilters) bool {
	if len(filters.QuestionIDs) > 0 {
		found := false
		for _, id := range filters.QuestionIDs {
			if answer.QuestionID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filters.SubmittedAfter != nil && answer.SubmittedAt.Before(*filters.SubmittedAfter) {
		return false
	}
	return true
}

func sortAnswersNewestFirst(answers []*models.Answer) {
	sort.Slice(answers, func(i, j int) bool {
		return answers[i].SubmittedAt.After(answers[j].SubmittedAt)
	})
}

// ===== HOTS ANSWERS =====

type hotsAnswerRepo struct{ s *store }

func (a *hotsAnswerRepo) Upsert(ctx context.Context, answer *models.HOTSAnswer) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, existing := range a.s.hotsAnswers {
		if existing.UserID == answer.UserID && existing.HOTSQuestionID == answer.HOTSQuestionID {
			answer.ID = existing.ID
			cp := *answer
			a.s.hotsAnswers[existing.ID] = &cp
			return nil
		}
	}
	if answer.ID == 0 {
		answer.ID = a.s.allocID()
	}
	cp := *answer
	a.s.hotsAnswers[answer.ID] = &cp
	return nil
}

func (a *hotsAnswerRepo) GetByID(ctx context.Context, id uint) (*models.HOTSAnswer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	answer, ok := a.s.hotsAnswers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *answer
	return &cp, nil
}

func (a *hotsAnswerRepo) GetByUserAndQuestion(ctx context.Context, userID string, questionID uint) (*models.HOTSAnswer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	for _, answer := range a.s.hotsAnswers {
		if answer.UserID == userID && answer.HOTSQuestionID == questionID {
			cp := *answer
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (a *hotsAnswerRepo) GetByUser(ctx context.Context, userID string, filters repositories.HOTSAnswerFilters) ([]*models.HOTSAnswer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var answers []*models.HOTSAnswer
	for _, answer := range a.s.hotsAnswers {
		if answer.UserID != userID {
			continue
		}
		if !matchHOTSAnswerFilters(answer, filters) {
			continue
		}
		cp := *answer
		answers = append(answers, &cp)
	}
	sortHOTSAnswersNewestFirst(answers)
	return paginate(answers, filters.Limit, filters.Offset), nil
}

func (a *hotsAnswerRepo) GetByUserAndQuestions(ctx context.Context, userID string, questionIDs []uint) ([]*models.HOTSAnswer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	wanted := make(map[uint]bool, len(questionIDs))
	for _, id := range questionIDs {
		wanted[id] = true
	}
	var answers []*models.HOTSAnswer
	for _, answer := range a.s.hotsAnswers {
		if answer.UserID == userID && wanted[answer.HOTSQuestionID] {
			cp := *answer
			answers = append(answers, &cp)
		}
	}
	return answers, nil
}

func (a *hotsAnswerRepo) GetByQuestion(ctx context.Context, questionID uint, filters repositories.HOTSAnswerFilters) ([]*models.HOTSAnswer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var answers []*models.HOTSAnswer
	for _, answer := range a.s.hotsAnswers {
		if answer.HOTSQuestionID != questionID {
			continue
		}
		if !matchHOTSAnswerFilters(answer, filters) {
			continue
		}
		cp := *answer
		answers = append(answers, &cp)
	}
	sortHOTSAnswersNewestFirst(answers)
	return paginate(answers, filters.Limit, filters.Offset), nil
}

func (a *hotsAnswerRepo) UpdateGrade(ctx context.Context, id uint, grade repositories.AnswerGrade) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	answer, ok := a.s.hotsAnswers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	answer.Score = grade.Score
	answer.Feedback = grade.Feedback
	graderID := grade.GraderID
	answer.GradedBy = &graderID
	gradedAt := grade.GradedAt
	answer.GradedAt = &gradedAt
	return nil
}

func matchHOTSAnswerFilters(answer *models.HOTSAnswer, filters repositories.HOTSAnswerFilters) bool {
	if filters.Graded != nil && answer.IsGraded() != *filters.Graded {
		return false
	}
	if len(filters.QuestionIDs) > 0 {
		found := false
		for _, id := range filters.QuestionIDs {
			if answer.HOTSQuestionID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filters.SubmittedAfter != nil && answer.SubmittedAt.Before(*filters.SubmittedAfter) {
		return false
	}
	return true
}

func sortHOTSAnswersNewestFirst(answers []*models.HOTSAnswer) {
	sort.Slice(answers, func(i, j int) bool {
		return answers[i].SubmittedAt.After(answers[j].SubmittedAt)
	})
}

// ===== PROGRESS =====

type progressRepo struct{ s *store }

func (p *progressRepo) GetByUserAndText(ctx context.Context, userID string, textID uint) (*models.Progress, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	for _, row := range p.s.progress {
		if row.UserID == userID && row.TextID == textID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (p *progressRepo) GetByUser(ctx context.Context, userID string) ([]*models.Progress, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	var rows []*models.Progress
	for _, row := range p.s.progress {
		if row.UserID == userID {
			cp := *row
			rows = append(rows, &cp)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].LastAccessed.After(rows[j].LastAccessed) })
	return rows, nil
}

func (p *progressRepo) ListAll(ctx context.Context) ([]*models.Progress, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	var rows []*models.Progress
	for _, row := range p.s.progress {
		cp := *row
		rows = append(rows, &cp)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (p *progressRepo) Merge(ctx context.Context, userID string, textID uint, patch repositories.ProgressPatch, accessedAt time.Time) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	var row *models.Progress
	for _, existing := range p.s.progress {
		if existing.UserID == userID && existing.TextID == textID {
			row = existing
			break
		}
	}
	if row == nil {
		row = &models.Progress{
			ID:         p.s.allocID(),
			UserID:     userID,
			TextID:     textID,
			QuizStatus: models.StatusNotStarted,
			HOTSStatus: models.StatusNotStarted,
		}
		p.s.progress[row.ID] = row
	}

	if patch.ReadStatus != nil {
		row.ReadStatus = *patch.ReadStatus
	}
	if patch.QuizStatus != nil {
		row.QuizStatus = *patch.QuizStatus
	}
	if patch.ReadingScore != nil {
		row.ReadingScore = *patch.ReadingScore
	}
	if patch.HOTSStatus != nil {
		row.HOTSStatus = *patch.HOTSStatus
	}
	if patch.HOTSScore != nil {
		row.HOTSScore = *patch.HOTSScore
	}
	row.LastAccessed = accessedAt
	return nil
}

// ===== USERS =====

type userRepo struct{ s *store }

func (u *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (u *userRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	var users []*models.User
	for _, id := range ids {
		if user, ok := u.s.users[id]; ok {
			cp := *user
			users = append(users, &cp)
		}
	}
	return users, nil
}

func (u *userRepo) GetByRole(ctx context.Context, role models.UserRole, limit, offset int) ([]*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	var users []*models.User
	for _, user := range u.s.users {
		if user.Role == role && user.IsActive {
			cp := *user
			users = append(users, &cp)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName < users[j].FullName })
	return paginate(users, limit, offset), nil
}

func (u *userRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	_, ok := u.s.users[id]
	return ok, nil
}

func (u *userRepo) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	var count int64
	for _, user := range u.s.users {
		if user.Role == role && user.IsActive {
			count++
		}
	}
	return count, nil
}

func (u *userRepo) Upsert(ctx context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	cp := *user
	u.s.users[user.ID] = &cp
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
