package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/models"
	"github.com/TinArambasic/ScholarSync/internal/repository"
)

// memStore is an in-memory stand-in for the four forum tables. Each
// repository view below locks the store for the whole operation, the way a
// single statement or transaction would.
type memStore struct {
	mu        sync.Mutex
	seq       int
	clock     time.Time
	users     map[string]*models.User
	courses   map[string]*models.Course
	questions map[string]*models.Question
	answers   map[string]*models.Answer
}

func newMemStore() *memStore {
	return &memStore{
		clock:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		users:     map[string]*models.User{},
		courses:   map[string]*models.Course{},
		questions: map[string]*models.Question{},
		answers:   map[string]*models.Answer{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) addCourse(c models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = &c
}

func (s *memStore) addUser(u models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = s.nextID("u")
	}
	if u.JoinedCourses == nil {
		u.JoinedCourses = models.IDSet{}
	}
	s.users[u.ID] = &u
	return cloneUser(&u)
}

func (s *memStore) answerCount(questionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			n++
		}
	}
	return n
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.JoinedCourses = slices.Clone(u.JoinedCourses)
	return &c
}

func cloneQuestion(q *models.Question) *models.Question {
	c := *q
	c.Likes = slices.Clone(q.Likes)
	if q.Attachment != nil {
		att := *q.Attachment
		c.Attachment = &att
	}
	return &c
}

func cloneAnswer(a *models.Answer) *models.Answer {
	c := *a
	c.Likes = slices.Clone(a.Likes)
	return &c
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type memUsers struct{ *memStore }

func (r memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, sql.ErrNoRows
}

func (r memUsers) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r memUsers) List(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r memUsers) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.nextID("u")
	user.CreatedAt = r.tick()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r memUsers) Update(_ context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.ProfilePicture != nil {
		u.ProfilePicture = *upd.ProfilePicture
	}
	u.UpdatedAt = r.tick()
	return cloneUser(u), nil
}

func (r memUsers) JoinCourse(_ context.Context, userID, courseID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.JoinedCourses.Contains(courseID) {
		return nil, sql.ErrNoRows
	}
	u.JoinedCourses = slices.Clone(u.JoinedCourses).Add(courseID)
	return cloneUser(u), nil
}

func (r memUsers) UnjoinCourse(_ context.Context, userID, courseID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u.JoinedCourses = u.JoinedCourses.Remove(courseID)
	return cloneUser(u), nil
}

func (r memUsers) Search(_ context.Context, q string, limit int) ([]models.UserSummary, error) {
	users, _ := r.List(context.Background())
	var out []models.UserSummary
	for _, u := range users {
		if containsFold(u.Username, q) && len(out) < limit {
			out = append(out, models.UserSummary{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture})
		}
	}
	return out, nil
}

func (r memUsers) DeleteCascade(_ context.Context, id string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return nil, sql.ErrNoRows
	}
	var files []string
	for qid, q := range r.questions {
		if q.UserID != id {
			continue
		}
		if q.Attachment != nil {
			files = append(files, q.Attachment.Path)
		}
		for aid, a := range r.answers {
			if a.QuestionID == qid {
				if a.Attachment != "" {
					files = append(files, a.Attachment)
				}
				delete(r.answers, aid)
			}
		}
		delete(r.questions, qid)
	}
	for aid, a := range r.answers {
		if a.UserID != id {
			continue
		}
		if q, ok := r.questions[a.QuestionID]; ok && q.AnswersCount > 0 {
			q.AnswersCount--
		}
		if a.Attachment != "" {
			files = append(files, a.Attachment)
		}
		delete(r.answers, aid)
	}
	delete(r.users, id)
	return files, nil
}

type memCourses struct{ *memStore }

func (r memCourses) List(_ context.Context, filter models.CourseFilter) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	courses := []models.Course{}
	for _, c := range r.courses {
		switch {
		case filter.Program != "" && !c.OfferedIn(filter.Program):
			continue
		case filter.Program != "" && filter.Year != 0 && c.EffectiveYear(filter.Program) != filter.Year:
			continue
		case filter.Program == "" && filter.Year != 0 && c.Year != filter.Year:
			continue
		case filter.Type != "" && c.Type != filter.Type:
			continue
		}
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r memCourses) FindByID(_ context.Context, id string) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.courses[id]; ok {
		course := *c
		return &course, nil
	}
	return nil, sql.ErrNoRows
}

func (r memCourses) Search(ctx context.Context, q string, limit int) ([]models.Course, error) {
	all, _ := r.List(ctx, models.CourseFilter{})
	var out []models.Course
	for _, c := range all {
		if (containsFold(c.Title, q) || containsFold(c.Description, q)) && len(out) < limit {
			out = append(out, c)
		}
	}
	return out, nil
}

type memQuestions struct {
	*memStore
	createErr error
}

func (r memQuestions) Create(_ context.Context, q *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	q.ID = r.nextID("q")
	q.CreatedAt = r.tick()
	r.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (r memQuestions) FindByID(_ context.Context, id string) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.questions[id]; ok {
		return cloneQuestion(q), nil
	}
	return nil, sql.ErrNoRows
}

func (r memQuestions) List(_ context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Question{}
	for _, q := range r.questions {
		switch {
		case filter.CourseIDs != nil && !slices.Contains(filter.CourseIDs, q.CourseID):
			continue
		case filter.CourseID != "" && q.CourseID != filter.CourseID:
			continue
		case filter.UserID != "" && q.UserID != filter.UserID:
			continue
		}
		out = append(out, *cloneQuestion(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memQuestions) SetCompleted(_ context.Context, id string, completed bool) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	q.IsCompleted = completed
	return cloneQuestion(q), nil
}

func (r memQuestions) ToggleLike(_ context.Context, id, userID string) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	q.Likes = slices.Clone(q.Likes).Toggle(userID)
	return cloneQuestion(q), nil
}

func (r memQuestions) DeleteCascade(_ context.Context, id string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return nil, sql.ErrNoRows
	}
	var files []string
	for aid, a := range r.answers {
		if a.QuestionID == id {
			if a.Attachment != "" {
				files = append(files, a.Attachment)
			}
			delete(r.answers, aid)
		}
	}
	delete(r.questions, id)
	return files, nil
}

func (r memQuestions) ReconcileAnswerCounts(_ context.Context) ([]models.AnswerCountCorrection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	actual := map[string]int{}
	for _, a := range r.answers {
		actual[a.QuestionID]++
	}
	var out []models.AnswerCountCorrection
	for id, q := range r.questions {
		if q.AnswersCount != actual[id] {
			out = append(out, models.AnswerCountCorrection{QuestionID: id, Stored: q.AnswersCount, Actual: actual[id]})
			q.AnswersCount = actual[id]
		}
	}
	return out, nil
}

func (r memQuestions) Search(ctx context.Context, q string, limit int) ([]models.Question, error) {
	all, _ := r.List(ctx, models.QuestionFilter{})
	var out []models.Question
	for _, question := range all {
		if (containsFold(question.Title, q) || containsFold(question.Content, q)) && len(out) < limit {
			out = append(out, question)
		}
	}
	return out, nil
}

func (r memQuestions) setAnswersCount(id string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[id].AnswersCount = n
}

type memAnswers struct{ *memStore }

func (r memAnswers) CreateWithCount(_ context.Context, a *models.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[a.QuestionID]
	if !ok {
		return sql.ErrNoRows
	}
	q.AnswersCount++
	a.ID = r.nextID("a")
	a.CreatedAt = r.tick()
	a.UpdatedAt = a.CreatedAt
	r.answers[a.ID] = cloneAnswer(a)
	return nil
}

func (r memAnswers) FindByID(_ context.Context, id string) (*models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.answers[id]; ok {
		return cloneAnswer(a), nil
	}
	return nil, sql.ErrNoRows
}

func (r memAnswers) List(_ context.Context, questionID string) ([]models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Answer{}
	for _, a := range r.answers {
		if questionID == "" || a.QuestionID == questionID {
			out = append(out, *cloneAnswer(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memAnswers) UpdateContent(_ context.Context, id, content string) (*models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	a.Content = content
	a.UpdatedAt = r.tick()
	return cloneAnswer(a), nil
}

func (r memAnswers) DeleteWithCount(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[id]
	if !ok {
		return sql.ErrNoRows
	}
	delete(r.answers, id)
	if q, ok := r.questions[a.QuestionID]; ok && q.AnswersCount > 0 {
		q.AnswersCount--
	}
	return nil
}

func (r memAnswers) ToggleLike(_ context.Context, id, userID string) (*models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	a.Likes = slices.Clone(a.Likes).Toggle(userID)
	return cloneAnswer(a), nil
}

// fakeAttachments records stored and removed files without touching disk.
type fakeAttachments struct {
	mu      sync.Mutex
	stored  []string
	removed []string
	err     error
}

func (f *fakeAttachments) StoreAttachment(_ context.Context, upload *dto.Upload) (*models.Attachment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path := "/uploads/" + upload.Filename
	f.stored = append(f.stored, path)
	return &models.Attachment{Filename: upload.Filename, OriginalName: upload.Filename, Path: path, Size: upload.Size, Mimetype: upload.ContentType}, nil
}

func (f *fakeAttachments) StoreAvatar(ctx context.Context, upload *dto.Upload) (string, error) {
	att, err := f.StoreAttachment(ctx, upload)
	if err != nil {
		return "", err
	}
	return att.Path, nil
}

func (f *fakeAttachments) Owns(ref string) bool {
	return strings.HasPrefix(ref, "/uploads/")
}

func (f *fakeAttachments) Remove(_ context.Context, refs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ref := range refs {
		if ref != "" {
			f.removed = append(f.removed, ref)
		}
	}
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) RecordEvent(event string, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[event] += delta
}

func (r *countingRecorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[event]
}

func textUpload(name, body string) *dto.Upload {
	return &dto.Upload{Filename: name, ContentType: "text/plain", Size: int64(len(body)), Content: io.ReadSeeker(bytes.NewReader([]byte(body)))}
}

func identityOf(u *models.User) *models.Identity {
	id := u.Identity()
	return &id
}
