package db

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"coursehub-server-go/models"
)

func (s *DocStore) ListAssignments(ctx context.Context, q models.ListQuery) ([]models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := loadList[models.Assignment](ctx, s.backend, assignmentsDoc)
	if err != nil {
		return nil, err
	}
	out := []models.Assignment{}
	for _, a := range all {
		if matches(q.Search, a.Title, a.Description) {
			out = append(out, normalizeAssignment(a))
		}
	}

	column, desc := assignmentSort.resolve(q)
	orderBy(out, desc, func(a, b models.Assignment) int {
		switch column {
		case "title":
			return strings.Compare(a.Title, b.Title)
		case "due_date":
			return strings.Compare(a.DueDate, b.DueDate)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}, func(a, b models.Assignment) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *DocStore) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := loadList[models.Assignment](ctx, s.backend, assignmentsDoc)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(a models.Assignment) bool { return a.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	a := normalizeAssignment(all[i])
	return &a, nil
}

func (s *DocStore) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Assignment](ctx, s.backend, assignmentsDoc)
	if err != nil {
		return err
	}
	var maxID int64
	for _, existing := range all {
		maxID = max(maxID, existing.ID)
	}

	created := normalizeAssignment(*a)
	created.ID = maxID + 1
	created.CreatedAt = models.Now()
	created.UpdatedAt = created.CreatedAt

	doc, err := encodeDoc(assignmentsDoc, append(all, created))
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return err
	}
	*a = created
	return nil
}

func (s *DocStore) UpdateAssignment(ctx context.Context, id int64, p models.AssignmentPatch) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Assignment](ctx, s.backend, assignmentsDoc)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(a models.Assignment) bool { return a.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	updated := all[i]
	p.Apply(&updated)
	updated.UpdatedAt = models.Now()
	updated = normalizeAssignment(updated)
	all[i] = updated

	doc, err := encodeDoc(assignmentsDoc, all)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *DocStore) DeleteAssignment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Assignment](ctx, s.backend, assignmentsDoc)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(a models.Assignment) bool { return a.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	comments, err := loadComments(ctx, s.backend, assignmentCommentsDoc)
	if err != nil {
		return err
	}

	children, err := encodeComments(assignmentCommentsDoc, withoutParent(comments, assignmentKey(id)))
	if err != nil {
		return err
	}
	parent, err := encodeDoc(assignmentsDoc, slices.Delete(all, i, i+1))
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, children, parent)
}

func (s *DocStore) ListAssignmentComments(ctx context.Context, assignmentID int64) ([]models.AssignmentComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments, err := loadComments(ctx, s.backend, assignmentCommentsDoc)
	if err != nil {
		return nil, err
	}
	out := []models.AssignmentComment{}
	for _, c := range childrenOf(comments, assignmentKey(assignmentID)) {
		out = append(out, toAssignmentComment(c))
	}
	return out, nil
}

func (s *DocStore) GetAssignmentComment(ctx context.Context, id int64) (*models.AssignmentComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments, err := loadComments(ctx, s.backend, assignmentCommentsDoc)
	if err != nil {
		return nil, err
	}
	i := commentIndex(comments, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	c := toAssignmentComment(comments[i])
	return &c, nil
}

func (s *DocStore) CreateAssignmentComment(ctx context.Context, c *models.AssignmentComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignments, err := loadList[models.Assignment](ctx, s.backend, assignmentsDoc)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(assignments, func(a models.Assignment) bool { return a.ID == c.AssignmentID }) {
		return ErrParentNotFound
	}
	comments, err := loadComments(ctx, s.backend, assignmentCommentsDoc)
	if err != nil {
		return err
	}

	created := flatComment{
		ID:        nextCommentID(comments),
		Parent:    assignmentKey(c.AssignmentID),
		Author:    c.Author,
		Text:      c.Text,
		CreatedAt: models.Now(),
	}
	doc, err := encodeComments(assignmentCommentsDoc, append(comments, created))
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return err
	}
	*c = toAssignmentComment(created)
	return nil
}

func (s *DocStore) UpdateAssignmentComment(ctx context.Context, id int64, p models.TextPatch) (*models.AssignmentComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments, err := loadComments(ctx, s.backend, assignmentCommentsDoc)
	if err != nil {
		return nil, err
	}
	i := commentIndex(comments, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	applyTextPatch(&comments[i], p)
	doc, err := encodeComments(assignmentCommentsDoc, comments)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return nil, err
	}
	c := toAssignmentComment(comments[i])
	return &c, nil
}

func (s *DocStore) DeleteAssignmentComment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments, err := loadComments(ctx, s.backend, assignmentCommentsDoc)
	if err != nil {
		return err
	}
	i := commentIndex(comments, id)
	if i < 0 {
		return ErrNotFound
	}
	doc, err := encodeComments(assignmentCommentsDoc, slices.Delete(comments, i, i+1))
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, doc)
}

func assignmentKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func toAssignmentComment(c flatComment) models.AssignmentComment {
	// Non-numeric parent keys cannot come from this store; they decode as 0.
	parent, _ := strconv.ParseInt(c.Parent, 10, 64)
	return models.AssignmentComment{
		ID:           c.ID,
		AssignmentID: parent,
		Author:       c.Author,
		Text:         c.Text,
		CreatedAt:    c.CreatedAt,
	}
}

func applyTextPatch(c *flatComment, p models.TextPatch) {
	if p.Author != nil {
		c.Author = *p.Author
	}
	if p.Text != nil {
		c.Text = *p.Text
	}
}

func normalizeAssignment(a models.Assignment) models.Assignment {
	if a.Files == nil {
		a.Files = []string{}
	}
	return a
}
