package db

import (
	"context"
	"slices"
	"strings"

	"coursehub-server-go/models"
)

func (s *DocStore) ListWeeks(ctx context.Context, q models.ListQuery) ([]models.Week, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := loadList[models.Week](ctx, s.backend, weeksDoc)
	if err != nil {
		return nil, err
	}
	out := []models.Week{}
	for _, w := range all {
		if matches(q.Search, w.Title, w.Description) {
			out = append(out, normalizeWeek(w))
		}
	}

	column, desc := weekSort.resolve(q)
	orderBy(out, desc, func(a, b models.Week) int {
		if column == "title" {
			return strings.Compare(a.Title, b.Title)
		}
		return strings.Compare(a.StartDate, b.StartDate)
	}, func(a, b models.Week) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *DocStore) GetWeek(ctx context.Context, id string) (*models.Week, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := loadList[models.Week](ctx, s.backend, weeksDoc)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(w models.Week) bool { return w.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	w := normalizeWeek(all[i])
	return &w, nil
}

func (s *DocStore) CreateWeek(ctx context.Context, w *models.Week) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Week](ctx, s.backend, weeksDoc)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(all, func(existing models.Week) bool { return existing.ID == w.ID }) {
		return ErrDuplicate
	}
	created := normalizeWeek(*w)

	doc, err := encodeDoc(weeksDoc, append(all, created))
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return err
	}
	*w = created
	return nil
}

func (s *DocStore) UpdateWeek(ctx context.Context, id string, p models.WeekPatch) (*models.Week, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Week](ctx, s.backend, weeksDoc)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(w models.Week) bool { return w.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	p.Apply(&all[i])
	all[i] = normalizeWeek(all[i])

	doc, err := encodeDoc(weeksDoc, all)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return nil, err
	}
	updated := all[i]
	return &updated, nil
}

func (s *DocStore) DeleteWeek(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Week](ctx, s.backend, weeksDoc)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(w models.Week) bool { return w.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	comments, err := loadComments(ctx, s.backend, weekCommentsDoc)
	if err != nil {
		return err
	}

	children, err := encodeComments(weekCommentsDoc, withoutParent(comments, id))
	if err != nil {
		return err
	}
	parent, err := encodeDoc(weeksDoc, slices.Delete(all, i, i+1))
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, children, parent)
}

func (s *DocStore) ListWeekComments(ctx context.Context, weekID string) ([]models.WeekComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments, err := loadComments(ctx, s.backend, weekCommentsDoc)
	if err != nil {
		return nil, err
	}
	out := []models.WeekComment{}
	for _, c := range childrenOf(comments, weekID) {
		out = append(out, toWeekComment(c))
	}
	return out, nil
}

func (s *DocStore) GetWeekComment(ctx context.Context, id int64) (*models.WeekComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments, err := loadComments(ctx, s.backend, weekCommentsDoc)
	if err != nil {
		return nil, err
	}
	i := commentIndex(comments, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	c := toWeekComment(comments[i])
	return &c, nil
}

func (s *DocStore) CreateWeekComment(ctx context.Context, c *models.WeekComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	weeks, err := loadList[models.Week](ctx, s.backend, weeksDoc)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(weeks, func(w models.Week) bool { return w.ID == c.WeekID }) {
		return ErrParentNotFound
	}
	comments, err := loadComments(ctx, s.backend, weekCommentsDoc)
	if err != nil {
		return err
	}

	created := flatComment{
		ID:        nextCommentID(comments),
		Parent:    c.WeekID,
		Author:    c.Author,
		Text:      c.Text,
		CreatedAt: models.Now(),
	}
	doc, err := encodeComments(weekCommentsDoc, append(comments, created))
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return err
	}
	*c = toWeekComment(created)
	return nil
}

func (s *DocStore) UpdateWeekComment(ctx context.Context, id int64, p models.TextPatch) (*models.WeekComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments, err := loadComments(ctx, s.backend, weekCommentsDoc)
	if err != nil {
		return nil, err
	}
	i := commentIndex(comments, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	applyTextPatch(&comments[i], p)
	doc, err := encodeComments(weekCommentsDoc, comments)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return nil, err
	}
	c := toWeekComment(comments[i])
	return &c, nil
}

func (s *DocStore) DeleteWeekComment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments, err := loadComments(ctx, s.backend, weekCommentsDoc)
	if err != nil {
		return err
	}
	i := commentIndex(comments, id)
	if i < 0 {
		return ErrNotFound
	}
	doc, err := encodeComments(weekCommentsDoc, slices.Delete(comments, i, i+1))
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, doc)
}

func toWeekComment(c flatComment) models.WeekComment {
	return models.WeekComment{
		ID:        c.ID,
		WeekID:    c.Parent,
		Author:    c.Author,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func normalizeWeek(w models.Week) models.Week {
	if w.Links == nil {
		w.Links = []string{}
	}
	return w
}
