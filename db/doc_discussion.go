package db

import (
	"context"
	"slices"
	"strings"

	"coursehub-server-go/models"
)

func (s *DocStore) ListTopics(ctx context.Context, q models.ListQuery) ([]models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := loadList[models.Topic](ctx, s.backend, topicsDoc)
	if err != nil {
		return nil, err
	}
	out := []models.Topic{}
	for _, t := range all {
		if matches(q.Search, t.Subject, t.Message, t.Author) {
			out = append(out, t)
		}
	}

	column, desc := topicSort.resolve(q)
	orderBy(out, desc, func(a, b models.Topic) int {
		switch column {
		case "subject":
			return strings.Compare(a.Subject, b.Subject)
		case "author":
			return strings.Compare(a.Author, b.Author)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}, func(a, b models.Topic) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *DocStore) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := loadList[models.Topic](ctx, s.backend, topicsDoc)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(t models.Topic) bool { return t.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	return &all[i], nil
}

func (s *DocStore) CreateTopic(ctx context.Context, t *models.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Topic](ctx, s.backend, topicsDoc)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(all, func(existing models.Topic) bool { return existing.ID == t.ID }) {
		return ErrDuplicate
	}
	created := *t
	created.CreatedAt = models.Now()

	doc, err := encodeDoc(topicsDoc, append(all, created))
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return err
	}
	*t = created
	return nil
}

func (s *DocStore) UpdateTopic(ctx context.Context, id string, p models.TopicPatch) (*models.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Topic](ctx, s.backend, topicsDoc)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(t models.Topic) bool { return t.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	p.Apply(&all[i])

	doc, err := encodeDoc(topicsDoc, all)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return nil, err
	}
	updated := all[i]
	return &updated, nil
}

func (s *DocStore) DeleteTopic(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Topic](ctx, s.backend, topicsDoc)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(t models.Topic) bool { return t.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	replies, err := loadList[models.Reply](ctx, s.backend, repliesDoc)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(replies, func(r models.Reply) bool { return r.TopicID == id })

	children, err := encodeDoc(repliesDoc, kept)
	if err != nil {
		return err
	}
	parent, err := encodeDoc(topicsDoc, slices.Delete(all, i, i+1))
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, children, parent)
}

func (s *DocStore) ListReplies(ctx context.Context, topicID string) ([]models.Reply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := loadList[models.Reply](ctx, s.backend, repliesDoc)
	if err != nil {
		return nil, err
	}
	out := []models.Reply{}
	for _, r := range all {
		if r.TopicID == topicID {
			out = append(out, r)
		}
	}
	orderBy(out, false, func(a, b models.Reply) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	}, func(a, b models.Reply) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *DocStore) GetReply(ctx context.Context, id string) (*models.Reply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := loadList[models.Reply](ctx, s.backend, repliesDoc)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(r models.Reply) bool { return r.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	return &all[i], nil
}

func (s *DocStore) CreateReply(ctx context.Context, r *models.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics, err := loadList[models.Topic](ctx, s.backend, topicsDoc)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(topics, func(t models.Topic) bool { return t.ID == r.TopicID }) {
		return ErrParentNotFound
	}
	all, err := loadList[models.Reply](ctx, s.backend, repliesDoc)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(all, func(existing models.Reply) bool { return existing.ID == r.ID }) {
		return ErrDuplicate
	}
	created := *r
	created.CreatedAt = models.Now()

	doc, err := encodeDoc(repliesDoc, append(all, created))
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return err
	}
	*r = created
	return nil
}

func (s *DocStore) UpdateReply(ctx context.Context, id string, p models.TextPatch) (*models.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Reply](ctx, s.backend, repliesDoc)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(r models.Reply) bool { return r.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	if p.Author != nil {
		all[i].Author = *p.Author
	}
	if p.Text != nil {
		all[i].Text = *p.Text
	}

	doc, err := encodeDoc(repliesDoc, all)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Write(ctx, doc); err != nil {
		return nil, err
	}
	updated := all[i]
	return &updated, nil
}

func (s *DocStore) DeleteReply(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Reply](ctx, s.backend, repliesDoc)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(r models.Reply) bool { return r.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	doc, err := encodeDoc(repliesDoc, slices.Delete(all, i, i+1))
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, doc)
}
