package jobposts

import (
	"context"
	"errors"
	"mime/multipart"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/shared"
)

type memRepo struct {
	jobs    map[uuid.UUID]JobPost
	tick    time.Time
	failing bool
}

func newMemRepo() *memRepo {
	return &memRepo{jobs: map[uuid.UUID]JobPost{}, tick: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memRepo) Create(_ context.Context, j JobPost) (JobPost, error) {
	if m.failing {
		return JobPost{}, errors.New("db down")
	}
	m.tick = m.tick.Add(time.Minute)
	j.ID = uuid.New()
	j.CreatedAt, j.UpdatedAt = m.tick, m.tick
	m.jobs[j.ID] = j
	return j, nil
}

func (m *memRepo) Get(_ context.Context, id uuid.UUID) (JobPost, error) {
	j, ok := m.jobs[id]
	if !ok {
		return JobPost{}, shared.ErrContentNotFound
	}
	return j, nil
}

func (m *memRepo) Update(_ context.Context, j JobPost) error {
	if m.failing {
		return errors.New("db down")
	}
	if _, ok := m.jobs[j.ID]; !ok {
		return shared.ErrContentNotFound
	}
	m.jobs[j.ID] = j
	return nil
}

func (m *memRepo) List(_ context.Context, f ListFilter, page shared.PageRequest) ([]JobPost, int, error) {
	var all []JobPost
	for _, j := range m.jobs {
		if !f.OpenAt.IsZero() && !j.LastDate.After(f.OpenAt) {
			continue
		}
		all = append(all, j)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].CreatedAt.After(all[b].CreatedAt) })
	total := len(all)
	start := min(page.Offset(), total)
	end := min(start+page.Limit, total)
	return all[start:end], total, nil
}

func (m *memRepo) Statistics(_ context.Context, now time.Time) (Statistics, error) {
	var s Statistics
	for _, j := range m.jobs {
		s.Total++
		if j.LastDate.After(now) {
			s.Active++
		} else {
			s.Inactive++
		}
	}
	return s, nil
}

type fileShelf struct {
	saved   []string
	removed []string
}

func (f *fileShelf) Save(subdir string, header *multipart.FileHeader, _ []string, _ int64) (string, error) {
	name := subdir + "/" + header.Filename
	f.saved = append(f.saved, name)
	return name, nil
}

func (f *fileShelf) Remove(name string) error {
	f.removed = append(f.removed, name)
	return nil
}

func (f *fileShelf) URL(name string) string {
	return "http://cdn.test/uploads/" + name
}
