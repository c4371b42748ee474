package teams

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesislab/siteadmin/internal/shared"
)

type memRepo struct {
	rows map[int64]Member
	next int64
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]Member{}}
}

func (m *memRepo) Create(_ context.Context, mem Member) (Member, error) {
	m.next++
	mem.ID = m.next
	m.rows[mem.ID] = mem
	return mem, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (Member, error) {
	mem, ok := m.rows[id]
	if !ok {
		return Member{}, ErrMemberNotFound
	}
	return mem, nil
}

func (m *memRepo) Update(_ context.Context, mem Member) error {
	if _, ok := m.rows[mem.ID]; !ok {
		return ErrMemberNotFound
	}
	m.rows[mem.ID] = mem
	return nil
}

func (m *memRepo) EmailTaken(_ context.Context, email string, exceptID int64) (bool, error) {
	for id, mem := range m.rows {
		if id != exceptID && strings.EqualFold(mem.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) List(_ context.Context, f ListFilter, page shared.PageRequest) ([]Member, int, error) {
	var out []Member
	for _, mem := range m.rows {
		if f.ActiveOnly && !mem.Active() {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(mem.Name+mem.Email+mem.Designation), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, mem)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := len(out)
	start := min(page.Offset(), total)
	return out[start:min(start+page.Limit, total)], total, nil
}

func (m *memRepo) Statistics(context.Context) (Statistics, error) {
	var s Statistics
	for _, mem := range m.rows {
		s.Total++
		if mem.Active() {
			s.Active++
		} else {
			s.Inactive++
		}
	}
	return s, nil
}

type fileShelf struct {
	removed []string
}

func (f *fileShelf) Save(subdir string, header *multipart.FileHeader, _ []string, _ int64) (string, error) {
	return subdir + "/" + header.Filename, nil
}

func (f *fileShelf) Remove(name string) error {
	f.removed = append(f.removed, name)
	return nil
}

func (f *fileShelf) URL(name string) string {
	return "http://cdn.test/uploads/" + name
}

var joined = time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)

func member(name, email string) Member {
	return Member{
		Name: name, Email: email, Designation: "Engineer", Address: "Street 1",
		Country: "Pakistan", PhoneNumber: "+923001234567", CNIC: "12345-1234567-1",
		Gender: "female", Religion: "None", JoiningDate: joined, LinkedIn: "https://linkedin.com/in/x",
	}
}

func TestAddRequiresImageAndUniqueEmail(t *testing.T) {
	repo, files := newMemRepo(), &fileShelf{}
	svc := NewService(repo, files, nil)
	ctx := context.Background()
	admin := uuid.New()

	_, err := svc.Add(ctx, admin, member("Jane Doe", "jane@example.com"), nil)
	assert.ErrorIs(t, err, ErrProfileImageRequired)

	m, err := svc.Add(ctx, admin, member("Jane Doe", " Jane@Example.com "), &multipart.FileHeader{Filename: "jane.png"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", m.Email)
	assert.Equal(t, "http://cdn.test/uploads/teams/jane.png", m.ProfileImage)
	assert.Equal(t, admin, repo.rows[m.ID].AdminID)

	_, err = svc.Add(ctx, admin, member("Jane Two", "JANE@example.com"), &multipart.FileHeader{Filename: "j2.png"})
	assert.ErrorIs(t, err, ErrMemberAlreadyExists)

	bad := member("Late Joiner", "late@example.com")
	exit := joined.Add(-time.Hour)
	bad.ExitDate = &exit
	_, err = svc.Add(ctx, admin, bad, &multipart.FileHeader{Filename: "l.png"})
	assert.ErrorIs(t, err, ErrInvalidExitDate)
}

func TestEditKeepsOrReplacesImage(t *testing.T) {
	repo, files := newMemRepo(), &fileShelf{}
	svc := NewService(repo, files, nil)
	ctx := context.Background()
	admin := uuid.New()

	jane, err := svc.Add(ctx, admin, member("Jane Doe", "jane@example.com"), &multipart.FileHeader{Filename: "jane.png"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, admin, member("John Roe", "john@example.com"), &multipart.FileHeader{Filename: "john.png"})
	require.NoError(t, err)
	id := "1"

	edited := member("Jane Smith", "jane@example.com")
	require.NoError(t, svc.Edit(ctx, admin, id, edited, nil))
	assert.Equal(t, "teams/jane.png", repo.rows[jane.ID].ProfileImage)
	assert.Equal(t, "Jane Smith", repo.rows[jane.ID].Name)

	require.NoError(t, svc.Edit(ctx, admin, id, edited, &multipart.FileHeader{Filename: "jane2.png"}))
	assert.Equal(t, "teams/jane2.png", repo.rows[jane.ID].ProfileImage)
	assert.Equal(t, []string{"teams/jane.png"}, files.removed)

	err = svc.Edit(ctx, admin, id, member("Jane Smith", "john@example.com"), nil)
	assert.ErrorIs(t, err, ErrMemberAlreadyExists)

	assert.ErrorIs(t, svc.Edit(ctx, admin, "0", edited, nil), ErrInvalidMemberID)
	assert.ErrorIs(t, svc.Edit(ctx, admin, "44", edited, nil), ErrMemberNotFound)
}

func TestListingsAndStatistics(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &fileShelf{}, nil)
	ctx := context.Background()
	page := shared.PageRequest{Page: 1, Limit: 10}

	_, err := svc.List(ctx, "", page)
	assert.ErrorIs(t, err, shared.ErrContentNotFound)

	left := member("Old Timer", "old@example.com")
	exit := joined.Add(30 * 24 * time.Hour)
	left.ExitDate = &exit
	for _, m := range []Member{member("Jane Doe", "jane@example.com"), left} {
		_, err := svc.Add(ctx, uuid.New(), m, &multipart.FileHeader{Filename: "p.png"})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "", page)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, "Old Timer", all.Items[0].Name)

	public, err := svc.Aggregate(ctx, page)
	require.NoError(t, err)
	require.Len(t, public.Items, 1)
	assert.Equal(t, "Jane Doe", public.Items[0].Name)
	assert.Equal(t, "http://cdn.test/uploads/teams/p.png", public.Items[0].ProfileImage)

	detail, err := svc.Detail(ctx, "2")
	require.NoError(t, err)
	assert.False(t, detail.Active())

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, Statistics{Total: 2, Active: 1, Inactive: 1}, stats)
}
