package rbac

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesislab/siteadmin/internal/shared"
)

type fakeRepo struct {
	roles       map[int64]Role
	permissions map[int64]Permission
	grants      map[int64]map[int64]struct{}
	failInsert  bool
	failGetRole error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		roles: map[int64]Role{
			1: {ID: 1, Name: SuperAdminRoleName},
			2: {ID: 2, Name: "HR"},
		},
		permissions: map[int64]Permission{
			10: {ID: 10, Title: "Job", AccessName: "List jobs", Path: "job", Method: "get"},
			11: {ID: 11, Title: "Job", AccessName: "Update job", Path: "job/{id}", Method: "put"},
			12: {ID: 12, Title: "Contacts", AccessName: "List contacts", Path: "contacts/contact_list", Method: "get"},
		},
		grants: map[int64]map[int64]struct{}{},
	}
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	snapshot := make(map[int64]map[int64]struct{}, len(f.grants))
	for role, set := range f.grants {
		cp := make(map[int64]struct{}, len(set))
		for id := range set {
			cp[id] = struct{}{}
		}
		snapshot[role] = cp
	}
	if err := fn(ctx, f); err != nil {
		f.grants = snapshot
		return err
	}
	return nil
}

func (f *fakeRepo) GetRole(_ context.Context, id int64) (Role, error) {
	if f.failGetRole != nil {
		return Role{}, f.failGetRole
	}
	role, ok := f.roles[id]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	return role, nil
}

func (f *fakeRepo) ListRoles(context.Context) ([]Role, error) {
	var out []Role
	for _, r := range f.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) ListPermissions(context.Context) ([]Permission, error) {
	var out []Permission
	for _, p := range f.permissions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) ListRolePermissions(_ context.Context, roleID int64) ([]Permission, error) {
	var out []Permission
	for id := range f.grants[roleID] {
		out = append(out, f.permissions[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) ExistingPermissionIDs(_ context.Context, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		if _, ok := f.permissions[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteRolePermissions(_ context.Context, roleID int64) error {
	delete(f.grants, roleID)
	return nil
}

func (f *fakeRepo) InsertRolePermission(_ context.Context, roleID, permissionID int64) error {
	if f.failInsert {
		return errors.New("insert failed")
	}
	if f.grants[roleID] == nil {
		f.grants[roleID] = map[int64]struct{}{}
	}
	f.grants[roleID][permissionID] = struct{}{}
	return nil
}

type recordingAudit struct {
	logs []shared.AuditLog
}

func (a *recordingAudit) Record(_ context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func TestAuthorizeUnknownRoleFailsClosed(t *testing.T) {
	svc := NewService(newFakeRepo(), Config{})
	for _, method := range []string{"GET", "POST", "PUT"} {
		ok, err := svc.Authorize(context.Background(), 99, "/api/job", method)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestAuthorizeSuperAdminBypass(t *testing.T) {
	svc := NewService(newFakeRepo(), Config{})
	ok, err := svc.Authorize(context.Background(), 1, "/api/not/registered/{anything}", "DELETE")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthorizeLiteralPathMatching(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, Config{})
	ctx := context.Background()
	require.NoError(t, svc.SetRolePermissions(ctx, 2, []int64{10, 11}))

	cases := []struct {
		path, method string
		want         bool
	}{
		{"/api/job", "GET", true},
		{"/api/job", "get", true},
		{"/api/job/1", "GET", false},
		{"/api/job", "POST", false},
		{"/api/Job", "GET", false},
		{"/api/job/{id}", "PUT", true},
		{"/api/job/42", "PUT", false},
		{"/api/contacts/contact_list", "GET", false},
	}
	for _, tc := range cases {
		ok, err := svc.Authorize(ctx, 2, tc.path, tc.method)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "%s %s", tc.method, tc.path)
	}
}

func TestAuthorizeUsesConfiguredPrefix(t *testing.T) {
	repo := newFakeRepo()
	repo.grants[2] = map[int64]struct{}{10: {}}
	svc := NewService(repo, Config{APIPrefix: "/v2/"})
	ok, err := svc.Authorize(context.Background(), 2, "/v2/job", "GET")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthorizeInfrastructureError(t *testing.T) {
	repo := newFakeRepo()
	repo.failGetRole = errors.New("connection refused")
	svc := NewService(repo, Config{})
	ok, err := svc.Authorize(context.Background(), 2, "/api/job", "GET")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSetRolePermissionsReplaceIsTotal(t *testing.T) {
	repo := newFakeRepo()
	audit := &recordingAudit{}
	svc := NewService(repo, Config{Audit: audit})
	ctx := shared.ContextWithPrincipal(context.Background(), shared.Principal{AdminID: uuid.New(), RoleID: 1})

	require.NoError(t, svc.SetRolePermissions(ctx, 2, []int64{10, 12, 10}))
	ids, all, err := svc.ListRolePermissionIDs(ctx, 2)
	require.NoError(t, err)
	assert.False(t, all)
	assert.Equal(t, []int64{10, 12}, ids)

	require.NoError(t, svc.SetRolePermissions(ctx, 2, []int64{}))
	ids, _, err = svc.ListRolePermissionIDs(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.Len(t, audit.logs, 2)
	assert.Equal(t, "2", audit.logs[0].EntityID)
	assert.NotEmpty(t, audit.logs[0].ActorID)
}

func TestSetRolePermissionsErrors(t *testing.T) {
	svc := NewService(newFakeRepo(), Config{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetRolePermissions(ctx, 0, []int64{10}), ErrInvalidRoleID)
	assert.ErrorIs(t, svc.SetRolePermissions(ctx, -3, nil), ErrInvalidRoleID)
	assert.ErrorIs(t, svc.SetRolePermissions(ctx, 77, []int64{10}), ErrRoleNotFound)
}

func TestSetRolePermissionsSuperAdminNoop(t *testing.T) {
	repo := newFakeRepo()
	audit := &recordingAudit{}
	svc := NewService(repo, Config{Audit: audit})
	require.NoError(t, svc.SetRolePermissions(context.Background(), 1, []int64{10}))
	assert.Empty(t, repo.grants[1])
	assert.Empty(t, audit.logs)

	_, all, err := svc.ListRolePermissionIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, all)
}

func TestSetRolePermissionsUnknownPolicy(t *testing.T) {
	ctx := context.Background()

	lenient := newFakeRepo()
	require.NoError(t, NewService(lenient, Config{}).SetRolePermissions(ctx, 2, []int64{10, 999}))
	assert.Equal(t, map[int64]struct{}{10: {}}, lenient.grants[2])

	strict := newFakeRepo()
	strict.grants[2] = map[int64]struct{}{12: {}}
	err := NewService(strict, Config{UnknownPermissions: PolicyStrict}).SetRolePermissions(ctx, 2, []int64{10, 999})
	assert.ErrorIs(t, err, ErrUnknownPermission)
	assert.Equal(t, map[int64]struct{}{12: {}}, strict.grants[2])
}

func TestSetRolePermissionsRollsBackOnFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.grants[2] = map[int64]struct{}{12: {}}
	repo.failInsert = true
	svc := NewService(repo, Config{})

	err := svc.SetRolePermissions(context.Background(), 2, []int64{10})
	require.Error(t, err)
	assert.Equal(t, map[int64]struct{}{12: {}}, repo.grants[2])
}

func TestListEffectivePermissionsGroupsByTitle(t *testing.T) {
	repo := newFakeRepo()
	repo.grants[2] = map[int64]struct{}{10: {}, 11: {}, 12: {}}
	svc := NewService(repo, Config{})

	grouped, all, err := svc.ListEffectivePermissions(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, all)
	assert.Len(t, grouped["Job"], 2)
	assert.Len(t, grouped["Contacts"], 1)

	_, all, err = svc.ListEffectivePermissions(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, all)
}

func TestListPermissionsGroupedEmpty(t *testing.T) {
	repo := newFakeRepo()
	repo.permissions = map[int64]Permission{}
	_, err := NewService(repo, Config{}).ListPermissionsGrouped(context.Background())
	assert.ErrorIs(t, err, ErrNoPermissions)
}
