package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/stemsi/seatpredictor-backend/internal/mailer"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
)

// ─── Allotments ─────────────────────────────────────────────────────────────

type fakeAllotments struct {
	rows       []model.Allotment
	nextID     int64
	replaceErr error
	lastFilter repository.AllotmentFilter
}

func (f *fakeAllotments) add(a model.Allotment) {
	f.nextID++
	a.ID = f.nextID
	f.rows = append(f.rows, a)
}

func foldMatch(want *string, got string) bool {
	return want == nil || strings.EqualFold(*want, got)
}

func (f *fakeAllotments) Search(_ context.Context, flt repository.AllotmentFilter) ([]model.AllotmentResult, error) {
	f.lastFilter = flt
	var hits []model.Allotment
	for _, a := range f.rows {
		if !a.IsActive {
			continue
		}
		if flt.MinRank != nil && a.RankNo < *flt.MinRank {
			continue
		}
		if !foldMatch(flt.State, a.State) ||
			!foldMatch(flt.AllotmentCategory, a.AllotmentCategory) ||
			!foldMatch(flt.QualifyingGroupOrCourse, a.QualifyingGroupOrCourse) ||
			!foldMatch(flt.Speciality, a.Speciality) ||
			!foldMatch(flt.AllottedCategory, a.AllottedCategory) {
			continue
		}
		hits = append(hits, a)
	}
	slices.SortFunc(hits, func(a, b model.Allotment) int {
		return cmp.Or(cmp.Compare(a.RankNo, b.RankNo), cmp.Compare(a.ID, b.ID))
	})

	out := []model.AllotmentResult{}
	for _, a := range hits {
		out = append(out, model.AllotmentResult{
			AllotmentCategory: a.AllotmentCategory,
			AllotmentYear:     a.AllotmentYear,
			RankNo:            a.RankNo,
			State:             a.State,
			Speciality:        a.Speciality,
			AllottedCategory:  a.AllottedCategory,
		})
	}
	return out, nil
}

func (f *fakeAllotments) ActivateYear(_ context.Context, category string, year int) (int64, int64, error) {
	var off, on int64
	for i := range f.rows {
		if f.rows[i].AllotmentCategory == category {
			f.rows[i].IsActive = false
			off++
		}
	}
	for i := range f.rows {
		if f.rows[i].AllotmentCategory == category && f.rows[i].AllotmentYear == year {
			f.rows[i].IsActive = true
			on++
		}
	}
	return off, on, nil
}

func (f *fakeAllotments) ReplaceAll(_ context.Context, rows []model.Allotment) (int64, error) {
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	for i := range f.rows {
		f.rows[i].IsActive = false
	}
	for _, r := range rows {
		f.add(r)
	}
	return int64(len(rows)), nil
}

// ─── Tracker leads ──────────────────────────────────────────────────────────

type fakeLeads struct {
	leads      []model.TrackerLead
	createErr  error
	lastLimit  int
	lastOffset int
	countCalls int
	pageCalls  int
	// insertDuringPage simulates a concurrent insert landing after the
	// snapshot was taken; it must not show up in the page or its total.
	insertDuringPage bool
	counts           map[repository.TrackerColumn][]model.FieldCount
}

func (f *fakeLeads) Create(_ context.Context, lead *model.TrackerLead) error {
	if f.createErr != nil {
		return f.createErr
	}
	lead.SeqNo = int64(len(f.leads) + 1)
	f.leads = append(f.leads, *lead)
	return nil
}

func (f *fakeLeads) Count(context.Context, repository.TrackerFilter) (int, error) {
	f.countCalls++
	return len(f.leads), nil
}

func (f *fakeLeads) Page(_ context.Context, _ repository.TrackerFilter, limit int, offsetFor func(int) int) (int, []model.TrackerLead, error) {
	f.pageCalls++
	snapshot := slices.Clone(f.leads)
	total := len(snapshot)
	offset := offsetFor(total)
	if f.insertDuringPage {
		f.leads = append(f.leads, model.TrackerLead{SeqNo: int64(len(f.leads) + 1), Name: "late"})
	}

	f.lastLimit, f.lastOffset = limit, offset
	if offset >= total {
		return total, []model.TrackerLead{}, nil
	}
	end := min(offset+limit, total)
	return total, snapshot[offset:end], nil
}

func (f *fakeLeads) CountBy(_ context.Context, column repository.TrackerColumn) ([]model.FieldCount, error) {
	return f.counts[column], nil
}

// ─── Group categories ───────────────────────────────────────────────────────

type fakeGroups struct {
	pairs     []model.GroupCategory
	raceOnAdd bool
	listCalls int
}

func (f *fakeGroups) Exists(_ context.Context, g, c string) (bool, error) {
	for _, p := range f.pairs {
		if strings.EqualFold(p.GroupName, g) && strings.EqualFold(p.CategoryType, c) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroups) Create(_ context.Context, gc *model.GroupCategory) error {
	if f.raceOnAdd {
		return repository.ErrDuplicateGroupCategory
	}
	gc.ID = len(f.pairs) + 1
	f.pairs = append(f.pairs, *gc)
	return nil
}

func (f *fakeGroups) ListAll(context.Context) ([]model.GroupCategory, error) {
	f.listCalls++
	out := slices.Clone(f.pairs)
	slices.SortFunc(out, func(a, b model.GroupCategory) int {
		return cmp.Or(cmp.Compare(a.GroupName, b.GroupName), cmp.Compare(a.CategoryType, b.CategoryType))
	})
	return out, nil
}

type fakeGroupCache struct {
	groups      []model.GroupedCategories
	hit         bool
	getErr      error
	setErr      error
	sets        int
	invalidated int
}

func (c *fakeGroupCache) GetGroups(context.Context) ([]model.GroupedCategories, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.groups, c.hit, nil
}

func (c *fakeGroupCache) SetGroups(_ context.Context, g []model.GroupedCategories) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.groups, c.hit = g, true
	return nil
}

func (c *fakeGroupCache) Invalidate(context.Context) error {
	c.invalidated++
	c.groups, c.hit = nil, false
	return nil
}

// ─── Admins and tokens ──────────────────────────────────────────────────────

type fakeAdmins struct {
	byName map[string]*model.Admin
}

func newFakeAdmins() *fakeAdmins {
	return &fakeAdmins{byName: map[string]*model.Admin{}}
}

func (f *fakeAdmins) GetByID(_ context.Context, id int) (*model.Admin, error) {
	for _, a := range f.byName {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (f *fakeAdmins) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	if a, ok := f.byName[username]; ok {
		return a, nil
	}
	return nil, repository.ErrAdminNotFound
}

func (f *fakeAdmins) Create(_ context.Context, a *model.Admin) error {
	if _, ok := f.byName[a.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	a.ID = len(f.byName) + 1
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	f.byName[a.Username] = a
	return nil
}

type fakeRefreshStore struct {
	active map[string]int
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{active: map[string]int{}}
}

func (s *fakeRefreshStore) Register(_ context.Context, jti string, adminID int, _ time.Duration) error {
	s.active[jti] = adminID
	return nil
}

func (s *fakeRefreshStore) Active(_ context.Context, jti string) (bool, error) {
	_, ok := s.active[jti]
	return ok, nil
}

func (s *fakeRefreshStore) Revoke(_ context.Context, jti string) error {
	delete(s.active, jti)
	return nil
}

// ─── Mail ───────────────────────────────────────────────────────────────────

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }
