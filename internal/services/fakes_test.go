package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jobspher/jobspher/internal/models"
	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
	"github.com/jobspher/jobspher/internal/utils"
)

// memDB is an in-memory stand-in for the postgres layer. It reproduces the
// contracts the services depend on: utils.ErrNotFound on missing rows,
// utils.ErrDuplicate from the unique indexes, and guarded status updates
// that report zero rows once the row has left the expected status.
type memDB struct {
	mu            sync.Mutex
	users         map[string]*models.User
	companies     map[string]*models.Company
	jobs          map[string]*models.Job
	payments      map[string]*models.ManualPayment
	applications  map[string]*models.Application
	notifications map[string]*models.Notification

	jobSearches int
}

func newMemDB() *memDB {
	return &memDB{
		users:         map[string]*models.User{},
		companies:     map[string]*models.Company{},
		jobs:          map[string]*models.Job{},
		payments:      map[string]*models.ManualPayment{},
		applications:  map[string]*models.Application{},
		notifications: map[string]*models.Notification{},
	}
}

func (db *memDB) repos() pgrepo.Repos {
	return pgrepo.Repos{
		Users:         memUsers{db},
		Companies:     memCompanies{db},
		Jobs:          memJobs{db},
		Payments:      memPayments{db},
		Applications:  memApplications{db},
		Notifications: memNotifications{db},
	}
}

// notificationsFor returns the stored notifications for one user, oldest
// first.
func (db *memDB) notificationsFor(userID string) []models.Notification {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []models.Notification
	for _, n := range db.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

type memUsers struct{ db *memDB }

func (r memUsers) Insert(_ context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, ex := range r.db.users {
		if ex.Email == u.Email {
			return utils.ErrDuplicate
		}
	}
	cp := *u
	r.db.users[u.ID] = &cp
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r memUsers) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.User
	for _, u := range r.db.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r memUsers) Update(_ context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[u.ID]; !ok {
		return utils.ErrNotFound
	}
	cp := *u
	r.db.users[u.ID] = &cp
	return nil
}

type memCompanies struct{ db *memDB }

func (r memCompanies) Insert(_ context.Context, c *models.Company) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, ex := range r.db.companies {
		if ex.EmployerID == c.EmployerID {
			return utils.ErrDuplicate
		}
	}
	cp := *c
	r.db.companies[c.ID] = &cp
	return nil
}

func (r memCompanies) GetByID(_ context.Context, id string) (*models.Company, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.companies[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memCompanies) GetByEmployer(_ context.Context, employerID string) (*models.Company, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.companies {
		if c.EmployerID == employerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r memCompanies) ExistsByEmployer(_ context.Context, employerID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.companies {
		if c.EmployerID == employerID {
			return true, nil
		}
	}
	return false, nil
}

func (r memCompanies) Update(_ context.Context, c *models.Company) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ex, ok := r.db.companies[c.ID]
	if !ok {
		return utils.ErrNotFound
	}
	// payment_verified is written only through SetPaymentVerified.
	verified := ex.PaymentVerified
	cp := *c
	cp.PaymentVerified = verified
	r.db.companies[c.ID] = &cp
	return nil
}

func (r memCompanies) SetPaymentVerified(_ context.Context, id string, verified bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.companies[id]
	if !ok {
		return utils.ErrNotFound
	}
	c.PaymentVerified = verified
	return nil
}

type memJobs struct{ db *memDB }

func (r memJobs) Insert(_ context.Context, j *models.Job) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *j
	r.db.jobs[j.ID] = &cp
	return nil
}

func (r memJobs) GetByID(_ context.Context, id string) (*models.Job, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	j, ok := r.db.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r memJobs) ListByCompany(_ context.Context, companyID string) ([]models.Job, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Job
	for _, j := range r.db.jobs {
		if j.CompanyID == companyID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r memJobs) ListByStatus(_ context.Context, status models.JobStatus) ([]models.Job, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Job
	for _, j := range r.db.jobs {
		if j.Status == status {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r memJobs) Search(_ context.Context, f pgrepo.JobFilters, offset, limit int) ([]models.Job, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.jobSearches++

	var matched []models.Job
	for _, j := range r.db.jobs {
		if j.Status != models.JobActive {
			continue
		}
		if f.Keyword != "" {
			kw := strings.ToLower(f.Keyword)
			if !strings.Contains(strings.ToLower(j.Title), kw) &&
				!strings.Contains(strings.ToLower(j.Description), kw) {
				continue
			}
		}
		if f.Category != "" && !strings.EqualFold(j.Category, f.Category) {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.MinSalary != nil && (j.MinSalary == nil || *j.MinSalary < *f.MinSalary) {
			continue
		}
		if f.MaxSalary != nil && (j.MaxSalary == nil || *j.MaxSalary > *f.MaxSalary) {
			continue
		}
		matched = append(matched, *j)
	}
	sort.Slice(matched, func(i, k int) bool { return matched[i].ID < matched[k].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r memJobs) UpdateStatusFrom(_ context.Context, id string, from models.JobStatus, updates map[string]any) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	j, ok := r.db.jobs[id]
	if !ok || j.Status != from {
		return 0, nil
	}
	for col, v := range updates {
		switch col {
		case "status":
			j.Status = v.(models.JobStatus)
		case "approved_by":
			s := v.(string)
			j.ApprovedByID = &s
		case "rejection_reason":
			j.RejectionReason = v.(string)
		case "published_at":
			t := v.(time.Time)
			j.PublishedAt = &t
		case "updated_at":
			j.UpdatedAt = v.(time.Time)
		}
	}
	return 1, nil
}

type memPayments struct{ db *memDB }

func (r memPayments) Insert(_ context.Context, p *models.ManualPayment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *p
	r.db.payments[p.ID] = &cp
	return nil
}

func (r memPayments) GetByID(_ context.Context, id string) (*models.ManualPayment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPayments) ListByEmployer(_ context.Context, employerID string) ([]models.ManualPayment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.ManualPayment
	for _, p := range r.db.payments {
		if p.EmployerID == employerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	return out, nil
}

func (r memPayments) LatestByEmployer(ctx context.Context, employerID string) (*models.ManualPayment, error) {
	all, err := r.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, utils.ErrNotFound
	}
	return &all[0], nil
}

func (r memPayments) ListByStatus(_ context.Context, status models.PaymentStatus) ([]models.ManualPayment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.ManualPayment
	for _, p := range r.db.payments {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r memPayments) ClaimPending(_ context.Context, id string, updates map[string]any) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[id]
	if !ok || p.Status != models.PaymentPendingReview {
		return 0, nil
	}
	for col, v := range updates {
		switch col {
		case "status":
			p.Status = v.(models.PaymentStatus)
		case "admin_notes":
			p.AdminNotes = v.(string)
		case "verified_by":
			s := v.(string)
			p.VerifiedByID = &s
		case "verified_date":
			t := v.(time.Time)
			p.VerifiedDate = &t
		}
	}
	return 1, nil
}

type memApplications struct{ db *memDB }

func (r memApplications) Insert(_ context.Context, a *models.Application) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, ex := range r.db.applications {
		if ex.JobID == a.JobID && ex.JobSeekerID == a.JobSeekerID {
			return utils.ErrDuplicate
		}
	}
	cp := *a
	r.db.applications[a.ID] = &cp
	return nil
}

func (r memApplications) GetByID(_ context.Context, id string) (*models.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.applications[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memApplications) ExistsByJobAndSeeker(_ context.Context, jobID, jobSeekerID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.applications {
		if a.JobID == jobID && a.JobSeekerID == jobSeekerID {
			return true, nil
		}
	}
	return false, nil
}

func (r memApplications) ListBySeeker(_ context.Context, jobSeekerID string) ([]models.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Application
	for _, a := range r.db.applications {
		if a.JobSeekerID == jobSeekerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r memApplications) ListByJob(_ context.Context, jobID string) ([]models.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Application
	for _, a := range r.db.applications {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r memApplications) Update(_ context.Context, a *models.Application) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.applications[a.ID]; !ok {
		return utils.ErrNotFound
	}
	cp := *a
	r.db.applications[a.ID] = &cp
	return nil
}

type memNotifications struct{ db *memDB }

func (r memNotifications) Insert(_ context.Context, n *models.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *n
	r.db.notifications[n.ID] = &cp
	return nil
}

func (r memNotifications) GetByID(_ context.Context, id string) (*models.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.notifications[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r memNotifications) ListByUser(_ context.Context, userID string, offset, limit int) ([]models.Notification, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []models.Notification
	for _, n := range r.db.notifications {
		if n.UserID == userID {
			all = append(all, *n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r memNotifications) CountUnread(_ context.Context, userID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var count int64
	for _, n := range r.db.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r memNotifications) MarkRead(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.notifications[id]
	if !ok {
		return utils.ErrNotFound
	}
	n.Read = true
	return nil
}

// memTx runs the transaction body directly against the shared store.
// Rollback is not simulated; the tests assert on the error paths before
// any write happens.
type memTx struct{ repos pgrepo.Repos }

func (m memTx) InTx(_ context.Context, fn func(r pgrepo.Repos) error) error {
	return fn(m.repos)
}

// memCache is a map-backed cache.Cache with the same counter semantics the
// redis implementation has.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ints map[string]int64
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ints: map[string]int64{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ints[key]++
	return c.ints[key], nil
}

func (c *memCache) GetInt(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ints[key], nil
}

// fixture wires the services over the in-memory store with one seeded
// admin, employer (plus company), and job seeker.
type fixture struct {
	db    *memDB
	repos pgrepo.Repos
	txm   pgrepo.TxManager
	cache *memCache

	admin    *models.User
	employer *models.User
	seeker   *models.User
	company  *models.Company
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newMemDB()
	repos := db.repos()
	f := &fixture{
		db:    db,
		repos: repos,
		txm:   memTx{repos: repos},
		cache: newMemCache(),
	}

	f.admin = f.seedUser(t, models.RoleAdmin, "admin@jobspher.test")
	f.employer = f.seedUser(t, models.RoleEmployer, "employer@jobspher.test")
	f.seeker = f.seedUser(t, models.RoleJobSeeker, "seeker@jobspher.test")
	f.company = f.seedCompany(t, f.employer.ID)
	return f
}

func (f *fixture) seedUser(t *testing.T, role models.Role, email string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.repos.Users.Insert(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (f *fixture) seedCompany(t *testing.T, employerID string) *models.Company {
	t.Helper()
	now := time.Now().UTC()
	c := &models.Company{
		ID:         uuid.NewString(),
		EmployerID: employerID,
		Name:       "Acme Corp",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := f.repos.Companies.Insert(context.Background(), c); err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return c
}

func (f *fixture) seedJob(t *testing.T, status models.JobStatus) *models.Job {
	t.Helper()
	now := time.Now().UTC()
	j := &models.Job{
		ID:          uuid.NewString(),
		CompanyID:   f.company.ID,
		Title:       "Backend Engineer",
		Description: "Build services in Go",
		Category:    "Engineering",
		Location:    "Addis Ababa",
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.JobActive {
		j.PublishedAt = &now
	}
	if err := f.repos.Jobs.Insert(context.Background(), j); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return j
}

func (f *fixture) seedPayment(t *testing.T, employerID string, status models.PaymentStatus) *models.ManualPayment {
	t.Helper()
	p := &models.ManualPayment{
		ID:              uuid.NewString(),
		EmployerID:      employerID,
		FilePath:        "payment-proof/" + employerID + "/proof.pdf",
		ReferenceNumber: "TXN-0001",
		Status:          status,
		UploadDate:      time.Now().UTC(),
	}
	if err := f.repos.Payments.Insert(context.Background(), p); err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return p
}

// verifyCompany flips the seeded company to payment-verified directly.
func (f *fixture) verifyCompany(t *testing.T) {
	t.Helper()
	if err := f.repos.Companies.SetPaymentVerified(context.Background(), f.company.ID, true); err != nil {
		t.Fatalf("verify company: %v", err)
	}
}

func (f *fixture) notifier() *Notifier { return NewNotifier(nil, nil, nil) }
