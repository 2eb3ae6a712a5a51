package service

import (
	"context"
	"sort"
	"time"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/repository"
)

// fakeSignupRepo is an in-memory SignupRepository. It mirrors the conditional
// update semantics of the real store so the idempotency paths are exercised
// the same way.
type fakeSignupRepo struct {
	signups map[uint]*domain.ProjectSignup
	anons   map[string]*domain.AnonymousSignup
	nextID  uint

	retargetCalls int
}

func newFakeSignupRepo() *fakeSignupRepo {
	return &fakeSignupRepo{
		signups: map[uint]*domain.ProjectSignup{},
		anons:   map[string]*domain.AnonymousSignup{},
	}
}

func (f *fakeSignupRepo) addSignup(signup domain.ProjectSignup) domain.ProjectSignup {
	f.nextID++
	signup.ID = f.nextID
	if signup.CreatedAt.IsZero() {
		signup.CreatedAt = time.Now()
	}
	f.signups[signup.ID] = &signup

	return signup
}

func (f *fakeSignupRepo) addAnonymous(anon domain.AnonymousSignup) domain.AnonymousSignup {
	f.anons[anon.ID] = &anon

	return anon
}

func (f *fakeSignupRepo) Create(_ context.Context, signup domain.ProjectSignup) (domain.ProjectSignup, error) {
	for _, existing := range f.signups {
		if existing.ProjectID == signup.ProjectID &&
			existing.ScheduleID == signup.ScheduleID &&
			existing.UserID != nil && signup.UserID != nil &&
			*existing.UserID == *signup.UserID {
			return domain.ProjectSignup{}, repository.ErrDuplicateSignup
		}
	}

	return f.addSignup(signup), nil
}

func (f *fakeSignupRepo) CreateWithAnonymous(_ context.Context, signup domain.ProjectSignup, anon domain.AnonymousSignup) (domain.ProjectSignup, domain.AnonymousSignup, error) {
	for _, existing := range f.anons {
		if existing.Email == anon.Email && existing.ProjectID == anon.ProjectID {
			return domain.ProjectSignup{}, domain.AnonymousSignup{}, repository.ErrDuplicateSignup
		}
	}

	created := f.addSignup(signup)
	anon.SignupID = created.ID

	return created, f.addAnonymous(anon), nil
}

func (f *fakeSignupRepo) FindByID(_ context.Context, id uint) (domain.ProjectSignup, error) {
	signup, ok := f.signups[id]
	if !ok {
		return domain.ProjectSignup{}, repository.ErrSignupNotFound
	}

	return *signup, nil
}

func (f *fakeSignupRepo) FindByUserSlot(_ context.Context, projectID uint, scheduleID string, userID uint) (domain.ProjectSignup, error) {
	for _, signup := range f.signups {
		if signup.ProjectID == projectID && signup.ScheduleID == scheduleID &&
			signup.UserID != nil && *signup.UserID == userID {
			return *signup, nil
		}
	}

	return domain.ProjectSignup{}, repository.ErrSignupNotFound
}

func (f *fakeSignupRepo) FindByAnonymousSlot(_ context.Context, projectID uint, scheduleID, anonymousID string) (domain.ProjectSignup, error) {
	for _, signup := range f.signups {
		if signup.ProjectID == projectID && signup.ScheduleID == scheduleID &&
			signup.AnonymousID != nil && *signup.AnonymousID == anonymousID {
			return *signup, nil
		}
	}

	return domain.ProjectSignup{}, repository.ErrSignupNotFound
}

func (f *fakeSignupRepo) FindAnyByAnonymous(_ context.Context, projectID uint, anonymousID string) (domain.ProjectSignup, error) {
	var matches []*domain.ProjectSignup
	for _, signup := range f.signups {
		if signup.ProjectID == projectID && signup.AnonymousID != nil && *signup.AnonymousID == anonymousID {
			matches = append(matches, signup)
		}
	}
	if len(matches) == 0 {
		return domain.ProjectSignup{}, repository.ErrSignupNotFound
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})

	return *matches[0], nil
}

func (f *fakeSignupRepo) FindByUser(_ context.Context, userID uint) ([]domain.ProjectSignup, error) {
	var signups []domain.ProjectSignup
	for _, signup := range f.signups {
		if signup.UserID != nil && *signup.UserID == userID {
			signups = append(signups, *signup)
		}
	}

	sort.Slice(signups, func(i, j int) bool {
		return signups[i].ID < signups[j].ID
	})

	return signups, nil
}

func (f *fakeSignupRepo) FindBySchedule(_ context.Context, projectID uint, scheduleID string) ([]domain.ProjectSignup, error) {
	var signups []domain.ProjectSignup
	for _, signup := range f.signups {
		if signup.ProjectID == projectID && signup.ScheduleID == scheduleID {
			signups = append(signups, *signup)
		}
	}

	sort.Slice(signups, func(i, j int) bool {
		return signups[i].ID < signups[j].ID
	})

	return signups, nil
}

func (f *fakeSignupRepo) CountActive(_ context.Context, projectID uint, scheduleID string) (int64, error) {
	var count int64
	for _, signup := range f.signups {
		if signup.ProjectID != projectID || signup.ScheduleID != scheduleID {
			continue
		}
		switch signup.Status {
		case domain.SignupPending, domain.SignupApproved, domain.SignupAttended:
			count++
		}
	}

	return count, nil
}

func (f *fakeSignupRepo) UpdateStatus(_ context.Context, id uint, status domain.SignupStatus) error {
	signup, ok := f.signups[id]
	if !ok {
		return repository.ErrSignupNotFound
	}
	signup.Status = status

	return nil
}

func (f *fakeSignupRepo) CheckIn(_ context.Context, id uint, at time.Time) (bool, error) {
	signup, ok := f.signups[id]
	if !ok || signup.CheckInTime != nil {
		return false, nil
	}

	signup.CheckInTime = &at
	signup.Status = domain.SignupAttended

	return true, nil
}

func (f *fakeSignupRepo) RetargetAndCheckIn(_ context.Context, id uint, scheduleID string, at time.Time) error {
	f.retargetCalls++

	signup, ok := f.signups[id]
	if !ok {
		return repository.ErrSignupNotFound
	}

	signup.ScheduleID = scheduleID
	if signup.CheckInTime == nil {
		signup.CheckInTime = &at
		signup.Status = domain.SignupAttended
	}

	return nil
}

func (f *fakeSignupRepo) FindAnonymousByID(_ context.Context, id string) (domain.AnonymousSignup, error) {
	anon, ok := f.anons[id]
	if !ok {
		return domain.AnonymousSignup{}, repository.ErrAnonymousNotFound
	}

	return *anon, nil
}

func (f *fakeSignupRepo) FindAnonymousByEmail(_ context.Context, email string, projectID uint) (domain.AnonymousSignup, error) {
	for _, anon := range f.anons {
		if anon.Email == email && anon.ProjectID == projectID {
			return *anon, nil
		}
	}

	return domain.AnonymousSignup{}, repository.ErrAnonymousNotFound
}

func (f *fakeSignupRepo) FindAnonymousByToken(_ context.Context, id, token string) (domain.AnonymousSignup, error) {
	anon, ok := f.anons[id]
	if !ok || anon.Token != token {
		return domain.AnonymousSignup{}, repository.ErrAnonymousNotFound
	}

	return *anon, nil
}

func (f *fakeSignupRepo) Confirm(_ context.Context, anonymousID string, at time.Time) error {
	anon, ok := f.anons[anonymousID]
	if !ok {
		return repository.ErrAnonymousNotFound
	}
	if anon.ConfirmedAt != nil {
		return repository.ErrAlreadyConfirmed
	}

	var pending *domain.ProjectSignup
	for _, signup := range f.signups {
		if signup.AnonymousID != nil && *signup.AnonymousID == anonymousID &&
			signup.Status == domain.SignupPending {
			pending = signup
			break
		}
	}
	if pending == nil {
		return repository.ErrSignupNotFound
	}

	anon.ConfirmedAt = &at
	pending.Status = domain.SignupApproved

	return nil
}

type fakeProjectRepo struct {
	projects map[uint]*domain.Project
	nextID   uint
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: map[uint]*domain.Project{},
	}
}

func (f *fakeProjectRepo) addProject(project domain.Project) domain.Project {
	if project.ID == 0 {
		f.nextID++
		project.ID = f.nextID
	}
	f.projects[project.ID] = &project

	return project
}

func (f *fakeProjectRepo) Create(_ context.Context, project domain.Project) (domain.Project, error) {
	return f.addProject(project), nil
}

func (f *fakeProjectRepo) FindByID(_ context.Context, id uint) (domain.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return domain.Project{}, repository.ErrProjectNotFound
	}

	return *project, nil
}

func (f *fakeProjectRepo) FindByStatus(_ context.Context, status domain.ProjectStatus) ([]domain.Project, error) {
	var projects []domain.Project
	for _, project := range f.projects {
		if project.Status == status {
			projects = append(projects, *project)
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ID < projects[j].ID
	})

	return projects, nil
}

func (f *fakeProjectRepo) FindByCreator(_ context.Context, creatorID uint) ([]domain.Project, error) {
	var projects []domain.Project
	for _, project := range f.projects {
		if project.CreatorID == creatorID {
			projects = append(projects, *project)
		}
	}

	return projects, nil
}

func (f *fakeProjectRepo) UpdateStatus(_ context.Context, id uint, status domain.ProjectStatus) error {
	project, ok := f.projects[id]
	if !ok {
		return repository.ErrProjectNotFound
	}
	project.Status = status

	return nil
}

func (f *fakeProjectRepo) UpdatePublished(_ context.Context, id uint, published map[string]bool) error {
	project, ok := f.projects[id]
	if !ok {
		return repository.ErrProjectNotFound
	}
	project.Published = published

	return nil
}

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: map[uint]domain.User{},
	}
}

func (f *fakeUserRepo) addUser(user domain.User) domain.User {
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
	}
	f.users[user.ID] = user

	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}

	return f.addUser(user), nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

type fakeCertificateRepo struct {
	certs map[string]domain.Certificate
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{
		certs: map[string]domain.Certificate{},
	}
}

func (f *fakeCertificateRepo) Create(_ context.Context, cert domain.Certificate) (domain.Certificate, error) {
	for _, existing := range f.certs {
		if existing.SignupID == cert.SignupID {
			return domain.Certificate{}, repository.ErrCertificateExists
		}
	}
	f.certs[cert.ID] = cert

	return cert, nil
}

func (f *fakeCertificateRepo) FindByID(_ context.Context, id string) (domain.Certificate, error) {
	cert, ok := f.certs[id]
	if !ok {
		return domain.Certificate{}, repository.ErrCertificateNotFound
	}

	return cert, nil
}

func (f *fakeCertificateRepo) FindBySignupID(_ context.Context, signupID uint) (domain.Certificate, error) {
	for _, cert := range f.certs {
		if cert.SignupID == signupID {
			return cert, nil
		}
	}

	return domain.Certificate{}, repository.ErrCertificateNotFound
}

func (f *fakeCertificateRepo) FindByEmail(_ context.Context, email string) ([]domain.Certificate, error) {
	var certs []domain.Certificate
	for _, cert := range f.certs {
		if cert.VolunteerEmail == email {
			certs = append(certs, cert)
		}
	}

	return certs, nil
}

type fakeMailer struct {
	sent    []domain.AnonymousSignup
	sendErr error
}

func (f *fakeMailer) SendConfirmation(_ context.Context, anon domain.AnonymousSignup, _ string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, anon)

	return nil
}
