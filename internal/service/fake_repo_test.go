package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devanshhooda/learn-live-server/internal/models"
	"github.com/devanshhooda/learn-live-server/internal/repository"
)

// fakeRepo is an in-memory UserRepository. relErrs scripts the outcome of
// successive ApplyRelationUpdate calls so tests can force second-write and
// compensation failures.
type fakeRepo struct {
	users   map[string]*models.User
	byPhone map[string]string
	relErrs []error
	relCall int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:   make(map[string]*models.User),
		byPhone: make(map[string]string),
	}
}

func (f *fakeRepo) addUser(u models.User) string {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	id := u.ID.Hex()
	f.users[id] = &u
	if u.PhoneNumber != "" {
		f.byPhone[u.PhoneNumber] = id
	}
	return id
}

func (f *fakeRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.byPhone[u.PhoneNumber]; ok {
		return nil, repository.ErrDuplicatePhone
	}
	f.addUser(*u)
	stored := f.users[f.byPhone[u.PhoneNumber]]
	return stored, nil
}

func (f *fakeRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	id, ok := f.byPhone[phone]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u := *f.users[id]
	return &u, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) UpdateByPhone(ctx context.Context, phone string, patch *models.ProfilePatch) (*models.User, error) {
	id, ok := f.byPhone[phone]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return f.UpdateByID(ctx, id, patch)
}

func (f *fakeRepo) UpdateByID(_ context.Context, id string, patch *models.ProfilePatch) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if patch != nil {
		if patch.FcmToken != nil {
			u.FcmToken = *patch.FcmToken
		}
		if patch.Name != nil {
			u.Name = *patch.Name
		}
		if patch.Age != nil {
			u.Age = *patch.Age
		}
		if patch.Profession != nil {
			u.Profession = *patch.Profession
		}
		if patch.Institute != nil {
			u.Institute = *patch.Institute
		}
		if patch.Company != nil {
			u.Company = *patch.Company
		}
		if patch.GraduationYear != nil {
			u.GraduationYear = *patch.GraduationYear
		}
		if patch.CurrentCity != nil {
			u.CurrentCity = *patch.CurrentCity
		}
		if patch.HomeCity != nil {
			u.HomeCity = *patch.HomeCity
		}
		if patch.Bio != nil {
			u.Bio = *patch.Bio
		}
		if patch.Interests != nil {
			u.Interests = *patch.Interests
		}
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		cp.Password = ""
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeRepo) ListFiltered(_ context.Context, criteria models.FilterCriteria) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if member(criteria.Profession, u.Profession) &&
			member(criteria.Company, u.Company) &&
			member(criteria.Institute, u.Institute) {
			cp := *u
			cp.Password = ""
			out = append(out, cp)
		}
	}
	return out, nil
}

func member(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func (f *fakeRepo) ApplyRelationUpdate(_ context.Context, id string, upd models.RelationUpdate) error {
	call := f.relCall
	f.relCall++
	if call < len(f.relErrs) && f.relErrs[call] != nil {
		return f.relErrs[call]
	}

	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	for field, peer := range upd.Push {
		switch field {
		case models.RelationConnects:
			u.Connects = append(u.Connects, peer)
		case models.RelationSentRequests:
			u.SentRequests = append(u.SentRequests, peer)
		case models.RelationReceivedRequests:
			u.ReceivedRequests = append(u.ReceivedRequests, peer)
		}
	}
	for field, peer := range upd.Pull {
		switch field {
		case models.RelationConnects:
			u.Connects = remove(u.Connects, peer)
		case models.RelationSentRequests:
			u.SentRequests = remove(u.SentRequests, peer)
		case models.RelationReceivedRequests:
			u.ReceivedRequests = remove(u.ReceivedRequests, peer)
		}
	}
	return nil
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
