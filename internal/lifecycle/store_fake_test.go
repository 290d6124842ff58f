package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"roomatch/internal/domain"
)

// fakeStore 内存版 domain.Store，语义对齐 repo.GormStore：
// Find* 查不到返回 (nil,nil)，唯一键冲突返回 ErrAlreadyExists，
// 状态更新是 CAS。InTransaction 直接跑回调（单测不验证回滚本身）。
type fakeStore struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	offers    map[string]*domain.Offer
	apps      map[string]*domain.Application
	favs      map[string]*domain.Favorite
	sejours   map[string]*domain.Sejour
	feedbacks map[string]*domain.Feedback

	// failOn 非空时对应方法直接报存储错，用来演练故障路径
	failOn map[string]error
}

var _ domain.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]*domain.User{},
		offers:    map[string]*domain.Offer{},
		apps:      map[string]*domain.Application{},
		favs:      map[string]*domain.Favorite{},
		sejours:   map[string]*domain.Sejour{},
		feedbacks: map[string]*domain.Feedback{},
		failOn:    map[string]error{},
	}
}

func (f *fakeStore) fail(op string) error { return f.failOn[op] }

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (f *fakeStore) CreateUser(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, old := range f.users {
		if old.Email == u.Email {
			return domain.ErrAlreadyExists
		}
	}
	f.users[u.ID] = copyOf(u)
	return nil
}

func (f *fakeStore) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.users[id]), nil
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return copyOf(u), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = copyOf(u)
	return nil
}

func (f *fakeStore) FindUserAuthFlags(_ context.Context, id string) (*domain.AuthFlags, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	if u == nil {
		return nil, nil
	}
	return &domain.AuthFlags{IsAdmin: u.IsAdmin, ProfileComplete: u.ProfileComplete}, nil
}

func (f *fakeStore) FindOfferByID(_ context.Context, id string) (*domain.Offer, error) {
	if err := f.fail("FindOfferByID"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.offers[id]), nil
}

func (f *fakeStore) UpdateOfferStatus(_ context.Context, id string, to domain.OfferStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o := f.offers[id]; o != nil {
		o.Status = to
	}
	return nil
}

func (f *fakeStore) ClaimOfferSlot(_ context.Context, offerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.offers[offerID]
	if o == nil || o.SlotsTaken >= o.Capacity {
		return false, nil
	}
	o.SlotsTaken++
	return true, nil
}

func (f *fakeStore) ListOffersByStatus(_ context.Context, status domain.OfferStatus, _, _ int) ([]domain.Offer, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Offer
	for _, o := range f.offers {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) CreateApplication(_ context.Context, a *domain.Application) error {
	if err := f.fail("CreateApplication"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps[a.ID] = copyOf(a)
	return nil
}

func (f *fakeStore) FindApplicationByID(_ context.Context, id string) (*domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.apps[id]), nil
}

func (f *fakeStore) ListApplicationsByOffer(_ context.Context, offerID string) ([]domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Application
	for _, a := range f.apps {
		if a.OfferID == offerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListApplicationsByApplicant(_ context.Context, applicantID string) ([]domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Application
	for _, a := range f.apps {
		if a.ApplicantID == applicantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) FindOpenApplication(_ context.Context, offerID, applicantID string) (*domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.OfferID == offerID && a.ApplicantID == applicantID && a.Status != domain.ApplicationRejected {
			return copyOf(a), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateApplicationStatus(_ context.Context, id string, from, to domain.ApplicationStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.apps[id]
	if a == nil || a.Status != from {
		return false, nil
	}
	a.Status = to
	return true, nil
}

func (f *fakeStore) FindFavorite(_ context.Context, userID, offerID string) (*domain.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fav := range f.favs {
		if fav.UserID == userID && fav.OfferID == offerID {
			return copyOf(fav), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateFavorite(_ context.Context, fav *domain.Favorite) error {
	if err := f.fail("CreateFavorite"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, old := range f.favs {
		if old.UserID == fav.UserID && old.OfferID == fav.OfferID {
			return domain.ErrAlreadyExists
		}
	}
	f.favs[fav.ID] = copyOf(fav)
	return nil
}

func (f *fakeStore) DeleteFavorite(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.favs, id)
	return nil
}

func (f *fakeStore) ListFavoritesByUser(_ context.Context, userID string) ([]domain.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Favorite
	for _, fav := range f.favs {
		if fav.UserID == userID {
			out = append(out, *fav)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateSejour(_ context.Context, s *domain.Sejour) error {
	if err := f.fail("CreateSejour"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sejours[s.ID] = copyOf(s)
	return nil
}

func (f *fakeStore) FindSejourByID(_ context.Context, id string) (*domain.Sejour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.sejours[id]), nil
}

func (f *fakeStore) ListSejoursByUser(_ context.Context, userID string) ([]domain.Sejour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Sejour
	for _, s := range f.sejours {
		if s.OwnerID == userID || s.TenantID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) SetSejourEnd(_ context.Context, sejourID string, end time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.sejours[sejourID]; s != nil {
		e := end
		s.EndDate = &e
	}
	return nil
}

func (f *fakeStore) SetFeedbackFlag(_ context.Context, sejourID, party string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sejours[sejourID]
	if s == nil {
		return nil
	}
	switch party {
	case "owner":
		s.OwnerFeedbackGiven = true
	case "tenant":
		s.TenantFeedbackGiven = true
	}
	return nil
}

func (f *fakeStore) ReleaseOfferSlot(_ context.Context, offerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o := f.offers[offerID]; o != nil && o.SlotsTaken > 0 {
		o.SlotsTaken--
	}
	return nil
}

func (f *fakeStore) CreateFeedback(_ context.Context, fb *domain.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, old := range f.feedbacks {
		if old.SejourID == fb.SejourID && old.AuthorID == fb.AuthorID && old.Type == fb.Type {
			return domain.ErrAlreadyExists
		}
	}
	f.feedbacks[fb.ID] = copyOf(fb)
	return nil
}

func (f *fakeStore) FindFeedback(_ context.Context, sejourID, authorID string, t domain.FeedbackType) (*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fb := range f.feedbacks {
		if fb.SejourID == sejourID && fb.AuthorID == authorID && fb.Type == t {
			return copyOf(fb), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListFeedbackByTarget(_ context.Context, targetID string) ([]domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Feedback
	for _, fb := range f.feedbacks {
		if fb.TargetID == targetID {
			out = append(out, *fb)
		}
	}
	return out, nil
}

func (f *fakeStore) InTransaction(_ context.Context, fn func(tx domain.Store) error) error {
	return fn(f)
}

// --- 种子数据 ---

var seedSeq int

func seedID(prefix string) string {
	seedSeq++
	return fmt.Sprintf("%s%04d", prefix, seedSeq)
}

func (f *fakeStore) seedOffer(ownerID string, status domain.OfferStatus, capacity int) *domain.Offer {
	o := &domain.Offer{
		ID: seedID("off"), OwnerID: ownerID, Status: status,
		Title: "T2 centre-ville", Capacity: capacity,
	}
	f.offers[o.ID] = o
	return o
}

func (f *fakeStore) seedApplication(offerID, applicantID string, status domain.ApplicationStatus) *domain.Application {
	a := &domain.Application{
		ID: seedID("app"), OfferID: offerID, ApplicantID: applicantID, Status: status,
	}
	f.apps[a.ID] = a
	return a
}

func (f *fakeStore) seedSejour(offerID, ownerID, tenantID string) *domain.Sejour {
	s := &domain.Sejour{
		ID: seedID("sej"), OfferID: offerID, OwnerID: ownerID, TenantID: tenantID,
		StartDate: time.Now(),
	}
	f.sejours[s.ID] = s
	return s
}
