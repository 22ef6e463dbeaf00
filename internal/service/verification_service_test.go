package service

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BauthyBa/jetgo-private/internal/model"
)

// fakeProfileStore хранит профили в памяти вместо базы данных.
type fakeProfileStore struct {
	profiles map[int64]*model.UserProfile
	verified map[int64]bool
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		profiles: map[int64]*model.UserProfile{},
		verified: map[int64]bool{},
	}
}

func (f *fakeProfileStore) GetProfileByUserID(userID int64) (*model.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeProfileStore) CreateProfile(p *model.UserProfile) (int64, error) {
	f.profiles[p.UserID] = p
	return p.UserID, nil
}

func (f *fakeProfileStore) SetIdentityVerified(userID int64) error {
	f.verified[userID] = true
	return nil
}

func verifyParams() VerifyParams {
	return VerifyParams{
		Document: VerifyDocument{Type: "dni", Number: "12345678", Country: "AR"},
		PersonalInfo: VerifyPersonalInfo{
			FirstName: "Ana", LastName: "García", Email: "ana@example.com",
		},
	}
}

func TestVerifyWithoutTokenAutoApproves(t *testing.T) {
	store := newFakeProfileStore()
	store.profiles[1] = &model.UserProfile{UserID: 1, Name: "Ana", Email: "ana@example.com"}
	s := NewVerificationService(store, "")

	res, err := s.Verify(1, verifyParams())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Success || res.Status != "approved" {
		t.Errorf("результат = %+v, ожидалось одобрение", res)
	}
	if !res.DevelopmentMode {
		t.Error("без токена должен быть отмечен режим разработки")
	}
	if !strings.HasPrefix(res.VerificationID, "mp_dev_") || strings.HasPrefix(res.VerificationID, "mp_dev_auto_") {
		t.Errorf("VerificationID = %q, ожидался префикс mp_dev_", res.VerificationID)
	}
	if !store.verified[1] {
		t.Error("identity_verified не установлен")
	}
}

func TestVerifyAPIFailureAutoApproves(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := newFakeProfileStore()
	store.profiles[1] = &model.UserProfile{UserID: 1, Name: "Ana", Email: "ana@example.com"}
	s := NewVerificationService(store, "bad-token")
	s.apiBaseURL = srv.URL

	res, err := s.Verify(1, verifyParams())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Success || !res.DevelopmentMode {
		t.Errorf("при недоступном API ожидалось авто-одобрение, результат = %+v", res)
	}
	if !strings.HasPrefix(res.VerificationID, "mp_dev_auto_") {
		t.Errorf("VerificationID = %q, ожидался префикс mp_dev_auto_", res.VerificationID)
	}
}

func TestVerifySuccess(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := newFakeProfileStore()
	store.profiles[1] = &model.UserProfile{UserID: 1, Name: "Ana", Email: "ana@example.com"}
	s := NewVerificationService(store, "good-token")
	s.apiBaseURL = srv.URL

	res, err := s.Verify(1, verifyParams())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if gotAuth != "Bearer good-token" {
		t.Errorf("заголовок Authorization = %q", gotAuth)
	}
	if res.DevelopmentMode {
		t.Error("при успешном ответе API режим разработки не должен отмечаться")
	}
	if !strings.HasPrefix(res.VerificationID, "mp_real_") {
		t.Errorf("VerificationID = %q, ожидался префикс mp_real_", res.VerificationID)
	}
	if !store.verified[1] {
		t.Error("identity_verified не установлен")
	}
}

func TestVerifyCreatesMissingProfile(t *testing.T) {
	store := newFakeProfileStore()
	s := NewVerificationService(store, "")

	if _, err := s.Verify(7, verifyParams()); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	p, ok := store.profiles[7]
	if !ok {
		t.Fatal("профиль не создан")
	}
	if p.Name != "Ana García" {
		t.Errorf("имя профиля = %q", p.Name)
	}
	if p.Email != "ana@example.com" {
		t.Errorf("email профиля = %q", p.Email)
	}
}
