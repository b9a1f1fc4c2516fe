package auth

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trustnet-ai/api/internal/domain"
)

// --- mocks ---

type mockOTPRepo struct{ mock.Mock }

func (m *mockOTPRepo) Upsert(ctx context.Context, rec *domain.OTPRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *mockOTPRepo) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	args := m.Called(ctx, email)
	if rec, _ := args.Get(0).(*domain.OTPRecord); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOTPRepo) Delete(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockOTPRepo) DeleteMatching(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

// fakeOTPRepo is an in-memory repo with the same replace/consume semantics as
// the Postgres implementation, used for end-to-end lifecycle tests.
type fakeOTPRepo struct {
	mu   sync.Mutex
	recs map[string]domain.OTPRecord
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{recs: make(map[string]domain.OTPRecord)}
}

func (f *fakeOTPRepo) Upsert(_ context.Context, rec *domain.OTPRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[rec.Email] = *rec
	return nil
}

func (f *fakeOTPRepo) Get(_ context.Context, email string) (*domain.OTPRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeOTPRepo) Delete(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recs, email)
	return nil
}

func (f *fakeOTPRepo) DeleteMatching(_ context.Context, email, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[email]
	if !ok || rec.Code != code {
		return false, nil
	}
	delete(f.recs, email)
	return true, nil
}

// --- Issue ---

func TestIssue_StoresNormalizedEmailWithDeadline(t *testing.T) {
	repo := &mockOTPRepo{}
	var stored *domain.OTPRecord
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.OTPRecord")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.OTPRecord) }).
		Return(nil)

	store := NewOTPStore(repo)
	code, err := store.Issue(context.Background(), "  User@Example.COM ")

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "user@example.com", stored.Email)
	assert.Equal(t, code, stored.Code)
	assert.WithinDuration(t, time.Now().Add(domain.OTPTTL), stored.ExpiresAt, 2*time.Second)
}

func TestIssue_CodeIsSixDigitsWithoutLeadingZero(t *testing.T) {
	repo := newFakeOTPRepo()
	store := NewOTPStore(repo)

	for i := 0; i < 50; i++ {
		code, err := store.Issue(context.Background(), "a@x.com")
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestIssue_PropagatesStorageFailure(t *testing.T) {
	repo := &mockOTPRepo{}
	repo.On("Upsert", mock.Anything, mock.Anything).Return(assert.AnError)

	store := NewOTPStore(repo)
	_, err := store.Issue(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestIssue_ReplacesOutstandingCode(t *testing.T) {
	repo := newFakeOTPRepo()
	store := NewOTPStore(repo)
	ctx := context.Background()

	first, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	// Only the second code verifies; the first was replaced.
	if first != second {
		ok, err := store.Verify(ctx, "a@x.com", first)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	ok, err := store.Verify(ctx, "a@x.com", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

// --- Verify ---

func TestVerify_NoRecord_ReturnsFalse(t *testing.T) {
	store := NewOTPStore(newFakeOTPRepo())
	ok, err := store.Verify(context.Background(), "nobody@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_SingleUse(t *testing.T) {
	repo := newFakeOTPRepo()
	store := NewOTPStore(repo)
	ctx := context.Background()

	code, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	ok, err := store.Verify(ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Verify(ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.False(t, ok, "a consumed code must not verify again")
}

func TestVerify_MismatchLeavesRecordIntact(t *testing.T) {
	repo := newFakeOTPRepo()
	store := NewOTPStore(repo)
	ctx := context.Background()

	code, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	ok, err := store.Verify(ctx, "a@x.com", wrong)
	require.NoError(t, err)
	assert.False(t, ok)

	// The correct code is still usable within the window.
	ok, err = store.Verify(ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_JustInsideDeadline_Succeeds(t *testing.T) {
	repo := &mockOTPRepo{}
	repo.On("Get", mock.Anything, "a@x.com").Return(&domain.OTPRecord{
		Email:     "a@x.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(time.Second), // issued 4:59 ago
	}, nil)
	repo.On("DeleteMatching", mock.Anything, "a@x.com", "123456").Return(true, nil)

	store := NewOTPStore(repo)
	ok, err := store.Verify(context.Background(), "a@x.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_PastDeadline_PurgesAndFails(t *testing.T) {
	repo := &mockOTPRepo{}
	repo.On("Get", mock.Anything, "a@x.com").Return(&domain.OTPRecord{
		Email:     "a@x.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Second), // issued 5:01 ago
	}, nil)
	repo.On("Delete", mock.Anything, "a@x.com").Return(nil)

	store := NewOTPStore(repo)
	ok, err := store.Verify(context.Background(), "a@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
	repo.AssertCalled(t, "Delete", mock.Anything, "a@x.com")
	repo.AssertNotCalled(t, "DeleteMatching", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_ExpiredThenReissue_Succeeds(t *testing.T) {
	repo := newFakeOTPRepo()
	store := NewOTPStore(repo)
	ctx := context.Background()

	stale, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	// Force the stored record past its deadline.
	rec := repo.recs["a@x.com"]
	rec.ExpiresAt = time.Now().Add(-time.Minute)
	repo.recs["a@x.com"] = rec

	ok, err := store.Verify(ctx, "a@x.com", stale)
	require.NoError(t, err)
	assert.False(t, ok)

	fresh, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	ok, err = store.Verify(ctx, "a@x.com", fresh)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_NormalizesEmail(t *testing.T) {
	repo := newFakeOTPRepo()
	store := NewOTPStore(repo)
	ctx := context.Background()

	code, err := store.Issue(ctx, "User@Example.com")
	require.NoError(t, err)

	ok, err := store.Verify(ctx, " USER@example.COM ", code)
	require.NoError(t, err)
	assert.True(t, ok)
}
