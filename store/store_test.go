package store

import (
	"fmt"
	"murmur/feedback-api/apperror"
	"murmur/feedback-api/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	// A named in-memory database so each test gets its own isolated
	// instance that survives across pooled connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.User{}, model.Message{}))

	return New(db)
}

// registerActive is a helper that registers and verifies a user, then
// returns its row.
func registerActive(t *testing.T, s *Store, username, email string) *model.User {
	t.Helper()

	code, err := s.Register(username, email, "password123")
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.NoError(t, s.Verify(username, code))

	var user model.User
	require.NoError(t, s.DB.Where("username = ?", username).First(&user).Error)
	require.True(t, user.Verified)

	return &user
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	s := newTestStore(t)

	code, err := s.Register("alice", "a@x.com", "pw12345")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	var user model.User
	require.NoError(t, s.DB.Where("username = ?", "alice").First(&user).Error)

	assert.False(t, user.Verified)
	assert.True(t, user.AcceptingMessages)
	assert.Equal(t, code, user.VerifyCode)
	assert.NotEqual(t, "pw12345", user.PasswordHash, "password must never be stored raw")
	assert.WithinDuration(t, time.Now().Add(CodeTTL), user.VerifyCodeExpiresAt, time.Minute)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	s := newTestStore(t)

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short username", "a", "a@x.com", "pw12345"},
		{"invalid characters", "al ice!", "a@x.com", "pw12345"},
		{"bad email", "alice", "not-an-email", "pw12345"},
		{"short password", "alice", "a@x.com", "pw"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(tc.username, tc.email, tc.password)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestRegisterConflictsWithActiveUsername(t *testing.T) {
	s := newTestStore(t)
	registerActive(t, s, "alice", "a@x.com")

	_, err := s.Register("alice", "other@x.com", "pw12345")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestRegisterConflictsWithVerifiedEmail(t *testing.T) {
	s := newTestStore(t)
	registerActive(t, s, "alice", "a@x.com")

	_, err := s.Register("alice2", "a@x.com", "pw12345")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestRegisterReusesPendingSlot(t *testing.T) {
	s := newTestStore(t)

	code1, err := s.Register("alice", "a@x.com", "firstpass")
	require.NoError(t, err)

	// Same email, still unverified: the slot is overwritten instead of
	// conflicting.
	code2, err := s.Register("alice_two", "a@x.com", "secondpass")
	require.NoError(t, err)

	var count int64
	require.NoError(t, s.DB.Model(&model.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var user model.User
	require.NoError(t, s.DB.Where("email = ?", "a@x.com").First(&user).Error)
	assert.Equal(t, "alice_two", user.Username)
	assert.Equal(t, code2, user.VerifyCode)

	// The first code is dead now
	if code1 != code2 {
		assert.ErrorIs(t, s.Verify("alice_two", code1), apperror.ErrInvalidCode)
	}
}

func TestPendingDoesNotReserveUsername(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Register("alice", "a@x.com", "pw12345")
	require.NoError(t, err)

	available, err := s.CheckUsername("alice")
	require.NoError(t, err)
	assert.True(t, available, "pending registration must not reserve the name")
}

func TestCheckUsername(t *testing.T) {
	s := newTestStore(t)
	registerActive(t, s, "alice", "a@x.com")

	available, err := s.CheckUsername("alice")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = s.CheckUsername("bob")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = s.CheckUsername("no spaces allowed")
	assert.ErrorIs(t, err, apperror.ErrValidation,
		"shape failures must be distinguishable from taken names")
}

func TestVerifyWrongCode(t *testing.T) {
	s := newTestStore(t)

	code, err := s.Register("alice", "a@x.com", "pw12345")
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	assert.ErrorIs(t, s.Verify("alice", wrong), apperror.ErrInvalidCode)

	// Correct code still works afterwards
	require.NoError(t, s.Verify("alice", code))
}

func TestVerifyUnknownUser(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.Verify("ghost", "123456"), apperror.ErrNotFound)
}

func TestVerifyExpiredCode(t *testing.T) {
	s := newTestStore(t)

	code, err := s.Register("alice", "a@x.com", "pw12345")
	require.NoError(t, err)

	require.NoError(t, s.DB.Model(&model.User{}).
		Where("username = ?", "alice").
		Update("verify_code_expires_at", time.Now().Add(-time.Minute)).Error)

	// Expired wins even when the code is correct
	assert.ErrorIs(t, s.Verify("alice", code), apperror.ErrExpired)
}

func TestVerifyTwice(t *testing.T) {
	s := newTestStore(t)

	code, err := s.Register("alice", "a@x.com", "pw12345")
	require.NoError(t, err)
	require.NoError(t, s.Verify("alice", code))

	assert.ErrorIs(t, s.Verify("alice", code), apperror.ErrInvalidCode)
}

func TestVerifyLosesRaceToActiveClaim(t *testing.T) {
	s := newTestStore(t)

	// Two pending users race for the same name
	code1, err := s.Register("alice", "first@x.com", "pw12345")
	require.NoError(t, err)
	code2, err := s.Register("alice", "second@x.com", "pw12345")
	require.NoError(t, err)

	require.NoError(t, s.Verify("alice", code2))
	assert.ErrorIs(t, s.Verify("alice", code1), apperror.ErrConflict)
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	user := registerActive(t, s, "alice", "a@x.com")

	byName, err := s.Authenticate("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := s.Authenticate("a@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = s.Authenticate("alice", "wrongpass")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = s.Authenticate("nobody", "password123")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthenticateUnverified(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Register("alice", "a@x.com", "password123")
	require.NoError(t, err)

	_, err = s.Authenticate("alice", "password123")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSubmitRoundTrip(t *testing.T) {
	s := newTestStore(t)
	user := registerActive(t, s, "alice", "a@x.com")

	before := time.Now()
	require.NoError(t, s.Submit("alice", "hello", ""))

	messages, err := s.Messages(user.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	assert.Equal(t, "hello", messages[0].Content)
	assert.NotEmpty(t, messages[0].ID)
	assert.False(t, messages[0].CreatedAt.Before(before))
	assert.False(t, messages[0].CreatedAt.After(time.Now()))
}

func TestSubmitUnknownUser(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.Submit("ghost", "hi", ""), apperror.ErrNotFound)
}

func TestSubmitPendingUserIsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Register("alice", "a@x.com", "pw12345")
	require.NoError(t, err)

	// Messages only attach to active users
	assert.ErrorIs(t, s.Submit("alice", "hi", ""), apperror.ErrNotFound)
}

func TestSubmitNotAccepting(t *testing.T) {
	s := newTestStore(t)
	user := registerActive(t, s, "alice", "a@x.com")

	require.NoError(t, s.SetAccepting(user.ID, false))

	assert.ErrorIs(t, s.Submit("alice", "hi", ""), apperror.ErrForbidden)

	messages, err := s.Messages(user.ID)
	require.NoError(t, err)
	assert.Empty(t, messages, "rejected submission must not append anything")
}

func TestSubmitEmptyContent(t *testing.T) {
	s := newTestStore(t)
	registerActive(t, s, "alice", "a@x.com")

	assert.ErrorIs(t, s.Submit("alice", "", ""), apperror.ErrValidation)
	assert.ErrorIs(t, s.Submit("alice", "   ", ""), apperror.ErrValidation)
}

func TestMessagesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	user := registerActive(t, s, "alice", "a@x.com")

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Submit("alice", fmt.Sprintf("message %d", i), ""))
		time.Sleep(5 * time.Millisecond)
	}

	messages, err := s.Messages(user.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, "message 2", messages[0].Content)
	assert.Equal(t, "message 0", messages[2].Content)
	assert.True(t, messages[0].CreatedAt.After(messages[2].CreatedAt))
}

func TestMessagesEmptyInbox(t *testing.T) {
	s := newTestStore(t)
	user := registerActive(t, s, "alice", "a@x.com")

	messages, err := s.Messages(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestSetAcceptingIdempotent(t *testing.T) {
	s := newTestStore(t)
	user := registerActive(t, s, "alice", "a@x.com")

	require.NoError(t, s.SetAccepting(user.ID, false))

	accepting, err := s.Accepting(user.ID)
	require.NoError(t, err)
	assert.False(t, accepting)

	// Second overwrite with the same value still succeeds
	require.NoError(t, s.SetAccepting(user.ID, false))

	accepting, err = s.Accepting(user.ID)
	require.NoError(t, err)
	assert.False(t, accepting)
}

func TestDeleteMessageScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	alice := registerActive(t, s, "alice", "a@x.com")
	bob := registerActive(t, s, "bob", "b@x.com")

	require.NoError(t, s.Submit("alice", "for alice", ""))

	messages, err := s.Messages(alice.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	// Bob can't delete Alice's message even with the right id
	err = s.DeleteMessage(bob.ID, messages[0].ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	messages, err = s.Messages(alice.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1, "foreign delete attempt must not remove anything")

	require.NoError(t, s.DeleteMessage(alice.ID, messages[0].ID))

	// Second delete of the same id reports NotFound, it doesn't crash
	assert.ErrorIs(t, s.DeleteMessage(alice.ID, messages[0].ID), apperror.ErrNotFound)
}

func TestDeleteMessageUnknownID(t *testing.T) {
	s := newTestStore(t)
	user := registerActive(t, s, "alice", "a@x.com")

	assert.ErrorIs(t, s.DeleteMessage(user.ID, "nope"), apperror.ErrNotFound)
}
