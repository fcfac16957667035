// Package store implements every operation on the user/message
// aggregate. Handlers stay thin: they bind the request, call one of
// these methods and translate the returned apperror into the envelope.
package store

import (
	"errors"
	"murmur/feedback-api/apperror"
	"murmur/feedback-api/model"
	"murmur/feedback-api/security"
	"murmur/feedback-api/validators"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeTTL is how long a freshly issued verification code stays valid
const CodeTTL = time.Hour

type Store struct {
	DB     *gorm.DB
	Hasher *security.Hasher
}

func New(db *gorm.DB) *Store {
	return &Store{
		DB:     db,
		Hasher: security.NewHasher(),
	}
}

// Register creates a pending user, or reuses the pending slot when the
// email belongs to an unverified record. It returns the verification
// code the caller is expected to mail out.
func (s *Store) Register(username, email, password string) (code string, err error) {
	if err := validators.UsernameValidator(username); err != nil {
		return "", apperror.Validation(err.Error())
	}

	if err := validators.EmailValidator(email); err != nil {
		return "", apperror.Validation(err.Error())
	}

	if err := validators.PasswordValidator(password); err != nil {
		return "", apperror.Validation(err.Error())
	}

	taken, err := s.usernameTaken(username)
	if err != nil {
		return "", err
	}

	if taken {
		return "", apperror.Conflict("Username is already taken")
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return "", err
	}

	code, err = security.GenerateCode()
	if err != nil {
		return "", err
	}

	expiry := time.Now().Add(CodeTTL)

	var existing model.User

	err = s.DB.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil && existing.Verified:
		return "", apperror.Conflict("User already exists with this email")

	case err == nil:
		// Pending slot reuse: re-registering an unverified email
		// overwrites its credentials and issues a fresh code.
		err = s.DB.Model(&model.User{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"username":               username,
				"password_hash":          hash,
				"verify_code":            code,
				"verify_code_expires_at": expiry,
			}).Error
		if err != nil {
			return "", err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		id, err := gonanoid.Generate(idCharset, 16)
		if err != nil {
			return "", err
		}

		err = s.DB.Create(&model.User{
			ID:                  id,
			Username:            username,
			Email:               email,
			PasswordHash:        hash,
			VerifyCode:          code,
			VerifyCodeExpiresAt: expiry,
			Verified:            false,
			AcceptingMessages:   true,
		}).Error
		if err != nil {
			return "", err
		}

	default:
		return "", err
	}

	return code, nil
}

// Verify flips a pending user to active when the code matches and is
// still inside its window. Re-verifying an active user is rejected the
// same way a wrong code is.
func (s *Store) Verify(username, code string) error {
	var candidates []model.User

	err := s.DB.Where("username = ?", username).
		Order("created_at DESC").
		Find(&candidates).Error
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		return apperror.NotFound("User not found")
	}

	// Two pending registrations may share a name. Prefer the one this
	// code actually belongs to, otherwise fall back to the newest row.
	user := candidates[0]
	for _, u := range candidates {
		if !u.Verified && u.VerifyCode == code {
			user = u
			break
		}
	}

	if user.Verified {
		return apperror.InvalidCode("Incorrect verification code")
	}

	if user.VerifyCodeExpiresAt.Before(time.Now()) {
		return apperror.Expired("Verification code has expired, please sign up again to get a new code")
	}

	if user.VerifyCode != code {
		return apperror.InvalidCode("Incorrect verification code")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// An active username is never reassigned. Two pending users
		// can race for the same name, so the loser is caught here.
		var active int64

		err := tx.Model(&model.User{}).
			Where("username = ? AND verified = ? AND id <> ?", user.Username, true, user.ID).
			Count(&active).Error
		if err != nil {
			return err
		}

		if active > 0 {
			return apperror.Conflict("Username was claimed while your account was pending, please sign up again")
		}

		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]any{
				"verified":               true,
				"verify_code":            "",
				"verify_code_expires_at": time.Time{},
			}).Error
	})
}

// CheckUsername reports whether a candidate is free to claim. Only
// active users block a name; pending registrations don't reserve it.
func (s *Store) CheckUsername(username string) (available bool, err error) {
	if err := validators.UsernameValidator(username); err != nil {
		return false, apperror.Validation(err.Error())
	}

	taken, err := s.usernameTaken(username)
	if err != nil {
		return false, err
	}

	return !taken, nil
}

// Authenticate resolves an identifier (username or email) and checks
// the password. Unknown identifier and wrong password are reported
// identically so the endpoint can't be used to probe for accounts.
func (s *Store) Authenticate(identifier, password string) (*model.User, error) {
	var user model.User

	err := s.DB.Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("Invalid credentials")
		}

		return nil, err
	}

	ok, err := s.Hasher.Compare(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if !user.Verified {
		return nil, apperror.Forbidden("Please verify your account before signing in")
	}

	return &user, nil
}

// Submit appends an anonymous message to an active user's collection.
func (s *Store) Submit(username, content, category string) error {
	if err := validators.MessageValidator(content); err != nil {
		return apperror.Validation(err.Error())
	}

	var user model.User

	err := s.DB.Where("username = ? AND verified = ?", username, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("User not found")
		}

		return err
	}

	if !user.AcceptingMessages {
		return apperror.Forbidden("User is not accepting messages")
	}

	id, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return err
	}

	return s.DB.Create(&model.Message{
		ID:        id,
		UserID:    user.ID,
		Content:   content,
		Category:  category,
		CreatedAt: time.Now(),
	}).Error
}

// Messages returns the owner's messages newest-first. No messages is
// an empty slice, not an error.
func (s *Store) Messages(userID string) ([]model.Message, error) {
	messages := []model.Message{}

	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (s *Store) Accepting(userID string) (bool, error) {
	var user model.User

	err := s.DB.Select("accepting_messages").
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperror.NotFound("User not found")
		}

		return false, err
	}

	return user.AcceptingMessages, nil
}

// SetAccepting overwrites the accept flag unconditionally. Writing the
// value that is already stored still succeeds.
func (s *Store) SetAccepting(userID string, accepting bool) error {
	r := s.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("accepting_messages", accepting)
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return apperror.NotFound("User not found")
	}

	return nil
}

// DeleteMessage removes one message by id, scoped to its owner. An id
// belonging to someone else looks exactly like a missing one.
func (s *Store) DeleteMessage(userID, messageID string) error {
	r := s.DB.Where("id = ? AND user_id = ?", messageID, userID).
		Delete(&model.Message{})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return apperror.NotFound("Message not found or already deleted")
	}

	return nil
}

func (s *Store) usernameTaken(username string) (bool, error) {
	var count int64

	err := s.DB.Model(&model.User{}).
		Where("username = ? AND verified = ?", username, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
