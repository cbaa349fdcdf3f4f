package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/users/auth/model"
)

var ErrOTPInvalid = errors.New("invalid or expired code")

// CodeStore keeps one-time codes in the database instead of process memory,
// so codes survive restarts and multiple instances see the same state.
type CodeStore struct {
	DB  *gorm.DB
	TTL time.Duration
}

func NewCodeStore(db *gorm.DB) *CodeStore {
	return &CodeStore{DB: db, TTL: 10 * time.Minute}
}

// Issue invalidates any previous code for (user, purpose) and stores a new one.
// Returns the plaintext code for delivery; only the hash is persisted.
func (s *CodeStore) Issue(userID uuid.UUID, purpose string) (string, error) {
	code, err := randomCode(6)
	if err != nil {
		return "", err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("otp_user_id = ? AND otp_purpose = ? AND otp_consumed_at IS NULL", userID, purpose).
			Delete(&model.OTPCode{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.OTPCode{
			OTPUserID:    userID,
			OTPCodeHash:  hashCode(code),
			OTPPurpose:   purpose,
			OTPExpiresAt: time.Now().Add(s.TTL),
		}).Error
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes a matching, unexpired code. One shot: a consumed code
// cannot be verified again.
func (s *CodeStore) Verify(userID uuid.UUID, purpose, code string) error {
	now := time.Now()
	res := s.DB.Model(&model.OTPCode{}).
		Where("otp_user_id = ? AND otp_purpose = ? AND otp_code_hash = ? AND otp_consumed_at IS NULL AND otp_expires_at > ?",
			userID, purpose, hashCode(code), now).
		Update("otp_consumed_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOTPInvalid
	}
	return nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func randomCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
