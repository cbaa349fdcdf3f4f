package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"tutorlink_backend/internals/features/users/auth/model"
)

// StartAuthCleanupScheduler reaps expired blacklist tokens and OTP codes
// once a day. Runs in its own goroutine for the lifetime of the process.
func StartAuthCleanupScheduler(db *gorm.DB) {
	go func() {
		ttlDays := 7
		if val := os.Getenv("TOKEN_BLACKLIST_TTL_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				ttlDays = parsed
			}
		}

		for {
			log.Println("[CLEANUP] reaping token blacklist + otp codes...")

			deleteBefore := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

			var expiredTokens []model.TokenBlacklist
			if err := db.
				Where("expired_at < ? AND deleted_at IS NULL", deleteBefore).
				Limit(100).
				Find(&expiredTokens).Error; err != nil {
				log.Printf("[CLEANUP ERROR] fetch expired tokens: %v", err)
			} else if len(expiredTokens) > 0 {
				if err := db.Delete(&expiredTokens).Error; err != nil {
					log.Printf("[CLEANUP ERROR] delete tokens: %v", err)
				} else {
					log.Printf("[CLEANUP] %d expired tokens removed", len(expiredTokens))
				}
			}

			if err := db.
				Where("otp_expires_at < ? OR otp_consumed_at IS NOT NULL", time.Now().Add(-24*time.Hour)).
				Delete(&model.OTPCode{}).Error; err != nil {
				log.Printf("[CLEANUP ERROR] delete otp codes: %v", err)
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
