package users

import (
	"encoding/json"
	"log"
	"os"

	"gorm.io/gorm"

	authsvc "tutorlink_backend/internals/features/users/auth/service"
	"tutorlink_backend/internals/features/users/user/model"
)

type userSeed struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SeedUsersFromJSON inserts bootstrap accounts (admin plus demo users).
// Accounts whose email already exists are skipped.
func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("[SEED ERROR] read %s: %v", filePath, err)
		return
	}

	var inputs []userSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Printf("[SEED ERROR] decode %s: %v", filePath, err)
		return
	}

	for _, data := range inputs {
		var existing model.User
		if err := db.Where("user_email = ?", data.Email).First(&existing).Error; err == nil {
			continue
		}

		hash, err := authsvc.HashPassword(data.Password)
		if err != nil {
			log.Printf("[SEED ERROR] hash password for %q: %v", data.Email, err)
			continue
		}

		user := model.User{
			UserFullName:     data.FullName,
			UserEmail:        data.Email,
			UserPasswordHash: hash,
			UserRole:         data.Role,
			UserStatus:       model.UserStatusActive,
		}
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			switch data.Role {
			case model.UserRoleStudent:
				return tx.Create(&model.StudentProfile{StudentUserID: user.UserID}).Error
			case model.UserRoleTutor:
				return tx.Create(&model.TutorProfile{
					TutorUserID:        user.UserID,
					TutorProfileStatus: model.TutorStatusApproved,
					TutorIsVerified:    true,
				}).Error
			case model.UserRoleParent:
				return tx.Create(&model.ParentProfile{ParentUserID: user.UserID}).Error
			}
			return nil
		}); err != nil {
			log.Printf("[SEED ERROR] user %q: %v", data.Email, err)
		}
	}

	log.Println("[SEED] bootstrap users in place")
}
