package catalog

import (
	"encoding/json"
	"log"
	"os"

	"gorm.io/gorm"

	"tutorlink_backend/internals/features/catalog/model"
)

type catalogSeed struct {
	Subjects        []string `json:"subjects"`
	EducationLevels []string `json:"education_levels"`
}

// SeedCatalogFromJSON inserts any subjects and education levels missing from
// the reference tables. Existing rows are left untouched.
func SeedCatalogFromJSON(db *gorm.DB, filePath string) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("[SEED ERROR] read %s: %v", filePath, err)
		return
	}

	var data catalogSeed
	if err := json.Unmarshal(file, &data); err != nil {
		log.Printf("[SEED ERROR] decode %s: %v", filePath, err)
		return
	}

	for _, name := range data.Subjects {
		var existing model.Subject
		if err := db.Where("subject_name = ?", name).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&model.Subject{SubjectName: name, SubjectIsActive: true}).Error; err != nil {
			log.Printf("[SEED ERROR] subject %q: %v", name, err)
		}
	}

	for _, name := range data.EducationLevels {
		var existing model.EducationLevel
		if err := db.Where("education_level_name = ?", name).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&model.EducationLevel{EducationLevelName: name, EducationLevelIsActive: true}).Error; err != nil {
			log.Printf("[SEED ERROR] education level %q: %v", name, err)
		}
	}

	log.Println("[SEED] catalog reference data in place")
}
