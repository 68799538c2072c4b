package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/anjiri1684/school_cbt/models"
	"gorm.io/gorm"
)

const admissionNumberDigits = 6

// GenerateUniqueAdmissionNumber returns an unused number like "STU/2026/048213".
func GenerateUniqueAdmissionNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	year := time.Now().Year()

	for {
		number := fmt.Sprintf("STU/%d/%0*d", year, admissionNumberDigits, seededRand.Intn(1_000_000))

		var count int64
		if err := tx.Model(&models.User{}).Where("admission_number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
}
