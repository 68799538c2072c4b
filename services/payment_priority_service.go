package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anjiri1684/school_cbt/models"
	"gorm.io/gorm"
)

type PriorityItemInput struct {
	FeeName        string `json:"fee_name" validate:"required,max=100"`
	PriorityNumber *int   `json:"priority_number" validate:"required"`
}

func orderedPriorityItems(tx *gorm.DB) *gorm.DB {
	return tx.Preload("PriorityOrder", func(db *gorm.DB) *gorm.DB {
		return db.Order("priority_number asc").Order("created_at asc")
	})
}

// SetPaymentPriority replaces the whole priority list. Duplicate or gapped
// priority numbers are stored as given.
func SetPaymentPriority(ctx context.Context, items []PriorityItemInput) (models.PaymentPriority, error) {
	var priority models.PaymentPriority

	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Order("created_at asc").First(&priority).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&priority).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Where("payment_priority_id = ?", priority.ID).Delete(&models.PaymentPriorityItem{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&priority).Update("updated_at", now()).Error; err != nil {
				return err
			}
		}

		order := make([]models.PaymentPriorityItem, 0, len(items))
		for _, item := range items {
			order = append(order, models.PaymentPriorityItem{
				PaymentPriorityID: priority.ID,
				FeeName:           strings.TrimSpace(item.FeeName),
				PriorityNumber:    *item.PriorityNumber,
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return orderedPriorityItems(tx).First(&priority, "id = ?", priority.ID).Error
	})
	return priority, err
}

func FetchPaymentPriority(ctx context.Context) (models.PaymentPriority, error) {
	var priority models.PaymentPriority
	err := orderedPriorityItems(db(ctx)).Order("created_at asc").First(&priority).Error
	if err != nil {
		return priority, notFoundAs(err, "No payment priority has been set.")
	}
	return priority, nil
}
