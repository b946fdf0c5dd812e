// Maintenance script for submissions left inconsistent by the retired
// behavior that auto-advanced status when a review completed. Submissions can
// sit in SUBMITTED while already carrying reviewer activity; this moves them
// to UNDER_REVIEW with an attributed history entry.
// cmd/repair-review-status/main.go
package main

import (
	"flag"
	"log"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "print affected submissions without writing")
	systemUserID := flag.Uint("actor", 0, "user id to attribute history entries to (required unless dry-run)")
	flag.Parse()

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database
	config.InitDB(cfg)

	if !*dryRun && *systemUserID == 0 {
		log.Fatal("-actor is required when not running with -dry-run")
	}

	// Submissions still SUBMITTED although reviewer invitations already exist.
	var stuck []models.Submission
	err = config.DB.
		Where("status = ? AND deleted_at IS NULL", models.StatusSubmitted).
		Where("submission_id IN (?)",
			config.DB.Model(&models.Review{}).Select("submission_id")).
		Find(&stuck).Error
	if err != nil {
		log.Fatal("Failed to query submissions:", err)
	}

	if len(stuck) == 0 {
		log.Println("No inconsistent submissions found")
		return
	}

	repaired := 0
	for _, submission := range stuck {
		if *dryRun {
			log.Printf("Would repair %s (id %d): SUBMITTED -> UNDER_REVIEW\n",
				submission.SubmissionNumber, submission.SubmissionID)
			continue
		}

		now := time.Now()
		oldStatus := submission.Status
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.Submission{}).
				Where("submission_id = ? AND version = ?", submission.SubmissionID, submission.Version).
				Updates(map[string]interface{}{
					"status":     models.StatusUnderReview,
					"version":    submission.Version + 1,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				log.Printf("Skipping %s: modified concurrently\n", submission.SubmissionNumber)
				return nil
			}

			comment := "Repaired by maintenance script: status left behind by retired auto-advance behavior"
			return tx.Create(&models.DecisionHistory{
				SubmissionID: submission.SubmissionID,
				OldStatus:    &oldStatus,
				NewStatus:    models.StatusUnderReview,
				ChangedBy:    *systemUserID,
				Comments:     &comment,
				CreatedAt:    now,
			}).Error
		})
		if err != nil {
			log.Printf("Failed to repair %s: %v\n", submission.SubmissionNumber, err)
			continue
		}

		log.Printf("Repaired %s (id %d)\n", submission.SubmissionNumber, submission.SubmissionID)
		repaired++
	}

	log.Printf("Done: %d of %d submissions repaired\n", repaired, len(stuck))
}
