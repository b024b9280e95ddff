package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"expensor/pkg/utils"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs daily at midnight — remind users with open shares
	_, err := c.AddFunc("0 0 * * *", func() {
		err := SendShareReminders(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send share reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule share reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (share reminders daily at midnight)")
	return c
}

// SendShareReminders mails every user holding unpaid shares a summary
// of the total they still owe. Email sends run concurrently; failures
// are logged and never abort the batch.
func SendShareReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT
			u.email,
			u.name,
			SUM(s.share_amount) AS total_owed,
			COUNT(*) AS open_shares
		FROM group_expense_shares s
		JOIN users u ON s.user_id = u.microsoft_id
		WHERE s.paid = FALSE
		GROUP BY u.microsoft_id
		HAVING SUM(s.share_amount) > 0
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for rows.Next() {
		var (
			email, name string
			totalOwed   decimal.Decimal
			openShares  int
		)

		if err := rows.Scan(&email, &name, &totalOwed, &openShares); err != nil {
			utils.Logger.Errorf("Failed to scan reminder row: %v", err)
			continue
		}

		wg.Add(1)
		go func(email, name string, totalOwed decimal.Decimal, openShares int) {
			defer wg.Done()

			if err := utils.SendShareReminderEmail(email, name, totalOwed, openShares); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", email, err)
				return
			}

			utils.Logger.Infof("Sent reminder to %s (%s) — %s€ across %d open shares",
				name, email, totalOwed.StringFixed(2), openShares)
		}(email, name, totalOwed, openShares)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating reminder rows: %v", err)
		return err
	}

	utils.Logger.Info("Finished sending share reminder emails.")
	return nil
}
