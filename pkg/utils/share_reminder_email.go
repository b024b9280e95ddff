package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SendShareReminderEmail mails a member a summary of their unpaid
// expense shares. Invoked by the daily cron job.
func SendShareReminderEmail(to, userName string, totalOwed decimal.Decimal, openShares int) error {
	subject := "Promemoria: hai delle quote da saldare su Expensor"

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="it">
	<head>
	<meta charset="UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>Promemoria quote</title>
	<style>
		body {
			font-family: Arial, sans-serif;
			background-color: #f5f7f6;
			margin: 0;
			padding: 0;
			color: #333333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #0a4d3c;
		}
		.content {
			padding: 20px 18px;
		}
		.amount {
			font-size: 22px;
			font-weight: 700;
			color: #0a4d3c;
		}
	</style>
	</head>
	<body>
		<div class="container">
			<div class="content">
				<p>Ciao <strong>%s</strong>,</p>
				<p>Hai ancora <strong>%d</strong> quote non saldate per un totale di:</p>
				<p class="amount">%s€</p>
				<p>Accedi a Expensor per vedere i dettagli e saldare la tua parte.</p>
			</div>
		</div>
	</body>
	</html>
	`, userName, openShares, totalOwed.StringFixed(2))

	return SendEmail(to, subject, body)
}
