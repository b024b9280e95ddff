package utils

import "fmt"

// SendMemberAddedEmail notifies a user that a group admin added them to
// a shared-expense group.
func SendMemberAddedEmail(to, userName, adminName, adminEmail, groupName, groupLink string) error {
	subject := fmt.Sprintf("Sei stato aggiunto al gruppo: %s 🎉", groupName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="it">
	<head>
	<meta charset="UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>Benvenuto nel gruppo</title>
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
			border-top: 5px solid #4CAF50;
		}
		.content {
			padding: 20px 18px;
		}
		.button {
			display: inline-block;
			background-color: #4CAF50;
			color: #ffffff;
			padding: 10px 20px;
			text-decoration: none;
			border-radius: 5px;
		}
		.footer {
			font-size: 0.8rem;
			color: #999999;
			padding: 0 18px 20px;
		}
	</style>
	</head>
	<body>
		<div class="container">
			<div class="content">
				<h2 style="color:#4CAF50;">Benvenuto nel gruppo!</h2>
				<p>Ciao <strong>%s</strong>,</p>
				<p>Sei stato aggiunto con successo al gruppo di spesa <strong>"%s"</strong> da %s (%s) su Expensor.</p>
				<p>Accedi subito per vedere le spese e aggiungere la tua parte.</p>
				<br/>
				<a class="button" href="%s">Vai al Gruppo</a>
			</div>
			<p class="footer">Se pensi sia un errore, contatta l'amministratore del gruppo.</p>
		</div>
	</body>
	</html>
	`, userName, groupName, adminName, adminEmail, groupLink)

	return SendEmail(to, subject, body)
}
