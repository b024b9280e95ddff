package utils

import "fmt"

// SendMemberRemovedEmail notifies a user that the group admin removed
// them from a shared-expense group.
func SendMemberRemovedEmail(to, userName, adminName, adminEmail, groupName string) error {
	subject := fmt.Sprintf("‼️ Sei stato espulso dal gruppo: %s ‼️", groupName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="it">
	<head>
	<meta charset="UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>Espulsione dal gruppo</title>
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
			border-top: 5px solid #c0392b;
		}
		.content {
			padding: 20px 18px;
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
				<h2 style="color:#c0392b;">ATTENZIONE!</h2>
				<p>Ciao <strong>%s</strong>,</p>
				<p>Questa mail automatica ti è stata inviata per avvisarti della tua espulsione dal gruppo <strong>"%s"</strong> su Expensor.</p>
				<p>La decisione della tua espulsione è a carico di %s (%s).</p>
			</div>
			<p class="footer">Se pensi sia un errore, contatta l'amministratore del gruppo.</p>
		</div>
	</body>
	</html>
	`, userName, groupName, adminName, adminEmail)

	return SendEmail(to, subject, body)
}
