package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"boutique_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendOrderConfirmation envoie l'e-mail de confirmation de commande.
// Appelé en fire-and-forget après la création: un échec est loggé, il ne
// fait jamais échouer la commande.
func SendOrderConfirmation(order models.Order, to string) error {
	msg := mail.NewMsg()

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "noreply@boutique.local"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Confirmation de votre commande %s", order.Reference))
	msg.SetBodyString(mail.TypeTextHTML, orderConfirmationHTML(order))

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail de confirmation à", to)
	return client.DialAndSend(msg)
}

// orderConfirmationHTML génère le HTML de confirmation de commande
func orderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f€</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f€</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour,</p>
		<p>Votre commande <strong>%s</strong> a bien été enregistrée.</p>

		<h3>Détails de la commande</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>

		<p>Sous-total: %.2f€<br>
		TVA: %.2f€<br>
		Livraison: %.2f€<br>
		<strong>Total: %.2f€</strong></p>

		<p>Adresse de livraison: %s, %s %s, %s</p>
		<p>Merci pour votre confiance.</p>
	</div>
</body>
</html>`,
		order.Reference, itemsHTML,
		order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice,
		order.ShippingAddress.Address, order.ShippingAddress.PostalCode,
		order.ShippingAddress.City, order.ShippingAddress.Country)
}
