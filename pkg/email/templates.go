package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/akinalp/masala/models"
)

var orderConfirmationTmpl = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
  <h2 style="color:#2C7A52;">Order Confirmation – {{.OrderID}}</h2>
  <p>Thank you for your order with <strong>Mehta Masala Gruh Udhyog</strong>.</p>

  <h3>Customer Details</h3>
  <p>
    <strong>Name:</strong> {{.Name}}<br/>
    <strong>Email:</strong> {{or .Email "-"}}<br/>
    <strong>Phone:</strong> {{.Phone}}<br/>
    <strong>Address:</strong> {{.Address}}, {{.City}} - {{.Pincode}}
  </p>

  <h3>Payment Details</h3>
  <p>
    <strong>Method:</strong> {{.PaymentMethod}}<br/>
    <strong>Status:</strong> {{.PaymentStatus}}<br/>
    <strong>Razorpay Order ID:</strong> {{or .RazorpayOrderID "-"}}<br/>
    <strong>Razorpay Payment ID:</strong> {{or .RazorpayPaymentID "-"}}
  </p>

  <h3>Order Items</h3>
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr style="background:#f2f2f2;">
      <th>Item</th><th>Qty</th><th>Price (₹)</th><th>Weight</th>
    </tr>
    {{- range .Items}}
    <tr>
      <td>{{.Name}}</td><td>{{.Quantity}}</td><td>₹{{.Price.String}}</td><td>{{.Weight}}</td>
    </tr>
    {{- end}}
  </table>

  <h3>Total Amount: ₹{{.Total.String}}</h3>

  <p style="margin-top:20px; font-size:13px; color:#555;">
    A CSV copy of this order is attached for your records.
  </p>
  <hr/>
  <p style="font-size:12px; color:#777;">
    Mehta Masala Gruh Udhyog<br/>
    Ujjain, Madhya Pradesh
  </p>
</body>
</html>`))

var contactNotificationTmpl = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial; padding: 20px;">
  <h2 style="color:#2C7A52;">New Contact Form Message</h2>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>Message:</strong><br>{{.Message}}</p>
  <hr>
  <p style="color:#777;font-size:13px;">Submitted via Mehta Masala Website.</p>
</body>
</html>`))

func renderOrderConfirmation(o *models.Order) (string, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, o); err != nil {
		return "", fmt.Errorf("failed to render order email: %w", err)
	}
	return buf.String(), nil
}

func renderContactNotification(m *models.ContactMessage) (string, error) {
	var buf bytes.Buffer
	if err := contactNotificationTmpl.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("failed to render contact email: %w", err)
	}
	return buf.String(), nil
}
