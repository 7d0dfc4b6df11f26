package application

import (
	"bytes"
	"html/template"

	"bookhub/internal/service/notification/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const confirmationSubject = "Your BookHub order is ready for pickup"

var confirmationTemplate = template.Must(template.New("order-confirmation").Funcs(template.FuncMap{
	"percent": func(rate decimal.Decimal) string { return rate.Shift(2).String() + "%" },
	"money":   func(d decimal.Decimal) string { return d.StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Hi {{.UserName}},</h2>
  <p>Thank you for your order. Present the claim code below at the store counter to collect your books.</p>
  <p style="font-size: 20px;"><strong>Claim code: {{.ClaimCode}}</strong></p>
  {{- if .Items}}
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><th align="left">Title</th><th>Qty</th><th align="right">Unit price</th></tr>
    {{- range .Items}}
    <tr><td>{{.Title}}</td><td align="center">{{.Quantity}}</td><td align="right">{{money .PricePerUnit}}</td></tr>
    {{- end}}
  </table>
  {{- end}}
  {{- if .DiscountRate.IsPositive}}
  <p>Discount applied: {{percent .DiscountRate}}</p>
  {{- end}}
  <p>Total amount: <strong>{{money .FinalAmount}}</strong></p>
  <p>Order reference: {{.OrderID}}</p>
</body>
</html>
`))

// RenderConfirmation 生成下单确认邮件。
func RenderConfirmation(c *domain.OrderConfirmation) (*domain.Email, error) {
	if c.Email == "" || c.ClaimCode == "" {
		return nil, domain.ErrInvalidConfirmation
	}
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, c); err != nil {
		return nil, errors.Wrap(err, "failed to render confirmation email")
	}
	return &domain.Email{To: c.Email, Subject: confirmationSubject, HTML: buf.String()}, nil
}
