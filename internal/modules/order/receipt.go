package order

import (
	"fmt"
	"html"
	"strings"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/mail"
)

func receiptMessage(u *user.User, o *Order) *mail.Message {
	var rows strings.Builder
	for _, item := range o.Items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(item.Name), item.Quantity, pesos(item.UnitPrice), pesos(item.LineTotal))
	}

	body := fmt.Sprintf(`
		<h2>¡Gracias por tu compra, %s!</h2>
		<p>Referencia: %s</p>
		<table>
		<tr><th>Producto</th><th>Cantidad</th><th>Precio</th><th>Subtotal</th></tr>
		%s</table>
		<p><strong>Total: %s</strong></p>
		<p>LimpioHogar</p>
	`, html.EscapeString(u.Name), o.Reference, rows.String(), pesos(o.Total))

	return &mail.Message{
		To:      u.Email,
		Subject: fmt.Sprintf("Tu boleta LimpioHogar %s", o.Reference.String()[:8]),
		HTML:    body,
	}
}

// pesos formats whole pesos with dot thousands separators, e.g. $12.990.
func pesos(v int64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	digits := fmt.Sprintf("%d", v)
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return sign + "$" + b.String()
}
