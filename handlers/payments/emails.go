package payments

import (
	"fmt"

	"github.com/pradhanmausumi/zudio-franchise/models"
)

// Email bodies are small enough that sprintf beats pulling in a template
// engine.

func initiatedCustomerEmail(o models.Order) string {
	return fmt.Sprintf(`<h2>Hi %s,</h2>
<p>We have received your Zudio franchise registration request for <b>%s</b>.</p>
<p>Amount payable: <b>₹%d</b></p>
<p>If you have not completed the payment yet, you can do so here: <a href="%s">%s</a></p>
<p>Your reference number is <b>%s</b>.</p>`,
		o.Customer.Name, o.Purpose, o.Amount, o.LongURL, o.LongURL, o.OrderID)
}

func initiatedAdminEmail(o models.Order) string {
	return fmt.Sprintf(`<h3>New franchise payment initiated</h3>
<ul>
<li>Order: %s</li>
<li>Name: %s</li>
<li>Email: %s</li>
<li>Phone: %s</li>
<li>City: %s</li>
<li>Package: %s</li>
<li>Amount: ₹%d</li>
</ul>`,
		o.OrderID, o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		o.Customer.City, o.Customer.PackageType, o.Amount)
}

func completedCustomerEmail(o models.Order) string {
	return fmt.Sprintf(`<h2>Thank you, %s!</h2>
<p>Your payment of <b>₹%d</b> for <b>%s</b> has been received.</p>
<p>Payment id: %s<br>Reference: %s</p>
<p>Our franchise team will contact you within 2 working days.</p>`,
		o.Customer.Name, o.Amount, o.Purpose, o.PaymentID, o.OrderID)
}

func completedAdminEmail(o models.Order) string {
	return fmt.Sprintf(`<h3>Franchise payment received</h3>
<ul>
<li>Order: %s</li>
<li>Payment: %s</li>
<li>Name: %s (%s, %s)</li>
<li>City: %s</li>
<li>Amount: ₹%d</li>
</ul>`,
		o.OrderID, o.PaymentID, o.Customer.Name, o.Customer.Email,
		o.Customer.Phone, o.Customer.City, o.Amount)
}
