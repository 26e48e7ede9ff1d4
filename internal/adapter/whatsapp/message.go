// Package whatsapp renders orders as chat messages and builds click-to-chat
// links for them.
package whatsapp

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/ordertaker/internal/domain"
)

const separator = "━━━━━━━━━━━━━━━━━━"

// Store identifies the shop the message is sent on behalf of.
type Store struct {
	Name  string
	Phone string
}

// FormatOrder renders order in the fixed customer message layout. The output
// depends only on its arguments.
func FormatOrder(order *domain.Order, store Store) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📦 *%s*\n", store.Name)
	fmt.Fprintf(&b, "Order ID: %s\n", order.ID)
	b.WriteString(separator + "\n\n")

	b.WriteString("📝 *Items:*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s\n", item.ProductName)
		fmt.Fprintf(&b, "  Qty: %d × %s = %s\n", item.Quantity, money(item.UnitPrice), money(item.Subtotal))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "💰 *Total: %s*\n", money(order.TotalAmount))
	fmt.Fprintf(&b, "📊 Payment: %s\n\n", paymentLabel(order.PaymentStatus))

	if order.DeliveryMethod == domain.DeliveryMethodPickup {
		b.WriteString("🏪 *Pickup Details:*\n")
		fmt.Fprintf(&b, "📍 Location: %s\n", store.Name)
		fmt.Fprintf(&b, "🕐 Time: %s\n", order.PickupTime)
	} else {
		b.WriteString("🚚 *Delivery Details:*\n")
		fmt.Fprintf(&b, "📍 Address: %s\n", order.DeliveryAddress)
		if order.DeliveryLandmark != "" {
			fmt.Fprintf(&b, "🗺️ Landmark: %s\n", order.DeliveryLandmark)
		}
	}

	if order.SpecialNotes != "" {
		b.WriteString("\n📌 *Special Notes:*\n")
		b.WriteString(order.SpecialNotes + "\n")
	}

	b.WriteString("\n" + separator + "\n")
	b.WriteString("Thank you for your order! 🙏")

	return b.String()
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func paymentLabel(s domain.PaymentStatus) string {
	if s == domain.PaymentStatusPaid {
		return "✅ Paid"
	}
	return "⏳ Not Paid"
}
