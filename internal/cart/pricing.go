package cart

// ShippingFee is the flat delivery charge applied to every order.
const ShippingFee int64 = 29000

// Totals is the price breakdown for a cart.
type Totals struct {
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shippingCost"`
	Total        int64 `json:"total"`
}

// TotalsFor sums the cart lines and adds the flat shipping fee.
// An empty cart still carries the fee, matching what checkout charges.
func TotalsFor(items []LineItem) Totals {
	var subtotal int64
	for _, li := range items {
		subtotal += li.UnitPrice * int64(li.Quantity)
	}
	return Totals{
		Subtotal:     subtotal,
		ShippingCost: ShippingFee,
		Total:        subtotal + ShippingFee,
	}
}
