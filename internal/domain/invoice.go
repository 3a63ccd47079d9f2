package domain

// LineItem is one charge or penalty on a return invoice.
type LineItem struct {
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
}

type Invoice struct {
	Items []LineItem `json:"items"`
}

func (inv *Invoice) TotalCents() int64 {
	var total int64
	for _, item := range inv.Items {
		total += item.AmountCents
	}
	return total
}

// InvoiceBuilder collects line items while a return is being settled.
type InvoiceBuilder struct {
	items []LineItem
}

func NewInvoiceBuilder() *InvoiceBuilder {
	return &InvoiceBuilder{}
}

func (b *InvoiceBuilder) AddItem(description string, amountCents int64) *InvoiceBuilder {
	b.items = append(b.items, LineItem{Description: description, AmountCents: amountCents})
	return b
}

func (b *InvoiceBuilder) Build() *Invoice {
	return &Invoice{Items: b.items}
}
