package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Draft is the order being assembled in the current session. It owns the
// selected product and the line items until checkout.
type Draft struct {
	selected *Product
	items    []OrderItem
}

func NewDraft() *Draft {
	return &Draft{}
}

// Select makes p the product the next Add applies to.
func (d *Draft) Select(p Product) {
	d.selected = &p
}

// Selected returns the currently selected product, if any.
func (d *Draft) Selected() (Product, bool) {
	if d.selected == nil {
		return Product{}, false
	}
	return *d.selected, true
}

// ValidateQuantity checks qty against the selected product's stock.
func (d *Draft) ValidateQuantity(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if d.selected == nil {
		return ErrNoProductSelected
	}
	if qty > d.selected.AvailableQuantity {
		return fmt.Errorf("%w: only %d in stock", ErrInsufficientStock, d.selected.AvailableQuantity)
	}
	return nil
}

// Add appends qty units of the selected product and clears the selection.
func (d *Draft) Add(qty int) (OrderItem, error) {
	if err := d.ValidateQuantity(qty); err != nil {
		return OrderItem{}, err
	}

	item := NewOrderItem(*d.selected, qty)
	d.items = append(d.items, item)
	d.selected = nil

	return item, nil
}

// Remove deletes the line at index.
func (d *Draft) Remove(index int) error {
	if index < 0 || index >= len(d.items) {
		return fmt.Errorf("%w: index %d", ErrItemNotFound, index)
	}
	d.items = append(d.items[:index], d.items[index+1:]...)
	return nil
}

// Items returns a copy of the current lines in the order they were added.
func (d *Draft) Items() []OrderItem {
	return append([]OrderItem(nil), d.items...)
}

func (d *Draft) Len() int {
	return len(d.items)
}

// Total is the sum of the current line subtotals.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// Reset empties the draft after a successful checkout.
func (d *Draft) Reset() {
	d.selected = nil
	d.items = nil
}
