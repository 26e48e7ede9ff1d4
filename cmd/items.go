package main

import (
	"fmt"
	"strconv"
	"strings"
)

type itemArg struct {
	productID string
	quantity  int
}

// parseItemArgs reads "<product-id>=<quantity>" arguments; a bare id means
// a quantity of one.
func parseItemArgs(args []string) ([]itemArg, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one <product-id>=<quantity> argument is required")
	}

	items := make([]itemArg, 0, len(args))
	for _, arg := range args {
		id, qty, found := strings.Cut(arg, "=")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("invalid item %q: missing product id", arg)
		}

		quantity := 1
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(qty))
			if err != nil {
				return nil, fmt.Errorf("invalid item %q: quantity must be a whole number", arg)
			}
			quantity = n
		}

		items = append(items, itemArg{productID: id, quantity: quantity})
	}
	return items, nil
}
