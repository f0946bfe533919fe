package mapper

import (
	"strconv"

	"invoicer/pkg/models"
)

// ItemPrefixes are the column prefixes of a line item block. The block at
// index n uses the columns "<Product>n", "<Amount>n" and "<Price>n".
type ItemPrefixes struct {
	Product string
	Amount  string
	Price   string
}

// DefaultItemPrefixes matches the Orders tab layout ("Product 1", "Amount 1", "Price 1", ...)
var DefaultItemPrefixes = ItemPrefixes{
	Product: "Product ",
	Amount:  "Amount ",
	Price:   "Price ",
}

// ExtractItems scans the item blocks of an order row starting at index 1.
// The first block with all three cells blank ends the list. A block with only
// some cells blank fails with IncompleteItemError.
func ExtractItems(row *models.Row, prefixes ItemPrefixes) ([]models.LineItem, error) {
	var items []models.LineItem

	for index := 1; ; index++ {
		suffix := strconv.Itoa(index)
		item := models.LineItem{
			ProductID: row.Get(prefixes.Product + suffix),
			Amount:    row.Get(prefixes.Amount + suffix),
			UnitPrice: row.Get(prefixes.Price + suffix),
		}

		blank := 0
		for _, v := range []string{item.ProductID, item.Amount, item.UnitPrice} {
			if v == "" {
				blank++
			}
		}

		switch blank {
		case 3:
			return items, nil
		case 0:
			items = append(items, item)
		default:
			return nil, &IncompleteItemError{
				Row:       row.Index,
				Index:     index,
				ProductID: item.ProductID,
				Amount:    item.Amount,
				Price:     item.UnitPrice,
			}
		}
	}
}
