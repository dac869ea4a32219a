package entities

// Product is a catalog entry. Prices are negotiated per quote, so none is stored here.
type Product struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Color       string `json:"color"`
	DefaultUnit string `json:"default_unit"`
	Photo       string `json:"photo"`
	Description string `json:"description"`
}

// Units accepted for line items.
var Units = []string{"UN", "KG", "PC", "CJ", "M", "L"}

func ValidUnit(u string) bool {
	for _, v := range Units {
		if v == u {
			return true
		}
	}
	return false
}

// Cart is the customer's pending selection before finalizing a quote.
type Cart struct {
	UserID string     `json:"user_id"`
	Items  []LineItem `json:"items"`
}
