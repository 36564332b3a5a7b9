package models

import (
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	CategoryAll       = "all"
	CategoryConsoles  = "consoles"
	CategoryGiftCards = "gift-cards"

	SpecFeaturesKey = "features"
)

// Product is the canonical catalog record handed to storefront callers,
// whichever source it was read from.
type Product struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Category       string         `json:"category"`
	Price          int64          `json:"price"`
	Image          string         `json:"image"`
	Images         []string       `json:"images"`
	Description    string         `json:"description"`
	Rating         float64        `json:"rating"`
	InStock        bool           `json:"inStock"`
	Featured       bool           `json:"featured"`
	Specifications Specifications `json:"specifications"`
}

// Clone returns a copy that shares no slices or maps with p.
func (p Product) Clone() Product {
	out := p
	if p.Images != nil {
		out.Images = slices.Clone(p.Images)
	}
	out.Specifications = p.Specifications.Clone()
	return out
}

// Specifications maps attribute names to display strings. The optional "features"
// entry holds a []string.
type Specifications map[string]any

func (s Specifications) Features() []string {
	features, _ := s[SpecFeaturesKey].([]string)
	return features
}

func (s Specifications) Clone() Specifications {
	if s == nil {
		return nil
	}
	out := make(Specifications, len(s))
	for k, v := range s {
		if list, ok := v.([]string); ok {
			v = slices.Clone(list)
		}
		out[k] = v
	}
	return out
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var Categories = []Category{
	{ID: CategoryAll, Name: "All Products"},
	{ID: CategoryConsoles, Name: "Gaming Consoles"},
	{ID: CategoryGiftCards, Name: "Gift Cards"},
}

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a catalog price the way the storefront displays it, e.g. "JMD 89,999".
func FormatPrice(price int64) string {
	return pricePrinter.Sprintf("JMD %d", price)
}
