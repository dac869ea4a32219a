package catalog

import (
	"strings"

	"portal_orcamentos/internal/domain/entities"
)

// AllCategories disables the category filter.
const AllCategories = "todas"

var seed = []entities.Product{
	{ID: "P-0001", Code: "BUZ-AFRICANO", Name: "Búzios Africano", Category: "buzios", Color: "Sortido", DefaultUnit: "UN", Description: "Búzios africanos."},
	{ID: "P-0002", Code: "PING-OXALA", Name: "Pingente Oxalá", Category: "pingente", Color: "Prata", DefaultUnit: "UN", Description: "Pingente de Oxalá."},
	{ID: "P-0003", Code: "VIDR-11-0", Name: "Vidrilho 11/0", Category: "vidrilho", Color: "Sortido", DefaultUnit: "UN", Description: "Vidrilho 11/0."},
	{ID: "P-0004", Code: "FIRMA-TORCIDA", Name: "Firma Torcida", Category: "firma", Color: "Sortido", DefaultUnit: "UN", Description: "Firma torcida."},
}

var pixKeys = []entities.PixKey{
	{ID: "pix1", Label: "PIX (Telefone)", Type: "Telefone", Key: "+55 (11) 91234-5678", Bank: "Banco Fictício 999", Holder: "ACME LTDA", Branch: "0001", Account: "12345-6"},
	{ID: "pix2", Label: "PIX (CNPJ)", Type: "CNPJ", Key: "12.345.678/0001-90", Bank: "Banco Demo 123", Holder: "ACME IMPORTS", Branch: "4321", Account: "98765-4"},
}

type Filter struct {
	Term     string
	Category string
}

// Catalog is the read-only product list.
type Catalog struct {
	products []entities.Product
}

func New() *Catalog {
	return NewWithProducts(seed)
}

func NewWithProducts(products []entities.Product) *Catalog {
	cp := make([]entities.Product, len(products))
	copy(cp, products)
	return &Catalog{products: cp}
}

// Search matches the term against name, code and color ignoring case, and the
// category exactly unless it is empty or "todas".
func (c *Catalog) Search(f Filter) []entities.Product {
	term := strings.ToLower(strings.TrimSpace(f.Term))
	cat := strings.ToLower(strings.TrimSpace(f.Category))
	if cat == "" {
		cat = AllCategories
	}

	out := make([]entities.Product, 0, len(c.products))
	for _, p := range c.products {
		text := strings.ToLower(p.Name + " " + p.Code + " " + p.Color)
		if term != "" && !strings.Contains(text, term) {
			continue
		}
		if cat != AllCategories && p.Category != cat {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *Catalog) Get(id string) (entities.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return entities.Product{}, false
}

func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range c.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// PixKeys lists the receiving accounts offered for Pix payments.
func PixKeys() []entities.PixKey {
	out := make([]entities.PixKey, len(pixKeys))
	copy(out, pixKeys)
	return out
}

func FindPixKey(id string) (entities.PixKey, bool) {
	for _, k := range pixKeys {
		if k.ID == id {
			return k, true
		}
	}
	return entities.PixKey{}, false
}
