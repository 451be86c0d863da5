package catalog

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// ProductPatch holds the fields a client supplied. Nil means absent.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *bool
}

// apply merges the present fields over p. The id is never touched.
func (pp ProductPatch) apply(p Product) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.InStock != nil {
		p.InStock = *pp.InStock
	}
	return p
}

type ListQuery struct {
	Category string
	Page     int
	Limit    int
}

type Page struct {
	Page          int       `json:"page"`
	Limit         int       `json:"limit"`
	TotalProducts int       `json:"totalProducts"`
	TotalPages    int       `json:"totalPages"`
	Data          []Product `json:"data"`
}

type Stats struct {
	TotalProducts   int            `json:"totalProducts"`
	TotalCategories int            `json:"totalCategories"`
	CountByCategory map[string]int `json:"countByCategory"`
	TotalInStock    int            `json:"totalInStock"`
	TotalOutOfStock int            `json:"totalOutOfStock"`
	AveragePrice    float64        `json:"averagePrice"`
}
