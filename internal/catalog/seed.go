package catalog

// SeedProducts returns the demo catalog. Ids are left empty and assigned by
// NewMemStore.
func SeedProducts() []Product {
	return []Product{
		{Name: "Laptop Pro", Description: "High-performance laptop for professionals.", Price: 1500.00, Category: "Electronics", InStock: true},
		{Name: "Wireless Mouse X", Description: "Ergonomic wireless mouse with customizable buttons.", Price: 45.00, Category: "Accessories", InStock: true},
		{Name: "Mechanical Keyboard RGB", Description: "Full-size mechanical keyboard with per-key RGB lighting.", Price: 120.00, Category: "Accessories", InStock: false},
		{Name: "USB-C Hub", Description: "Multi-port USB-C adapter for modern laptops.", Price: 35.00, Category: "Accessories", InStock: true},
		{Name: "Smartphone Z", Description: "Latest generation smartphone with advanced camera.", Price: 999.00, Category: "Electronics", InStock: true},
		{Name: "Bluetooth Headphones", Description: "Over-ear headphones with noise cancellation.", Price: 199.00, Category: "Audio", InStock: true},
		{Name: "Smart Watch", Description: "Fitness tracker and smartwatch combined.", Price: 250.00, Category: "Wearables", InStock: false},
	}
}
