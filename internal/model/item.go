package model

// DefaultTax is applied to items created without an explicit tax rate.
const DefaultTax = 0.1

type Item struct {
	ID    int     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name  string  `json:"name" gorm:"not null;index"`
	Price float64 `json:"price" gorm:"not null"`
	Tax   float64 `json:"tax" gorm:"not null"`
}

type ItemCreate struct {
	Name  *string  `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"required"`
	Tax   *float64 `json:"tax" validate:"omitempty,gte=0"`
}

// Item builds the stored representation. The id is assigned by the backend.
func (c ItemCreate) Item() Item {
	item := Item{Tax: DefaultTax}

	if c.Name != nil {
		item.Name = *c.Name
	}

	if c.Price != nil {
		item.Price = *c.Price
	}

	if c.Tax != nil {
		item.Tax = *c.Tax
	}

	return item
}
