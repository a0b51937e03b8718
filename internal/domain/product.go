package domain

const KindProduct = "product"

// Product is plain catalog data; required-field checks live at the API
// boundary.
type Product struct {
	Base
	Name            string
	CountryOfOrigin string
	Calories        float64
	Flavor          string
}

func (*Product) EntityKind() string { return KindProduct }

func (*Product) Children() []Collection { return nil }
