package domain

// OrderRequest represents an order entered by a user
type OrderRequest struct {
	ProductName string  `json:"productName" validate:"required,notblank" example:"Espresso"`
	Price       float64 `json:"price" validate:"min=0" example:"3.5" minimum:"0"`
	Quantity    int64   `json:"quantity" validate:"min=1" example:"2" minimum:"1"`
}

// ToInput converts the request to a repository input
func (r OrderRequest) ToInput() OrderInput {
	return OrderInput{
		ProductName: r.ProductName,
		Price:       r.Price,
		Quantity:    r.Quantity,
	}
}

// SalesMetricRequest represents a query against the sales history mirror
type SalesMetricRequest struct {
	ProductName *string `json:"product_name" example:"Espresso"`
	From        *int64  `json:"from" example:"1732147200"`
	To          *int64  `json:"to" example:"1732233600"`
	GroupBy     *string `json:"group_by" example:"day"` // hour, day, week, month or product
}

// SignUpRequest represents a new account registration
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,max=10" example:"sara"`
	Email    string `json:"email" validate:"required,email" example:"sara@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"s3cret"`
}
