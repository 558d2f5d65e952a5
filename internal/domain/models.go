package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Remote document collections. The backend keys every record by a string
// identifier inside one of these collections.
const (
	CollectionProducts    = "productos"
	CollectionCategories  = "categorias"
	CollectionUsers       = "usuarios"
	CollectionCredentials = "credenciales"
)

// Product is an inventory item. The JSON field names are the wire format of
// the backend documents and of the locally persisted cart, so they must not
// change.
type Product struct {
	ID          string   `json:"idProduct"`
	Name        string   `json:"nombre"`
	CostPrice   float64  `json:"precioC"`
	SalePrice   float64  `json:"precioV"`
	PromoPrice  float64  `json:"precioPromocion"`
	Description string   `json:"descripcion"`
	Stock       int      `json:"stock"`
	Images      []string `json:"image"`
	CreatedAt   string   `json:"fechaCreacion"`
	CategoryID  string   `json:"idCategory"`
}

type Category struct {
	ID          string `json:"idCategory"`
	Name        string `json:"nombreCategory"`
	Description string `json:"descripcionCategory"`
	ImageURL    string `json:"imagenCategoria"`
}

// CartLine pairs a product with a positive quantity. At most one line per
// product identifier exists within a cart.
type CartLine struct {
	Product  Product `json:"producto"`
	Quantity int     `json:"cantidad"`
}

func (l CartLine) Subtotal() float64 {
	return l.Product.SalePrice * float64(l.Quantity)
}

// User is the profile document stored in the "usuarios" collection. It is
// used for display and greeting purposes only; credentials are kept by the
// auth adapter in its own collection and never appear here.
type User struct {
	ID      string `json:"idUser"`
	Name    string `json:"nombre"`
	Surname string `json:"apellido"`
	Gender  string `json:"genero"`
	Email   string `json:"email"`
}

// ErrValidation marks input rejected before any remote call is attempted.
var ErrValidation = errors.New("validation failed")

type ProductInput struct {
	Name        string
	Description string
	CostPrice   float64
	SalePrice   float64
	PromoPrice  float64
	Stock       int
	CategoryID  string
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: el nombre del producto es obligatorio", ErrValidation)
	}
	if in.SalePrice <= 0 {
		return fmt.Errorf("%w: el precio de venta debe ser mayor a 0", ErrValidation)
	}
	if in.CostPrice < 0 || in.PromoPrice < 0 {
		return fmt.Errorf("%w: los precios no pueden ser negativos", ErrValidation)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: el stock no puede ser negativo", ErrValidation)
	}
	return nil
}

type CategoryInput struct {
	Name        string
	Description string
}

func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: el nombre de la categoría es obligatorio", ErrValidation)
	}
	return nil
}
