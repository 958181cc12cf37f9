package restock

import (
	"sort"

	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/example/bazaarlink/internal/readmodel"
)

// minSuggestedRestock is the floor for any suggestion, so a slow mover still
// gets a sensible reorder quantity.
const minSuggestedRestock = 10

const noRestockMessage = "No restock needed currently."

// Suggestion proposes a restock quantity for one low product
type Suggestion struct {
	ProductID        string `json:"product_id"`
	Name             string `json:"name"`
	CurrentStock     int    `json:"current_stock"`
	OrderedQuantity  int    `json:"ordered_quantity"`
	SuggestedRestock int    `json:"suggested_restock"`
}

// Prediction is the result of a restock scan. Either Suggestions or Message
// is set, never both.
type Prediction struct {
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	Message     string       `json:"message,omitempty"`
}

// Predictor derives restock suggestions from a supplier's catalog and its
// historical order volume, both read from the projected read models.
type Predictor struct {
	readStore store.ReadStoreInterface
}

func NewPredictor(rs store.ReadStoreInterface) *Predictor {
	return &Predictor{readStore: rs}
}

// Predict scans the supplier's products and suggests a restock quantity for
// every product at or below its low-stock threshold. The suggestion covers
// the historical ordered quantity not met by current stock, floored at
// minSuggestedRestock.
func (p *Predictor) Predict(supplierID string) (*Prediction, error) {
	items, err := p.readStore.GetAll(store.CollectionProducts)
	if err != nil {
		return nil, err
	}

	var products []*readmodel.ProductReadModel
	for _, item := range items {
		prod, ok := item.(*readmodel.ProductReadModel)
		if !ok || prod.SupplierID != supplierID {
			continue
		}
		products = append(products, prod)
	}
	// Creation order keeps the output deterministic
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})

	ordered, err := p.orderedQuantities(supplierID)
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	for _, prod := range products {
		if prod.Stock > prod.LowStockThreshold {
			continue
		}
		suggested := ordered[prod.ID] - prod.Stock
		if suggested < minSuggestedRestock {
			suggested = minSuggestedRestock
		}
		suggestions = append(suggestions, Suggestion{
			ProductID:        prod.ID,
			Name:             prod.Name,
			CurrentStock:     prod.Stock,
			OrderedQuantity:  ordered[prod.ID],
			SuggestedRestock: suggested,
		})
	}

	if len(suggestions) == 0 {
		return &Prediction{Message: noRestockMessage}, nil
	}
	return &Prediction{Suggestions: suggestions}, nil
}

// orderedQuantities sums historical demand per product across all of the
// supplier's orders, whatever their status.
func (p *Predictor) orderedQuantities(supplierID string) (map[string]int, error) {
	items, err := p.readStore.GetAll(store.CollectionOrders)
	if err != nil {
		return nil, err
	}

	ordered := make(map[string]int)
	for _, item := range items {
		o, ok := item.(*readmodel.OrderReadModel)
		if !ok || o.SupplierID != supplierID {
			continue
		}
		for _, line := range o.Items {
			ordered[line.ProductID] += line.Quantity
		}
	}
	return ordered, nil
}
