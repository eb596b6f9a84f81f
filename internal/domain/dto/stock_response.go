package dto

import "github.com/Ryan-Dante/stock-price-checker/internal/domain/models"

// StockData is the JSON shape of one ticker inside the stockData payload.
//
// The single-ticker and two-ticker responses expose different fields:
// absolute likes for one ticker, relative likes for a pair. This asymmetry is
// part of the API contract, so exactly one of Likes/RelLikes is ever set.
//
// swagger:model StockData
type StockData struct {
	Stock    string  `json:"stock" example:"GOOG"`
	Price    float64 `json:"price" example:"172.34"`
	Likes    *int64  `json:"likes,omitempty" example:"3"`
	RelLikes *int64  `json:"rel_likes,omitempty" example:"-1"`
}

// StockResponse wraps the stockData payload returned by GET /api/stock-prices.
//
// StockData holds either a single StockData object (one ticker requested) or
// an ordered array of two (pair requested), matching the caller's order.
type StockResponse struct {
	StockData any `json:"stockData"`
}

// NewStockResponse shapes joined quote results into the response contract.
//
//   - one quote  → {"stockData": {stock, price, likes}}
//   - two quotes → {"stockData": [{stock, price, rel_likes}, {stock, price, rel_likes}]}
//
// The two-ticker form intentionally omits absolute like counts.
func NewStockResponse(quotes []models.StockQuote) StockResponse {
	if len(quotes) == 1 {
		q := quotes[0]
		likes := q.Likes
		return StockResponse{StockData: StockData{
			Stock: q.Stock,
			Price: q.Price,
			Likes: &likes,
		}}
	}

	pair := make([]StockData, 0, len(quotes))
	for _, q := range quotes {
		rel := q.RelLikes
		pair = append(pair, StockData{
			Stock:    q.Stock,
			Price:    q.Price,
			RelLikes: &rel,
		})
	}
	return StockResponse{StockData: pair}
}
