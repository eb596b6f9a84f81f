package models

// StockLike represents one persisted like for a stock from one caller identity.
//
// Fields:
//   - Stock: the ticker symbol the like applies to, stored as presented by the
//     handler (the handler lowercases symbols before anything touches storage).
//   - IPHash: bcrypt hash of the caller's IP address. The raw address is never
//     persisted; a presented address can only be verified against this token.
//   - Likes: weight of this record when summing a ticker's total. Always 1 on
//     insert; kept as a column so totals are a plain SUM.
//
// A record is written once on the first like for a (stock, identity) pair and
// never mutated afterwards.
type StockLike struct {
	Stock  string
	IPHash string
	Likes  int64
}

// StockQuote is the request-scoped join of price and like data for one ticker.
// It is assembled per request and never persisted.
//
// RelLikes is only meaningful when the request asked for exactly two tickers;
// for a single-ticker request it stays zero and is not serialized.
type StockQuote struct {
	Stock    string
	Price    float64
	Likes    int64
	RelLikes int64
}
