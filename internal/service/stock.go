package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Ryan-Dante/stock-price-checker/internal/domain/models"
	"github.com/Ryan-Dante/stock-price-checker/internal/logger"
	"github.com/Ryan-Dante/stock-price-checker/internal/quote"
	"github.com/Ryan-Dante/stock-price-checker/internal/storage"
)

// StockService orchestrates one stock-prices request: optional like
// registration, like aggregation, concurrent price fetches, and the final
// join into per-ticker quote results.
type StockService interface {
	// GetStockPrices returns one StockQuote per requested stock, in request
	// order. With exactly two stocks each quote carries RelLikes (the signed
	// like difference); with one stock it carries the absolute Likes count.
	//
	// Callers pass stocks already case-normalized. Any storage or fetch
	// failure aborts the whole request; partial results are never returned.
	GetStockPrices(ctx context.Context, stocks []string, like bool, rawIdentity string) ([]models.StockQuote, error)
}

type stockService struct {
	repo    storage.LikesRepository
	fetcher quote.Fetcher
}

func NewStockService(repo storage.LikesRepository, fetcher quote.Fetcher) StockService {
	return &stockService{repo: repo, fetcher: fetcher}
}

func (s *stockService) GetStockPrices(ctx context.Context, stocks []string, like bool, rawIdentity string) ([]models.StockQuote, error) {
	if len(stocks) == 0 || len(stocks) > 2 {
		return nil, fmt.Errorf("expected 1 or 2 stocks, got %d", len(stocks))
	}

	// Voting: at most two sequential writes, idempotent per identity.
	if like {
		for _, stock := range stocks {
			if err := s.repo.InsertLikeIfAbsent(stock, rawIdentity); err != nil {
				logger.L().Error().Str("stock", stock).Str("phase", "vote").Err(err).Msg("like registration failed")
				return nil, err
			}
		}
	}

	// Like totals are read before the price fan-out; the response shape
	// needs them for every ticker, so a store failure aborts here.
	quotes := make([]models.StockQuote, len(stocks))
	for i, stock := range stocks {
		likes, err := s.repo.AggregateLikes(stock)
		if err != nil {
			logger.L().Error().Str("stock", stock).Str("phase", "likes_read").Err(err).Msg("like aggregation failed")
			return nil, err
		}
		quotes[i] = models.StockQuote{Stock: stock, Likes: likes}
	}

	// Price fan-out: one fetch per ticker, joined before responding. A plain
	// errgroup (no shared context cancellation) lets every fetch settle, so
	// a fast failure never short-circuits the barrier. Each goroutine writes
	// only its own slot.
	var g errgroup.Group
	for i, stock := range stocks {
		i, stock := i, stock // per-iteration copies; go directive predates 1.22 loop semantics
		g.Go(func() error {
			price, err := s.fetcher.FetchPrice(ctx, stock)
			if err != nil {
				logger.L().Error().Str("stock", stock).Str("phase", "price_fetch").Err(err).Msg("price fetch failed")
				return err
			}
			quotes[i].Price = price
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// With a pair, expose the signed like difference in the caller's order.
	if len(quotes) == 2 {
		rel := quotes[0].Likes - quotes[1].Likes
		quotes[0].RelLikes = rel
		quotes[1].RelLikes = -rel
	}

	return quotes, nil
}
