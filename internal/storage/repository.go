package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ryan-Dante/stock-price-checker/internal/identity"
)

// ErrStoreUnavailable marks any failure of the underlying likes store.
// Callers classify with errors.Is and must not surface the wrapped detail.
var ErrStoreUnavailable = errors.New("likes store unavailable")

// LikesRepository defines contract for like persistence.
//
// Stock symbols are compared exactly as stored; the HTTP layer lowercases
// symbols before they reach this package.
type LikesRepository interface {
	// InsertLikeIfAbsent registers one like for (stock, rawIdentity).
	// If the identity already liked the stock the call is a no-op.
	//
	// Known limitation: the check and the insert are two statements, so two
	// concurrent first-likes from the same identity can both insert. A unique
	// index cannot close this because bcrypt tokens are salted; the window is
	// accepted (likes are a popularity signal, not an account balance).
	InsertLikeIfAbsent(stock, rawIdentity string) error

	// AggregateLikes returns the summed like count for a stock.
	// A stock nobody has liked yields 0, not an error.
	AggregateLikes(stock string) (int64, error)

	// DeleteAllLikes wipes every like record. Operator-only reset path.
	DeleteAllLikes() (int64, error)
}

type likesRepository struct {
	db     *sql.DB
	hasher identity.Hasher
}

func NewLikesRepository(db *sql.DB, hasher identity.Hasher) LikesRepository {
	return &likesRepository{db: db, hasher: hasher}
}

// storeErr tags a storage failure so callers can classify it while keeping
// the driver error text for logs.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

func (r *likesRepository) InsertLikeIfAbsent(stock, rawIdentity string) error {
	rows, err := r.db.Query(`SELECT ip_hash FROM stock_likes WHERE stock = $1`, stock)
	if err != nil {
		return storeErr("load hashes", err)
	}
	defer func() { _ = rows.Close() }()

	// Salted tokens cannot be looked up by equality; verify each one.
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return storeErr("scan hash", err)
		}
		if r.hasher.Matches(rawIdentity, token) {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return storeErr("iterate hashes", err)
	}

	token, err := r.hasher.Hash(rawIdentity)
	if err != nil {
		return storeErr("hash identity", err)
	}

	if _, err := r.db.Exec(
		`INSERT INTO stock_likes (stock, ip_hash, likes) VALUES ($1, $2, 1)`,
		stock, token,
	); err != nil {
		return storeErr("insert like", err)
	}
	return nil
}

func (r *likesRepository) AggregateLikes(stock string) (int64, error) {
	var total int64
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(likes), 0) FROM stock_likes WHERE stock = $1`,
		stock,
	).Scan(&total)
	if err != nil {
		return 0, storeErr("aggregate likes", err)
	}
	return total, nil
}

func (r *likesRepository) DeleteAllLikes() (int64, error) {
	res, err := r.db.Exec(`DELETE FROM stock_likes`)
	if err != nil {
		return 0, storeErr("delete likes", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("rows affected", err)
	}
	return n, nil
}
