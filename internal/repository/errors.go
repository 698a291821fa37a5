package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgreSQLのエラーコード（SQLSTATE）
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// 外部キー制約名。マイグレーションで明示的に命名している。
const (
	ConstraintOrderUser        = "orders_user_id_fkey"
	ConstraintOrderDetailStock = "order_details_stock_id_fkey"
)

// ErrDuplicateEmail はメールアドレスのユニーク制約違反を表す。
var ErrDuplicateEmail = errors.New("email already registered")

// ReferenceError は外部キー参照先が存在しないことを表す。
// IDは違反を起こした参照先のID。
type ReferenceError struct {
	Constraint string
	ID         int64
	Err        error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("foreign key violation on %s (id=%d): %v", e.Constraint, e.ID, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// asPQError はerrから*pq.Errorを取り出す。
func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// isUniqueViolation はユニーク制約違反かを判定する。
func isUniqueViolation(err error) bool {
	pqErr, ok := asPQError(err)
	return ok && string(pqErr.Code) == pgUniqueViolation
}

// referenceError は外部キー違反をReferenceErrorに変換する。
// 外部キー違反でない場合はnilを返す。
func referenceError(err error, id int64) *ReferenceError {
	pqErr, ok := asPQError(err)
	if !ok || string(pqErr.Code) != pgForeignKeyViolation {
		return nil
	}
	return &ReferenceError{Constraint: pqErr.Constraint, ID: id, Err: err}
}
