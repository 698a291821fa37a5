// Package model はドメインモデルを定義する。
package model

import "time"

// StockType は在庫品目の種別を表す。
type StockType string

const (
	// StockTypeMedicament は医薬品。
	StockTypeMedicament StockType = "medicament"
	// StockTypeMateriel は資材・機材。
	StockTypeMateriel StockType = "materiel"
)

// StockItem は在庫カタログの1品目を表す。
// AvailableQuantityは常に0以上（DBのCHECK制約で保証）。
type StockItem struct {
	ID                int64
	Name              string
	Description       string
	AvailableQuantity int
	Type              StockType
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
