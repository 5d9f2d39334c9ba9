package workflow

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryPaidFull   Category = "paid_full"
	CategoryPaidHalf   Category = "paid_half"
	CategoryCasualFull Category = "casual_full"
	CategoryCasualHalf Category = "casual_half"
	CategoryShort      Category = "short"
	CategoryUnpaid     Category = "unpaid"
	CategoryOther      Category = "other"
)

var AllCategories = []Category{
	CategoryPaidFull,
	CategoryPaidHalf,
	CategoryCasualFull,
	CategoryCasualHalf,
	CategoryShort,
	CategoryUnpaid,
	CategoryOther,
}

var (
	unitFull    = decimal.NewFromInt(1)
	unitHalf    = decimal.NewFromFloat(0.5)
	unitQuarter = decimal.NewFromFloat(0.25)
)

func (c Category) Valid() bool {
	for _, v := range AllCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Accruing reports whether the category consumes a tracked allowance.
func (c Category) Accruing() bool {
	switch c {
	case CategoryPaidFull, CategoryPaidHalf, CategoryCasualFull, CategoryCasualHalf, CategoryShort:
		return true
	default:
		return false
	}
}

// DailyUnits is the allowance one calendar day of this category consumes.
// Non-accruing categories consume nothing.
func (c Category) DailyUnits() decimal.Decimal {
	switch c {
	case CategoryPaidFull, CategoryCasualFull:
		return unitFull
	case CategoryPaidHalf, CategoryCasualHalf:
		return unitHalf
	case CategoryShort:
		return unitQuarter
	default:
		return decimal.Zero
	}
}
