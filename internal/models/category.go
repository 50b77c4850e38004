package models

// Category is a closed-set label shared by transactions, budgets and subscriptions.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryHousing       Category = "housing"
	CategoryUtilities     Category = "utilities"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryTravel        Category = "travel"
	CategorySubscriptions Category = "subscriptions"
	CategorySavings       Category = "savings"
	CategorySalary        Category = "salary"
	CategoryInvestment    Category = "investment"
	CategoryGifts         Category = "gifts"
	CategoryOther         Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFood, CategoryTransport, CategoryHousing, CategoryUtilities,
	CategoryEntertainment, CategoryShopping, CategoryHealth, CategoryEducation,
	CategoryTravel, CategorySubscriptions, CategorySavings, CategorySalary,
	CategoryInvestment, CategoryGifts, CategoryOther,
}

// IsValid reports whether c belongs to the closed category set.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
