package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ivanoskov/bc-money/internal/model"
)

const (
	// OtherLabel подпись для расходов без категории или с неизвестной категорией
	OtherLabel = "Otros"
	// OtherColor нейтральный цвет для OtherLabel
	OtherColor = "#6B7280"
)

// CategoryAmount сумма расходов по одной категории
type CategoryAmount struct {
	CategoryID string          `json:"category_id,omitempty"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Color      string          `json:"color"`
}

// RankCategories группирует расходы по категориям и сортирует по убыванию суммы.
// Равные суммы сохраняют порядок первого появления категории во входных данных.
// Возвращается не больше topN групп, остальные отбрасываются; topN <= 0 отключает ограничение.
func RankCategories(transactions []model.Transaction, categories []model.Category, topN int) []CategoryAmount {
	lookup := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		lookup[c.ID] = c
	}

	index := make(map[string]int)
	groups := make([]CategoryAmount, 0)
	for _, tx := range transactions {
		if tx.Type != model.TransactionExpense {
			continue
		}
		key := "" // без категории
		if !tx.Uncategorized() {
			key = *tx.CategoryID
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, newCategoryAmount(key, lookup))
		}
		groups[i].Amount = groups[i].Amount.Add(tx.Amount)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount.GreaterThan(groups[j].Amount)
	})

	if topN > 0 && len(groups) > topN {
		groups = groups[:topN]
	}
	return groups
}

func newCategoryAmount(key string, lookup map[string]model.Category) CategoryAmount {
	entry := CategoryAmount{Name: OtherLabel, Color: OtherColor, Amount: decimal.Zero}
	if key == "" {
		return entry
	}
	entry.CategoryID = key
	if c, ok := lookup[key]; ok {
		entry.Name = c.Name
		if c.Color != "" {
			entry.Color = c.Color
		}
	}
	return entry
}
