package demo

import (
	"strconv"

	"github.com/nimbly/jvmprobe/pkg/instrument"
)

const (
	ClassProductSearch = "com.nimbly.demo.catalog.ProductSearch"
	MethodSearch       = "search"
	LineMinPriceCheck  = 12
)

// ProductSearch is the demo's request-candidate-inference target: Search
// takes the same minPrice/maxPrice mutually-exclusive shape the planner's
// request inference has a branch-precondition special case for.
type ProductSearch struct {
	advice *instrument.Advice
}

// NewProductSearch binds a ProductSearch to the running probe's advice.
func NewProductSearch(advice *instrument.Advice) *ProductSearch {
	return &ProductSearch{advice: advice}
}

// Search filters a catalog by an optional minimum or maximum price,
// never both at once.
func (p *ProductSearch) Search(minPrice, maxPrice *float64) []string {
	p.advice.OnMethodEnter(ClassProductSearch, MethodSearch)
	p.advice.OnLineVisited(ClassProductSearch, MethodSearch, LineMinPriceCheck)

	switch {
	case minPrice != nil:
		return []string{"gte", strconv.FormatFloat(*minPrice, 'f', -1, 64)}
	case maxPrice != nil:
		return []string{"lte", strconv.FormatFloat(*maxPrice, 'f', -1, 64)}
	default:
		return []string{"all"}
	}
}
