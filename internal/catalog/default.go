package catalog

const (
	LineAnkel = "Ankel"
	LineToone = "Toone"
)

const (
	FurnaceHarvia   = "Piec Harvia z kominem i kamieniami. Spalinowy, ładowany od wewnątrz"
	FurnaceStoveman = "Piec do sauny opalany drewnem - STOVEMAN 13-LS z kominem i kamieniami – ładowany od zewnątrz"
	FurnaceNarvi    = "Piec elektryczny NARVI 9 kW"
)

var defaultModels = []Model{
	{Name: "Ankel Mini 1,8m", Line: LineAnkel, BasePrice: 10800, PaintUnit: 750},
	{Name: "Ankel Medium Open 2,4m", Line: LineAnkel, BasePrice: 11580, PaintUnit: 800},
	{Name: "Ankel Medium Close 2,4m", Line: LineAnkel, BasePrice: 13160, PaintUnit: 800},
	{Name: "Ankel Large 3,0m", Line: LineAnkel, BasePrice: 13800, PaintUnit: 850},
	{Name: "Ankel XL 3,6m", Line: LineAnkel, BasePrice: 14480, PaintUnit: 900},
	{Name: "Toone Mini 1,8m", Line: LineToone, BasePrice: 9180, PaintUnit: 750},
	{Name: "Toone 2,4 Open", Line: LineToone, BasePrice: 9900, PaintUnit: 800},
	{Name: "Toone 2,4 Close", Line: LineToone, BasePrice: 11500, PaintUnit: 800},
	{Name: "Toone 3,0 Close", Line: LineToone, BasePrice: 12200, PaintUnit: 850},
	{Name: "Toone 3,6 Close", Line: LineToone, BasePrice: 12900, PaintUnit: 900},
	{Name: "Toone 3,6 Open", Line: LineToone, BasePrice: 12900, PaintUnit: 900},
}

var defaultFurnaces = map[string]int{
	FurnaceHarvia:   3850,
	FurnaceStoveman: 4500,
	FurnaceNarvi:    1800,
}

// Default returns the Wooden Spa price list.
func Default() *Catalog {
	c, err := New(defaultModels, defaultFurnaces)
	if err != nil {
		// static tables, covered by tests
		panic(err)
	}
	return c
}
