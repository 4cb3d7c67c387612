package catalog

import (
	"fmt"
	"sort"
)

// Model is one sauna model of a product line.
type Model struct {
	Name      string `json:"name"`
	Line      string `json:"line"`
	BasePrice int    `json:"base_price"`
	PaintUnit int    `json:"paint_unit_price"`
}

// Catalog holds the fixed price tables. It is built once and never
// mutated, so it is safe to share between concurrent quotations.
//
// Lookups of unknown keys return 0: a furnace that was not selected is a
// valid state, not an error.
type Catalog struct {
	lines      []string
	models     []Model
	modelIndex map[string]Model
	furnaces   map[string]int
	furnaceSeq []string
}

// New builds a catalog from the model list and the furnace price table.
// Models keep their given order; furnaces are listed by ascending price.
func New(models []Model, furnaces map[string]int) (*Catalog, error) {
	c := &Catalog{
		modelIndex: make(map[string]Model, len(models)),
		furnaces:   make(map[string]int, len(furnaces)),
	}

	seenLine := make(map[string]bool)
	for _, m := range models {
		if m.Name == "" {
			return nil, fmt.Errorf("model with empty name")
		}
		if _, dup := c.modelIndex[m.Name]; dup {
			return nil, fmt.Errorf("duplicate model %q", m.Name)
		}
		if m.BasePrice < 0 || m.PaintUnit < 0 {
			return nil, fmt.Errorf("negative price for model %q", m.Name)
		}
		c.modelIndex[m.Name] = m
		c.models = append(c.models, m)
		if !seenLine[m.Line] {
			seenLine[m.Line] = true
			c.lines = append(c.lines, m.Line)
		}
	}

	for name, price := range furnaces {
		if price < 0 {
			return nil, fmt.Errorf("negative price for furnace %q", name)
		}
		c.furnaces[name] = price
		c.furnaceSeq = append(c.furnaceSeq, name)
	}
	sort.Slice(c.furnaceSeq, func(i, j int) bool {
		pi, pj := c.furnaces[c.furnaceSeq[i]], c.furnaces[c.furnaceSeq[j]]
		if pi != pj {
			return pi < pj
		}
		return c.furnaceSeq[i] < c.furnaceSeq[j]
	})

	return c, nil
}

// ModelPrice returns the base price of the model or 0 if it is unknown.
func (c *Catalog) ModelPrice(model string) int {
	return c.modelIndex[model].BasePrice
}

// PaintPrice returns the price of a single paint layer for the model or 0.
func (c *Catalog) PaintPrice(model string) int {
	return c.modelIndex[model].PaintUnit
}

// FurnacePrice returns the furnace price or 0.
func (c *Catalog) FurnacePrice(furnace string) int {
	return c.furnaces[furnace]
}

func (c *Catalog) HasModel(model string) bool {
	_, ok := c.modelIndex[model]
	return ok
}

func (c *Catalog) HasFurnace(furnace string) bool {
	_, ok := c.furnaces[furnace]
	return ok
}

// Lines returns product lines in catalog order.
func (c *Catalog) Lines() []string {
	return append([]string(nil), c.lines...)
}

// Models returns the models of one line, or all models when line is empty.
func (c *Catalog) Models(line string) []Model {
	var out []Model
	for _, m := range c.models {
		if line == "" || m.Line == line {
			out = append(out, m)
		}
	}
	return out
}

// Model returns the catalog entry for name.
func (c *Catalog) Model(name string) (Model, bool) {
	m, ok := c.modelIndex[name]
	return m, ok
}

// Furnaces returns furnace names ordered by price.
func (c *Catalog) Furnaces() []string {
	return append([]string(nil), c.furnaceSeq...)
}
