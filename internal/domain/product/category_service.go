package product

// Categories returns every category in the catalog with its product count,
// in the order categories first appear.
func (c *Catalog) Categories() []CategoryCount {
	index := make(map[string]int)
	var out []CategoryCount

	for _, p := range c.products {
		i, ok := index[p.Category]
		if !ok {
			index[p.Category] = len(out)
			out = append(out, CategoryCount{Name: p.Category, Count: 1})
			continue
		}
		out[i].Count++
	}

	return out
}
