package engine

// Top devuelve los n productos más populares del artefacto (precalculados
// en entrenamiento por suma de compras, descendente). Nunca falla; solo
// está vacío si el catálogo entero lo está.
func (a *Artifact) Top(n int) []int {
	items := a.PopularItems
	if n >= 0 && n < len(items) {
		items = items[:n]
	}
	out := make([]int, len(items))
	copy(out, items)
	return out
}
