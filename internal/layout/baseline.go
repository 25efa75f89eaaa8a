package layout

import "sort"

// MedianFontSize returns the median fragment size of a page. The second result
// is false when the page has no fragments.
func MedianFontSize(fragments []Fragment) (float64, bool) {
	if len(fragments) == 0 {
		return 0, false
	}

	sizes := make([]float64, len(fragments))
	for i, f := range fragments {
		sizes[i] = f.FontSize
	}
	sort.Float64s(sizes)

	mid := len(sizes) / 2
	if len(sizes)%2 == 1 {
		return sizes[mid], true
	}
	return (sizes[mid-1] + sizes[mid]) / 2, true
}
