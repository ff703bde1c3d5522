package grid

// GetGridCoords converts a linear index into (x, y) coordinates on a
// row-major grid with the given number of columns.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// GetGridIndex is the inverse of GetGridCoords.
func GetGridIndex(x, y, cols int) int {
	return x + y*cols
}
