package export

// Paginate returns the vertical offsets at which an image of imageHeight is placed on
// consecutive pages of pageHeight. The first page is at offset 0; each following page
// shifts the image up by one page. No further page is added once the remaining overflow
// is at or below slack.
func Paginate(imageHeight, pageHeight, slack float64) []float64 {
	offsets := []float64{0}
	if pageHeight <= 0 {
		return offsets
	}
	heightLeft := imageHeight - pageHeight
	for heightLeft > slack {
		offsets = append(offsets, heightLeft-imageHeight)
		heightLeft -= pageHeight
	}
	return offsets
}
