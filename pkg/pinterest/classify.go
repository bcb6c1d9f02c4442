package pinterest

// Classify maps one raw pin to its downloadable resources. A pin with an
// images sub-object and a null videos sub-object yields an image resource
// pointing at the original file; a pin with a non-null videos sub-object
// yields a video resource pointing at the HLS v4 playlist. A pin with
// neither yields nothing. The two checks are evaluated independently, not
// as an if/else chain; in practice a pin satisfies at most one.
func Classify(pin Pin) []Resource {
	var resources []Resource

	if pin.Images != nil && pin.Videos == nil {
		resources = append(resources, Resource{
			Kind:      KindImage,
			ID:        pin.ID,
			SourceURL: pin.Images.Orig.URL,
		})
	}

	if pin.Videos != nil {
		resources = append(resources, Resource{
			Kind:      KindVideo,
			ID:        pin.ID,
			SourceURL: pin.Videos.VideoList.HLSV4.URL,
		})
	}

	return resources
}

// ClassifyAll classifies a slice of pins, preserving feed order
func ClassifyAll(pins []Pin) []Resource {
	var resources []Resource
	for _, pin := range pins {
		resources = append(resources, Classify(pin)...)
	}
	return resources
}
