package pinterest

import "encoding/json"

// Board represents a named, owned collection of pinned media items.
// Immutable after creation; identity is the ID. URL is the path segment
// "owner/name" and is reused verbatim as the source_url query parameter
// for feed pagination.
type Board struct {
	ID    string
	URL   string
	Owner string
	Name  string
}

// ResourceKind distinguishes downloadable media types
type ResourceKind string

const (
	KindImage ResourceKind = "image"
	KindVideo ResourceKind = "video"
)

// Resource is a typed downloadable media item produced by classifying a
// raw feed pin. For images SourceURL points at the original file, for
// videos at an adaptive-streaming playlist.
type Resource struct {
	Kind      ResourceKind
	ID        string
	SourceURL string
}

// PageState holds the named resource responses extracted from the
// embedded page-state payload of a profile page. Transient; consumed
// immediately after a page fetch.
type PageState struct {
	Base  ResourceResponse
	Board ResourceResponse
	// Err carries the server-reported error message, if any
	Err string
}

// ResourceResponse is one named slot of the page state
type ResourceResponse struct {
	Status     string
	HTTPStatus int
	// Data is kept raw; its shape depends on the resource name and is
	// validated by the consumer
	Data json.RawMessage
}

// Pin is one raw record from the board feed, pre-classification.
// Pointer fields distinguish a null/absent sub-object from a present one.
type Pin struct {
	ID     string     `json:"id"`
	Images *PinImages `json:"images"`
	Videos *PinVideos `json:"videos"`
}

// PinImages holds the image variants of a pin
type PinImages struct {
	Orig PinImage `json:"orig"`
}

// PinImage is a single image variant
type PinImage struct {
	URL string `json:"url"`
}

// PinVideos holds the video variants of a pin
type PinVideos struct {
	VideoList PinVideoList `json:"video_list"`
}

// PinVideoList maps known video formats; only the HLS v4 playlist is used
type PinVideoList struct {
	HLSV4 PinVideo `json:"V_HLSV4"`
}

// PinVideo is a single video variant
type PinVideo struct {
	URL string `json:"url"`
}

// boardRecord is the wire shape of one board entry in the page state
type boardRecord struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Name  string `json:"name"`
	Owner struct {
		Username string `json:"username"`
	} `json:"owner"`
}

// initialState is the wire shape of the embedded page-state payload
type initialState struct {
	ResourceResponses []resourceResponseEnvelope `json:"resourceResponses"`
}

type resourceResponseEnvelope struct {
	Name     string `json:"name"`
	Response struct {
		Status     string          `json:"status"`
		HTTPStatus int             `json:"http_status"`
		Data       json.RawMessage `json:"data"`
		Error      *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"response"`
}

// feedResponse is the wire shape of one board feed page
type feedResponse struct {
	ResourceResponse struct {
		Data []Pin `json:"data"`
	} `json:"resource_response"`
	Resource struct {
		Options struct {
			Bookmarks []string `json:"bookmarks"`
		} `json:"options"`
	} `json:"resource"`
}
