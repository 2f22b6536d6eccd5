package config

const (
	// MaxPageNameLength is the maximum length for page names.
	// Names should be short and descriptive; anything longer is almost
	// certainly content pasted into the wrong field.
	MaxPageNameLength = 200

	// MaxThumbnailLength is the maximum length for thumbnail URLs.
	MaxThumbnailLength = 2048
)
