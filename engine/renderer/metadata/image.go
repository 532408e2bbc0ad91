package metadata

import "image"

/**
 * @brief A structure to hold image resource data.
 */
type ImageResourceData struct {
	/** @brief The width of the image. */
	Width int
	/** @brief The height of the image. */
	Height int
	/** @brief The decoded pixels. */
	Pixels image.Image
}

/** @brief Parameters used when loading an image. */
type ImageResourceParams struct {
	/** @brief Convert the decoded image to NRGBA so later draws are uniform. */
	ForceNRGBA bool
}
