package checksum

// Descriptor is a checksum file paired with the artifact it describes.
type Descriptor struct {
	Path         string
	ArtifactPath string
	Expected     string
}
