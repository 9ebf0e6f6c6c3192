package domain

// Material is one entry of the learning-material catalog.
// ID is the identity key; recommendation results are deduplicated by it.
type Material struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// HasTag reports whether the material carries the given tag.
func (m Material) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
