package app

// ContentEntry names one content section the front end can display.
type ContentEntry struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// ContentCatalog is a static collection of content sections. It holds no
// resolution logic of its own; it is an ordinary singleton leaf that the
// host constructs once and hands out like any other service.
type ContentCatalog struct {
	entries []ContentEntry
}

func NewContentCatalog() *ContentCatalog {
	return &ContentCatalog{
		entries: []ContentEntry{
			{Key: "home", Title: "Home"},
			{Key: "users", Title: "User Directory"},
			{Key: "settings", Title: "Settings"},
			{Key: "about", Title: "About"},
		},
	}
}

// Entries returns every catalog entry, in display order.
func (c *ContentCatalog) Entries() []ContentEntry {
	out := make([]ContentEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup finds an entry by key.
func (c *ContentCatalog) Lookup(key string) (ContentEntry, bool) {
	for _, e := range c.entries {
		if e.Key == key {
			return e, true
		}
	}
	return ContentEntry{}, false
}
