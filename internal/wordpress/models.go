package wordpress

// PostRequest is the body sent to POST /posts.
type PostRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Status        string `json:"status"`
	Categories    []int  `json:"categories,omitempty"`
	FeaturedMedia int    `json:"featured_media,omitempty"`
}

// Post is the subset of the created post we read back.
type Post struct {
	Link string `json:"link"`
	ID   int    `json:"id"`
}

// Media is the subset of the created media item we read back.
type Media struct {
	SourceURL string `json:"source_url"`
	ID        int    `json:"id"`
}
