package entity

// PageInfo identifies the document a browser currently shows.
type PageInfo struct {
	URL   string
	Title string
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
