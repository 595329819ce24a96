package model

type Link struct {
	Index    int
	URL      string
	ImageURL string
}
