package domain

type Artist struct {
	ID            int64
	Name          string
	Biography     string
	FacebookLink  string
	InstagramLink string
	SpotifyLink   string
	TwitterLink   string
	WebsiteLink   string
	Members       string
	Verified      bool
	SoftDeleted   bool
	Countries     []string
	Genres        []string
	ProfileIDs    []int64
}

type ArtistQuery struct {
	Name    string // prefix match
	Genre   string
	Country string
}
