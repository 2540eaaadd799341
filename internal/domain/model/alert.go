package model

// Alert is a breaking-change notification ready for delivery.
type Alert struct {
	RepoName       string
	RepoFullName   string
	ReleaseID      string
	TagName        string
	Title          string
	Excerpt        string
	URL            string
	MatchedKeyword string
}
