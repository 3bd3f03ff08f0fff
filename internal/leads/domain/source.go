package domain

// Source identifies the acquisition channel of a lead.
type Source string

const (
	SourceWebsite     Source = "website"
	SourceEmail       Source = "email"
	SourcePhone       Source = "phone"
	SourceSocialMedia Source = "social_media"
	SourceReferral    Source = "referral"
	SourceLinkedIn    Source = "linkedin"
	SourceTradeShow   Source = "trade_show"
	SourceOther       Source = "other"
)

var knownSources = map[Source]struct{}{
	SourceWebsite:     {},
	SourceEmail:       {},
	SourcePhone:       {},
	SourceSocialMedia: {},
	SourceReferral:    {},
	SourceLinkedIn:    {},
	SourceTradeShow:   {},
	SourceOther:       {},
}

// IsKnownSource reports whether the value is a member of the source enum.
func IsKnownSource(source Source) bool {
	_, ok := knownSources[source]
	return ok
}
