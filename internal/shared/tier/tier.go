package tier

import (
	"fmt"

	"github.com/samber/lo"
)

// Relationship is the closed set of tiers a profile can hold.
type Relationship string

const (
	Family      Relationship = "family"
	InnerCircle Relationship = "inner_circle"
	Friend      Relationship = "friend"
	Pending     Relationship = "pending"
)

// Audience is the closed set of visibility labels a post can carry.
type Audience string

const (
	AudienceFamily      Audience = "family"
	AudienceInnerCircle Audience = "inner_circle"
	AudienceFriends     Audience = "friends"
	AudienceEveryone    Audience = "everyone"
)

var allAudiences = []Audience{AudienceFamily, AudienceInnerCircle, AudienceFriends, AudienceEveryone}

func ParseRelationship(s string) (Relationship, error) {
	switch Relationship(s) {
	case Family, InnerCircle, Friend, Pending:
		return Relationship(s), nil
	}
	return "", fmt.Errorf("unknown relationship %q", s)
}

func ParseAudience(s string) (Audience, error) {
	switch Audience(s) {
	case AudienceFamily, AudienceInnerCircle, AudienceFriends, AudienceEveryone:
		return Audience(s), nil
	}
	return "", fmt.Errorf("unknown audience %q", s)
}

func rank(r Relationship) int {
	switch r {
	case Family:
		return 3
	case InnerCircle:
		return 2
	case Friend:
		return 1
	}
	return 0
}

// CanView reports whether a viewer with the given relationship may see a
// post labelled with the given audience. Unapproved and pending viewers
// see nothing, including everyone-labelled posts.
func CanView(r Relationship, approved bool, a Audience) bool {
	if !approved || r == Pending {
		return false
	}
	switch a {
	case AudienceFamily:
		return r == Family
	case AudienceInnerCircle:
		return rank(r) >= rank(InnerCircle)
	case AudienceFriends:
		return rank(r) >= rank(Friend)
	case AudienceEveryone:
		return true
	}
	return false
}

// VisibleAudiences returns the audience labels the viewer may see, for
// use in feed query filters.
func VisibleAudiences(r Relationship, approved bool) []Audience {
	return lo.Filter(allAudiences, func(a Audience, _ int) bool {
		return CanView(r, approved, a)
	})
}
