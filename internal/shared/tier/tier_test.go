package tier

import "testing"

func TestCanViewMatrix(t *testing.T) {
	cases := []struct {
		rel      Relationship
		approved bool
		aud      Audience
		want     bool
	}{
		{Family, true, AudienceFamily, true},
		{Family, true, AudienceEveryone, true},
		{InnerCircle, true, AudienceFamily, false},
		{InnerCircle, true, AudienceInnerCircle, true},
		{InnerCircle, true, AudienceFriends, true},
		{Friend, true, AudienceInnerCircle, false},
		{Friend, true, AudienceFriends, true},
		{Friend, true, AudienceEveryone, true},
		{Pending, true, AudienceEveryone, false},
		{Family, false, AudienceEveryone, false},
		{Family, false, AudienceFamily, false},
	}
	for _, c := range cases {
		if got := CanView(c.rel, c.approved, c.aud); got != c.want {
			t.Fatalf("CanView(%s, %v, %s) = %v, want %v", c.rel, c.approved, c.aud, got, c.want)
		}
	}
}

func TestVisibleAudiences(t *testing.T) {
	if got := VisibleAudiences(Family, true); len(got) != 4 {
		t.Fatalf("family should see all audiences, got %v", got)
	}
	if got := VisibleAudiences(Friend, true); len(got) != 2 {
		t.Fatalf("friend should see friends+everyone, got %v", got)
	}
	if got := VisibleAudiences(Pending, true); len(got) != 0 {
		t.Fatalf("pending should see nothing, got %v", got)
	}
	if got := VisibleAudiences(Family, false); len(got) != 0 {
		t.Fatalf("unapproved should see nothing, got %v", got)
	}
}

func TestParseRelationship(t *testing.T) {
	if _, err := ParseRelationship("family"); err != nil {
		t.Fatalf("expected family to parse: %v", err)
	}
	if _, err := ParseRelationship("bestie"); err == nil {
		t.Fatalf("expected error for unknown relationship")
	}
}

func TestParseAudience(t *testing.T) {
	if _, err := ParseAudience("inner_circle"); err != nil {
		t.Fatalf("expected inner_circle to parse: %v", err)
	}
	if _, err := ParseAudience("public"); err == nil {
		t.Fatalf("expected error for unknown audience")
	}
}
