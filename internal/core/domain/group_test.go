package domain

import "testing"

func TestFormatAssetID(t *testing.T) {
	cases := []struct {
		prefix  string
		seq     int64
		padding int
		want    string
	}{
		{"BX", 7, 4, "BX-0007"},
		{"HOME", 12345, 4, "HOME-12345"},
		{"", 3, 3, "003"},
		{"A", 9, 0, "A-9"},
	}
	for _, tc := range cases {
		if got := FormatAssetID(tc.prefix, tc.seq, tc.padding); got != tc.want {
			t.Errorf("FormatAssetID(%q, %d, %d) = %q, want %q", tc.prefix, tc.seq, tc.padding, got, tc.want)
		}
	}
}

func TestPlanLimits(t *testing.T) {
	free := PlanFree.Limits()
	if !free.AllowsItems(99, 1) {
		t.Error("100th item should fit the free plan")
	}
	if free.AllowsItems(100, 1) {
		t.Error("101st item should exceed the free plan")
	}
	if !PlanBusiness.Limits().AllowsMembers(1_000_000, 1) {
		t.Error("business plan is unlimited")
	}
	if Plan("platinum").Limits() != free {
		t.Error("unknown plan should fall back to free limits")
	}
}

func TestGroup_MemberRole(t *testing.T) {
	g := &Group{Members: []Member{{UserID: "u1", Role: RoleOwner}, {UserID: "u2", Role: RoleViewer}}}
	if r, ok := g.MemberRole("u2"); !ok || r != RoleViewer {
		t.Fatalf("expected viewer, got %q", r)
	}
	if _, ok := g.MemberRole("u3"); ok {
		t.Fatal("u3 is not a member")
	}
}

func TestScore(t *testing.T) {
	p := Score(Stats{Items: 30, Locations: 10, Categories: 2, Labels: 5, CompletedReminders: 1, LoansEver: 0})
	// 300 + 50 + 6 + 10 + 4
	if p.Points != 370 {
		t.Fatalf("expected 370 points, got %d", p.Points)
	}
	if p.Level != 2 || p.NextLevelAt != 500 {
		t.Errorf("unexpected level %d / next %d", p.Level, p.NextLevelAt)
	}

	unlocked := map[string]bool{}
	for _, b := range p.Badges {
		unlocked[b.Key] = b.Unlocked
	}
	for _, key := range []string{"first_item", "collector_25", "organizer", "labeler"} {
		if !unlocked[key] {
			t.Errorf("expected %s unlocked", key)
		}
	}
	for _, key := range []string{"collector_100", "caretaker", "lender"} {
		if unlocked[key] {
			t.Errorf("expected %s locked", key)
		}
	}
}

func TestNormalizeColor(t *testing.T) {
	if c, err := NormalizeColor(""); err != nil || c != DefaultLabelColor {
		t.Errorf("blank should default, got %q %v", c, err)
	}
	if c, err := NormalizeColor("#1E88E5"); err != nil || c != "#1e88e5" {
		t.Errorf("expected lowercase, got %q %v", c, err)
	}
	if _, err := NormalizeColor("blue"); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
