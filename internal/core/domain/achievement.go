package domain

// Stats are the per-group counts achievements are computed from.
type Stats struct {
	Items              int64 `json:"items"`
	ArchivedItems      int64 `json:"archived_items"`
	ItemsOnLoan        int64 `json:"items_on_loan"`
	LoansEver          int64 `json:"loans_ever"`
	Locations          int64 `json:"locations"`
	Categories         int64 `json:"categories"`
	Labels             int64 `json:"labels"`
	CompletedReminders int64 `json:"completed_reminders"`
}

// Badge is an unlockable achievement.
type Badge struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// Progress is the gamified summary shown on the dashboard.
type Progress struct {
	Points      int64   `json:"points"`
	Level       int64   `json:"level"`
	NextLevelAt int64   `json:"next_level_at"`
	Badges      []Badge `json:"badges"`
}

const pointsPerLevel = 250

type badgeRule struct {
	key, title, description string
	unlocked                func(Stats) bool
}

var badgeRules = []badgeRule{
	{"first_item", "First Item", "Catalog your first item", func(s Stats) bool { return s.Items >= 1 }},
	{"collector_25", "Collector", "Catalog 25 items", func(s Stats) bool { return s.Items >= 25 }},
	{"collector_100", "Archivist", "Catalog 100 items", func(s Stats) bool { return s.Items >= 100 }},
	{"organizer", "Organizer", "Create 10 locations", func(s Stats) bool { return s.Locations >= 10 }},
	{"labeler", "Labeler", "Create 5 labels", func(s Stats) bool { return s.Labels >= 5 }},
	{"caretaker", "Caretaker", "Complete 10 reminders", func(s Stats) bool { return s.CompletedReminders >= 10 }},
	{"lender", "Lender", "Lend an item for the first time", func(s Stats) bool { return s.LoansEver >= 1 }},
}

// Score turns counts into points, a level and badges.
func Score(s Stats) Progress {
	points := s.Items*10 + s.Locations*5 + s.Categories*3 + s.Labels*2 + s.CompletedReminders*4
	level := points/pointsPerLevel + 1

	badges := make([]Badge, len(badgeRules))
	for i, r := range badgeRules {
		badges[i] = Badge{Key: r.key, Title: r.title, Description: r.description, Unlocked: r.unlocked(s)}
	}
	return Progress{
		Points:      points,
		Level:       level,
		NextLevelAt: level * pointsPerLevel,
		Badges:      badges,
	}
}
