package render

import "github.com/bryanwahyu/triagedesk/internal/i18n"

// Badge is the colour/label pair for a severity level.
type Badge struct {
	Level    int
	Color    string // CSS class suffix, also the terminal colour name
	LabelKey i18n.Key
	Known    bool
}

var badges = map[int]Badge{
	1: {Level: 1, Color: "green", LabelKey: i18n.SeverityVeryLow, Known: true},
	2: {Level: 2, Color: "lime", LabelKey: i18n.SeverityLow, Known: true},
	3: {Level: 3, Color: "yellow", LabelKey: i18n.SeverityMod, Known: true},
	4: {Level: 4, Color: "orange", LabelKey: i18n.SeverityHigh, Known: true},
	5: {Level: 5, Color: "red", LabelKey: i18n.SeverityUrgent, Known: true},
}

// SeverityBadge is total: levels outside 1-5 get the gray "unknown" badge.
func SeverityBadge(level int) Badge {
	if b, ok := badges[level]; ok {
		return b
	}
	return Badge{Level: level, Color: "gray", LabelKey: i18n.SeverityUnknown}
}
