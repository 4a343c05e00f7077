package stats

// Counter names. The set is fixed by the statistics schema: every name maps
// to exactly one column of model.Statistics.
const (
	CounterMonstersKilled       = "monsters_killed"
	CounterBossesKilled         = "bosses_killed"
	CounterResourcesCollected   = "resources_collected"
	CounterItemsCrafted         = "items_crafted"
	CounterBuildingsConstructed = "buildings_constructed"
	CounterGoldEarned           = "gold_earned"
	CounterGoldSpent            = "gold_spent"
	CounterItemsTraded          = "items_traded"
	CounterMessagesSent         = "messages_sent"
	CounterDistanceTraveled     = "distance_traveled"
	CounterLoginsTotal          = "logins_total"
	CounterQuestsCompleted      = "quests_completed"
	CounterCommonItemsFound     = "common_items_found"
	CounterRareItemsFound       = "rare_items_found"
	CounterEpicItemsFound       = "epic_items_found"
	CounterLegendaryItemsFound  = "legendary_items_found"
)

// counterColumns whitelists counter names and maps each to its SQL column.
// Increment interpolates the column into an UPDATE expression, so only
// values from this map may ever reach the query builder.
var counterColumns = map[string]string{
	CounterMonstersKilled:       "monsters_killed",
	CounterBossesKilled:         "bosses_killed",
	CounterResourcesCollected:   "resources_collected",
	CounterItemsCrafted:         "items_crafted",
	CounterBuildingsConstructed: "buildings_constructed",
	CounterGoldEarned:           "gold_earned",
	CounterGoldSpent:            "gold_spent",
	CounterItemsTraded:          "items_traded",
	CounterMessagesSent:         "messages_sent",
	CounterDistanceTraveled:     "distance_traveled",
	CounterLoginsTotal:          "logins_total",
	CounterQuestsCompleted:      "quests_completed",
	CounterCommonItemsFound:     "common_items_found",
	CounterRareItemsFound:       "rare_items_found",
	CounterEpicItemsFound:       "epic_items_found",
	CounterLegendaryItemsFound:  "legendary_items_found",
}

// ValidCounter reports whether name is a known counter.
func ValidCounter(name string) bool {
	_, ok := counterColumns[name]
	return ok
}
