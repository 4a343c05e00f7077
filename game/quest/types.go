package quest

import "github.com/emberquest/server/game/stats"

// ObjectiveType categorizes a quest objective. "Specific" types carry a
// target id and are reported directly by their event producer; the rest are
// driven by statistics counter increments.
type ObjectiveType = string

const (
	ObjectiveKillMonster               ObjectiveType = "kill_monster"
	ObjectiveKillBoss                  ObjectiveType = "kill_boss"
	ObjectiveKillSpecificMonster       ObjectiveType = "kill_specific_monster"
	ObjectiveCollectResource           ObjectiveType = "collect_resource"
	ObjectiveCollectSpecificItem       ObjectiveType = "collect_specific_item"
	ObjectiveCraftItem                 ObjectiveType = "craft_item"
	ObjectiveCraftSpecificItem         ObjectiveType = "craft_specific_item"
	ObjectiveConstructBuilding         ObjectiveType = "construct_building"
	ObjectiveConstructSpecificBuilding ObjectiveType = "construct_specific_building"
	ObjectiveEarnGold                  ObjectiveType = "earn_gold"
	ObjectiveTradeItem                 ObjectiveType = "trade_item"
	ObjectiveSendMessage               ObjectiveType = "send_message"
	ObjectiveTravelDistance            ObjectiveType = "travel_distance"
	ObjectiveReachLevel                ObjectiveType = "reach_level"
	ObjectiveJoinGuild                 ObjectiveType = "join_guild"
	ObjectiveDailyLogin                ObjectiveType = "daily_login"
)

// counterObjectives maps a statistics counter to the objective type it
// advances. Counters without an entry (rarity finds, logins, gold spent,
// quests completed) drive no objective and are silently ignored by the
// matcher.
var counterObjectives = map[string]ObjectiveType{
	stats.CounterMonstersKilled:       ObjectiveKillMonster,
	stats.CounterBossesKilled:         ObjectiveKillBoss,
	stats.CounterResourcesCollected:   ObjectiveCollectResource,
	stats.CounterItemsCrafted:         ObjectiveCraftItem,
	stats.CounterBuildingsConstructed: ObjectiveConstructBuilding,
	stats.CounterGoldEarned:           ObjectiveEarnGold,
	stats.CounterItemsTraded:          ObjectiveTradeItem,
	stats.CounterMessagesSent:         ObjectiveSendMessage,
	stats.CounterDistanceTraveled:     ObjectiveTravelDistance,
}
