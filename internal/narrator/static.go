package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/riftrewind/rewind-server/internal/model"
)

// Static builds coaching content from threshold rules alone. Same insights,
// same output.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

func (s *Static) GenerateCoach(_ context.Context, player *model.PlayerInfo, insights *model.RewindInsights) (*model.CoachContent, error) {
	mainRole := "versatile player"
	if len(insights.RoleDistribution) > 0 {
		mainRole = insights.RoleDistribution[0].Role
	}
	mainChamp := "various champions"
	if len(insights.TopChampions) > 0 {
		mainChamp = insights.TopChampions[0].ChampionName
	}

	return &model.CoachContent{
		Narrative:               buildNarrative(player, &insights.Stats, mainChamp, mainRole),
		Strengths:               buildStrengths(insights),
		Weaknesses:              buildWeaknesses(insights),
		Drills:                  buildDrills(insights),
		ChampionRecommendations: buildRecommendations(insights.TopChampions, mainRole),
		Provider:                staticProviderName,
	}, nil
}

func buildNarrative(player *model.PlayerInfo, stats *model.RewindStats, mainChamp, mainRole string) string {
	gamesText := "games"
	if stats.GamesPlayed == 1 {
		gamesText = "game"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "What a season for %s! ", player.GameName)
	fmt.Fprintf(&sb, "You've battled through %d %s with a %.1f%% win rate, ",
		stats.GamesPlayed, gamesText, stats.Winrate*100)
	fmt.Fprintf(&sb, "proving yourself as a dedicated %s main. ", strings.ToLower(mainRole))
	fmt.Fprintf(&sb, "Your commitment to %s has been unwavering, ", mainChamp)
	sb.WriteString("and it shows in your consistent performance. ")

	if stats.LongestWinStreak >= 5 {
		adjective := "notable"
		if stats.LongestWinStreak > 5 {
			adjective = "impressive"
		}
		fmt.Fprintf(&sb, "That %s %d-game win streak was a highlight of your season! ",
			adjective, stats.LongestWinStreak)
	}

	fmt.Fprintf(&sb, "With an average KDA of %.2f, you've demonstrated solid fundamentals. ", stats.AvgKDA)

	switch {
	case stats.Winrate >= 0.55:
		sb.WriteString("Your above-average win rate shows you're climbing effectively. Keep up the momentum!")
	case stats.Winrate >= 0.50:
		sb.WriteString("You're holding steady above the curve. A few adjustments could push you to the next level.")
	default:
		sb.WriteString("Every loss is a lesson. Focus on the improvement areas below, and you'll see results.")
	}

	return sb.String()
}

func buildStrengths(insights *model.RewindInsights) []model.CoachStrength {
	stats := insights.Stats
	strengths := make([]model.CoachStrength, 0, 3)

	if stats.AvgKDA >= 3.0 {
		strengths = append(strengths, model.CoachStrength{
			Title: "Exceptional KDA",
			Description: fmt.Sprintf("Your %.2f KDA shows excellent decision-making in fights. "+
				"You know when to engage and when to back off.", stats.AvgKDA),
		})
	} else if stats.AvgKDA >= 2.5 {
		strengths = append(strengths, model.CoachStrength{
			Title: "Solid Fighting",
			Description: fmt.Sprintf("With a %.2f KDA, you're contributing positively to team fights "+
				"while staying alive.", stats.AvgKDA),
		})
	}

	if len(insights.TopChampions) > 0 && insights.TopChampions[0].Winrate >= 0.55 {
		top := insights.TopChampions[0]
		strengths = append(strengths, model.CoachStrength{
			Title: top.ChampionName + " Mastery",
			Description: fmt.Sprintf("Your %.0f%% win rate on %s shows deep champion knowledge. "+
				"This is your comfort pick.", top.Winrate*100, top.ChampionName),
		})
	}

	if stats.LongestWinStreak >= 5 {
		strengths = append(strengths, model.CoachStrength{
			Title: "Streak Potential",
			Description: fmt.Sprintf("A %d-game win streak proves you can maintain focus and momentum. "+
				"Mental fortitude is a real skill.", stats.LongestWinStreak),
		})
	}

	if insights.VisionScore >= 70 {
		strengths = append(strengths, model.CoachStrength{
			Title: "Vision Control",
			Description: "Your warding habits are above average. Map awareness gives you and " +
				"your team crucial information advantages.",
		})
	}

	if len(strengths) < 3 {
		strengths = append(strengths, model.CoachStrength{
			Title: "Consistent Play Time",
			Description: fmt.Sprintf("%d games shows dedication. Consistent practice is the "+
				"foundation of improvement.", stats.GamesPlayed),
		})
	}
	if len(strengths) < 3 {
		strengths = append(strengths, model.CoachStrength{
			Title: "Champion Pool Depth",
			Description: fmt.Sprintf("You've shown proficiency across %d champions, giving you "+
				"flexibility in draft.", len(insights.TopChampions)),
		})
	}

	if len(strengths) > 3 {
		strengths = strengths[:3]
	}
	return strengths
}

func buildWeaknesses(insights *model.RewindInsights) []model.CoachWeakness {
	stats := insights.Stats
	weaknesses := make([]model.CoachWeakness, 0, 2)

	if stats.AvgKDA < 2.5 {
		weaknesses = append(weaknesses, model.CoachWeakness{
			Title: "Survival Instincts",
			Description: "Your KDA suggests you might be dying too often. Focus on identifying " +
				"dangerous situations earlier.",
		})
	}
	if stats.Winrate < 0.50 {
		weaknesses = append(weaknesses, model.CoachWeakness{
			Title: "Closing Out Games",
			Description: "A sub-50% win rate often means struggling to convert leads. Work on " +
				"objective control and team coordination.",
		})
	}
	if insights.VisionScore < 50 {
		weaknesses = append(weaknesses, model.CoachWeakness{
			Title: "Vision Game",
			Description: "Improved warding could prevent deaths and create picks. Aim to place " +
				"1 ward per minute of game time.",
		})
	}
	if insights.ObjectiveScore < 50 {
		weaknesses = append(weaknesses, model.CoachWeakness{
			Title:       "Objective Focus",
			Description: "Prioritize dragons, barons, and towers over chasing kills. Objectives win games.",
		})
	}

	if len(weaknesses) < 2 {
		weaknesses = append(weaknesses, model.CoachWeakness{
			Title: "Champion Pool Optimization",
			Description: "Consider focusing on fewer champions to increase mastery depth " +
				"rather than breadth.",
		})
	}

	if len(weaknesses) > 2 {
		weaknesses = weaknesses[:2]
	}
	return weaknesses
}

func buildDrills(insights *model.RewindInsights) []model.CoachDrill {
	stats := insights.Stats
	drills := []model.CoachDrill{{
		Title:       "CS Improvement",
		Description: "In practice tool, aim for 80 CS by 10 minutes. Focus on last-hitting under tower.",
		Difficulty:  "Easy",
	}}

	if stats.AvgKDA < 3.0 {
		drills = append(drills, model.CoachDrill{
			Title: "Death Review",
			Description: "After each game, review your deaths. Identify which were preventable " +
				"and what you could have done differently.",
			Difficulty: "Medium",
		})
	}
	if insights.VisionScore < 60 {
		drills = append(drills, model.CoachDrill{
			Title: "Ward Timing",
			Description: "Set a timer for every 90 seconds to remind yourself to check ward " +
				"inventory and place vision.",
			Difficulty: "Easy",
		})
	}

	drills = append(drills,
		model.CoachDrill{
			Title: "Trading Patterns",
			Description: "In your next 5 games, focus on trading when the enemy uses an ability " +
				"on minions. Punish cooldowns.",
			Difficulty: "Medium",
		},
		model.CoachDrill{
			Title:       "Map Awareness",
			Description: "Every time you CS, glance at the minimap. Build this habit until it's automatic.",
			Difficulty:  "Medium",
		},
	)

	if stats.LongestWinStreak < 4 {
		drills = append(drills, model.CoachDrill{
			Title: "Mental Reset",
			Description: "After a loss, take a 5-minute break. Do some stretches, get water. " +
				"Never queue tilted.",
			Difficulty: "Easy",
		})
	}

	if len(drills) > 3 {
		drills = drills[:3]
	}
	return drills
}

// roleRecommendations keys match Riot position identifiers; display labels
// that do not map (ADC, Support) fall back to the MIDDLE pool.
var roleRecommendations = map[string][]model.ChampionRecommendation{
	"TOP": {
		{ChampionID: 86, ChampionName: "Garen", Reason: "Simple kit lets you focus on macro decisions"},
		{ChampionID: 122, ChampionName: "Darius", Reason: "Strong lane bully to practice trading patterns"},
		{ChampionID: 58, ChampionName: "Renekton", Reason: "Teaches wave management and diving"},
	},
	"JUNGLE": {
		{ChampionID: 254, ChampionName: "Vi", Reason: "Straightforward ganks and clear patterns"},
		{ChampionID: 19, ChampionName: "Warwick", Reason: "Built-in sustain and beginner-friendly clear"},
		{ChampionID: 64, ChampionName: "Lee Sin", Reason: "High skill ceiling to master over time"},
	},
	"MIDDLE": {
		{ChampionID: 103, ChampionName: "Ahri", Reason: "Safe laning with playmaking potential"},
		{ChampionID: 99, ChampionName: "Lux", Reason: "Learn skillshots and positioning"},
		{ChampionID: 61, ChampionName: "Orianna", Reason: "Teaches zone control and teamfighting"},
	},
	"BOTTOM": {
		{ChampionID: 21, ChampionName: "Miss Fortune", Reason: "Strong teamfight ultimate and easy CS"},
		{ChampionID: 51, ChampionName: "Caitlyn", Reason: "Safe range to learn ADC fundamentals"},
		{ChampionID: 222, ChampionName: "Jinx", Reason: "Hypercarry potential when ahead"},
	},
	"UTILITY": {
		{ChampionID: 89, ChampionName: "Leona", Reason: "Teaches engage timing and target selection"},
		{ChampionID: 111, ChampionName: "Nautilus", Reason: "Tanky with strong CC for picks"},
		{ChampionID: 117, ChampionName: "Lulu", Reason: "Versatile enchanter for team protection"},
	},
}

func buildRecommendations(topChampions []model.ChampionStats, mainRole string) []model.ChampionRecommendation {
	pool, ok := roleRecommendations[strings.ToUpper(mainRole)]
	if !ok {
		pool = roleRecommendations["MIDDLE"]
	}

	played := make(map[int]bool, len(topChampions))
	for _, c := range topChampions {
		played[c.ChampionID] = true
	}

	recommendations := make([]model.ChampionRecommendation, 0, 2)
	for _, r := range pool {
		if played[r.ChampionID] {
			continue
		}
		recommendations = append(recommendations, r)
		if len(recommendations) == 2 {
			break
		}
	}
	return recommendations
}
