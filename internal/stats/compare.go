package stats

import "github.com/riftrewind/rewind-server/internal/model"

func advantage(p1, p2 float64) string {
	switch {
	case p1 > p2:
		return "player1"
	case p1 < p2:
		return "player2"
	default:
		return "tie"
	}
}

// BuildComparison derives the head-to-head verdicts from two players'
// insights. Common champions follow player2's top-champion order.
func BuildComparison(insights1, insights2 *model.RewindInsights) model.Comparison {
	played1 := make(map[string]bool, len(insights1.TopChampions))
	for _, c := range insights1.TopChampions {
		played1[c.ChampionName] = true
	}

	common := make([]string, 0)
	for _, c := range insights2.TopChampions {
		if played1[c.ChampionName] {
			common = append(common, c.ChampionName)
		}
	}

	return model.Comparison{
		WinrateAdvantage:     advantage(insights1.Stats.Winrate, insights2.Stats.Winrate),
		KDAAdvantage:         advantage(insights1.Stats.AvgKDA, insights2.Stats.AvgKDA),
		GamesPlayedAdvantage: advantage(float64(insights1.Stats.GamesPlayed), float64(insights2.Stats.GamesPlayed)),
		CommonChampions:      common,
	}
}
