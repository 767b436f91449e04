package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riftrewind/rewind-server/internal/model"
)

func insightsWith(winrate, avgKDA float64, games int, champs ...string) *model.RewindInsights {
	top := make([]model.ChampionStats, 0, len(champs))
	for i, name := range champs {
		top = append(top, model.ChampionStats{ChampionID: 100 + i, ChampionName: name})
	}
	return &model.RewindInsights{
		Stats: model.RewindStats{
			Winrate:     winrate,
			AvgKDA:      avgKDA,
			GamesPlayed: games,
		},
		TopChampions: top,
	}
}

func TestBuildComparisonAdvantages(t *testing.T) {
	p1 := insightsWith(0.55, 2.1, 120)
	p2 := insightsWith(0.48, 3.4, 120)

	c := BuildComparison(p1, p2)
	assert.Equal(t, "player1", c.WinrateAdvantage)
	assert.Equal(t, "player2", c.KDAAdvantage)
	assert.Equal(t, "tie", c.GamesPlayedAdvantage)
}

func TestBuildComparisonCommonChampionsKeepPlayer2Order(t *testing.T) {
	p1 := insightsWith(0.5, 2.0, 50, "Ahri", "Lux", "Jinx")
	p2 := insightsWith(0.5, 2.0, 50, "Jinx", "Garen", "Ahri")

	c := BuildComparison(p1, p2)
	assert.Equal(t, []string{"Jinx", "Ahri"}, c.CommonChampions)
}

func TestBuildComparisonSymmetry(t *testing.T) {
	p1 := insightsWith(0.6, 3.0, 80, "Ahri")
	p2 := insightsWith(0.4, 2.0, 90, "Ahri")

	forward := BuildComparison(p1, p2)
	reverse := BuildComparison(p2, p1)

	assert.Equal(t, "player1", forward.WinrateAdvantage)
	assert.Equal(t, "player2", reverse.WinrateAdvantage)
	assert.Equal(t, "player1", forward.KDAAdvantage)
	assert.Equal(t, "player2", reverse.KDAAdvantage)
	assert.Equal(t, "player2", forward.GamesPlayedAdvantage)
	assert.Equal(t, "player1", reverse.GamesPlayedAdvantage)
	assert.Equal(t, forward.CommonChampions, reverse.CommonChampions)
}
